/*
Package vault implements a single owner deposit box for native currency.

Every owner has one vault, a system account at an address derived from the
owner. It can be funded only while it is empty and a withdrawal always
drains it completely.
*/
package vault
