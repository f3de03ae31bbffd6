/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps its configuration as a singleton under its own package
name. The configuration is loaded from the genesis file once and read by the
extension controllers whenever they need it (for example to compute the
rent-exempt minimum balance of an account).
*/
package gconf
