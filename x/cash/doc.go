/*
Package cash implements the native currency ledger.

Every account is a native balance, the program that owns the account and
the space the owner reserved for its data. An account exists if and only if
it is stored. Accounts with reserved space must hold at least the rent
exempt minimum for that space, which is paid by whoever creates them and
reclaimed by whoever closes them.
*/
package cash
