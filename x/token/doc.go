/*
Package token implements fungible assets on top of the native ledger.

A mint describes an asset: the authority allowed to issue it, the total
supply and the number of decimals every amount is expressed with. Token
accounts hold a balance of a single mint on behalf of an owner. The owner
may be a key holder or a program derived address, in which case the owning
program authorizes transfers by re-deriving the address.

Every owner has one associated token account per mint, at an address
derived from the owner and the mint, so that counterparties can find it
without coordination.
*/
package token
