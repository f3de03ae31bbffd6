/*
Package escrow implements a two party asset swap.

The maker deposits an amount of asset A into a vault owned by an address
derived from the maker and a seed, and declares how much of asset B it
wants in return. Any taker holding enough of asset B can complete the swap,
or the maker can cancel it and reclaim the deposit. Either of the two
destroys the escrow record and the vault, and returns their rent to the
maker.

The derived escrow address has no private key. The bump that derives it is
stored in the record and re-derived before every transfer out of the vault.
*/
package escrow
