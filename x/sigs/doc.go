/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction,
and maintain sequences for replay protection.

An account address is the ed25519 public key itself, so a valid signature
proves control over the address it is made with.
*/
package sigs
