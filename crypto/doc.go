/*
Package crypto provides the ed25519 keys of account holders. The address of
an account is its raw 32 byte ed25519 public key.
*/
package crypto
