/*
Package custody defines the common interfaces that tie together the ledger
runtime and the custody programs built on top of it, as well as
implementations of the simpler components (when interfaces would be too
much overhead).

Every account on the ledger is identified by a 32 byte Address. An address
is either an ed25519 public key, in which case only the holder of the
matching private key can authorize spending from it, or a program derived
address that lies off the ed25519 curve and therefore has no private key.
Program derived addresses are the custody accounts of this module: the
owning program proves its authority over one by re-deriving it from the
seeds and the bump stored alongside its state.

We pass context through context.Context between app, decorators and
handlers. To do so, custody defines some common keys to store info, such
as block height and chain id. Each extension, such as sigs, may add its own
keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level
modules overwriting the value (eg. height, header).
*/
package custody
