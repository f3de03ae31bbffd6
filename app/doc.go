/*
Package app contains the ABCI glue of the ledger.

StoreApp owns the committed store and answers Info, Query, InitChain and
Commit. BaseApp embeds it and routes CheckTx and DeliverTx through a
decorated Handler built with ChainDecorators.
*/
package app
