/*
Package app contains the ABCI application of the quadratic funding chain.

StoreApp wraps a CommitKVStore and answers the state related ABCI calls
(Info, Query, InitChain, BeginBlock, Commit). BaseApp adds CheckTx and
DeliverTx on top of it, decoding the transaction bytes and passing them
through a chain of decorators to the Router.

Application builds the complete stack with the cash and qf extensions
registered.
*/
package app
