/*
Package qfund defines interfaces used throughout the quadratic funding
application, such as: storage, transactions, handlers, addresses and context.

We pass context through context.Context between app, middleware, and
handlers. Block height, block time, chain id and the logger are stored in
the context using the helpers of this package. Each extension, such as
x/sigs, may add its own keys to enrich the context with specific data.

The quadratic funding round itself is implemented in x/qf.
*/
package qfund
