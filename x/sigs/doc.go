/*
Package sigs provides basic authentication middleware to verify the
ed25519 signatures on the transaction, and maintain nonces for replay
protection.

Every signer is represented by a condition "sigs/ed25519/<public key>",
which is put into the context for the handlers down the stack.
*/
package sigs
