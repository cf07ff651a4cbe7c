/*
Package errors implements coded errors for the quadratic funding application.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. x/qf registers its own phase
errors with Register(code, description).

For reusing errors use ErrXyz.New, ErrXyz.Newf or Wrap. Code stands for ABCI
error code, which allows to distinguish types of errors on the client side
and act accordingly.

A stack trace is attached at the first wrap. Once you have an error, you can
use fmt to get more context for it
	%s is just the error message
	%+v is the message followed by the stack trace
*/
package errors
