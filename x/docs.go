/*
Package x contains the extensions of the quadratic funding application.

Extensions implement common functionality (Handler, Decorator, Initializer)
and are combined together by the app package to construct an application.
This package holds the small interfaces shared by all of them: how to learn
who signed a transaction and which funds were attached to it.
*/
package x
