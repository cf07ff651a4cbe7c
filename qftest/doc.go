// Package qftest provides helpers and mocks for testing handlers,
// decorators and authentication.
package qftest
