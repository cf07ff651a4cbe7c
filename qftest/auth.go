package qftest

import (
	"context"
	"fmt"

	"github.com/iov-one/qfund"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer qfund.Condition

	// Signers represents an authentication of multiple signers.
	Signers []qfund.Condition
}

func (a *Auth) GetConditions(qfund.Context) []qfund.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx qfund.Context, addr qfund.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

// SetConditions returns a context with the given conditions set.
func (a *CtxAuth) SetConditions(ctx qfund.Context, permissions ...qfund.Condition) qfund.Context {
	return context.WithValue(ctx, a.Key, permissions)
}

func (a *CtxAuth) GetConditions(ctx qfund.Context) []qfund.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]qfund.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []qfund.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx qfund.Context, addr qfund.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
