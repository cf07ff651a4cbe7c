package qf

import (
	"fmt"

	"github.com/iov-one/qfund"
)

// NewWhitelist returns a whitelist of the given addresses.
func NewWhitelist(addrs ...qfund.Address) *Whitelist {
	return &Whitelist{Addresses: addrs}
}

// Contains returns true if the address is on the list.
func (w *Whitelist) Contains(addr qfund.Address) bool {
	for _, a := range w.Addresses {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// Validate checks the listed addresses. An empty list is valid and
// allows everyone.
func (w *Whitelist) Validate() error {
	for i, a := range w.Addresses {
		if err := validAddress(fmt.Sprintf("Addresses.%d", i), a); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty returns true if the whitelist is not set or lists no address.
func (w *Whitelist) IsEmpty() bool {
	return w == nil || len(w.Addresses) == 0
}

// orNil returns nil for an empty whitelist.
func (w *Whitelist) orNil() *Whitelist {
	if w.IsEmpty() {
		return nil
	}
	return w
}

// allowed returns true if the whitelist is empty or contains the address.
func allowed(wl *Whitelist, addr qfund.Address) bool {
	if wl.IsEmpty() {
		return true
	}
	if addr == nil {
		return false
	}
	return wl.Contains(addr)
}

// CanCreateProposal returns true if the address may create a proposal
// under the given whitelist. An empty whitelist allows everyone.
func CanCreateProposal(wl *Whitelist, addr qfund.Address) bool {
	return allowed(wl, addr)
}

// CanVote returns true if the address may vote under the given whitelist.
// An empty whitelist allows everyone.
func CanVote(wl *Whitelist, addr qfund.Address) bool {
	return allowed(wl, addr)
}
