package coin

import (
	"sort"

	"github.com/iov-one/qfund/errors"
)

// Coins represents a set of coins, at most one per denomination, ordered
// by the denomination name. Zero amounts are never stored.
type Coins []*Coin

// CombineCoins creates a normalized Coins containing all given coins.
func CombineCoins(cs ...Coin) (Coins, error) {
	var res Coins
	for _, c := range cs {
		var err error
		if res, err = res.Add(c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Clone returns a copy that can be safely modified
func (cs Coins) Clone() Coins {
	res := make(Coins, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return res
}

// Add returns a new set, with the holdings increased by c.
func (cs Coins) Add(c Coin) (Coins, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.IsZero() {
		return cs, nil
	}
	res := cs.Clone()
	have, i := res.findCoin(c.Denom)
	if have == nil {
		res = append(res, nil)
		copy(res[i+1:], res[i:])
		res[i] = c.Clone()
		return res, nil
	}
	sum, err := have.Add(c)
	if err != nil {
		return nil, err
	}
	res[i] = &sum
	return res, nil
}

// Subtract returns a new set, with the holdings decreased by c. Returns
// ErrInsufficientAmount if the set does not contain enough.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}
	res := cs.Clone()
	have, i := res.findCoin(c.Denom)
	if have == nil {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "no %s", c.Denom)
	}
	left, err := have.Subtract(c)
	if err != nil {
		return nil, err
	}
	if left.IsZero() {
		return append(res[:i], res[i+1:]...), nil
	}
	res[i] = &left
	return res, nil
}

// Contains returns true if there is at least that much coin in the Coins.
func (cs Coins) Contains(c Coin) bool {
	have, _ := cs.findCoin(c.Denom)
	if have == nil {
		return c.IsZero()
	}
	return have.IsGTE(c)
}

// Balance returns the amount held of given denomination. A missing
// denomination has zero balance.
func (cs Coins) Balance(denom string) Coin {
	if have, _ := cs.findCoin(denom); have != nil {
		return *have
	}
	return NewCoin(0, denom)
}

// findCoin returns a coin and index that have this denomination.
//
// If there was a match, then result is non-nil, and the index is where it
// was. If there was no match, then result is nil, and index is where it
// should be inserted.
func (cs Coins) findCoin(denom string) (*Coin, int) {
	i := sort.Search(len(cs), func(i int) bool {
		return cs[i].Denom >= denom
	})
	if i < len(cs) && cs[i].Denom == denom {
		return cs[i], i
	}
	return nil, i
}

// IsEmpty returns if nothing is in the Coins
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// Equals returns true if both Coins contain same coins
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i := range cs {
		if !cs[i].Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Validate requires that all coins are in alphabetical order, that each
// coin is valid in it's own right and that no zero amounts are present.
func (cs Coins) Validate() error {
	for i, c := range cs {
		if c == nil {
			return errors.Wrap(errors.ErrEmpty, "nil coin")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if c.IsZero() {
			return errors.Wrapf(errors.ErrAmount, "zero %s in set", c.Denom)
		}
		if i > 0 && cs[i-1].Denom >= c.Denom {
			return errors.Wrap(errors.ErrCurrency, "coins not sorted or duplicated")
		}
	}
	return nil
}
