package coin

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund/errors"
)

// IsDenom is the RegExp to ensure valid denomination names, for example
// "ucosm" or "uatom".
var IsDenom = regexp.MustCompile(`^[a-z][a-z0-9/]{2,31}$`).MatchString

// Coin is a non negative amount of a single denomination. Amounts are
// expressed in the smallest indivisible unit.
type Coin struct {
	Denom  string `protobuf:"bytes,1,opt,name=denom,proto3" json:"denom"`
	Amount uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

func (m *Coin) Reset()      { *m = Coin{} }
func (*Coin) ProtoMessage() {}

// NewCoin creates a new coin object
func NewCoin(amount uint64, denom string) Coin {
	return Coin{
		Denom:  denom,
		Amount: amount,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, denom string) *Coin {
	c := NewCoin(amount, denom)
	return &c
}

// Add combines two coins. Returns error if they are of different
// denominations, or if the combination would overflow.
func (c Coin) Add(o Coin) (Coin, error) {
	// A coin without a denomination and no value has no influence on
	// the addition result.
	if c.Denom == "" && c.IsZero() {
		return o, nil
	}
	if o.Denom == "" && o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Denom, c.Denom)
	}
	sum := c.Amount + o.Amount
	if sum < c.Amount {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", c, o)
	}
	c.Amount = sum
	return c, nil
}

// Subtract given amount. Returns ErrInsufficientAmount if the result would
// be negative.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Denom, c.Denom)
	}
	if c.Amount < o.Amount {
		return Coin{}, errors.Wrapf(errors.ErrInsufficientAmount, "%s - %s", c, o)
	}
	c.Amount -= o.Amount
	return c, nil
}

// Compare will check values of two coins, without inspecting the
// denomination. It is up to the caller to determine if they want to check
// this.
//
// Returns 1 if c is larger, -1 if o is larger, 0 if equal
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Amount > o.Amount:
		return 1
	case c.Amount < o.Amount:
		return -1
	default:
		return 0
	}
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Denom == o.Denom && c.Amount == o.Amount
}

// IsEmpty returns true on null or zero amount
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero returns true if the amount is 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the value is greater than 0
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsGTE returns true if c is same type and at least as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType returns true if they have the same denomination
func (c Coin) SameType(o Coin) bool {
	return c.Denom == o.Denom
}

// Clone provides an independent copy of a coin pointer
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Validate ensures that the coin has a valid denomination. Zero amount is
// accepted, so you may want to make other checks in your business logic.
func (c Coin) Validate() error {
	if !IsDenom(c.Denom) {
		return errors.Wrapf(errors.ErrCurrency, "invalid denomination: %q", c.Denom)
	}
	return nil
}

// UnmarshalJSON accepts both the human readable "<amount><denom>" string
// and the {"denom": ..., "amount": ...} object.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Because UnmarshalJSON method is provided, we can no longer use
	// Coin type for this.
	var coin struct {
		Denom  string
		Amount uint64
	}
	if err := json.Unmarshal(raw, &coin); err != nil {
		return err
	}
	c.Denom = coin.Denom
	c.Amount = coin.Amount
	return nil
}

// String provides a human readable representation of the coin. For a
// valid coin the result can be parsed back with ParseHumanFormat.
func (c Coin) String() string {
	return strconv.FormatUint(c.Amount, 10) + c.Denom
}

var humanCoinFormatRx = regexp.MustCompile(`^(\d+)\s*([a-z][a-z0-9/]{2,31})$`)

// ParseHumanFormat parse a human readable coin representation. Accepted
// format is a string:
//   "<amount>[ ]<denom>"
// for example "1000ucosm" or "1000 ucosm".
func ParseHumanFormat(h string) (Coin, error) {
	m := humanCoinFormatRx.FindStringSubmatch(strings.TrimSpace(h))
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format: %q", h)
	}
	amount, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "invalid amount: %s", err)
	}
	return NewCoin(amount, m[2]), nil
}

// Set updates this coin value to what is provided. This method implements
// flag.Value interface.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}

var _ proto.Message = (*Coin)(nil)
