package qf

import (
	"encoding/json"
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
)

// ExpirationKind tells how the moment of expiration is expressed.
type ExpirationKind int32

const (
	// ExpiresNever is a boundary that is never reached by the clock.
	ExpiresNever ExpirationKind = 0
	// ExpiresAtHeight is reached when the block height is at least the
	// configured one.
	ExpiresAtHeight ExpirationKind = 1
	// ExpiresAtTime is reached when the block time is at least the
	// configured one.
	ExpiresAtTime ExpirationKind = 2
)

// Expiration is a phase boundary. The zero value never expires.
type Expiration struct {
	Kind   ExpirationKind `protobuf:"varint,1,opt,name=kind,proto3,casttype=ExpirationKind" json:"-"`
	Height int64          `protobuf:"varint,2,opt,name=height,proto3" json:"-"`
	Time   qfund.UnixTime `protobuf:"varint,3,opt,name=time,proto3,casttype=github.com/iov-one/qfund.UnixTime" json:"-"`
}

func (m *Expiration) Reset()      { *m = Expiration{} }
func (*Expiration) ProtoMessage() {}

// Never returns an expiration that is never reached.
func Never() *Expiration {
	return &Expiration{Kind: ExpiresNever}
}

// AtHeight returns an expiration reached at the given block height.
func AtHeight(h int64) *Expiration {
	return &Expiration{Kind: ExpiresAtHeight, Height: h}
}

// AtTime returns an expiration reached at the given block time.
func AtTime(t qfund.UnixTime) *Expiration {
	return &Expiration{Kind: ExpiresAtTime, Time: t}
}

// IsNever returns true if this boundary is never reached by the clock. A
// nil expiration never expires.
func (e *Expiration) IsNever() bool {
	return e == nil || e.Kind == ExpiresNever
}

// IsExpired returns true if the boundary is reached at the given block
// height and time. The boundary itself is included.
func (e *Expiration) IsExpired(height int64, now qfund.UnixTime) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ExpiresAtHeight:
		return height >= e.Height
	case ExpiresAtTime:
		return now >= e.Time
	default:
		return false
	}
}

func (e *Expiration) Validate() error {
	if e == nil {
		return errors.Wrap(errors.ErrInput, "expiration required")
	}
	switch e.Kind {
	case ExpiresNever:
		if e.Height != 0 || e.Time != 0 {
			return errors.Wrap(errors.ErrInput, "never expiration must not declare a boundary")
		}
	case ExpiresAtHeight:
		if e.Height <= 0 {
			return errors.Wrap(errors.ErrInput, "height must be positive")
		}
		if e.Time != 0 {
			return errors.Wrap(errors.ErrInput, "height expiration must not declare time")
		}
	case ExpiresAtTime:
		if err := e.Time.Validate(); err != nil {
			return errors.Wrap(errors.ErrInput, "invalid time")
		}
		if e.Height != 0 {
			return errors.Wrap(errors.ErrInput, "time expiration must not declare height")
		}
	default:
		return errors.Wrapf(errors.ErrInput, "unknown expiration kind %d", e.Kind)
	}
	return nil
}

func (e *Expiration) String() string {
	if e == nil {
		return "never"
	}
	switch e.Kind {
	case ExpiresAtHeight:
		return fmt.Sprintf("at height %d", e.Height)
	case ExpiresAtTime:
		return fmt.Sprintf("at time %s", e.Time)
	default:
		return "never"
	}
}

// expirationJSON is the serialization form of an expiration. Exactly one
// of the fields is set.
type expirationJSON struct {
	Never    *struct{}       `json:"never,omitempty"`
	AtHeight *int64          `json:"at_height,omitempty"`
	AtTime   *qfund.UnixTime `json:"at_time,omitempty"`
}

// MarshalJSON serializes the expiration as one of
//   {"never": {}}
//   {"at_height": 123}
//   {"at_time": 1600000000}
func (e Expiration) MarshalJSON() ([]byte, error) {
	var v expirationJSON
	switch e.Kind {
	case ExpiresAtHeight:
		v.AtHeight = &e.Height
	case ExpiresAtTime:
		v.AtTime = &e.Time
	default:
		v.Never = &struct{}{}
	}
	return json.Marshal(v)
}

// UnmarshalJSON accepts the format produced by MarshalJSON. Time can be
// given either as a unix timestamp or in RFC3339 format.
func (e *Expiration) UnmarshalJSON(raw []byte) error {
	var v expirationJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return errors.Wrapf(errors.ErrInput, "expiration: %s", err)
	}
	set := 0
	*e = Expiration{}
	if v.Never != nil {
		set++
	}
	if v.AtHeight != nil {
		set++
		e.Kind = ExpiresAtHeight
		e.Height = *v.AtHeight
	}
	if v.AtTime != nil {
		set++
		e.Kind = ExpiresAtTime
		e.Time = *v.AtTime
	}
	if set != 1 {
		return errors.Wrap(errors.ErrInput, "expiration must declare exactly one of never, at_height or at_time")
	}
	return nil
}

var _ proto.Message = (*Expiration)(nil)
