package qf

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
)

// RegisterQuery registers the round queries:
//
//   /proposals        proposal by its 8 byte ID, or all of them with prefix
//   /votes            votes by their ID
//   /votes/proposal   votes of the proposal with the given 8 byte ID
//   /round            round config and state
func RegisterQuery(qr qfund.QueryRouter) {
	NewProposalBucket().Register("proposals", qr)
	NewVoteBucket().Register("votes", qr)
	qr.Register("/round", roundQuery{})
}

// roundQuery returns the configuration under the key "config" and the
// state under the key "state". Nothing is returned for a round that was
// not instantiated.
type roundQuery struct{}

func (roundQuery) Query(db qfund.ReadOnlyKVStore, mod string, data []byte) ([]qfund.Model, error) {
	if mod != qfund.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	conf, err := LoadConfig(db)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	state, err := LoadState(db)
	if err != nil {
		return nil, err
	}

	rawConf, err := proto.Marshal(conf)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal config: %s", err)
	}
	rawState, err := proto.Marshal(state)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal state: %s", err)
	}
	return []qfund.Model{
		qfund.Pair([]byte("config"), rawConf),
		qfund.Pair([]byte("state"), rawState),
	}, nil
}
