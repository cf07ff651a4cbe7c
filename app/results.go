package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
)

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []qfund.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []qfund.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]qfund.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]qfund.Model, len(kref))
	for i := range mods {
		mods[i] = qfund.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult parses a serialized result set and, if it is not
// empty, unmarshals the first result into dest. It returns ErrNotFound for
// an empty set.
func UnmarshalOneResult(bz []byte, dest proto.Message) error {
	var res ResultSet
	if err := proto.Unmarshal(bz, &res); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal result set: %s", err)
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	if err := proto.Unmarshal(res.Results[0], dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal result: %s", err)
	}
	return nil
}
