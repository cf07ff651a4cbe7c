package server

import (
	"encoding/json"
	"io/ioutil"
	"time"

	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/store"
)

// ValidateGenesis runs the initializer against each of the genesis files
// on a throw away store.
func ValidateGenesis(ini qfund.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrInput, "no genesis file given")
	}
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini qfund.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrapf(errors.ErrNotFound, "cannot read genesis file: %s", err)
	}

	var genesis struct {
		Time  time.Time     `json:"genesis_time"`
		State qfund.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot JSON deserialize genesis: %s", err)
	}

	db := store.MemStore()
	params := qfund.GenesisParams{BlockTime: qfund.AsUnixTime(genesis.Time)}
	if err := ini.FromGenesis(genesis.State, params, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
