package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/qfund/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	flagForce   = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// GenesisPath returns the location of the genesis file in the home
// directory.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will try to update the genesis file created by `tendermint init`
// with the application state. An existing app_state is only replaced with
// the -f flag.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.BoolVar(&force, flagForce, false, "overwrite the existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := GenesisPath(home)
	doc, err := readGenesis(genFile)
	if err != nil {
		return err
	}
	if hasAppState(doc) && !force {
		return errors.Wrapf(errors.ErrState, "%s already has an app_state, use -%s to overwrite", genFile, flagForce)
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return errors.Wrap(err, "generate app_state")
	}
	doc[appStateKey] = options
	if err := writeGenesis(genFile, doc); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

func hasAppState(doc GenesisDoc) bool {
	raw := doc[appStateKey]
	return len(raw) > 0 && string(raw) != "null" && string(raw) != "{}"
}

func readGenesis(path string) (GenesisDoc, error) {
	bz, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "cannot read genesis file, run `tendermint init` first: %s", err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot parse %s: %s", path, err)
	}
	return doc, nil
}

func writeGenesis(path string, doc GenesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot serialize genesis: %s", err)
	}
	if err := ioutil.WriteFile(path, out, 0600); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "cannot write %s: %s", path, err)
	}
	return nil
}
