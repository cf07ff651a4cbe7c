package app

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/store/iavl"
	"github.com/iov-one/qfund/x"
	"github.com/iov-one/qfund/x/cash"
	"github.com/iov-one/qfund/x/qf"
	"github.com/iov-one/qfund/x/sigs"
	"github.com/iov-one/qfund/x/utils"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"
)

// Name is returned by the Info ABCI call.
const Name = "qfund"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and panic recovery.
func Chain() Decorators {
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// DefaultRouter returns a router only dispatching to the
// cash and the quadratic funding handlers.
func DefaultRouter(authFn x.Authenticator) *Router {
	r := NewRouter()
	ctrl := cash.NewController()
	cash.RegisterRoutes(r, authFn, ctrl)
	qf.RegisterRoutes(r, authFn, ctrl)
	return r
}

// QueryRouter returns a default query router,
// allowing access to wallets, nonces and the round.
func QueryRouter() qfund.QueryRouter {
	r := qfund.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		qf.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() qfund.Handler {
	return Chain().WithHandler(DefaultRouter(Authenticator()))
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() qfund.Initializer {
	return qfund.ChainInitializers{
		cash.Initializer{},
		qf.Initializer{},
	}
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path means an in memory store.
func CommitKVStore(dbPath string) (qfund.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MemCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database path %q: %s", dbPath, err)
	}
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}

// Application constructs a basic ABCI application with
// the given arguments.
func Application(name string, h qfund.Handler, tx qfund.TxDecoder, kv qfund.CommitKVStore, debug bool) BaseApp {
	ctx := context.Background()
	store := NewStoreApp(name, kv, QueryRouter(), ctx)
	return NewBaseApp(store, tx, h, debug)
}

// GenerateApp is used to create the application for the start command.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "qfund.db")
	}
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	application := Application(Name, Stack(), TxDecoder, kv, debug)
	application.WithInit(Initializers())
	application.WithLogger(logger)
	return application, nil
}

// GenInitOptions produces the genesis application state with one rich
// account holding the given denomination. The first argument is the
// denomination and the second the hex address of the account. Without
// an address a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	denom := "ujunox"
	if len(args) > 0 {
		denom = args[0]
		if !coin.IsDenom(denom) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid denomination %q", denom)
		}
	}

	var addr qfund.Address
	if len(args) > 1 {
		a, err := qfund.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	state := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{
				Address: addr,
				Coins:   []coin.Coin{coin.NewCoin(123456789, denom)},
			},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

type keyOutput struct {
	Pubkey string `json:"pub_key"`
	Secret string `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
func GenerateCoinKey() (qfund.Address, string, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, "", errors.Wrapf(errors.ErrInput, "cannot generate key: %s", err)
	}
	out := keyOutput{
		Pubkey: hex.EncodeToString(pub),
		Secret: hex.EncodeToString(priv),
	}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrapf(errors.ErrInput, "cannot serialize keys: %s", err)
	}
	return sigs.PubKeyCondition(pub).Address(), string(keys), nil
}
