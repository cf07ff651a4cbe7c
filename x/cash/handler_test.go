package cash

import (
	"context"
	"testing"

	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/qftest"
	"github.com/iov-one/qfund/qftest/assert"
	"github.com/iov-one/qfund/store"
)

func TestSendHandler(t *testing.T) {
	alice := qftest.NewCondition()
	bob := qftest.NewCondition()

	cases := map[string]struct {
		signer         *qftest.Auth
		msg            *SendMsg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantBob        coin.Coin
	}{
		"valid transfer": {
			signer:  &qftest.Auth{Signer: alice},
			msg:     &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: coin.NewCoinp(10, "ucosm")},
			wantBob: coin.NewCoin(10, "ucosm"),
		},
		"source did not sign": {
			signer:         &qftest.Auth{Signer: bob},
			msg:            &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: coin.NewCoinp(10, "ucosm")},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
			wantBob:        coin.NewCoin(0, "ucosm"),
		},
		"missing amount": {
			signer:         &qftest.Auth{Signer: alice},
			msg:            &SendMsg{Source: alice.Address(), Destination: bob.Address()},
			wantCheckErr:   errors.ErrAmount,
			wantDeliverErr: errors.ErrAmount,
			wantBob:        coin.NewCoin(0, "ucosm"),
		},
		"insufficient funds fail on deliver only": {
			signer:         &qftest.Auth{Signer: alice},
			msg:            &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: coin.NewCoinp(101, "ucosm")},
			wantDeliverErr: errors.ErrInsufficientAmount,
			wantBob:        coin.NewCoin(0, "ucosm"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			assert.Nil(t, ctrl.CoinMint(db, alice.Address(), coin.NewCoin(100, "ucosm")))

			h := NewSendHandler(tc.signer, ctrl)
			tx := &qftest.Tx{Msg: tc.msg}
			ctx := context.Background()

			if _, err := h.Check(ctx, db, tx); !tc.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			if _, err := h.Deliver(ctx, db, tx); !tc.wantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			bobCoins, _ := ctrl.Balance(db, bob.Address())
			assert.Equal(t, tc.wantBob, bobCoins.Balance("ucosm"))
		})
	}
}
