package x

import (
	"testing"

	"github.com/iov-one/qfund/coin"
	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/qftest"
	"github.com/iov-one/qfund/qftest/assert"
)

func TestRequireFunds(t *testing.T) {
	cases := map[string]struct {
		tx      *qftest.Tx
		want    coin.Coin
		wantErr *errors.Error
	}{
		"funds attached": {
			tx:   &qftest.Tx{Funds: coin.NewCoinp(10, "ucosm")},
			want: coin.NewCoin(10, "ucosm"),
		},
		"no funds": {
			tx:      &qftest.Tx{},
			wantErr: errors.ErrInput,
		},
		"zero funds": {
			tx:      &qftest.Tx{Funds: coin.NewCoinp(0, "ucosm")},
			wantErr: errors.ErrInput,
		},
		"wrong denomination": {
			tx:      &qftest.Tx{Funds: coin.NewCoinp(10, "uatom")},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := RequireFunds(tc.tx, "ucosm")
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
