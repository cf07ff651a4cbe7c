package coin

import (
	"testing"

	"github.com/iov-one/qfund/errors"
	"github.com/iov-one/qfund/qftest/assert"
)

func TestCombineCoins(t *testing.T) {
	cs, err := CombineCoins(
		NewCoin(5, "ucosm"),
		NewCoin(3, "uatom"),
		NewCoin(0, "ufoo"),
		NewCoin(7, "ucosm"),
	)
	assert.Nil(t, err)
	assert.Nil(t, cs.Validate())
	assert.Equal(t, Coins{NewCoinp(3, "uatom"), NewCoinp(12, "ucosm")}, cs)

	_, err = CombineCoins(NewCoin(1, "X"))
	assert.IsErr(t, errors.ErrCurrency, err)
}

func TestCoinsSubtract(t *testing.T) {
	cs, err := CombineCoins(NewCoin(5, "ucosm"), NewCoin(3, "uatom"))
	assert.Nil(t, err)

	left, err := cs.Subtract(NewCoin(3, "uatom"))
	assert.Nil(t, err)
	assert.Equal(t, Coins{NewCoinp(5, "ucosm")}, left)
	// the original set is not modified
	assert.Equal(t, NewCoin(3, "uatom"), cs.Balance("uatom"))

	_, err = left.Subtract(NewCoin(6, "ucosm"))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
	_, err = left.Subtract(NewCoin(1, "uatom"))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	assert.Equal(t, true, left.Contains(NewCoin(5, "ucosm")))
	assert.Equal(t, false, left.Contains(NewCoin(6, "ucosm")))
	assert.Equal(t, true, left.Contains(NewCoin(0, "uatom")))
	assert.Equal(t, NewCoin(0, "uatom"), left.Balance("uatom"))
}

func TestCoinsValidate(t *testing.T) {
	cases := map[string]struct {
		coins   Coins
		wantErr *errors.Error
	}{
		"empty":    {coins: nil},
		"sorted":   {coins: Coins{NewCoinp(1, "uatom"), NewCoinp(1, "ucosm")}},
		"unsorted": {coins: Coins{NewCoinp(1, "ucosm"), NewCoinp(1, "uatom")}, wantErr: errors.ErrCurrency},
		"zero":     {coins: Coins{NewCoinp(0, "ucosm")}, wantErr: errors.ErrAmount},
		"nil coin": {coins: Coins{nil}, wantErr: errors.ErrEmpty},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.coins.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
