package qfund_test

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/iov-one/qfund"
	"github.com/iov-one/qfund/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("test hexadecimal address printing", t, func() {
		addr := qfund.NewAddress([]byte("ABCD123456LHB"))

		So(addr.String(), ShouldEqual, fmt.Sprintf("%X", []byte(addr)))
		So(qfund.Address(nil).String(), ShouldEqual, "(nil)")
	})

	Convey("test condition printing", t, func() {
		cond := qfund.NewCondition("qf", "round", []byte{0xAB, 0x01})

		So(cond.String(), ShouldEqual, "qf/round/AB01")
		So(cond.Validate(), ShouldBeNil)
	})
}

func TestConditionParse(t *testing.T) {
	cond := qfund.NewCondition("sigs", "ed25519", []byte("pubkey"))
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	require.Equal(t, "sigs", ext)
	require.Equal(t, "ed25519", typ)
	require.Equal(t, []byte("pubkey"), data)

	_, _, _, err = qfund.Condition("no-sections").Parse()
	require.True(t, errors.ErrInput.Is(err))
	require.True(t, errors.ErrInput.Is(qfund.Condition("a/b").Validate()))
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := qfund.NewAddress([]byte("some address"))
	bech, err := addr.Bech32("qf")
	require.NoError(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr qfund.Address
	}{
		"default decoding": {
			json:     fmt.Sprintf("%q", hex.EncodeToString(addr)),
			wantAddr: addr,
		},
		"hex decoding": {
			json:     fmt.Sprintf(`"hex:%s"`, hex.EncodeToString(addr)),
			wantAddr: addr,
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: qfund.NewCondition("foo", "bar", []byte("conditiondata")).Address(),
		},
		"bech32 decoding": {
			json:     fmt.Sprintf(`"bech32:%s"`, bech),
			wantAddr: addr,
		},
		"invalid bech32": {
			json:    `"bech32:qf1invalid"`,
			wantErr: errors.ErrInput,
		},
		"invalid address length": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero cond address": {
			json:     `"cond:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a qfund.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestAddressJSONRoundTrip(t *testing.T) {
	addr := qfund.NewCondition("sigs", "ed25519", []byte("key")).Address()
	raw, err := json.Marshal(addr)
	require.NoError(t, err)

	var got qfund.Address
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, addr, got)
}

func TestConditionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json          string
		wantErr       *errors.Error
		wantCondition qfund.Condition
	}{
		"default decoding": {
			json:          `"foo/bar/636f6e646974696f6e64617461"`,
			wantCondition: qfund.NewCondition("foo", "bar", []byte("conditiondata")),
		},
		"invalid condition format": {
			json:    `"foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"zero value": {
			json:          `""`,
			wantCondition: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got qfund.Condition
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(got, tc.wantCondition) {
				t.Fatalf("got condition: %v", got)
			}
		})
	}
}
