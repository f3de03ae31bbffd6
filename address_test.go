package custody_test

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqAddress() custody.Address {
	addr := make(custody.Address, custody.AddressLength)
	for i := range addr {
		addr[i] = byte(i + 1)
	}
	return addr
}

func TestAddressPrinting(t *testing.T) {
	Convey("test base58 address printing", t, func() {
		addr := seqAddress()
		So(addr.String(), ShouldEqual, "4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw")
		So(custody.Address(nil).String(), ShouldEqual, "(nil)")
		So(custody.SystemProgram.String(), ShouldEqual, "11111111111111111111111111111111")
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr custody.Address
	}{
		"default decoding": {
			json:     `"4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw"`,
			wantAddr: seqAddress(),
		},
		"bech32 decoding": {
			json:     `"bech32:custody1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5z5tpwxqergd3c8g7rusqemccur"`,
			wantAddr: seqAddress(),
		},
		"empty string is nil": {
			json:     `""`,
			wantAddr: nil,
		},
		"invalid base58 character": {
			json:    `"0OIl"`,
			wantErr: errors.ErrInput,
		},
		"bech32 with a too short payload": {
			json:    `"bech32:tiov1w3jhxapdwpshjmr0v9jqymqq4y"`,
			wantErr: errors.ErrInput,
		},
		"not a string": {
			json:    `42`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a custody.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, tc.wantAddr, a)
			}
		})
	}
}

func TestAddressMarshalJSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		Owner custody.Address `json:"owner"`
	}{Owner: seqAddress()})
	require.NoError(t, err)
	assert.Equal(t, `{"owner":"4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw"}`, string(raw))
}

func TestAddressValidate(t *testing.T) {
	assert.NoError(t, seqAddress().Validate())
	assert.True(t, errors.ErrInput.Is(custody.Address("short").Validate()))
	assert.True(t, errors.ErrInput.Is(custody.Address(nil).Validate()))
}
