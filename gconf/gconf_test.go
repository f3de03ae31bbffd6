package gconf

import (
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type limitConfig struct {
	Limit uint64 `json:"limit"`
}

func (c limitConfig) Validate() error {
	if c.Limit == 0 {
		return errors.Wrap(errors.ErrEmpty, "limit")
	}
	return nil
}

func (c limitConfig) Marshal() ([]byte, error) {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, c.Limit)
	return raw, nil
}

func (c *limitConfig) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrap(errors.ErrInput, "invalid length")
	}
	c.Limit = binary.LittleEndian.Uint64(raw)
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	var got limitConfig
	err := Load(db, "limits", &got)
	assert.True(t, errors.ErrNotFound.Is(err))

	err = Save(db, "limits", limitConfig{})
	assert.True(t, errors.ErrEmpty.Is(err))

	require.NoError(t, Save(db, "limits", limitConfig{Limit: 42}))
	require.NoError(t, Load(db, "limits", &got))
	assert.Equal(t, uint64(42), got.Limit)

	// configurations of different packages do not collide
	err = Load(db, "other", &got)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		want    uint64
	}{
		"valid configuration": {
			genesis: `{"conf": {"limits": {"limit": 7}}}`,
			want:    7,
		},
		"missing package": {
			genesis: `{"conf": {"other": {"limit": 7}}}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			genesis: `{"conf": {"limits": {"limit": 0}}}`,
			wantErr: errors.ErrEmpty,
		},
		"malformed configuration": {
			genesis: `{"conf": {"limits": {"limit": "seven"}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts custody.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := store.MemStore()
			var conf limitConfig
			if err := InitConfig(db, opts, "limits", &conf); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			var got limitConfig
			require.NoError(t, Load(db, "limits", &got))
			assert.Equal(t, tc.want, got.Limit)
		})
	}
}
