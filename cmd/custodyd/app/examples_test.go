package app

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamplesDecode(t *testing.T) {
	examples := Examples()
	require.Len(t, examples, 6)

	for _, ex := range examples {
		tx, ok := ex.Obj.(*Tx)
		if !ok {
			continue
		}
		raw, err := proto.Marshal(tx)
		require.NoError(t, err, ex.Filename)
		got, err := TxDecoder(raw)
		require.NoError(t, err, ex.Filename)
		_, err = got.GetMsg()
		assert.NoError(t, err, ex.Filename)
	}

	// stable between runs
	again := Examples()
	for i := range examples {
		assert.Equal(t, examples[i].Obj, again[i].Obj, examples[i].Filename)
	}
}
