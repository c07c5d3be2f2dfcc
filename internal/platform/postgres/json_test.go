package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSONB(t *testing.T) {
	t.Parallel()

	t.Run("nil stores as SQL NULL", func(t *testing.T) {
		t.Parallel()
		v, err := marshalJSONB(nil)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("maps round trip", func(t *testing.T) {
		t.Parallel()
		v, err := marshalJSONB(map[string]any{"sources": []string{"youtube"}})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, unmarshalJSONB(v.([]byte), &decoded))
		assert.Equal(t, []any{"youtube"}, decoded["sources"])
	})
}

func TestUnmarshalJSONB(t *testing.T) {
	t.Parallel()

	t.Run("empty column leaves destination untouched", func(t *testing.T) {
		t.Parallel()
		dst := map[string]string{"keep": "me"}
		require.NoError(t, unmarshalJSONB(nil, &dst))
		assert.Equal(t, "me", dst["keep"])
	})

	t.Run("invalid payload is reported", func(t *testing.T) {
		t.Parallel()
		var dst map[string]any
		assert.Error(t, unmarshalJSONB([]byte("{truncated"), &dst))
	})
}
