package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkerIDShapes(t *testing.T) {
	cases := map[string]WorkerID{
		`"abc-1"`:                            "abc-1",
		`{"$oid":"65f1c2a9e4b0a1b2c3d4e5f6"}`: "65f1c2a9e4b0a1b2c3d4e5f6",
		`42`:                                 "42",
		`null`:                               "",
	}
	for raw, want := range cases {
		var id WorkerID
		require.NoError(t, json.Unmarshal([]byte(raw), &id), raw)
		require.Equal(t, want, id, raw)
	}

	var id WorkerID
	require.Error(t, json.Unmarshal([]byte(`true`), &id))
}
