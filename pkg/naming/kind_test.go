package naming

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryKindJSONRoundTrip(t *testing.T) {
	for _, kind := range []EntryKind{KindDir, KindFile, KindUnreadable} {
		data, err := json.Marshal(kind)
		require.NoError(t, err)

		var back EntryKind
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, kind, back)
	}
}

func TestEntryKindUnmarshalRejectsUnknown(t *testing.T) {
	var k EntryKind
	err := json.Unmarshal([]byte(`"socket"`), &k)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown entry kind")
}
