package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsKeepsUnknownKeys(t *testing.T) {
	document := `{"id": "stat-1", "learnedWords": 12.5, "optional": {"streak": 4}, "updatedAt": "2024-01-01"}`

	var statistics Statistics
	require.NoError(t, json.Unmarshal([]byte(document), &statistics))

	assert.Equal(t, 12.5, statistics.LearnedWords)
	assert.Equal(t, map[string]any{"streak": float64(4)}, statistics.Optional)
	assert.Equal(t, map[string]any{"id": "stat-1", "updatedAt": "2024-01-01"}, statistics.Extra)

	encoded, err := json.Marshal(statistics)
	require.NoError(t, err)
	assert.JSONEq(t, document, string(encoded))
}

func TestStatisticsWithoutExtras(t *testing.T) {
	var statistics Statistics
	require.NoError(t, json.Unmarshal([]byte(`{"learnedWords": 3, "optional": {}}`), &statistics))

	assert.Nil(t, statistics.Extra)
	assert.Equal(t, Statistics{LearnedWords: 3, Optional: map[string]any{}}, statistics)
}

func TestStatisticsRejectsBrokenDocument(t *testing.T) {
	var statistics Statistics
	assert.Error(t, json.Unmarshal([]byte(`{"learnedWords": "many"}`), &statistics))
}
