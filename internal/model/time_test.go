package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalTimeMarshal(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.Local)
	b, err := json.Marshal(InteractionDTO{ID: 1, CreatedAt: LocalTime(ts)})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"createdAt":"2026-03-04 05:06:07"`)
	assert.NotContains(t, string(b), "RecordingObject")
}

func TestLocalTimeZeroIsNull(t *testing.T) {
	b, err := json.Marshal(LocalTime{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}
