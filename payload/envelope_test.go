package payload

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success - creates valid envelope", func(t *testing.T) {
		envelope, err := NewEnvelope("build.buildFinished", at, map[string]string{"buildId": "42"})
		require.NoError(t, err)
		assert.Equal(t, "build.buildFinished", envelope.Type)
		assert.Equal(t, at, envelope.Timestamp)
		assert.JSONEq(t, `{"buildId":"42"}`, string(envelope.Data))
	})

	t.Run("error - invalid type format", func(t *testing.T) {
		_, err := NewEnvelope("build-finished", at, map[string]string{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validating envelope")
	})

	t.Run("error - zero timestamp", func(t *testing.T) {
		_, err := NewEnvelope("build.buildStarted", time.Time{}, map[string]string{})
		assert.ErrorContains(t, err, "timestamp is required")
	})

	t.Run("error - data cannot be marshaled", func(t *testing.T) {
		_, err := NewEnvelope("build.buildStarted", at, make(chan int))
		assert.ErrorContains(t, err, "marshaling data")
	})
}

func TestParseEnvelope(t *testing.T) {
	t.Run("success - valid body", func(t *testing.T) {
		envelope, err := ParseEnvelope([]byte(`{
			"type": "build.buildStarted",
			"timestamp": "2024-01-01T12:00:00.123456789Z",
			"data": {"buildId": "42"}
		}`))
		require.NoError(t, err)
		assert.Equal(t, "build.buildStarted", envelope.Type)
		assert.NotZero(t, envelope.Timestamp.Nanosecond())
	})

	t.Run("error - invalid JSON", func(t *testing.T) {
		_, err := ParseEnvelope([]byte(`{invalid json}`))
		assert.Error(t, err)
	})

	t.Run("error - missing data", func(t *testing.T) {
		_, err := ParseEnvelope([]byte(`{"type": "build.buildStarted", "timestamp": "2024-01-01T12:00:00Z"}`))
		assert.ErrorContains(t, err, "data is required")
	})
}

func TestEnvelope_RoundTrip(t *testing.T) {
	original, err := NewEnvelope("buildType.responsibilityChanged", time.Now(), map[string]string{"comment": "mine"})
	require.NoError(t, err)

	body, err := original.Bytes()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	_, err = time.Parse(time.RFC3339Nano, raw["timestamp"].(string))
	assert.NoError(t, err)

	parsed, err := ParseEnvelope(body)
	require.NoError(t, err)
	assert.True(t, original.Timestamp.Equal(parsed.Timestamp))
	assert.JSONEq(t, string(original.Data), string(parsed.Data))
}
