// FilePath: internal/models/models_test.go
package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotField(t *testing.T) {
	snap := Snapshot{
		"lux":   12500.0,
		"count": 3,
		"name":  "garden",
	}

	v, ok := snap.Field("lux")
	require.True(t, ok)
	assert.Equal(t, 12500.0, v)

	v, ok = snap.Field("count")
	require.True(t, ok)
	assert.Equal(t, 3.0, v)

	_, ok = snap.Field("missing")
	assert.False(t, ok)

	// Non-numeric values read as absent.
	_, ok = snap.Field("name")
	assert.False(t, ok)
}

func TestReadingFromSnapshot_DefaultsAbsentToZero(t *testing.T) {
	now := time.Now()
	reading := ReadingFromSnapshot(Snapshot{"lux": 500.0}, now)

	assert.Equal(t, 500.0, reading.Lux)
	assert.Zero(t, reading.Temperature)
	assert.Zero(t, reading.Humidity)
	assert.Zero(t, reading.MoisturePercent)
	assert.Equal(t, now, reading.Timestamp)

	// Optional channels stay absent, not zero.
	assert.Nil(t, reading.MoisturePercent2)
	assert.Nil(t, reading.MoisturePercent3)
}

func TestReadingFromSnapshot_OptionalChannels(t *testing.T) {
	reading := ReadingFromSnapshot(Snapshot{
		"moisture_percent":   40.0,
		"moisture_percent_2": 42.0,
	}, time.Now())

	assert.Equal(t, 40.0, reading.MoisturePercent)
	require.NotNil(t, reading.MoisturePercent2)
	assert.Equal(t, 42.0, *reading.MoisturePercent2)
	assert.Nil(t, reading.MoisturePercent3)
}

func TestReadingFromSnapshot_DecodedJSON(t *testing.T) {
	// JSON numbers decode as float64; a real fetched payload maps cleanly.
	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"lux": 800, "uv_index": 3.2}`), &snap))

	reading := ReadingFromSnapshot(snap, time.Now())
	assert.Equal(t, 800.0, reading.Lux)
	assert.Equal(t, 3.2, reading.UVIndex)
}

func TestGrowthStages_ValueScanRoundTrip(t *testing.T) {
	stages := GrowthStages{
		{Name: "seedling", Moisture: "60-70%", Sunlight: "6000 lux"},
		{Name: "fruiting", Moisture: "50%"},
	}

	value, err := stages.Value()
	require.NoError(t, err)

	var decoded GrowthStages
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, stages, decoded)
}
