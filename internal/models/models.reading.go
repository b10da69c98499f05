// FilePath: internal/models/models.reading.go
package models

import "time"

// Snapshot is one telemetry payload fetched from the external source.
// The source is schema-free: any subset of the known fields may be absent,
// and absent fields are treated as zero when a reading is built from it.
type Snapshot map[string]interface{}

// Field returns the named numeric field of the snapshot, if present.
func (s Snapshot) Field(name string) (float64, bool) {
	raw, ok := s[name]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// FieldOrZero returns the named numeric field, defaulting to 0 when absent.
func (s Snapshot) FieldOrZero(name string) float64 {
	v, _ := s.Field(name)
	return v
}

// SensorReading is one telemetry sample. Readings are append-only: created by
// the collector, expired by the store after the retention window, never updated.
type SensorReading struct {
	ID               string    `json:"id" db:"id"`
	Timestamp        time.Time `json:"timestamp" db:"timestamp"`
	BatteryPercent   float64   `json:"battery_percent" db:"battery_percent"`
	BatteryVoltage   float64   `json:"battery_voltage" db:"battery_voltage"`
	Humidity         float64   `json:"humidity" db:"humidity"`
	Irradiance       float64   `json:"irradiance" db:"irradiance"`
	Lux              float64   `json:"lux" db:"lux"`
	MoisturePercent  float64   `json:"moisture_percent" db:"moisture_percent"`
	MoisturePercent2 *float64  `json:"moisture_percent_2,omitempty" db:"moisture_percent_2"`
	MoisturePercent3 *float64  `json:"moisture_percent_3,omitempty" db:"moisture_percent_3"`
	MoistureRaw      float64   `json:"moisture_raw" db:"moisture_raw"`
	Temperature      float64   `json:"temperature" db:"temperature"`
	UVIndex          float64   `json:"uv_index" db:"uv_index"`
	UVIntensity      float64   `json:"uv_intensity" db:"uv_intensity"`
	UVRaw            float64   `json:"uv_raw" db:"uv_raw"`
	UVVoltage        float64   `json:"uv_voltage" db:"uv_voltage"`
}

// ReadingFromSnapshot maps a source snapshot into a new SensorReading stamped
// at collection time. Fields the source omitted default to 0; the secondary
// and tertiary moisture channels stay absent rather than zero.
func ReadingFromSnapshot(snap Snapshot, collectedAt time.Time) *SensorReading {
	reading := &SensorReading{
		Timestamp:       collectedAt,
		BatteryPercent:  snap.FieldOrZero("battery_percent"),
		BatteryVoltage:  snap.FieldOrZero("battery_voltage"),
		Humidity:        snap.FieldOrZero("humidity"),
		Irradiance:      snap.FieldOrZero("irradiance"),
		Lux:             snap.FieldOrZero("lux"),
		MoisturePercent: snap.FieldOrZero("moisture_percent"),
		MoistureRaw:     snap.FieldOrZero("moisture_raw"),
		Temperature:     snap.FieldOrZero("temperature"),
		UVIndex:         snap.FieldOrZero("uv_index"),
		UVIntensity:     snap.FieldOrZero("uv_intensity"),
		UVRaw:           snap.FieldOrZero("uv_raw"),
		UVVoltage:       snap.FieldOrZero("uv_voltage"),
	}
	if v, ok := snap.Field("moisture_percent_2"); ok {
		reading.MoisturePercent2 = &v
	}
	if v, ok := snap.Field("moisture_percent_3"); ok {
		reading.MoisturePercent3 = &v
	}
	return reading
}
