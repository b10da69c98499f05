// FilePath: internal/models/models.aggregate.go
package models

import "time"

// MetricStats is the min/max/avg rollup of one metric over a day.
type MetricStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// DailyAggregate summarizes one calendar day of sensor readings.
// The day (truncated to local midnight) is unique; re-aggregating an already
// aggregated day is a benign no-op at the service layer.
type DailyAggregate struct {
	ID              string      `json:"id" db:"id"`
	Day             time.Time   `json:"day" db:"day"`
	SunlightHours   float64     `json:"sunlight_hours" db:"sunlight_hours"`
	WaterLevelAvg   float64     `json:"water_level_avg" db:"water_level_avg"`
	UVExposureHours float64     `json:"uv_exposure_hours" db:"uv_exposure_hours"`
	UVThreshold     float64     `json:"uv_threshold" db:"uv_threshold"`
	Temperature     MetricStats `json:"temperature"`
	Humidity        MetricStats `json:"humidity"`
	MoisturePercent MetricStats `json:"moisture_percent"`
	UVIndex         MetricStats `json:"uv_index"`
	Lux             MetricStats `json:"lux"`
	TotalReadings   int         `json:"total_readings" db:"total_readings"`
	CollectionStart time.Time   `json:"collection_start" db:"collection_start"`
	CollectionEnd   time.Time   `json:"collection_end" db:"collection_end"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}
