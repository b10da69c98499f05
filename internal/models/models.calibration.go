// FilePath: internal/models/models.calibration.go
package models

import "time"

// Calibration strategies. Exactly one strategy is applied uniformly across all
// target fields of a single calibration run.
const (
	StrategyMedian = "median"
	StrategyAvg    = "avg"
)

// CalibrationTargets holds the ideal value per metric. A nil field means the
// trailing window had no usable samples for that metric.
type CalibrationTargets struct {
	SunlightLux      *float64 `json:"sunlight_lux"`
	MoisturePercent  *float64 `json:"moisture_percent"`
	MoisturePercent2 *float64 `json:"moisture_percent_2"`
	MoisturePercent3 *float64 `json:"moisture_percent_3"`
	TemperatureC     *float64 `json:"temperature_c"`
	HumidityPercent  *float64 `json:"humidity_percent"`
	UVIndex          *float64 `json:"uv_index"`
}

// Calibration is an immutable snapshot of computed ideal targets. Fruit is nil
// for a global calibration; the most recent record per fruit key is current.
type Calibration struct {
	ID           string             `json:"id" db:"id"`
	Fruit        *string            `json:"fruit" db:"fruit"`
	SourceDays   int                `json:"source_days" db:"source_days"`
	Strategy     string             `json:"strategy" db:"strategy"`
	CalculatedAt time.Time          `json:"calculated_at" db:"calculated_at"`
	Targets      CalibrationTargets `json:"targets"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
}
