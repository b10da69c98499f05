// FilePath: internal/models/models.plant.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// GrowthStage carries the curated, free-text range descriptors for one growth
// stage of a plant. Descriptors are parsed defensively downstream: text without
// a numeric token simply contributes no target.
type GrowthStage struct {
	Name         string `json:"growth_stage"`
	Moisture     string `json:"moisture"`
	PH           string `json:"ph"`
	Sunlight     string `json:"sunlight"`
	Temperature  string `json:"temperature"`
	Humidity     string `json:"humidity"`
	UVLight      string `json:"uv_light"`
	WaterPerWeek string `json:"water_per_week"`
}

// GrowthStages is stored as a JSONB column.
type GrowthStages []GrowthStage

// Value implements the driver.Valuer interface
func (g GrowthStages) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan implements the sql.Scanner interface
func (g *GrowthStages) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, g)
}

// PlantProfile is externally curated reference data mapping a plant name to
// its ordered growth-stage target ranges. Read-mostly; never written by the
// collection pipeline.
type PlantProfile struct {
	ID        string       `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Stages    GrowthStages `json:"stages" db:"stages"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}
