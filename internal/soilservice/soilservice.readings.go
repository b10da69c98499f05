// FilePath: internal/soilservice/soilservice.readings.go
package soilservice

import (
	"context"

	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// GetCurrentReading returns the most recent reading, preferring the cache and
// falling back to the store.
func (s *SoilService) GetCurrentReading(ctx context.Context) (*models.SensorReading, error) {
	if s.Snapshots != nil {
		reading, err := s.Snapshots.GetLatestReading(ctx)
		if err != nil {
			nuts.L.Warnf("[SoilService] Snapshot cache unavailable: %v", err)
		} else if reading != nil {
			return reading, nil
		}
	}

	reading, err := s.Readings.Latest(ctx)
	if err == repository.ErrNotFound {
		return nil, errors.NewNotFoundError("no readings collected yet", err)
	}
	if err != nil {
		return nil, err
	}
	return reading, nil
}

// BatteryStatus is the power state of the sensor unit.
type BatteryStatus struct {
	BatteryPercent float64 `json:"battery_percent"`
	BatteryVoltage float64 `json:"battery_voltage"`
	Charging       bool    `json:"charging"`
}

// GetBatteryStatus reports the sensor unit's battery from the latest reading.
func (s *SoilService) GetBatteryStatus(ctx context.Context) (*BatteryStatus, error) {
	reading, err := s.GetCurrentReading(ctx)
	if err != nil {
		return nil, err
	}
	return &BatteryStatus{
		BatteryPercent: reading.BatteryPercent,
		BatteryVoltage: reading.BatteryVoltage,
		Charging:       reading.BatteryVoltage > 4.1,
	}, nil
}
