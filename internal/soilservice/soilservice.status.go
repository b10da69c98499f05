// FilePath: internal/soilservice/soilservice.status.go
package soilservice

import (
	"context"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/collector"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
)

// SystemStatus is the live health overview of the collection pipeline.
type SystemStatus struct {
	Collector       collector.Status `json:"collector"`
	NextCollection  time.Time        `json:"next_collection"`
	TotalReadings   int64            `json:"total_readings"`
	TotalAggregates int64            `json:"total_aggregates"`
	OldestReading   *time.Time       `json:"oldest_reading,omitempty"`
	NewestReading   *time.Time       `json:"newest_reading,omitempty"`
	Uptime          string           `json:"uptime"`
}

var startedAt = time.Now()

// GetSystemStatus collects counts, reading bounds and collector loop state.
func (s *SoilService) GetSystemStatus(ctx context.Context) (*SystemStatus, error) {
	readings, err := s.Readings.Count(ctx)
	if err != nil {
		return nil, err
	}
	aggregates, err := s.Aggregates.Count(ctx)
	if err != nil {
		return nil, err
	}

	status := &SystemStatus{
		Collector:       s.Collector.Status(),
		TotalReadings:   readings,
		TotalAggregates: aggregates,
		Uptime:          time.Since(startedAt).Round(time.Second).String(),
	}
	if !status.Collector.LastCollection.IsZero() {
		status.NextCollection = status.Collector.LastCollection.Add(status.Collector.Interval)
	}

	if oldest, err := s.Readings.Oldest(ctx); err == nil {
		status.OldestReading = &oldest.Timestamp
	} else if err != repository.ErrNotFound {
		return nil, err
	}
	if newest, err := s.Readings.Latest(ctx); err == nil {
		status.NewestReading = &newest.Timestamp
	} else if err != repository.ErrNotFound {
		return nil, err
	}
	return status, nil
}

// GetCollectionHistory returns the most recent readings, newest first.
func (s *SoilService) GetCollectionHistory(ctx context.Context, limit int) ([]models.SensorReading, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.Readings.ListRecent(ctx, limit)
}

// HourlyLog is one hour of collection activity.
type HourlyLog struct {
	Hour     time.Time `json:"hour"`
	Readings int       `json:"readings"`
}

// GetCollectionLogs groups the trailing hours of readings into hourly counts,
// including empty hours, newest first.
func (s *SoilService) GetCollectionLogs(ctx context.Context, hours int) ([]HourlyLog, error) {
	if hours <= 0 || hours > 48 {
		hours = 24
	}

	now := time.Now()
	start := now.Truncate(time.Hour).Add(-time.Duration(hours-1) * time.Hour)
	readings, err := s.Readings.ListRange(ctx, start, now)
	if err != nil {
		return nil, err
	}

	counts := make(map[time.Time]int, hours)
	for i := range readings {
		counts[readings[i].Timestamp.Truncate(time.Hour)]++
	}

	logs := make([]HourlyLog, 0, hours)
	for h := 0; h < hours; h++ {
		hour := now.Truncate(time.Hour).Add(-time.Duration(h) * time.Hour)
		logs = append(logs, HourlyLog{Hour: hour, Readings: counts[hour]})
	}
	return logs, nil
}

// TriggerCollection performs one out-of-band collection tick.
func (s *SoilService) TriggerCollection(ctx context.Context) error {
	return s.Collector.CollectOnce(ctx)
}
