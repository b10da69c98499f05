// FilePath: internal/report/report.go
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Data is everything a renderer needs to lay out one report.
type Data struct {
	Start      time.Time               `json:"start"`
	End        time.Time               `json:"end"`
	Readings   []models.SensorReading  `json:"readings"`
	Aggregates []models.DailyAggregate `json:"aggregates"`
	Summary    Summary                 `json:"summary"`
}

// Summary are the whole-period headline numbers.
type Summary struct {
	TotalReadings  int     `json:"total_readings"`
	PeriodDays     int     `json:"period_days"`
	AvgTemperature float64 `json:"avg_temperature"`
	AvgHumidity    float64 `json:"avg_humidity"`
	AvgMoisture    float64 `json:"avg_moisture"`
	AvgUVIndex     float64 `json:"avg_uv_index"`
}

// Renderer lays a report out as a document. The service stays agnostic of the
// output format; swapping in a PDF renderer only touches the wiring.
type Renderer interface {
	Render(data *Data) ([]byte, error)
	Extension() string
}

// Service assembles report data from the stores and writes rendered documents
// to the reports directory.
type Service struct {
	readings   repository.SensorDataRepository
	aggregates repository.DailyAggregateRepository
	renderer   Renderer
	dir        string
}

func NewService(
	readings repository.SensorDataRepository,
	aggregates repository.DailyAggregateRepository,
	renderer Renderer,
	dir string,
) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewInternalError("failed to create reports directory", err)
	}
	return &Service{
		readings:   readings,
		aggregates: aggregates,
		renderer:   renderer,
		dir:        dir,
	}, nil
}

// ReportData loads readings and aggregates for [start, end] and summarizes them.
func (s *Service) ReportData(ctx context.Context, start, end time.Time) (*Data, error) {
	if !end.After(start) {
		return nil, errors.NewValidationError("end must be after start", nil)
	}

	readings, err := s.readings.ListRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	aggregates, err := s.aggregates.ListRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &Data{
		Start:      start,
		End:        end,
		Readings:   readings,
		Aggregates: aggregates,
		Summary:    summarize(start, end, readings),
	}, nil
}

// Last24Hours returns the trailing day of data, capped at 144 readings (one
// per ten-minute tick).
func (s *Service) Last24Hours(ctx context.Context) (*Data, error) {
	end := time.Now()
	start := end.Add(-24 * time.Hour)

	readings, err := s.readings.ListRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(readings) > 144 {
		readings = readings[len(readings)-144:]
	}
	aggregates, err := s.aggregates.ListRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &Data{
		Start:      start,
		End:        end,
		Readings:   readings,
		Aggregates: aggregates,
		Summary:    summarize(start, end, readings),
	}, nil
}

// Report kinds. A daily report carries only the per-day summaries; a detailed
// report includes every raw reading in the range.
const (
	KindDaily    = "daily"
	KindDetailed = "detailed"
)

// Generate renders the report for [start, end] and stores it under the
// reports directory. Returns the stored filename.
func (s *Service) Generate(ctx context.Context, start, end time.Time, kind string) (string, error) {
	if kind == "" {
		kind = KindDetailed
	}
	if kind != KindDaily && kind != KindDetailed {
		return "", errors.NewValidationError("report type must be daily or detailed", nil)
	}

	data, err := s.ReportData(ctx, start, end)
	if err != nil {
		return "", err
	}
	if kind == KindDaily {
		data.Readings = nil
	}

	document, err := s.renderer.Render(data)
	if err != nil {
		return "", errors.NewInternalError("failed to render report", err)
	}

	filename := fmt.Sprintf("soilsage_%s_%s_%s_%s%s",
		kind, start.Format("20060102"), end.Format("20060102"),
		nuts.NID("rep", 8), s.renderer.Extension())
	if err := os.WriteFile(filepath.Join(s.dir, filename), document, 0o644); err != nil {
		return "", errors.NewInternalError("failed to store report", err)
	}

	nuts.L.Infof("[Report] Generated %s (%d readings, %d aggregates)",
		filename, len(data.Readings), len(data.Aggregates))
	return filename, nil
}

// Open returns the contents of a previously generated report. The filename is
// confined to the reports directory.
func (s *Service) Open(filename string) ([]byte, error) {
	if filename == "" || strings.Contains(filename, "/") || strings.Contains(filename, "..") {
		return nil, errors.NewValidationError("invalid report filename", nil)
	}

	document, err := os.ReadFile(filepath.Join(s.dir, filename))
	if os.IsNotExist(err) {
		return nil, errors.NewNotFoundError("report not found", err)
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to open report", err)
	}
	return document, nil
}

func summarize(start, end time.Time, readings []models.SensorReading) Summary {
	summary := Summary{
		TotalReadings: len(readings),
		PeriodDays:    int(end.Sub(start).Hours()/24 + 0.5),
	}
	if len(readings) == 0 {
		return summary
	}

	var temperature, humidity, moisture, uv float64
	for i := range readings {
		temperature += readings[i].Temperature
		humidity += readings[i].Humidity
		moisture += readings[i].MoisturePercent
		uv += readings[i].UVIndex
	}
	n := float64(len(readings))
	summary.AvgTemperature = temperature / n
	summary.AvgHumidity = humidity / n
	summary.AvgMoisture = moisture / n
	summary.AvgUVIndex = uv / n
	return summary
}
