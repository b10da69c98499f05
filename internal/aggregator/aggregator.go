// FilePath: internal/aggregator/aggregator.go
package aggregator

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Aggregator rolls raw readings into one statistical summary per day. The
// scheduled run fires just after local midnight and summarizes the day that
// just ended, before the retention sweep can expire its readings.
type Aggregator struct {
	readings   repository.SensorDataRepository
	aggregates repository.DailyAggregateRepository
	events     *nuts.EventEmitter
	luxThresh  float64
	uvThresh   float64
	mu         sync.Mutex
	running    bool
	stop       chan struct{}
}

func New(
	readings repository.SensorDataRepository,
	aggregates repository.DailyAggregateRepository,
	events *nuts.EventEmitter,
	cfg config.AggregatorConfig,
) *Aggregator {
	return &Aggregator{
		readings:   readings,
		aggregates: aggregates,
		events:     events,
		luxThresh:  cfg.SunlightLuxThreshold,
		uvThresh:   cfg.UVIndexThreshold,
	}
}

// Start schedules the daily aggregation. Calling Start on a running
// aggregator is a no-op.
func (a *Aggregator) Start() {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		nuts.L.Warnf("[Aggregator] Start called while already running")
		return
	}
	a.running = true
	a.stop = make(chan struct{})
	stop := a.stop
	a.mu.Unlock()

	go func() {
		for {
			wait := untilNextMidnight(time.Now())
			nuts.L.Infof("[Aggregator] Next daily aggregation in %v", wait.Round(time.Second))

			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
				a.runScheduled()
			case <-stop:
				timer.Stop()
				nuts.L.Infof("[Aggregator] Stopped")
				return
			}
		}
	}()
}

// Stop halts the daily schedule. Safe to call multiple times.
func (a *Aggregator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	a.running = false
	close(a.stop)
}

func (a *Aggregator) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// The timer fires just past midnight; summarize the day that ended.
	day := startOfDay(time.Now().Add(-time.Hour))
	if _, err := a.AggregateDay(ctx, day); err != nil {
		nuts.L.Errorf("[Aggregator] Scheduled aggregation for %s failed: %v",
			day.Format("2006-01-02"), err)
	}
}

// AggregateDay summarizes all readings whose timestamp falls on the given day.
// A day with no readings produces no aggregate. A day already aggregated is a
// benign no-op; the first aggregate wins.
func (a *Aggregator) AggregateDay(ctx context.Context, day time.Time) (*models.DailyAggregate, error) {
	start := startOfDay(day)
	end := start.Add(24 * time.Hour)

	readings, err := a.readings.ListRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		nuts.L.Infof("[Aggregator] No readings for %s, skipping", start.Format("2006-01-02"))
		return nil, nil
	}

	aggregate := a.summarize(start, readings)
	if err := a.aggregates.Insert(ctx, aggregate); err != nil {
		if err == repository.ErrDuplicate {
			nuts.L.Infof("[Aggregator] Day %s already aggregated", start.Format("2006-01-02"))
			return nil, nil
		}
		return nil, err
	}

	nuts.L.Infof("[Aggregator] Aggregated %d readings for %s (sunlight=%.2fh uv=%.2fh)",
		aggregate.TotalReadings, start.Format("2006-01-02"),
		aggregate.SunlightHours, aggregate.UVExposureHours)

	if a.events != nil {
		a.events.Emit("day.aggregated", aggregate.ID)
	}
	return aggregate, nil
}

func (a *Aggregator) summarize(day time.Time, readings []models.SensorReading) *models.DailyAggregate {
	temperature := metricStats(readings, func(r *models.SensorReading) float64 { return r.Temperature })
	humidity := metricStats(readings, func(r *models.SensorReading) float64 { return r.Humidity })
	moisture := metricStats(readings, func(r *models.SensorReading) float64 { return r.MoisturePercent })
	uvIndex := metricStats(readings, func(r *models.SensorReading) float64 { return r.UVIndex })
	lux := metricStats(readings, func(r *models.SensorReading) float64 { return r.Lux })

	return &models.DailyAggregate{
		Day:             day,
		SunlightHours:   exposureHours(readings, a.luxThresh, func(r *models.SensorReading) float64 { return r.Lux }),
		WaterLevelAvg:   moisture.Avg,
		UVExposureHours: exposureHours(readings, a.uvThresh, func(r *models.SensorReading) float64 { return r.UVIndex }),
		UVThreshold:     a.uvThresh,
		Temperature:     temperature,
		Humidity:        humidity,
		MoisturePercent: moisture,
		UVIndex:         uvIndex,
		Lux:             lux,
		TotalReadings:   len(readings),
		CollectionStart: readings[0].Timestamp,
		CollectionEnd:   readings[len(readings)-1].Timestamp,
	}
}

func metricStats(readings []models.SensorReading, value func(*models.SensorReading) float64) models.MetricStats {
	stats := models.MetricStats{Min: value(&readings[0]), Max: value(&readings[0])}
	sum := 0.0
	for i := range readings {
		v := value(&readings[i])
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
		sum += v
	}
	stats.Avg = round2(sum / float64(len(readings)))
	return stats
}

// exposureHours sums the time between consecutive readings while the metric
// sits above the threshold. The final reading contributes nothing: there is no
// later reading to bound its interval.
func exposureHours(readings []models.SensorReading, threshold float64, value func(*models.SensorReading) float64) float64 {
	var exposure time.Duration
	for i := 0; i < len(readings)-1; i++ {
		if value(&readings[i]) > threshold {
			exposure += readings[i+1].Timestamp.Sub(readings[i].Timestamp)
		}
	}
	return round2(exposure.Hours())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func untilNextMidnight(now time.Time) time.Duration {
	next := startOfDay(now).Add(24 * time.Hour)
	return next.Sub(now)
}
