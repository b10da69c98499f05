// FilePath: internal/collector/collector.go
package collector

import (
	"context"
	"sync"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/cache"
	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
	"github.com/hitarthombre/SoilSageServer/internal/source"
	nuts "github.com/vaudience/go-nuts"
)

// Collector polls the telemetry source on a fixed interval, persists each
// snapshot as a reading and expires readings past the retention window.
// A fetch or store failure is logged and skipped; the loop never dies.
type Collector struct {
	source     source.Adapter
	readings   repository.SensorDataRepository
	snapshots  *cache.SnapshotCache
	events     *nuts.EventEmitter
	interval   time.Duration
	retention  time.Duration
	mu         sync.Mutex
	running    bool
	stop       chan struct{}
	lastTick   time.Time
	lastError  error
	tickCount  int64
	errorCount int64
}

func New(
	src source.Adapter,
	readings repository.SensorDataRepository,
	snapshots *cache.SnapshotCache,
	events *nuts.EventEmitter,
	cfg config.CollectorConfig,
) *Collector {
	return &Collector{
		source:    src,
		readings:  readings,
		snapshots: snapshots,
		events:    events,
		interval:  cfg.Interval,
		retention: cfg.Retention,
	}
}

// Start launches the collection loop. Collection runs once immediately, then
// on every interval tick. Calling Start on a running collector is a no-op.
func (c *Collector) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		nuts.L.Warnf("[Collector] Start called while already running")
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	stop := c.stop
	c.mu.Unlock()

	nuts.L.Infof("[Collector] Starting with interval %v, retention %v", c.interval, c.retention)

	go func() {
		c.runOnce()

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.runOnce()
			case <-stop:
				nuts.L.Infof("[Collector] Stopped")
				return
			}
		}
	}()
}

// Stop halts the collection loop. Safe to call multiple times.
func (c *Collector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	close(c.stop)
}

func (c *Collector) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), c.interval)
	defer cancel()

	if err := c.CollectOnce(ctx); err != nil {
		nuts.L.Errorf("[Collector] Collection failed: %v", err)
	}
}

// CollectOnce performs a single fetch-store-expire cycle. Exposed so the API
// can trigger an out-of-band collection.
func (c *Collector) CollectOnce(ctx context.Context) error {
	c.mu.Lock()
	c.lastTick = time.Now()
	c.tickCount++
	c.mu.Unlock()

	snapshot, err := c.source.FetchLatest(ctx)
	if err != nil {
		c.recordError(err)
		return err
	}

	reading := models.ReadingFromSnapshot(snapshot, time.Now())
	if err := c.readings.Insert(ctx, reading); err != nil {
		c.recordError(err)
		return err
	}
	nuts.L.Infof("[Collector] Stored reading %s (lux=%.1f moisture=%.1f temp=%.1f)",
		reading.ID, reading.Lux, reading.MoisturePercent, reading.Temperature)

	if c.snapshots != nil {
		if err := c.snapshots.SetLatestReading(ctx, reading, c.interval); err != nil {
			nuts.L.Warnf("[Collector] Failed to cache latest reading: %v", err)
		}
	}

	if _, err := c.readings.DeleteExpired(ctx, time.Now().Add(-c.retention)); err != nil {
		nuts.L.Warnf("[Collector] Retention sweep failed: %v", err)
	}

	c.mu.Lock()
	c.lastError = nil
	c.mu.Unlock()

	if c.events != nil {
		c.events.Emit("reading.collected", reading.ID)
	}
	return nil
}

func (c *Collector) recordError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = err
	c.errorCount++
}

// Status describes the collector loop for the system status endpoint.
type Status struct {
	Running        bool          `json:"running"`
	Interval       time.Duration `json:"interval"`
	Retention      time.Duration `json:"retention"`
	LastCollection time.Time     `json:"last_collection"`
	Collections    int64         `json:"collections"`
	Errors         int64         `json:"errors"`
	LastError      string        `json:"last_error,omitempty"`
}

func (c *Collector) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	status := Status{
		Running:        c.running,
		Interval:       c.interval,
		Retention:      c.retention,
		LastCollection: c.lastTick,
		Collections:    c.tickCount,
		Errors:         c.errorCount,
	}
	if c.lastError != nil {
		status.LastError = c.lastError.Error()
	}
	return status
}
