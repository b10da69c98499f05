// FilePath: internal/monitoring/monitoring.go
package monitoring

import (
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Service records pipeline events with in-memory counters. Counters surface
// through GetEventCounts; a metrics backend can hook in here later without
// touching the emitters.
type Service struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewService creates a new monitoring service
func NewService() *Service {
	return &Service{counts: make(map[string]int64)}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.mu.Lock()
	s.counts[eventName]++
	s.mu.Unlock()

	nuts.L.Infof("[Monitoring] Event %s recorded at %v with labels: %v",
		eventName, time.Now().Format(time.RFC3339), labels)
}

// GetEventCounts returns a copy of the per-event counters.
func (s *Service) GetEventCounts() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int64, len(s.counts))
	for name, count := range s.counts {
		counts[name] = count
	}
	return counts
}
