// FilePath: internal/source/source.go
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hitarthombre/SoilSageServer/internal/config"
	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/sony/gobreaker/v2"
	nuts "github.com/vaudience/go-nuts"
)

// Adapter fetches the latest raw telemetry snapshot from an upstream source.
type Adapter interface {
	FetchLatest(ctx context.Context) (models.Snapshot, error)
}

// FirebaseSource reads the latest snapshot from a Firebase realtime database
// REST endpoint. Calls run through a circuit breaker so a flapping upstream
// does not pile up requests on every tick.
type FirebaseSource struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[models.Snapshot]
}

func NewFirebaseSource(cfg config.SourceConfig) (*FirebaseSource, error) {
	if cfg.URL == "" {
		return nil, errors.NewValidationError("source URL is required", nil)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[models.Snapshot](gobreaker.Settings{
		Name:     "firebase-source",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			nuts.L.Warnf("[FirebaseSource] Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &FirebaseSource{
		url:     cfg.URL + cfg.Path,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
	}, nil
}

func (s *FirebaseSource) FetchLatest(ctx context.Context) (models.Snapshot, error) {
	snapshot, err := s.breaker.Execute(func() (models.Snapshot, error) {
		return s.fetch(ctx)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, errors.NewUnavailableError("telemetry source circuit breaker is open", err)
	}
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *FirebaseSource) fetch(ctx context.Context) (models.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.NewInternalError("failed to build source request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.NewUnavailableError("failed to reach telemetry source", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewUnavailableError(
			fmt.Sprintf("telemetry source returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewUnavailableError("failed to read source response", err)
	}

	// Firebase returns the literal "null" for an empty path.
	if len(body) == 0 || string(body) == "null" {
		return nil, errors.NewUnavailableError("telemetry source returned no data", nil)
	}

	snapshot := models.Snapshot{}
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, errors.NewUnavailableError("failed to decode source response", err)
	}
	return snapshot, nil
}
