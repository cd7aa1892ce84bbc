// infrastructure/postgres/healthcheck.go
package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"gorm.io/gorm"
)

// HealthChecker monitors database connection health
type HealthChecker struct {
	db             *gorm.DB
	circuitBreaker *gobreaker.CircuitBreaker
	status         bool
	mu             sync.RWMutex
	checkInterval  time.Duration
}

// NewHealthChecker creates a new database health checker
func NewHealthChecker(db *gorm.DB, checkInterval time.Duration) *HealthChecker {
	settings := gobreaker.Settings{
		Name:        "postgres-circuit-breaker",
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 3 },
	}

	checker := &HealthChecker{
		db:             db,
		circuitBreaker: gobreaker.NewCircuitBreaker(settings),
		checkInterval:  checkInterval,
	}

	// Start periodic health checks
	go checker.startPeriodicChecks()

	return checker
}

// IsHealthy returns current database connection health status
func (h *HealthChecker) IsHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// State reports the circuit breaker state
func (h *HealthChecker) State() string {
	return h.circuitBreaker.State().String()
}

// Check performs a live health check and returns the result
func (h *HealthChecker) Check(ctx context.Context) bool {
	_, err := h.circuitBreaker.Execute(func() (interface{}, error) {
		var one int
		if err := h.db.WithContext(ctx).Raw("select 1").Scan(&one).Error; err != nil {
			return nil, err
		}
		return one, nil
	})

	isHealthy := err == nil

	h.mu.Lock()
	h.status = isHealthy
	h.mu.Unlock()

	return isHealthy
}

// startPeriodicChecks begins regular health checking
func (h *HealthChecker) startPeriodicChecks() {
	ticker := time.NewTicker(h.checkInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		h.Check(ctx)
		cancel()
	}
}
