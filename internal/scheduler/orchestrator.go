package scheduler

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/fortuna/standings/internal/standings"
)

// LeagueIngester runs one standings cycle for a league
type LeagueIngester interface {
	IngestLeague(ctx context.Context, leagueKey string) ([]standings.Message, error)
}

// Orchestrator polls the configured leagues on a fixed interval
type Orchestrator struct {
	ingester LeagueIngester
	config   *Config
	cancel   context.CancelFunc

	mu       sync.Mutex
	lastRun  map[string]time.Time
	lastErr  map[string]string
	running  bool
	finished chan struct{}
}

// Config holds scheduler configuration
type Config struct {
	PollInterval   time.Duration // Default: 1h
	LeagueKeys     []string      // e.g., "nfl.l.12345"
	EnablePolling  bool          // Default: true
	RunImmediately bool          // Default: true
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		PollInterval:   time.Hour,
		EnablePolling:  true,
		RunImmediately: true,
	}
}

// NewOrchestrator creates a new scheduler orchestrator
func NewOrchestrator(ingester LeagueIngester, config *Config) (*Orchestrator, error) {
	if ingester == nil {
		return nil, fmt.Errorf("ingester is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %v", config.PollInterval)
	}

	return &Orchestrator{
		ingester: ingester,
		config:   config,
		lastRun:  make(map[string]time.Time),
		lastErr:  make(map[string]string),
		finished: make(chan struct{}),
	}, nil
}

// Start polls until ctx is cancelled or Stop is called
func (o *Orchestrator) Start(ctx context.Context) {
	log.Println("╔════════════════════════════════════════╗")
	log.Println("║   Standings Scheduler                  ║")
	log.Println("╚════════════════════════════════════════╝")
	log.Printf("Polling: %v (interval: %v)", o.config.EnablePolling, o.config.PollInterval)
	log.Printf("Leagues: %v", o.config.LeagueKeys)

	ctx, cancel := context.WithCancel(ctx)
	defer close(o.finished)

	o.mu.Lock()
	o.cancel = cancel
	o.running = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	if !o.config.EnablePolling || len(o.config.LeagueKeys) == 0 {
		log.Println("→ Polling disabled, waiting for shutdown")
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(o.config.PollInterval)
	defer ticker.Stop()

	if o.config.RunImmediately {
		o.pollAll(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("→ Standings polling stopped")
			return
		case <-ticker.C:
			o.pollAll(ctx)
		}
	}
}

// pollAll ingests every configured league once. A failed league is logged
// and picked up again on the next tick.
func (o *Orchestrator) pollAll(ctx context.Context) {
	for _, leagueKey := range o.config.LeagueKeys {
		if ctx.Err() != nil {
			return
		}
		if _, err := o.TriggerLeague(ctx, leagueKey); err != nil {
			log.Printf("  ❌ %v", err)
		}
	}
}

// TriggerLeague runs one ingestion for a league immediately
func (o *Orchestrator) TriggerLeague(ctx context.Context, leagueKey string) ([]standings.Message, error) {
	messages, err := o.ingester.IngestLeague(ctx, leagueKey)

	o.mu.Lock()
	defer o.mu.Unlock()

	o.lastRun[leagueKey] = time.Now()
	if err != nil {
		o.lastErr[leagueKey] = err.Error()
		return nil, err
	}
	delete(o.lastErr, leagueKey)
	return messages, nil
}

// Stop cancels polling and waits for the loop to exit
func (o *Orchestrator) Stop() {
	log.Println("Stopping scheduler orchestrator...")

	o.mu.Lock()
	cancel, running := o.cancel, o.running
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if running {
		<-o.finished
	}

	log.Println("✓ Scheduler orchestrator stopped")
}

// GetStatus returns current scheduler status
func (o *Orchestrator) GetStatus() map[string]interface{} {
	o.mu.Lock()
	defer o.mu.Unlock()

	lastRun := make(map[string]string, len(o.lastRun))
	for league, at := range o.lastRun {
		lastRun[league] = at.Format(time.RFC3339)
	}
	lastErr := make(map[string]string, len(o.lastErr))
	for league, msg := range o.lastErr {
		lastErr[league] = msg
	}

	return map[string]interface{}{
		"polling_enabled": o.config.EnablePolling,
		"poll_interval":   o.config.PollInterval.String(),
		"leagues":         slices.Clone(o.config.LeagueKeys),
		"running":         o.running,
		"last_run":        lastRun,
		"last_error":      lastErr,
	}
}
