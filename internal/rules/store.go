package rules

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
)

// Snapshot is an immutable view of the active rule set at one version.
// An evaluation pass holds one snapshot for its full duration, so no rule
// is ever observed half-updated.
type Snapshot struct {
	Version uint64
	Rules   []entity.ComplianceRule
}

// Source supplies the current active rules in stable order; backed by the
// rule repository in production.
type Source interface {
	ListActiveRules(ctx context.Context) ([]entity.ComplianceRule, error)
}

// Store caches the active rule set behind a copy-on-read snapshot. Writers
// replace the whole slice; readers take a versioned reference without
// holding any lock across I/O.
type Store struct {
	source Source
	logger *slog.Logger

	mu      sync.RWMutex
	version uint64
	rules   []entity.ComplianceRule
}

func NewStore(source Source, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{source: source, logger: logger}
}

// Snapshot returns the current versioned view. The returned slice is never
// mutated by the store after publication.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Version: s.version, Rules: s.rules}
}

// Replace publishes a new rule set and bumps the version. The input is
// copied so later caller mutations cannot leak into published snapshots.
func (s *Store) Replace(rules []entity.ComplianceRule) uint64 {
	cp := make([]entity.ComplianceRule, len(rules))
	copy(cp, rules)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	s.rules = cp
	return s.version
}

// Refresh reloads the active rules from the source.
func (s *Store) Refresh(ctx context.Context) error {
	rules, err := s.source.ListActiveRules(ctx)
	if err != nil {
		return err
	}
	version := s.Replace(rules)
	s.logger.Info("rules.store.refreshed", "version", version, "rules", len(rules))
	return nil
}

// Run refreshes on the given interval until ctx is cancelled. A failed
// refresh keeps serving the previous snapshot.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Warn("rules.store.refresh_failed", "error", err)
			}
		}
	}
}
