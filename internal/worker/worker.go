// Package worker keeps the published feed fresh: it runs the feed generator
// once at startup, then on every tick of the refresh interval.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-historic/internal/config"
	"github.com/tartampluch/go-historic/internal/feed"
)

// Syncer builds a feed from the configured vCard source.
type Syncer interface {
	RunSync(ctx context.Context, cfg feed.SyncConfig) ([]byte, []feed.Entry, int, error)
}

// Publisher receives every successfully built feed.
type Publisher interface {
	Update(data []byte)
}

// Service schedules synchronizations and remembers the last result.
type Service struct {
	Syncer    Syncer
	Publisher Publisher
	Config    feed.SyncConfig
	Interval  time.Duration // <= 0 builds the feed once

	mu      sync.RWMutex
	entries []feed.Entry
	today   int
	lastErr error
}

// Run performs the first synchronization, then refreshes on every tick
// until ctx is cancelled. Failed runs are logged and keep the previous feed.
func (s *Service) Run(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	_ = s.SyncOnce(ctx)

	if s.Interval <= 0 {
		log.Info(config.MsgWorkerOnce)
		return
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	log.Info(config.MsgWorkerStart, config.LogKeyInterval, s.Interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-ticker.C:
			_ = s.SyncOnce(ctx)
		}
	}
}

// SyncOnce runs one synchronization and publishes its feed.
func (s *Service) SyncOnce(ctx context.Context) error {
	ics, entries, today, err := s.Syncer.RunSync(ctx, s.Config)
	if err != nil {
		err = fmt.Errorf("%s: %w", config.ErrSyncFailed, err)
		if ctx.Err() == nil {
			slog.Error(config.ErrSyncFailed,
				config.LogKeyComponent, config.CompWorker,
				config.LogKeyError, err,
			)
		}
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.today = today
	s.lastErr = nil
	s.mu.Unlock()

	if s.Publisher != nil {
		s.Publisher.Update(ics)
	}
	return nil
}

// Entries returns the anniversaries of the last successful run.
func (s *Service) Entries() []feed.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]feed.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Today returns how many anniversaries of the last successful run fall on
// its day.
func (s *Service) Today() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.today
}

// Err returns the error of the last run, nil after a success.
func (s *Service) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ReminderTrigger renders an alarm offset before the event as an ISO 8601
// duration, e.g. (2, "days") -> "-P2D". A non-positive value disables the
// alarm and yields "".
func ReminderTrigger(value int, unit string) (string, error) {
	if value <= 0 {
		return "", nil
	}
	switch unit {
	case config.UnitDays, "":
		return fmt.Sprintf("%s%d%s", config.ISONegativePrefix, value, config.ISODay), nil
	case config.UnitHours:
		return fmt.Sprintf("%s%s%d%s", config.ISONegativePrefix, config.ISOTimePrefix, value, config.ISOHour), nil
	case config.UnitMinutes:
		return fmt.Sprintf("%s%s%d%s", config.ISONegativePrefix, config.ISOTimePrefix, value, config.ISOMinute), nil
	default:
		return "", fmt.Errorf("%s: %q", config.ErrReminderUnit, unit)
	}
}
