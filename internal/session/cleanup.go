package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/conjuga/internal/logging"
)

// StartCleanup schedules a sweep of cache entries older than the configured
// TTL every CleanupInterval. A zero interval disables the job. Close stops it.
func (s *Session) StartCleanup() error {
	if s.cfg.CleanupInterval <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.cron != nil {
		return nil
	}

	cron := gocron.NewScheduler(time.UTC)
	cron.SingletonModeAll()
	cron.WaitForScheduleAll()
	if _, err := cron.Every(s.cfg.CleanupInterval).Do(s.Cleanup); err != nil {
		return fmt.Errorf("schedule cache cleanup: %w", err)
	}
	cron.StartAsync()
	s.cron = cron
	return nil
}

// Cleanup drops cached records not updated within the TTL and returns how
// many item and cell records were removed.
func (s *Session) Cleanup() (items, cells int) {
	start := time.Now()
	items, cells = s.cache.Cleanup(s.cfg.CacheTTL, s.clock())
	if items > 0 || cells > 0 {
		s.logger.Debug("cache cleanup",
			slog.Int("items", items),
			slog.Int("cells", cells),
			slog.Int64(logging.FieldDuration, time.Since(start).Milliseconds()))
	}
	return items, cells
}
