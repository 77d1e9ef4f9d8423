// Package session is the per-learner entry point. A Session owns one
// mastery cache and exposes mastery lookups, the due-review queue and the
// difficulty evaluation over a single user's attempt ledger.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/abhisek/conjuga/internal/catalog"
	"github.com/abhisek/conjuga/internal/config"
	"github.com/abhisek/conjuga/internal/difficulty"
	"github.com/abhisek/conjuga/internal/logging"
	"github.com/abhisek/conjuga/internal/mastery"
	"github.com/abhisek/conjuga/internal/spacedrep"
	"github.com/abhisek/conjuga/internal/store"
)

// ErrNoRecorder is returned by RecordAttempt when the session was created
// without an attempt recorder.
var ErrNoRecorder = errors.New("session has no attempt recorder")

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// Recorder appends graded attempts to the ledger.
type Recorder interface {
	Append(ctx context.Context, in store.AttemptInput) (mastery.Attempt, error)
}

// Options configures a Session.
type Options struct {
	UserID   string
	Catalog  *catalog.Catalog
	Ledger   mastery.Ledger
	Recorder Recorder // optional; required by RecordAttempt
	Schedule spacedrep.ScheduleRepo
	Config   *config.Config   // nil = config.DefaultConfig()
	Logger   *slog.Logger     // nil = slog.Default()
	Clock    func() time.Time // nil = time.Now
}

// Session holds the state of one learner's practice session.
type Session struct {
	id      string
	userID  string
	catalog *catalog.Catalog
	ledger  mastery.Ledger
	rec     Recorder
	cfg     *config.Config
	logger  *slog.Logger
	clock   func() time.Time

	cache     *mastery.Cache
	schedule  spacedrep.ScheduleRepo
	scheduler *spacedrep.Scheduler
	queue     *spacedrep.Queue

	mu       sync.Mutex
	started  time.Time
	progress *progress
	cron     *gocron.Scheduler
	closed   bool
}

// New creates a session for opts.UserID.
func New(opts Options) (*Session, error) {
	if opts.UserID == "" {
		return nil, &mastery.InvalidInputError{Field: "user id", Reason: "empty"}
	}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("session: catalog is required")
	}
	if opts.Ledger == nil {
		return nil, fmt.Errorf("session: ledger is required")
	}
	if opts.Schedule == nil {
		return nil, fmt.Errorf("session: schedule repo is required")
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	id := uuid.New().String()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String(logging.FieldUserID, opts.UserID),
		slog.String(logging.FieldSessionID, id),
	)

	s := &Session{
		id:       id,
		userID:   opts.UserID,
		catalog:  opts.Catalog,
		ledger:   opts.Ledger,
		rec:      opts.Recorder,
		cfg:      cfg,
		logger:   logger,
		clock:    clock,
		started:  clock(),
		progress: newProgress(),
		schedule: opts.Schedule,
	}
	s.cache = mastery.NewCache(opts.Ledger, mastery.NewAggregator(cfg.Mastery, nil), cfg.Mastery, logger)
	s.scheduler = spacedrep.NewScheduler(opts.Schedule, logger)
	s.queue = spacedrep.NewQueue(opts.Schedule, s, cfg.Queue, logger)
	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// UserID returns the learner the session belongs to.
func (s *Session) UserID() string { return s.userID }

// ItemMastery returns the mastery of an item at the given difficulty weight.
func (s *Session) ItemMastery(ctx context.Context, itemID string, difficultyWeight float64) (*mastery.ItemRecord, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.cache.Get(ctx, itemID, difficultyWeight, s.clock())
}

// CatalogItemMastery looks the item up in the catalog and returns its
// mastery at the catalog's difficulty weight.
func (s *Session) CatalogItemMastery(ctx context.Context, itemID string) (*mastery.ItemRecord, error) {
	it, ok := s.catalog.Item(itemID)
	if !ok {
		return nil, &mastery.InvalidInputError{Field: "item id", Reason: fmt.Sprintf("%q not in catalog", itemID)}
	}
	return s.ItemMastery(ctx, it.ID, it.DifficultyWeight)
}

// CellMastery returns the mastery of a cell given its member items.
func (s *Session) CellMastery(ctx context.Context, items []catalog.Item, cellKey string) (*mastery.CellRecord, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.cache.Cell(ctx, items, cellKey, s.clock())
}

// CatalogCellMastery returns the mastery of a cell over every catalog item
// in it.
func (s *Session) CatalogCellMastery(ctx context.Context, cell catalog.CellKey) (*mastery.CellRecord, error) {
	if !cell.Valid() {
		return nil, &mastery.InvalidInputError{Field: "cell key", Reason: fmt.Sprintf("unknown cell %s", cell)}
	}
	return s.CellMastery(ctx, s.catalog.ItemsInCell(cell), cell.String())
}

// NotifyNewAttempt invalidates the cached mastery of itemID and of every
// cached cell containing it.
func (s *Session) NotifyNewAttempt(itemID string) {
	s.cache.Invalidate(itemID)
}

// MasteryScore implements spacedrep.MasteryLookup over the catalog.
func (s *Session) MasteryScore(ctx context.Context, kind spacedrep.Kind, key string) (float64, error) {
	switch kind {
	case spacedrep.KindCell:
		cell, err := catalog.ParseCellKey(key)
		if err != nil {
			return 0, &mastery.InvalidInputError{Field: "cell key", Reason: err.Error()}
		}
		rec, err := s.CatalogCellMastery(ctx, cell)
		if err != nil {
			return 0, err
		}
		return rec.Score, nil
	case spacedrep.KindItem:
		rec, err := s.CatalogItemMastery(ctx, key)
		if err != nil {
			return 0, err
		}
		return rec.Score, nil
	default:
		return 0, &mastery.InvalidInputError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", kind)}
	}
}

// DueQueue returns the learner's reviews due within the configured horizon
// of now, ranked most urgent and weakest first.
func (s *Session) DueQueue(ctx context.Context, now time.Time) ([]spacedrep.QueueEntry, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.queue.Build(ctx, s.userID, now)
}

// EvaluateDifficulty maps signals to a difficulty profile.
func (s *Session) EvaluateDifficulty(signals difficulty.Signals) difficulty.Profile {
	return difficulty.Evaluate(signals, s.cfg.Difficulty)
}

// EvaluateDifficultyForUser builds signals from the learner's ledger and the
// mastery of the most recently practised cells, then evaluates them. Once
// the session has recorded attempts, the streak is the session's own.
func (s *Session) EvaluateDifficultyForUser(ctx context.Context) (difficulty.Profile, error) {
	if err := s.checkOpen(); err != nil {
		return difficulty.Profile{}, err
	}
	attempts, err := s.ledger.AttemptsForUser(ctx, s.userID)
	if err != nil {
		return difficulty.Profile{}, &mastery.LedgerError{Op: "attempts for user", Err: err}
	}

	var scores []float64
	for _, cell := range recentCells(attempts, s.cfg.DifficultyCellSample) {
		rec, err := s.CatalogCellMastery(ctx, cell)
		if err != nil {
			return difficulty.Profile{}, err
		}
		scores = append(scores, rec.Score)
	}

	signals := difficulty.SignalsFromAttempts(attempts, scores, s.cfg.Difficulty)
	s.mu.Lock()
	if s.progress.attempts > 0 {
		signals.Streak = s.progress.streak
	}
	s.mu.Unlock()

	p := s.EvaluateDifficulty(signals)
	s.logger.Debug("difficulty evaluated",
		slog.Int("level", int(p.Level)),
		slog.Float64("confidence", p.Confidence),
		slog.Int(logging.FieldCount, signals.Samples))
	return p, nil
}

// recentCells returns up to n distinct cells, most recently practised first.
// Attempts on items outside the known cell grid are skipped.
func recentCells(attempts []mastery.Attempt, n int) []catalog.CellKey {
	seen := make(map[catalog.CellKey]bool)
	var out []catalog.CellKey
	for i := len(attempts) - 1; i >= 0 && len(out) < n; i-- {
		_, cell, err := catalog.ParseItemID(attempts[i].ItemID)
		if err != nil || seen[cell] {
			continue
		}
		seen[cell] = true
		out = append(out, cell)
	}
	return out
}

// CacheStats returns the mastery cache counters.
func (s *Session) CacheStats() mastery.Stats {
	return s.cache.Stats()
}

// Summary returns the session's totals so far.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := s.progress.summary()
	sum.SessionID = s.id
	sum.UserID = s.userID
	sum.Started = s.started
	sum.Duration = s.clock().Sub(s.started)
	return sum
}

// Close stops the cleanup job and drops every cached record. Later calls
// return ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	cron := s.cron
	s.cron = nil
	s.mu.Unlock()

	if cron != nil {
		cron.Stop()
	}
	s.cache.InvalidateAll()
	s.logger.Debug("session closed")
	return nil
}

func (s *Session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}
