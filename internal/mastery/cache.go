package mastery

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abhisek/conjuga/internal/logging"
)

// Stats is a point-in-time view of cache activity. A fallback or
// inconsistency count that grows alongside misses means the incremental path
// is not being exercised.
type Stats struct {
	Hits               int64
	Misses             int64
	IncrementalUpdates int64
	Fallbacks          int64 // incremental faults recovered by a full recompute
	Inconsistencies    int64 // attempt count went backwards
	CellHits           int64
	CellMisses         int64
	ItemEntries        int
	CellEntries        int
}

type itemEntry struct {
	mu  sync.Mutex // serialises recomputation of this entry
	rec atomic.Pointer[ItemRecord]
}

type cellEntry struct {
	mu      sync.Mutex
	rec     atomic.Pointer[CellRecord]
	sources atomic.Pointer[[]*ItemRecord] // member records the score was built from
}

// Cache memoizes item and cell mastery for one learner. The entry maps are
// guarded by a short-held lock; each entry serialises its own updates, so
// lookups of different entries proceed independently.
type Cache struct {
	agg    *Aggregator
	ledger Ledger
	cfg    Config
	logger *slog.Logger

	mu    sync.RWMutex
	items map[string]*itemEntry
	cells map[string]*cellEntry

	hits            atomic.Int64
	misses          atomic.Int64
	incremental     atomic.Int64
	fallbacks       atomic.Int64
	inconsistencies atomic.Int64
	cellHits        atomic.Int64
	cellMisses      atomic.Int64
}

// NewCache creates a cache over the learner's ledger.
func NewCache(ledger Ledger, agg *Aggregator, cfg Config, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		agg:    agg,
		ledger: ledger,
		cfg:    cfg,
		logger: logger,
		items:  make(map[string]*itemEntry),
		cells:  make(map[string]*cellEntry),
	}
}

// Get returns the item's mastery, folding in only the attempts recorded since
// the cached record was built.
func (c *Cache) Get(ctx context.Context, itemID string, difficulty float64, now time.Time) (*ItemRecord, error) {
	return c.get(ctx, itemID, difficulty, now, false)
}

// Refresh recomputes the item's mastery from its full history.
func (c *Cache) Refresh(ctx context.Context, itemID string, difficulty float64, now time.Time) (*ItemRecord, error) {
	return c.get(ctx, itemID, difficulty, now, true)
}

func (c *Cache) get(ctx context.Context, itemID string, difficulty float64, now time.Time, force bool) (*ItemRecord, error) {
	if err := validateLookup(itemID, difficulty); err != nil {
		return nil, err
	}
	e := c.itemEntry(itemID)
	e.mu.Lock()
	defer e.mu.Unlock()

	cached := e.rec.Load()
	if cached == nil || force {
		c.misses.Add(1)
		return c.recompute(ctx, e, itemID, difficulty, now)
	}

	count, err := c.count(ctx, itemID)
	if err != nil {
		return nil, err
	}

	switch {
	case count == cached.AttemptCount:
		c.hits.Add(1)
		return cached, nil

	case count > cached.AttemptCount:
		rec, err := c.applyDelta(ctx, cached, difficulty, count, now)
		if err != nil {
			c.fallbacks.Add(1)
			c.logger.Debug("incremental update failed, recomputing",
				slog.String(logging.FieldItemID, itemID), logging.Err(err))
			return c.recompute(ctx, e, itemID, difficulty, now)
		}
		c.incremental.Add(1)
		e.rec.Store(rec)
		return rec, nil

	default:
		c.inconsistencies.Add(1)
		stale := &StaleCacheError{ItemID: itemID, Cached: cached.AttemptCount, Current: count}
		c.logger.Warn("attempt history shrank, recomputing",
			slog.String(logging.FieldItemID, itemID), logging.Err(stale))
		return c.recompute(ctx, e, itemID, difficulty, now)
	}
}

// recompute runs a full computation and stores it. On failure the entry keeps
// whatever it held before.
func (c *Cache) recompute(ctx context.Context, e *itemEntry, itemID string, difficulty float64, now time.Time) (*ItemRecord, error) {
	qctx, cancel := c.ledgerContext(ctx)
	defer cancel()

	rec, err := c.agg.ComputeFromScratch(qctx, c.ledger, itemID, difficulty, now)
	if err != nil {
		return nil, err
	}
	e.rec.Store(rec)
	return rec, nil
}

// applyDelta folds the attempts beyond the cached count into the cached sums.
func (c *Cache) applyDelta(ctx context.Context, cached *ItemRecord, difficulty float64, count int, now time.Time) (*ItemRecord, error) {
	qctx, cancel := c.ledgerContext(ctx)
	defer cancel()

	delta, err := c.ledger.AttemptsForItemFrom(qctx, cached.ItemID, cached.AttemptCount)
	if err != nil {
		return nil, &LedgerError{Op: "attempts delta", ItemID: cached.ItemID, Err: err}
	}
	// The ledger may have grown again between the count probe and the read;
	// fewer rows than probed means the history was rewritten.
	if len(delta) < count-cached.AttemptCount {
		return nil, &StaleCacheError{ItemID: cached.ItemID, Cached: cached.AttemptCount, Current: cached.AttemptCount + len(delta)}
	}
	return c.agg.Fold(*cached, delta, difficulty, now)
}

func (c *Cache) count(ctx context.Context, itemID string) (int, error) {
	qctx, cancel := c.ledgerContext(ctx)
	defer cancel()

	n, err := c.ledger.AttemptCount(qctx, itemID)
	if err != nil {
		return 0, &LedgerError{Op: "count", ItemID: itemID, Err: err}
	}
	return n, nil
}

func (c *Cache) ledgerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.LedgerTimeout > 0 {
		return context.WithTimeout(ctx, c.cfg.LedgerTimeout)
	}
	return context.WithCancel(ctx)
}

func (c *Cache) itemEntry(itemID string) *itemEntry {
	c.mu.RLock()
	e, ok := c.items[itemID]
	c.mu.RUnlock()
	if ok {
		return e
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[itemID]; ok {
		return e
	}
	e = &itemEntry{}
	c.items[itemID] = e
	return e
}

// cachedItem returns the item's current record without touching the ledger.
func (c *Cache) cachedItem(itemID string) *ItemRecord {
	c.mu.RLock()
	e, ok := c.items[itemID]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	return e.rec.Load()
}

// Invalidate drops the item's entry and every cached cell that contains it.
func (c *Cache) Invalidate(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, itemID)
	for key, ce := range c.cells {
		if rec := ce.rec.Load(); rec != nil && rec.hasMember(itemID) {
			delete(c.cells, key)
		}
	}
}

// InvalidateAll clears every item and cell entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*itemEntry)
	c.cells = make(map[string]*cellEntry)
}

// Cleanup drops item and cell entries last updated more than maxAge before
// now. The two sweeps are independent. It returns how many of each it removed.
func (c *Cache) Cleanup(maxAge time.Duration, now time.Time) (items, cells int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, e := range c.items {
		if rec := e.rec.Load(); rec != nil && now.Sub(rec.LastUpdated) > maxAge {
			delete(c.items, id)
			items++
		}
	}
	for key, e := range c.cells {
		if rec := e.rec.Load(); rec != nil && now.Sub(rec.LastUpdated) > maxAge {
			delete(c.cells, key)
			cells++
		}
	}
	return items, cells
}

// Stats returns the current counters and entry counts.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	itemN, cellN := len(c.items), len(c.cells)
	c.mu.RUnlock()

	return Stats{
		Hits:               c.hits.Load(),
		Misses:             c.misses.Load(),
		IncrementalUpdates: c.incremental.Load(),
		Fallbacks:          c.fallbacks.Load(),
		Inconsistencies:    c.inconsistencies.Load(),
		CellHits:           c.cellHits.Load(),
		CellMisses:         c.cellMisses.Load(),
		ItemEntries:        itemN,
		CellEntries:        cellN,
	}
}

// CachedCells returns the cell records currently held, in no particular order.
func (c *Cache) CachedCells() []*CellRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*CellRecord, 0, len(c.cells))
	for _, e := range c.cells {
		if rec := e.rec.Load(); rec != nil {
			out = append(out, rec)
		}
	}
	return out
}
