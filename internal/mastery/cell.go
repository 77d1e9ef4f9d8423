package mastery

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/conjuga/internal/catalog"
)

// Cell returns the mastery of a cell, combining the mastery of its items
// weighted by each item's accumulated attempt weight. A cached record is
// reused only while its membership and every member's item record are
// unchanged.
func (c *Cache) Cell(ctx context.Context, items []catalog.Item, cellKey string, now time.Time) (*CellRecord, error) {
	if cellKey == "" {
		return nil, &InvalidInputError{Field: "cell key", Reason: "empty"}
	}
	members := make([]string, 0, len(items))
	for _, it := range items {
		if it.Cell().String() != cellKey {
			return nil, &InvalidInputError{
				Field:  "items",
				Reason: fmt.Sprintf("item %q is not in cell %s", it.ID, cellKey),
			}
		}
		members = append(members, it.ID)
	}
	slices.Sort(members)
	if len(slices.Compact(slices.Clone(members))) != len(members) {
		return nil, &InvalidInputError{Field: "items", Reason: "duplicate item"}
	}

	e := c.cellEntry(cellKey)
	e.mu.Lock()
	defer e.mu.Unlock()

	if rec := e.rec.Load(); rec != nil && slices.Equal(rec.Members, members) {
		fresh, err := c.sourcesFresh(ctx, *e.sources.Load())
		if err != nil {
			return nil, err
		}
		if fresh {
			c.cellHits.Add(1)
			return rec, nil
		}
	}
	c.cellMisses.Add(1)

	sources := make([]*ItemRecord, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cellConcurrency())
	for i, it := range items {
		g.Go(func() error {
			rec, err := c.Get(gctx, it.ID, it.DifficultyWeight, now)
			if err != nil {
				return err
			}
			sources[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cell %s: %w", cellKey, err)
	}

	rec := aggregateCell(cellKey, members, sources, now)
	e.rec.Store(rec)
	e.sources.Store(&sources)
	return rec, nil
}

// sourcesFresh reports whether every member record a cell was built from is
// still the cached record for its item and still matches the ledger count.
func (c *Cache) sourcesFresh(ctx context.Context, sources []*ItemRecord) (bool, error) {
	for _, src := range sources {
		if c.cachedItem(src.ItemID) != src {
			return false, nil
		}
	}

	stale := make([]bool, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cellConcurrency())
	for i, src := range sources {
		g.Go(func() error {
			n, err := c.count(gctx, src.ItemID)
			if err != nil {
				return err
			}
			stale[i] = n != src.AttemptCount
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}
	return !slices.Contains(stale, true), nil
}

func aggregateCell(cellKey string, members []string, sources []*ItemRecord, now time.Time) *CellRecord {
	rec := &CellRecord{
		CellKey:     cellKey,
		Score:       NeutralScore,
		Members:     members,
		LastUpdated: now,
	}
	var weighted float64
	for _, src := range sources {
		rec.TotalAttemptCount += src.AttemptCount
		rec.WeightedAttemptSum += src.WeightedAttempts
		weighted += src.Score * src.WeightedAttempts
	}
	if rec.WeightedAttemptSum > 0 {
		rec.Score = round2(clamp(weighted/rec.WeightedAttemptSum, 0, 100))
	}
	return rec
}

func (c *Cache) cellConcurrency() int {
	if c.cfg.CellConcurrency > 0 {
		return c.cfg.CellConcurrency
	}
	return 1
}

func (c *Cache) cellEntry(cellKey string) *cellEntry {
	c.mu.RLock()
	e, ok := c.cells[cellKey]
	c.mu.RUnlock()
	if ok {
		return e
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.cells[cellKey]; ok {
		return e
	}
	e = &cellEntry{}
	c.cells[cellKey] = e
	return e
}
