package mastery

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// fakeLedger is an in-memory Ledger for tests.
type fakeLedger struct {
	mu       sync.Mutex
	attempts map[string][]Attempt
	seq      int64

	// failing ops return err instead of data.
	failCount bool
	failFrom  bool
	failAll   bool
	err       error

	fromCalls int
	allCalls  int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{attempts: make(map[string][]Attempt), err: fmt.Errorf("ledger down")}
}

func (l *fakeLedger) add(itemID string, correct bool, hints int, at time.Time) Attempt {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	a := Attempt{
		ID:        fmt.Sprintf("a%d", l.seq),
		Sequence:  l.seq,
		ItemID:    itemID,
		UserID:    "u1",
		Correct:   correct,
		HintsUsed: hints,
		LatencyMs: 1500,
		Timestamp: at,
	}
	l.attempts[itemID] = append(l.attempts[itemID], a)
	return a
}

func (l *fakeLedger) truncate(itemID string, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts[itemID] = l.attempts[itemID][:n]
}

func (l *fakeLedger) AttemptsForItem(_ context.Context, itemID string) ([]Attempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allCalls++
	if l.failAll {
		return nil, l.err
	}
	return append([]Attempt(nil), l.attempts[itemID]...), nil
}

func (l *fakeLedger) AttemptsForItemFrom(_ context.Context, itemID string, offset int) ([]Attempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fromCalls++
	if l.failFrom {
		return nil, l.err
	}
	all := l.attempts[itemID]
	if offset >= len(all) {
		return nil, nil
	}
	return append([]Attempt(nil), all[offset:]...), nil
}

func (l *fakeLedger) AttemptCount(_ context.Context, itemID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failCount {
		return 0, l.err
	}
	return len(l.attempts[itemID]), nil
}

func (l *fakeLedger) AttemptsForUser(_ context.Context, userID string) ([]Attempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Attempt
	for _, as := range l.attempts {
		for _, a := range as {
			if a.UserID == userID {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

// blockingLedger never answers until its context is done.
type blockingLedger struct{ *fakeLedger }

func (l blockingLedger) AttemptCount(ctx context.Context, _ string) (int, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func (l blockingLedger) AttemptsForItem(ctx context.Context, _ string) ([]Attempt, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
