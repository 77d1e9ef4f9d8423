package session

import (
	"sort"
	"time"
)

// CellProgress tracks the answers given for one cell during a session.
type CellProgress struct {
	CellKey  string
	Attempts int
	Correct  int
	Accuracy float64 // Correct / Attempts (computed)
}

// Record adds a new answer result to the progress.
func (cp *CellProgress) Record(correct bool) {
	cp.Attempts++
	if correct {
		cp.Correct++
	}
	if cp.Attempts > 0 {
		cp.Accuracy = float64(cp.Correct) / float64(cp.Attempts)
	}
}

// Summary holds the totals of a session so far.
type Summary struct {
	SessionID string
	UserID    string
	Started   time.Time
	Duration  time.Duration
	Attempts  int
	Correct   int
	Accuracy  float64
	Streak    int // consecutive correct answers ending with the latest
	Cells     []CellProgress
}

// progress is the mutable session tally. Callers hold Session.mu.
type progress struct {
	attempts int
	correct  int
	streak   int
	cells    map[string]*CellProgress
}

func newProgress() *progress {
	return &progress{cells: make(map[string]*CellProgress)}
}

func (p *progress) record(cellKey string, correct bool) {
	p.attempts++
	if correct {
		p.correct++
		p.streak++
	} else {
		p.streak = 0
	}

	cp, ok := p.cells[cellKey]
	if !ok {
		cp = &CellProgress{CellKey: cellKey}
		p.cells[cellKey] = cp
	}
	cp.Record(correct)
}

func (p *progress) summary() Summary {
	s := Summary{
		Attempts: p.attempts,
		Correct:  p.correct,
		Streak:   p.streak,
	}
	if p.attempts > 0 {
		s.Accuracy = float64(p.correct) / float64(p.attempts)
	}
	for _, cp := range p.cells {
		s.Cells = append(s.Cells, *cp)
	}
	sort.Slice(s.Cells, func(i, j int) bool {
		return s.Cells[i].CellKey < s.Cells[j].CellKey
	})
	return s
}
