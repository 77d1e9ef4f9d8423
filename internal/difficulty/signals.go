package difficulty

import "github.com/abhisek/conjuga/internal/mastery"

// SignalsFromAttempts summarises a learner's attempts, given in ledger
// order, and the current mastery scores of the cells they practise.
func SignalsFromAttempts(attempts []mastery.Attempt, cellScores []float64, cfg Config) Signals {
	var s Signals

	recent := tail(attempts, cfg.RecentWindow)
	s.Samples = len(recent)
	if len(recent) > 0 {
		var correct, latency int
		for _, a := range recent {
			if a.Correct {
				correct++
			}
			latency += a.LatencyMs
		}
		s.Accuracy = 100 * float64(correct) / float64(len(recent))
		s.AvgLatencyMs = float64(latency) / float64(len(recent))
	}

	for i := len(attempts) - 1; i >= 0 && attempts[i].Correct; i-- {
		s.Streak++
	}

	var errs, correct int
	for _, a := range tail(attempts, cfg.TrendWindow) {
		if a.Correct {
			correct++
		} else {
			errs++
		}
	}
	switch {
	case correct > 0:
		s.ErrorCorrectRatio = float64(errs) / float64(correct)
	case errs > 0:
		s.ErrorCorrectRatio = float64(errs)
	}

	for _, score := range cellScores {
		switch {
		case score >= cfg.MasteredScore:
			s.MasteredCells++
		case score < cfg.StrugglingScore:
			s.StrugglingCells++
		}
	}
	return s
}

func tail(attempts []mastery.Attempt, n int) []mastery.Attempt {
	if n <= 0 || len(attempts) <= n {
		return attempts
	}
	return attempts[len(attempts)-n:]
}
