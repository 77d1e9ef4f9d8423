package spacedrep

import "time"

// BaseIntervals defines the expanding interval schedule in days.
// Stage 0 = first review after a cell is mastered.
var BaseIntervals = []int{1, 3, 7, 14, 30, 60}

// MaxStage is the highest stage index in BaseIntervals.
const MaxStage = 5

// GraduationStage is the number of consecutive correct reviews after which
// an entry graduates.
const GraduationStage = 6

// GraduatedIntervalDays is the review interval for graduated entries.
const GraduatedIntervalDays = 90

// IntervalDays returns the review interval for a stage.
func IntervalDays(stage int, graduated bool) int {
	if graduated {
		return GraduatedIntervalDays
	}
	if stage < 0 {
		return BaseIntervals[0]
	}
	if stage >= len(BaseIntervals) {
		return BaseIntervals[len(BaseIntervals)-1]
	}
	return BaseIntervals[stage]
}

// nextDue schedules the next review intervalDays after from.
func nextDue(from time.Time, stage int, graduated bool) time.Time {
	return from.AddDate(0, 0, IntervalDays(stage, graduated))
}
