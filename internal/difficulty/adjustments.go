package difficulty

// Level is the overall difficulty, 1 (very easy) through 5 (very hard).
type Level int

const (
	LevelVeryEasy Level = 1
	LevelEasy     Level = 2
	LevelNormal   Level = 3
	LevelHard     Level = 4
	LevelVeryHard Level = 5
)

func (l Level) String() string {
	switch l {
	case LevelVeryEasy:
		return "very easy"
	case LevelEasy:
		return "easy"
	case LevelNormal:
		return "normal"
	case LevelHard:
		return "hard"
	case LevelVeryHard:
		return "very hard"
	}
	return "unknown"
}

// VerbComplexity selects which verb families a drill draws from.
type VerbComplexity string

const (
	VerbsRegularOnly      VerbComplexity = "regular_only"
	VerbsCommonIrregulars VerbComplexity = "common_irregulars"
	VerbsMixed            VerbComplexity = "mixed"
	VerbsIrregularFocus   VerbComplexity = "irregular_focus"
	VerbsAll              VerbComplexity = "all"
)

// HintAvailability controls how freely hints are offered.
type HintAvailability string

const (
	HintsGenerous HintAvailability = "generous"
	HintsStandard HintAvailability = "standard"
	HintsLimited  HintAvailability = "limited"
	HintsMinimal  HintAvailability = "minimal"
	HintsNone     HintAvailability = "none"
)

// TimePressure controls answer time limits.
type TimePressure string

const (
	TimeNone     TimePressure = "none"
	TimeRelaxed  TimePressure = "relaxed"
	TimeModerate TimePressure = "moderate"
	TimeTight    TimePressure = "tight"
	TimeStrict   TimePressure = "strict"
)

// FeedbackDetail controls how much explanation follows an answer.
type FeedbackDetail string

const (
	FeedbackDetailed    FeedbackDetail = "detailed"
	FeedbackExplanatory FeedbackDetail = "explanatory"
	FeedbackStandard    FeedbackDetail = "standard"
	FeedbackBrief       FeedbackDetail = "brief"
	FeedbackMinimal     FeedbackDetail = "minimal"
)

// Adjustments are the concrete drill knobs for a level.
type Adjustments struct {
	VerbComplexity    VerbComplexity   `json:"verb_complexity"`
	HintAvailability  HintAvailability `json:"hint_availability"`
	TimePressure      TimePressure     `json:"time_pressure"`
	ErrorTolerance    float64          `json:"error_tolerance"`    // fraction of misses accepted before easing off
	PracticeIntensity int              `json:"practice_intensity"` // items per round
	FeedbackDetail    FeedbackDetail   `json:"feedback_detail"`
}

var levelAdjustments = map[Level]Adjustments{
	LevelVeryEasy: {
		VerbComplexity:    VerbsRegularOnly,
		HintAvailability:  HintsGenerous,
		TimePressure:      TimeNone,
		ErrorTolerance:    0.4,
		PracticeIntensity: 5,
		FeedbackDetail:    FeedbackDetailed,
	},
	LevelEasy: {
		VerbComplexity:    VerbsCommonIrregulars,
		HintAvailability:  HintsStandard,
		TimePressure:      TimeRelaxed,
		ErrorTolerance:    0.3,
		PracticeIntensity: 8,
		FeedbackDetail:    FeedbackExplanatory,
	},
	LevelNormal: {
		VerbComplexity:    VerbsMixed,
		HintAvailability:  HintsStandard,
		TimePressure:      TimeModerate,
		ErrorTolerance:    0.2,
		PracticeIntensity: 10,
		FeedbackDetail:    FeedbackStandard,
	},
	LevelHard: {
		VerbComplexity:    VerbsIrregularFocus,
		HintAvailability:  HintsLimited,
		TimePressure:      TimeTight,
		ErrorTolerance:    0.1,
		PracticeIntensity: 12,
		FeedbackDetail:    FeedbackBrief,
	},
	LevelVeryHard: {
		VerbComplexity:    VerbsAll,
		HintAvailability:  HintsMinimal,
		TimePressure:      TimeStrict,
		ErrorTolerance:    0.05,
		PracticeIntensity: 15,
		FeedbackDetail:    FeedbackMinimal,
	},
}

// AdjustmentsFor returns the table adjustments for a level, before any
// factor-specific overrides.
func AdjustmentsFor(level Level) Adjustments {
	if a, ok := levelAdjustments[level]; ok {
		return a
	}
	return levelAdjustments[LevelNormal]
}
