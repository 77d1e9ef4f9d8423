package catalog

import "fmt"

// Family classifies how a verb deviates from the regular paradigm.
type Family string

const (
	FamilyRegular      Family = "regular"
	FamilyOrthographic Family = "orthographic" // spelling changes only (buscar → busqué)
	FamilyStemChanging Family = "stem-changing"
	FamilyIrregular    Family = "irregular"
)

// familyWeights scales item difficulty by verb family.
var familyWeights = map[Family]float64{
	FamilyRegular:      1.0,
	FamilyOrthographic: 1.15,
	FamilyStemChanging: 1.3,
	FamilyIrregular:    1.6,
}

// ParseFamily validates a family name.
func ParseFamily(s string) (Family, error) {
	f := Family(s)
	if _, ok := familyWeights[f]; !ok {
		return "", fmt.Errorf("unknown verb family %q", s)
	}
	return f, nil
}

// Verb is a dictionary verb and the data that drives its difficulty.
type Verb struct {
	ID            string // infinitive, lowercase
	Family        Family
	FrequencyRank int // 1 = most frequent; 0 = unknown
}

// IsIrregular reports whether the verb's family departs from the regular
// paradigm in its stem or endings.
func (v Verb) IsIrregular() bool {
	return v.Family == FamilyIrregular || v.Family == FamilyStemChanging
}

// DifficultyWeight derives the positive item weight from the verb family and
// how often the learner is likely to have met the verb.
func (v Verb) DifficultyWeight() float64 {
	w, ok := familyWeights[v.Family]
	if !ok {
		w = familyWeights[FamilyRegular]
	}
	switch {
	case v.FrequencyRank <= 0:
		return w
	case v.FrequencyRank <= 50:
		return w * 0.9
	case v.FrequencyRank > 500:
		return w * 1.1
	default:
		return w
	}
}
