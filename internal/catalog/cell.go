package catalog

import (
	"fmt"
	"strings"
)

// Mood is a grammatical mood.
type Mood string

const (
	MoodIndicative  Mood = "indicative"
	MoodSubjunctive Mood = "subjunctive"
	MoodImperative  Mood = "imperative"
)

// Tense is a grammatical tense within a mood.
type Tense string

const (
	TensePresent     Tense = "present"
	TensePreterite   Tense = "preterite"
	TenseImperfect   Tense = "imperfect"
	TenseFuture      Tense = "future"
	TenseConditional Tense = "conditional"
)

// Person is a grammatical person and number.
type Person string

const (
	FirstSingular  Person = "1s"
	SecondSingular Person = "2s"
	ThirdSingular  Person = "3s"
	FirstPlural    Person = "1p"
	SecondPlural   Person = "2p"
	ThirdPlural    Person = "3p"
)

// AllPersons returns all persons in display order.
func AllPersons() []Person {
	return []Person{FirstSingular, SecondSingular, ThirdSingular, FirstPlural, SecondPlural, ThirdPlural}
}

// moodTenses lists the tenses drilled for each mood, in display order.
var moodTenses = []struct {
	mood   Mood
	tenses []Tense
}{
	{MoodIndicative, []Tense{TensePresent, TensePreterite, TenseImperfect, TenseFuture, TenseConditional}},
	{MoodSubjunctive, []Tense{TensePresent, TenseImperfect}},
	{MoodImperative, []Tense{TensePresent}},
}

// CellKey identifies a mood+tense+person combination. Cells are computed by
// grouping items; they are never stored on their own.
type CellKey struct {
	Mood   Mood
	Tense  Tense
	Person Person
}

// String returns the canonical "mood/tense/person" form.
func (k CellKey) String() string {
	return string(k.Mood) + "/" + string(k.Tense) + "/" + string(k.Person)
}

// Valid reports whether the combination is one the catalog drills.
func (k CellKey) Valid() bool {
	if k.Mood == MoodImperative && k.Person == FirstSingular {
		return false
	}
	for _, mt := range moodTenses {
		if mt.mood != k.Mood {
			continue
		}
		for _, t := range mt.tenses {
			if t == k.Tense {
				return validPerson(k.Person)
			}
		}
	}
	return false
}

// ParseCellKey parses the "mood/tense/person" form.
func ParseCellKey(s string) (CellKey, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return CellKey{}, fmt.Errorf("cell key %q: want mood/tense/person", s)
	}
	k := CellKey{Mood: Mood(parts[0]), Tense: Tense(parts[1]), Person: Person(parts[2])}
	if !k.Valid() {
		return CellKey{}, fmt.Errorf("cell key %q: unknown combination", s)
	}
	return k, nil
}

// AllCells returns every drilled cell in display order.
func AllCells() []CellKey {
	var cells []CellKey
	for _, mt := range moodTenses {
		for _, t := range mt.tenses {
			for _, p := range AllPersons() {
				k := CellKey{Mood: mt.mood, Tense: t, Person: p}
				if k.Valid() {
					cells = append(cells, k)
				}
			}
		}
	}
	return cells
}

func validPerson(p Person) bool {
	for _, q := range AllPersons() {
		if q == p {
			return true
		}
	}
	return false
}
