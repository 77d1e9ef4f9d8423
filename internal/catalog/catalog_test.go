package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAllCells_Count(t *testing.T) {
	// 5 indicative + 2 subjunctive tenses × 6 persons, imperative × 5 persons.
	if got := len(AllCells()); got != 7*6+5 {
		t.Errorf("len(AllCells()) = %d, want %d", got, 7*6+5)
	}
}

func TestCellKey_Valid(t *testing.T) {
	tests := []struct {
		key  CellKey
		want bool
	}{
		{CellKey{MoodIndicative, TensePresent, FirstSingular}, true},
		{CellKey{MoodSubjunctive, TenseImperfect, ThirdPlural}, true},
		{CellKey{MoodImperative, TensePresent, FirstSingular}, false},
		{CellKey{MoodImperative, TensePresent, SecondSingular}, true},
		{CellKey{MoodSubjunctive, TenseFuture, FirstSingular}, false},
		{CellKey{MoodIndicative, TensePresent, "4s"}, false},
	}
	for _, tt := range tests {
		if got := tt.key.Valid(); got != tt.want {
			t.Errorf("%s.Valid() = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestParseCellKey(t *testing.T) {
	k, err := ParseCellKey("indicative/preterite/3p")
	require.NoError(t, err)
	assert.Equal(t, CellKey{MoodIndicative, TensePreterite, ThirdPlural}, k)

	_, err = ParseCellKey("indicative/preterite")
	assert.Error(t, err)
	_, err = ParseCellKey("imperative/present/1s")
	assert.Error(t, err)
}

func TestParseItemID(t *testing.T) {
	cell := CellKey{MoodSubjunctive, TensePresent, FirstPlural}
	id := ItemID("tener", cell)
	assert.Equal(t, "tener:subjunctive:present:1p", id)

	verb, got, err := ParseItemID(id)
	require.NoError(t, err)
	assert.Equal(t, "tener", verb)
	assert.Equal(t, cell, got)

	for _, bad := range []string{"", "tener", ":indicative:present:1s", "tener:indicative:present:9x"} {
		_, _, err := ParseItemID(bad)
		assert.Error(t, err, bad)
	}
}

func TestDifficultyWeight_ByFamily(t *testing.T) {
	regular := Verb{ID: "a", Family: FamilyRegular, FrequencyRank: 100}
	stem := Verb{ID: "b", Family: FamilyStemChanging, FrequencyRank: 100}
	irregular := Verb{ID: "c", Family: FamilyIrregular, FrequencyRank: 100}

	assert.Less(t, regular.DifficultyWeight(), stem.DifficultyWeight())
	assert.Less(t, stem.DifficultyWeight(), irregular.DifficultyWeight())
	assert.True(t, irregular.IsIrregular())
	assert.False(t, regular.IsIrregular())
}

func TestDifficultyWeight_Frequency(t *testing.T) {
	common := Verb{ID: "a", Family: FamilyIrregular, FrequencyRank: 3}
	rare := Verb{ID: "b", Family: FamilyIrregular, FrequencyRank: 900}
	assert.Less(t, common.DifficultyWeight(), rare.DifficultyWeight())
	assert.Greater(t, common.DifficultyWeight(), 0.0)
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := New([]Verb{{ID: "ser", Family: FamilyIrregular}, {ID: "ser", Family: FamilyIrregular}})
	assert.Error(t, err)

	_, err = New([]Verb{{ID: "ser", Family: "weird"}})
	assert.Error(t, err)
}

func TestSeed_Indices(t *testing.T) {
	c := Seed()
	assert.Equal(t, len(SeedVerbs())*len(AllCells()), c.Len())

	cell := CellKey{MoodIndicative, TensePresent, FirstSingular}
	items := c.ItemsInCell(cell)
	require.Len(t, items, len(SeedVerbs()))
	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].ID, items[i].ID)
	}
	for _, it := range items {
		assert.Equal(t, cell, it.Cell())
		v, ok := c.Verb(it.VerbID)
		require.True(t, ok)
		assert.Equal(t, v.DifficultyWeight(), it.DifficultyWeight)
	}

	it, ok := c.Item("ser:indicative:present:1s")
	require.True(t, ok)
	assert.Equal(t, "ser", it.VerbID)
}

func TestImportVerbs(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"verb", "family", "rank"},
		{"Hablar", "regular", 28},
		{"ser", "irregular", 1},
		{"", "", ""},
		{"pensar", "stem-changing", "abc"},
		{"caber", "unknown", 700},
		{"ser", "irregular", 1},
		{"nadar", "", ""},
	}
	for i, r := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellName, &r))
	}
	path := filepath.Join(t.TempDir(), "verbs.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	verbs, res, err := ImportVerbs(ImportConfig{FilePath: path, VerbColumn: 0, FamilyColumn: 1, RankColumn: 2, StartRow: 2})
	require.NoError(t, err)

	assert.Equal(t, 6, res.TotalProcessed)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 3, res.Skipped)
	assert.Len(t, res.Errors, 3)

	require.Len(t, verbs, 3)
	assert.Equal(t, Verb{ID: "hablar", Family: FamilyRegular, FrequencyRank: 28}, verbs[0])
	assert.Equal(t, Verb{ID: "ser", Family: FamilyIrregular, FrequencyRank: 1}, verbs[1])
	assert.Equal(t, Verb{ID: "nadar", Family: FamilyRegular}, verbs[2])
}

func TestImportVerbs_MissingFile(t *testing.T) {
	_, _, err := ImportVerbs(ImportConfig{FilePath: filepath.Join(t.TempDir(), "nope.xlsx")})
	assert.Error(t, err)
}
