package mastery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/conjuga/internal/catalog"
)

func testCell() catalog.CellKey {
	return catalog.CellKey{Mood: catalog.MoodIndicative, Tense: catalog.TensePreterite, Person: catalog.ThirdSingular}
}

func cellItems(verbs ...string) []catalog.Item {
	cell := testCell()
	out := make([]catalog.Item, 0, len(verbs))
	for _, v := range verbs {
		out = append(out, catalog.Item{
			ID:               catalog.ItemID(v, cell),
			VerbID:           v,
			Mood:             cell.Mood,
			Tense:            cell.Tense,
			Person:           cell.Person,
			DifficultyWeight: 1.0,
		})
	}
	return out
}

func TestCell_NeutralWhenNoAttempts(t *testing.T) {
	c := newTestCache(newFakeLedger())
	rec, err := c.Cell(context.Background(), cellItems("hablar", "comer"), testCell().String(), testNow)
	require.NoError(t, err)
	assert.Equal(t, NeutralScore, rec.Score)
	assert.Equal(t, 0, rec.TotalAttemptCount)
	assert.Equal(t, []string{"comer:indicative:preterite:3s", "hablar:indicative:preterite:3s"}, rec.Members)
}

func TestCell_NoItems(t *testing.T) {
	c := newTestCache(newFakeLedger())
	rec, err := c.Cell(context.Background(), nil, testCell().String(), testNow)
	require.NoError(t, err)
	assert.Equal(t, NeutralScore, rec.Score)
	assert.Empty(t, rec.Members)
}

func TestCell_WeightedByAttemptWeight(t *testing.T) {
	items := cellItems("hablar", "comer")
	l := newFakeLedger()
	// hablar: 3 correct (score 100, weight 3); comer: 1 incorrect (score 0, weight 1)
	for i := 0; i < 3; i++ {
		l.add(items[0].ID, true, 0, testNow)
	}
	l.add(items[1].ID, false, 0, testNow)

	c := newTestCache(l)
	rec, err := c.Cell(context.Background(), items, testCell().String(), testNow)
	require.NoError(t, err)

	assert.Equal(t, 75.0, rec.Score)
	assert.Equal(t, 4, rec.TotalAttemptCount)
	assert.InDelta(t, 4.0, rec.WeightedAttemptSum, 1e-9)
}

func TestCell_HitWhileMembersUnchanged(t *testing.T) {
	items := cellItems("hablar", "comer")
	l := newFakeLedger()
	l.add(items[0].ID, true, 0, testNow)
	c := newTestCache(l)
	ctx := context.Background()

	first, err := c.Cell(ctx, items, testCell().String(), testNow)
	require.NoError(t, err)
	second, err := c.Cell(ctx, items, testCell().String(), testNow)
	require.NoError(t, err)

	assert.Same(t, first, second)
	st := c.Stats()
	assert.Equal(t, int64(1), st.CellHits)
	assert.Equal(t, int64(1), st.CellMisses)
}

func TestCell_InvalidateCascades(t *testing.T) {
	items := cellItems("hablar", "comer")
	l := newFakeLedger()
	l.add(items[0].ID, true, 0, testNow)
	c := newTestCache(l)
	ctx := context.Background()

	before, err := c.Cell(ctx, items, testCell().String(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 100.0, before.Score)

	l.add(items[1].ID, false, 0, testNow)
	c.Invalidate(items[1].ID)
	assert.Equal(t, 0, c.Stats().CellEntries)

	after, err := c.Cell(ctx, items, testCell().String(), testNow)
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, 50.0, after.Score)
}

func TestCell_NewAttemptWithoutNotificationIsNoticed(t *testing.T) {
	items := cellItems("hablar")
	l := newFakeLedger()
	l.add(items[0].ID, true, 0, testNow)
	c := newTestCache(l)
	ctx := context.Background()

	_, err := c.Cell(ctx, items, testCell().String(), testNow)
	require.NoError(t, err)

	l.add(items[0].ID, false, 0, testNow)
	rec, err := c.Cell(ctx, items, testCell().String(), testNow)
	require.NoError(t, err)

	assert.Equal(t, 50.0, rec.Score)
	assert.Equal(t, int64(2), c.Stats().CellMisses)
	assert.Equal(t, int64(1), c.Stats().IncrementalUpdates)
}

func TestCell_MembershipChangeRecomputes(t *testing.T) {
	l := newFakeLedger()
	c := newTestCache(l)
	ctx := context.Background()

	_, err := c.Cell(ctx, cellItems("hablar"), testCell().String(), testNow)
	require.NoError(t, err)
	rec, err := c.Cell(ctx, cellItems("hablar", "vivir"), testCell().String(), testNow)
	require.NoError(t, err)

	assert.Len(t, rec.Members, 2)
	assert.Equal(t, int64(2), c.Stats().CellMisses)
}

func TestCell_CleanupIndependentOfItems(t *testing.T) {
	items := cellItems("hablar")
	c := newTestCache(newFakeLedger())
	ctx := context.Background()

	_, err := c.Cell(ctx, items, testCell().String(), testNow.Add(-3*time.Hour))
	require.NoError(t, err)
	_, err = c.Refresh(ctx, items[0].ID, 1.0, testNow)
	require.NoError(t, err)

	nItems, nCells := c.Cleanup(time.Hour, testNow)
	assert.Equal(t, 0, nItems)
	assert.Equal(t, 1, nCells)
}

func TestCell_RejectsForeignItem(t *testing.T) {
	c := newTestCache(newFakeLedger())
	items := cellItems("hablar")
	items[0].Person = catalog.FirstPlural

	_, err := c.Cell(context.Background(), items, testCell().String(), testNow)
	assert.True(t, IsInvalid(err), "err = %v", err)

	_, err = c.Cell(context.Background(), cellItems("hablar", "hablar"), testCell().String(), testNow)
	assert.True(t, IsInvalid(err), "err = %v", err)

	_, err = c.Cell(context.Background(), nil, "", testNow)
	assert.True(t, IsInvalid(err), "err = %v", err)
}

func TestCell_LedgerErrorPropagates(t *testing.T) {
	l := newFakeLedger()
	l.failAll = true
	c := newTestCache(l)

	_, err := c.Cell(context.Background(), cellItems("hablar"), testCell().String(), testNow)
	var le *LedgerError
	require.ErrorAs(t, err, &le)
	assert.Empty(t, c.CachedCells())
}
