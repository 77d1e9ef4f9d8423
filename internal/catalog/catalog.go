// Package catalog describes the drillable verb forms: verbs, the cells they
// are conjugated into, and the items at each verb+cell intersection.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Item identifies one concrete conjugated form.
type Item struct {
	ID               string
	VerbID           string
	Mood             Mood
	Tense            Tense
	Person           Person
	DifficultyWeight float64
}

// Cell returns the cell the item belongs to.
func (it Item) Cell() CellKey {
	return CellKey{Mood: it.Mood, Tense: it.Tense, Person: it.Person}
}

// ItemID builds the canonical "verb:mood:tense:person" item ID.
func ItemID(verbID string, cell CellKey) string {
	return verbID + ":" + string(cell.Mood) + ":" + string(cell.Tense) + ":" + string(cell.Person)
}

// ParseItemID splits an item ID into its verb and cell.
func ParseItemID(id string) (string, CellKey, error) {
	parts := strings.Split(id, ":")
	if len(parts) != 4 || parts[0] == "" {
		return "", CellKey{}, fmt.Errorf("item id %q: want verb:mood:tense:person", id)
	}
	cell := CellKey{Mood: Mood(parts[1]), Tense: Tense(parts[2]), Person: Person(parts[3])}
	if !cell.Valid() {
		return "", CellKey{}, fmt.Errorf("item id %q: unknown cell %s", id, cell)
	}
	return parts[0], cell, nil
}

// Catalog is an immutable index of verbs and their items. It is safe for
// concurrent reads.
type Catalog struct {
	verbs  []Verb
	byVerb map[string]Verb
	byID   map[string]Item
	byCell map[CellKey][]Item
}

// New builds a catalog from verbs. Duplicate or empty verb IDs are rejected.
func New(verbs []Verb) (*Catalog, error) {
	c := &Catalog{
		byVerb: make(map[string]Verb, len(verbs)),
		byID:   make(map[string]Item),
		byCell: make(map[CellKey][]Item),
	}
	for _, v := range verbs {
		if v.ID == "" {
			return nil, fmt.Errorf("verb with empty id")
		}
		if _, dup := c.byVerb[v.ID]; dup {
			return nil, fmt.Errorf("duplicate verb %q", v.ID)
		}
		if _, err := ParseFamily(string(v.Family)); err != nil {
			return nil, fmt.Errorf("verb %q: %w", v.ID, err)
		}
		c.byVerb[v.ID] = v
		c.verbs = append(c.verbs, v)
	}
	sort.Slice(c.verbs, func(i, j int) bool { return c.verbs[i].ID < c.verbs[j].ID })

	for _, v := range c.verbs {
		weight := v.DifficultyWeight()
		for _, cell := range AllCells() {
			it := Item{
				ID:               ItemID(v.ID, cell),
				VerbID:           v.ID,
				Mood:             cell.Mood,
				Tense:            cell.Tense,
				Person:           cell.Person,
				DifficultyWeight: weight,
			}
			c.byID[it.ID] = it
			c.byCell[cell] = append(c.byCell[cell], it)
		}
	}
	for _, items := range c.byCell {
		sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	}
	return c, nil
}

// Verbs returns all verbs sorted by ID.
func (c *Catalog) Verbs() []Verb {
	out := make([]Verb, len(c.verbs))
	copy(out, c.verbs)
	return out
}

// Verb looks up a verb by ID.
func (c *Catalog) Verb(id string) (Verb, bool) {
	v, ok := c.byVerb[id]
	return v, ok
}

// Item looks up an item by ID.
func (c *Catalog) Item(id string) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// ItemsInCell returns the cell's items sorted by item ID.
func (c *Catalog) ItemsInCell(cell CellKey) []Item {
	items := c.byCell[cell]
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.byID)
}
