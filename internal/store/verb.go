package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/conjuga/internal/catalog"
)

// VerbRepo persists the imported verb catalog.
type VerbRepo struct {
	db *sql.DB
}

// Save upserts verbs by ID.
func (r *VerbRepo) Save(ctx context.Context, verbs []catalog.Verb) error {
	if len(verbs) == 0 {
		return nil
	}
	ins := builder().Insert(verbsTable).Columns("id", "family", "frequency_rank")
	for _, v := range verbs {
		ins.Values(v.ID, string(v.Family), v.FrequencyRank)
	}
	query, args := ins.OnConflict(
		entsql.ConflictColumns("id"),
		entsql.ResolveWithNewValues(),
	).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save verbs: %w", err)
	}
	return nil
}

// List returns every stored verb ordered by ID.
func (r *VerbRepo) List(ctx context.Context) ([]catalog.Verb, error) {
	b := builder()
	query, args := b.Select("id", "family", "frequency_rank").
		From(b.Table(verbsTable)).
		OrderBy("id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query verbs: %w", err)
	}
	defer rows.Close()

	var out []catalog.Verb
	for rows.Next() {
		var v catalog.Verb
		var family string
		if err := rows.Scan(&v.ID, &family, &v.FrequencyRank); err != nil {
			return nil, fmt.Errorf("scan verb: %w", err)
		}
		f, err := catalog.ParseFamily(family)
		if err != nil {
			return nil, fmt.Errorf("verb %s: %w", v.ID, err)
		}
		v.Family = f
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verbs: %w", err)
	}
	return out, nil
}

// Catalog builds the catalog from stored verbs, falling back to the seed
// list when nothing has been imported.
func (r *VerbRepo) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	verbs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(verbs) == 0 {
		return catalog.Seed(), nil
	}
	return catalog.New(verbs)
}
