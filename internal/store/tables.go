package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	attemptsTable = "attempts"
	scheduleTable = "schedule_entries"
	verbsTable    = "verbs"
)

// Table definitions for auto-migration. Timestamps are stored as unix
// milliseconds and booleans as 0/1 integers.
var (
	attemptColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeString},
		{Name: "correct", Type: field.TypeInt},
		{Name: "hints_used", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt, Default: 0},
		{Name: "error_tags", Type: field.TypeString, Default: "[]"},
		{Name: "timestamp", Type: field.TypeInt64},
	}

	scheduleColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "entry_key", Type: field.TypeString},
		{Name: "stage", Type: field.TypeInt, Default: 0},
		{Name: "next_due", Type: field.TypeInt64},
		{Name: "consecutive_hits", Type: field.TypeInt, Default: 0},
		{Name: "graduated", Type: field.TypeInt, Default: 0},
		{Name: "last_review", Type: field.TypeInt64},
	}

	verbColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "family", Type: field.TypeString},
		{Name: "frequency_rank", Type: field.TypeInt, Default: 0},
	}
)

// tables returns fresh table definitions; schema.Table is mutated by
// migration, so each Open builds its own.
func tables() []*schema.Table {
	attempts := newTable(attemptsTable, attemptColumns).
		AddIndex("attempt_user_item_sequence", false, []string{"user_id", "item_id", "sequence"}).
		AddIndex("attempt_user_sequence", false, []string{"user_id", "sequence"})

	schedule := newTable(scheduleTable, scheduleColumns).
		AddIndex("schedule_user_kind_key", true, []string{"user_id", "kind", "entry_key"}).
		AddIndex("schedule_user_next_due", false, []string{"user_id", "next_due"})

	verbs := newTable(verbsTable, verbColumns)

	return []*schema.Table{attempts, schedule, verbs}
}

// newTable builds a table whose first column is the primary key.
func newTable(name string, columns []*schema.Column) *schema.Table {
	t := schema.NewTable(name)
	for i, c := range columns {
		col := *c
		if i == 0 {
			t.AddPrimary(&col)
			continue
		}
		t.AddColumn(&col)
	}
	return t
}
