package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/conjuga/internal/catalog"
	"github.com/abhisek/conjuga/internal/session"
)

func TestOpen_WiresSession(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nested", "conjuga.db")

	a, err := Open(context.Background(), Options{DBPath: dbPath, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	defer a.Close()

	_, err = os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	assert.Equal(t, catalog.Seed().Len(), a.Catalog.Len())

	s, err := a.NewSession("learner")
	require.NoError(t, err)
	defer s.Close()

	item := catalog.ItemID("ser", catalog.CellKey{Mood: catalog.MoodIndicative, Tense: catalog.TensePresent, Person: catalog.FirstSingular})
	out, err := s.RecordAttempt(context.Background(), session.Answer{ItemID: item, Correct: true, LatencyMs: 900})
	require.NoError(t, err)
	assert.Equal(t, 100.0, out.Item.Score)
}

func TestOpen_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "conjuga.yaml")
	dbPath := filepath.Join(dir, "from-config.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db: "+dbPath+"\nlog:\n  level: debug\n"), 0o644))

	var logs bytes.Buffer
	a, err := Open(context.Background(), Options{ConfigPath: cfgPath, LogOutput: &logs})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "debug", a.Config.LogLevel)
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
	assert.Contains(t, logs.String(), "app opened")
}

func TestOpen_BadConfig(t *testing.T) {
	_, err := Open(context.Background(), Options{
		DBPath:     filepath.Join(t.TempDir(), "x.db"),
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
	})
	assert.Error(t, err)
}

func TestReloadCatalog(t *testing.T) {
	a, err := Open(context.Background(), Options{DBPath: filepath.Join(t.TempDir(), "c.db"), LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	require.NoError(t, a.Store.Verbs().Save(ctx, []catalog.Verb{{ID: "nadar", Family: catalog.FamilyRegular, FrequencyRank: 900}}))
	require.NoError(t, a.ReloadCatalog(ctx))

	_, ok := a.Catalog.Verb("nadar")
	assert.True(t, ok)
	_, ok = a.Catalog.Verb("ser")
	assert.False(t, ok)
}
