package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordFillsDefaults(t *testing.T) {
	s := openStore(t)

	run, err := s.Record(Run{
		Tool:    "compare",
		InputA:  "a.dxf",
		InputB:  "b.dxf",
		Matched: 10,
		Added:   2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestRecentOrderAndLimit(t *testing.T) {
	s := openStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.Record(Run{
			Tool:      "compare",
			InputA:    "a.dxf",
			InputB:    "b.dxf",
			Matched:   i,
			Duration:  time.Duration(i) * time.Second,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	runs, err := s.Recent(3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, 4, runs[0].Matched, "newest first")
	assert.Equal(t, 2, runs[2].Matched)
	assert.Equal(t, 4*time.Second, runs[0].Duration)

	all, err := s.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 5, "non-positive limit falls back to the default")
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.Record(Run{Tool: "label-diff", InputA: "a.dxf"})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.Recent(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, "label-diff", runs[0].Tool)
}
