package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/foxerapp/foxer/internal/bus"
	"github.com/foxerapp/foxer/internal/persist"
	"github.com/foxerapp/foxer/internal/task"
)

// TestFullWorkflow exercises the complete task lifecycle against real
// persistence: add → edit → reorder → complete → flush → reload.
func TestFullWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	adapter, err := persist.Open(tmpDir)
	require.NoError(t, err)
	defer adapter.Close()

	events := bus.New()
	changed := events.Subscribe(TopicChanged)
	flusher := persist.NewFlusher(adapter, time.Hour) // flushed manually below

	s := New(flusher, events)
	s.Load(adapter)
	require.Empty(t, s.Active())

	// 1. Add three tasks.
	t1, err := s.Add("write report", "", due(time.Date(2025, 6, 16, 17, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	t2, err := s.Add("buy milk", "- oat\n- whole", due(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)
	t3, err := s.Add("call mom", "", due(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	// Prepend order: newest first.
	require.Equal(t, []string{t3.ID, t2.ID, t1.ID}, idsOf(s.Active()))

	// Change events went out for every mutation.
	require.Len(t, changed, 3)

	// 2. Rename and adjust the due date.
	require.NoError(t, s.UpdateTitle(t1.ID, "write Q2 report"))
	require.True(t, s.UpdateDueDate(t1.ID, 2025, time.June, 20))
	got, ok := s.Get(t1.ID)
	require.True(t, ok)
	require.Equal(t, "write Q2 report", got.Title)
	require.Equal(t, 17, got.Due.ParsedDate.Hour(), "time-of-day preserved")
	require.Equal(t, 20, got.Due.ParsedDate.Day())

	// 3. Group-drag {t3, t1} with anchor t3 onto t2.
	require.True(t, s.Reorder([]string{t3.ID, t1.ID}, t3.ID, t2.ID, false))
	require.Equal(t, []string{t2.ID, t3.ID, t1.ID}, idsOf(s.Active()))

	// 4. Complete two tasks; most recent completion first.
	require.True(t, s.SetCompleted(t2.ID, true))
	require.True(t, s.SetCompleted(t3.ID, true))
	require.Equal(t, []string{t3.ID, t2.ID}, idsOf(s.Completed()))

	// 5. Flush and reload through a fresh store.
	flusher.Flush()
	reloaded := New(nil, nil)
	reloaded.Load(adapter)
	require.Equal(t, idsOf(s.Active()), idsOf(reloaded.Active()))
	require.Equal(t, idsOf(s.Completed()), idsOf(reloaded.Completed()))
	rt2, ok := reloaded.Get(t2.ID)
	require.True(t, ok)
	require.True(t, rt2.Completed)
	require.Equal(t, "- oat\n- whole", rt2.Notes)
}

func TestExportImportRoundTrip(t *testing.T) {
	s := New(nil, nil)
	ids := seed(t, s, "a", "b", "c")
	s.SetCompleted(ids[1], true)

	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, s.Export(path))

	fresh := New(nil, nil)
	require.NoError(t, fresh.Import(path))
	require.Equal(t, idsOf(s.Active()), idsOf(fresh.Active()))
	require.Equal(t, idsOf(s.Completed()), idsOf(fresh.Completed()))

	got, ok := fresh.Get(ids[1])
	require.True(t, ok)
	require.True(t, got.Completed)
}

func TestImportMissingFile(t *testing.T) {
	s := New(nil, nil)
	require.Error(t, s.Import(filepath.Join(t.TempDir(), "nope.json")))
}

func idsOf(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
