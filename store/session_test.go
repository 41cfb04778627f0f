package store

import (
	"IntervalTimers/timer"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func openSession(t *testing.T, st Store) *Session {
	t.Helper()
	s, err := Open(context.Background(), st, nil)
	require.NoError(t, err)
	return s
}

func tabata() []timer.Instruction {
	return []timer.Instruction{
		{ID: 1, Kind: timer.KindWait, Seconds: 20},
		{ID: 2, Kind: timer.KindWait, Seconds: 10},
		{ID: 3, Kind: timer.KindRepeat, Times: 7},
	}
}

func TestSQLiteStore_GetPut(t *testing.T) {
	ctx := context.Background()
	st := setupStore(t)

	_, ok, err := st.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Put(ctx, "k", "one"))
	require.NoError(t, st.Put(ctx, "k", "two"))

	v, ok, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestSession_SaveAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "timers.db")
	st, err := OpenSQLite(path)
	require.NoError(t, err)

	s := openSession(t, st)
	saved, err := s.Save(ctx, "  Tabata ", tabata())
	require.NoError(t, err)
	assert.Equal(t, 1, saved.ID)
	assert.Equal(t, "Tabata", saved.Name)

	second, err := s.Save(ctx, "Short", []timer.Instruction{timer.Wait(5)})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
	require.NoError(t, st.Close())

	st, err = OpenSQLite(path)
	require.NoError(t, err)
	defer st.Close()
	reopened := openSession(t, st)

	timers := reopened.SavedTimers()
	require.Len(t, timers, 2)
	assert.Equal(t, tabata(), timers[0].Instructions)

	third, err := reopened.Save(ctx, "Next", []timer.Instruction{timer.Wait(1)})
	require.NoError(t, err)
	assert.Equal(t, 3, third.ID, "counter resumes after the largest stored id")
}

func TestSession_WireFormat(t *testing.T) {
	ctx := context.Background()
	st := setupStore(t)
	s := openSession(t, st)

	_, err := s.Save(ctx, "x", []timer.Instruction{
		{ID: 1, Kind: timer.KindWait, Seconds: 30},
		{ID: 2, Kind: timer.KindRepeat, Times: 2},
	})
	require.NoError(t, err)

	raw, ok, err := st.Get(ctx, SavedTimersKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t,
		`[{"id":1,"name":"x","instructions":[{"id":1,"type":"time","time":30},{"id":2,"type":"repeat","times":2}]}]`,
		raw)
}

func TestSession_CorruptSlotIsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{
		`{not json`,
		`[{"id":1,"name":"x","instructions":[{"id":1,"type":"sleep"}]}]`,
		`[{"id":1,"name":"x","instructions":[{"id":1,"type":"time","time":0}]}]`,
		`[{"id":1,"name":"x","instructions":[{"id":1,"type":"time","time":5},{"id":2,"type":"repeat","times":-1}]}]`,
		`[{"id":1,"name":"x","instructions":[{"id":1,"type":"repeat","times":2},{"id":2,"type":"time","time":5}]}]`,
	} {
		st := setupStore(t)
		require.NoError(t, st.Put(ctx, SavedTimersKey, raw))

		s := openSession(t, st)
		assert.Empty(t, s.SavedTimers())

		saved, err := s.Save(ctx, "fresh", []timer.Instruction{timer.Wait(3)})
		require.NoError(t, err)
		assert.Equal(t, 1, saved.ID)
	}
}

func TestDecodeTimers_RejectsInvalidInstructions(t *testing.T) {
	tests := map[string]string{
		"zero time":      `[{"id":1,"name":"x","instructions":[{"id":1,"type":"time","time":0}]}]`,
		"negative time":  `[{"id":1,"name":"x","instructions":[{"id":1,"type":"time","time":-3}]}]`,
		"zero times":     `[{"id":1,"name":"x","instructions":[{"id":1,"type":"time","time":5},{"id":2,"type":"repeat","times":0}]}]`,
		"leading repeat": `[{"id":1,"name":"x","instructions":[{"id":1,"type":"repeat","times":2},{"id":2,"type":"time","time":5}]}]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := decodeTimers(raw)
			assert.Error(t, err)
		})
	}

	_, err := decodeTimers(`[{"id":1,"name":"x","instructions":[{"id":1,"type":"repeat","times":2}]}]`)
	assert.ErrorIs(t, err, timer.ErrNoWait)

	timers, err := decodeTimers(`[{"id":1,"name":"x","instructions":[]}]`)
	require.NoError(t, err)
	assert.Len(t, timers, 1)
}

func TestSession_RenameUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, setupStore(t))
	saved, err := s.Save(ctx, "Tabata", tabata())
	require.NoError(t, err)

	require.NoError(t, s.Rename(ctx, saved.ID, "Tabata x8"))
	assert.ErrorIs(t, s.Rename(ctx, saved.ID, "   "), ErrEmptyName)
	assert.ErrorIs(t, s.Rename(ctx, 99, "nope"), ErrTimerNotFound)

	require.NoError(t, s.Update(ctx, saved.ID, []timer.Instruction{timer.Wait(60)}))
	assert.ErrorIs(t, s.Update(ctx, saved.ID, nil), ErrNoSteps)

	got, ok := s.Find(saved.ID)
	require.True(t, ok)
	assert.Equal(t, "Tabata x8", got.Name)
	assert.Equal(t, []int{60}, timer.Expand(got.Instructions))

	require.NoError(t, s.Delete(ctx, saved.ID))
	assert.ErrorIs(t, s.Delete(ctx, saved.ID), ErrTimerNotFound)
	assert.Empty(t, s.SavedTimers())
}

func TestSession_BuilderRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, setupStore(t))

	b := s.Builder()
	_, err := b.AddWait("45")
	require.NoError(t, err)
	_, err = b.AddRepeat("1")
	require.NoError(t, err)

	saved, err := s.SaveCurrent(ctx, "Builder")
	require.NoError(t, err)

	b.Clear()
	_, err = s.SaveCurrent(ctx, "Empty")
	assert.ErrorIs(t, err, ErrNoSteps)

	require.NoError(t, s.LoadIntoBuilder(saved.ID))
	assert.Equal(t, []int{45, 45}, b.Sequence())

	_, err = b.AddWait("10")
	require.NoError(t, err)
	require.NoError(t, s.UpdateFromCurrent(ctx, saved.ID))

	got, _ := s.Find(saved.ID)
	assert.Equal(t, []int{45, 45, 10}, timer.Expand(got.Instructions))
	assert.ErrorIs(t, s.LoadIntoBuilder(42), ErrTimerNotFound)
}

func TestSession_Resolve(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, setupStore(t))
	a, _ := s.Save(ctx, "Morning", []timer.Instruction{timer.Wait(1)})
	b, _ := s.Save(ctx, "2", []timer.Instruction{timer.Wait(2)})

	got, ok := s.Resolve("1")
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)

	got, ok = s.Resolve("morning")
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)

	got, ok = s.Resolve("2")
	require.True(t, ok)
	assert.Equal(t, b.ID, got.ID)

	_, ok = s.Resolve("evening")
	assert.False(t, ok)
}

type failingStore struct {
	Store
	fail bool
}

func (f *failingStore) Put(ctx context.Context, key, value string) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Store.Put(ctx, key, value)
}

func TestSession_FailedWriteKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{Store: setupStore(t)}
	s := openSession(t, st)

	saved, err := s.Save(ctx, "Keep", tabata())
	require.NoError(t, err)

	st.fail = true
	assert.Error(t, s.Rename(ctx, saved.ID, "Lost"))
	_, err = s.Save(ctx, "Lost", tabata())
	assert.Error(t, err)
	assert.Error(t, s.Delete(ctx, saved.ID))

	timers := s.SavedTimers()
	require.Len(t, timers, 1)
	assert.Equal(t, "Keep", timers[0].Name)

	st.fail = false
	next, err := s.Save(ctx, "After", tabata())
	require.NoError(t, err)
	assert.Equal(t, 2, next.ID, "failed save does not consume an id")
}

func TestSortedByName(t *testing.T) {
	in := []SavedTimer{{ID: 1, Name: "beta"}, {ID: 2, Name: "Alpha"}, {ID: 3, Name: "gamma"}}
	out := SortedByName(in)
	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, []string{out[0].Name, out[1].Name, out[2].Name})
	assert.Equal(t, "beta", in[0].Name)
}
