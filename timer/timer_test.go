package timer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCue struct {
	steps []int
	last  []bool
	err   error
}

func (c *recordingCue) PlayCue(step int, last bool) error {
	c.steps = append(c.steps, step)
	c.last = append(c.last, last)
	return c.err
}

type pair struct{ index, remaining int }

func TestRunner_StartRejectsEmpty(t *testing.T) {
	r := NewRunner(nil)
	assert.ErrorIs(t, r.Start(nil), ErrEmptySequence)
	assert.ErrorIs(t, r.Start(Expand(nil)), ErrEmptySequence)
	assert.Equal(t, StateIdle, r.State())
}

func TestRunner_TickSequence(t *testing.T) {
	r := NewRunner(nil)
	cue := &recordingCue{}
	require.NoError(t, r.Start([]int{2, 1}))

	s := r.Snapshot()
	got := []pair{{s.Index, s.Remaining}}
	for i := 0; i < 4; i++ {
		s = r.Tick(cue)
		require.Equal(t, StateRunning, s.State)
		got = append(got, pair{s.Index, s.Remaining})
	}
	s = r.Tick(cue)

	assert.Equal(t, []pair{{0, 2}, {0, 1}, {0, 0}, {1, 1}, {1, 0}}, got)
	assert.Equal(t, StateFinished, s.State)
	assert.Equal(t, []int{0, 1}, cue.steps)
	assert.Equal(t, []bool{false, true}, cue.last)

	r.Tick(cue)
	assert.Len(t, cue.steps, 2, "no cue after finishing")
}

func TestRunner_StopHaltsTransitions(t *testing.T) {
	r := NewRunner(nil)
	cue := &recordingCue{}
	require.NoError(t, r.Start([]int{1, 1}))
	r.Tick(cue)

	r.Stop()
	before := r.Snapshot()
	for i := 0; i < 5; i++ {
		r.Tick(cue)
	}

	assert.Equal(t, before, r.Snapshot())
	assert.Equal(t, StateIdle, r.State())
	assert.Empty(t, cue.steps)
}

func TestRunner_CueErrorDoesNotHalt(t *testing.T) {
	r := NewRunner(nil)
	cue := &recordingCue{err: errors.New("no audio device")}
	require.NoError(t, r.Start([]int{0, 0}))

	r.Tick(cue)
	s := r.Tick(cue)

	assert.Equal(t, StateFinished, s.State)
	assert.Len(t, cue.steps, 2)
}

func TestRunner_PatchCurrent(t *testing.T) {
	r := NewRunner(nil)
	assert.ErrorIs(t, r.PatchCurrent(5), ErrNotRunning)

	seq := []int{3, 4}
	require.NoError(t, r.Start(seq))
	r.Tick(nil)

	assert.ErrorIs(t, r.PatchCurrent(0), ErrInvalidDuration)
	require.NoError(t, r.PatchCurrent(10))

	s := r.Snapshot()
	assert.Equal(t, 10, s.Remaining)
	assert.Equal(t, []int{10, 4}, s.Sequence)
	assert.Equal(t, []int{3, 4}, seq, "caller's sequence is not patched")
}

func TestRunner_StartTwice(t *testing.T) {
	r := NewRunner(nil)
	require.NoError(t, r.Start([]int{1}))
	assert.ErrorIs(t, r.Start([]int{5}), ErrAlreadyRunning)

	r.Tick(nil)
	r.Tick(nil)
	require.Equal(t, StateFinished, r.State())
	assert.NoError(t, r.Start([]int{5}), "a finished runner can start again")
}

func TestSnapshot_Helpers(t *testing.T) {
	s := Snapshot{State: StateRunning, Index: 1, Remaining: 3, Total: 3, Sequence: []int{5, 6, 7}}
	assert.Equal(t, 2, s.Current())
	assert.Equal(t, 10, s.RemainingTotal())

	s = Snapshot{State: StateFinished, Index: 3, Total: 3}
	assert.Equal(t, 3, s.Current())
	assert.Equal(t, 0, s.RemainingTotal())
}
