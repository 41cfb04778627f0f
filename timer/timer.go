// Package timer contains the domain logic for interval timers: authored
// instructions, the expander that flattens them, and the Runner countdown
// state machine.
//
// Maintenance notes:
//   - Runner has no goroutines of its own. control.Loop is the only caller
//     of Tick/Start/Stop/PatchCurrent in the application, which keeps ticks
//     and commands serialized. The mutex only protects Snapshot readers.
//   - The cue fires exactly once per step boundary and its error is logged
//     and dropped; a broken speaker must never stall the countdown.
package timer

import (
	"errors"
	"log/slog"
	"sync"
)

// Cue is the side effect fired at each step boundary.
type Cue interface {
	PlayCue(step int, last bool) error
}

// RunState defines the possible states of a Runner.
type RunState int

const (
	StateIdle RunState = iota
	StateRunning
	StateFinished
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

var (
	ErrEmptySequence  = errors.New("sequence is empty")
	ErrAlreadyRunning = errors.New("runner is already running")
	ErrNotRunning     = errors.New("runner is not running")
)

// Runner counts down a flat sequence one tick at a time.
type Runner struct {
	mu        sync.RWMutex
	state     RunState
	seq       []int
	index     int
	remaining int

	logger *slog.Logger
}

// NewRunner creates an idle runner. A nil logger uses slog.Default.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Start begins counting down seq. The runner keeps its own copy.
func (r *Runner) Start(seq []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRunning {
		return ErrAlreadyRunning
	}
	if len(seq) == 0 {
		return ErrEmptySequence
	}
	r.seq = append([]int(nil), seq...)
	r.index = 0
	r.remaining = r.seq[0]
	r.state = StateRunning
	return nil
}

// Stop returns a running runner to idle.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRunning {
		r.state = StateIdle
	}
}

// Tick processes one second of time passing. At zero it fires the cue and
// moves to the next step, or to StateFinished after the last one.
func (r *Runner) Tick(cue Cue) Snapshot {
	r.mu.Lock()
	if r.state != StateRunning {
		snap := r.snapshotLocked()
		r.mu.Unlock()
		return snap
	}

	if r.remaining > 0 {
		r.remaining--
		snap := r.snapshotLocked()
		r.mu.Unlock()
		return snap
	}

	step := r.index
	last := r.index+1 >= len(r.seq)
	if last {
		r.state = StateFinished
		r.index = len(r.seq)
		r.remaining = 0
	} else {
		r.index++
		r.remaining = r.seq[r.index]
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()

	if cue != nil {
		if err := cue.PlayCue(step, last); err != nil {
			r.logger.Warn("cue failed", "step", step, "error", err)
		}
	}
	return snap
}

// PatchCurrent overwrites the current step's duration and restarts its
// countdown.
func (r *Runner) PatchCurrent(seconds int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning {
		return ErrNotRunning
	}
	if seconds <= 0 {
		return ErrInvalidDuration
	}
	r.seq[r.index] = seconds
	r.remaining = seconds
	return nil
}

// State returns the current state in a thread-safe manner.
func (r *Runner) State() RunState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Snapshot is a consistent copy of the runner's fields for display.
type Snapshot struct {
	State     RunState
	Index     int
	Remaining int
	Total     int
	Sequence  []int
}

// Current is the 1-based step number for display, capped at Total.
func (s Snapshot) Current() int {
	if s.Index >= s.Total {
		return s.Total
	}
	return s.Index + 1
}

// RemainingTotal is the time left in the current step plus all later ones.
func (s Snapshot) RemainingTotal() int {
	if s.State != StateRunning {
		return 0
	}
	total := s.Remaining
	for i := s.Index + 1; i < len(s.Sequence); i++ {
		total += s.Sequence[i]
	}
	return total
}

// Snapshot returns a consistent snapshot of the runner.
func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Runner) snapshotLocked() Snapshot {
	return Snapshot{
		State:     r.state,
		Index:     r.index,
		Remaining: r.remaining,
		Total:     len(r.seq),
		Sequence:  append([]int(nil), r.seq...),
	}
}
