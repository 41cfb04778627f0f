package control

import (
	"IntervalTimers/timer"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrBusy   = errors.New("command queue is full")
	ErrClosed = errors.New("run loop has stopped")
)

// enqueueTimeout bounds how long a caller waits for room in the queue.
const enqueueTimeout = 150 * time.Millisecond

// Ticker is the tick source used while a run is active.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type secondTicker struct{ t *time.Ticker }

func (s secondTicker) C() <-chan time.Time { return s.t.C }
func (s secondTicker) Stop()               { s.t.Stop() }

// NewSecondTicker is the production tick source.
func NewSecondTicker() Ticker {
	return secondTicker{t: time.NewTicker(time.Second)}
}

// Option configures a Loop.
type Option func(*Loop)

// WithTicker replaces the one-second ticker, mainly for tests.
func WithTicker(newTicker func() Ticker) Option {
	return func(l *Loop) { l.newTicker = newTicker }
}

// WithLogger sets the logger used by the loop and its runner.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// Loop owns a timer.Runner and is the only goroutine that mutates it.
// The ticker only exists while the runner is running.
type Loop struct {
	runner    *timer.Runner
	cue       timer.Cue
	newTicker func() Ticker
	logger    *slog.Logger

	cmdCh chan Command
	done  chan struct{}

	obsMu     sync.Mutex
	observers []func(timer.Snapshot)
}

// NewLoop creates a loop that fires cue at every step boundary. Call Run
// to start processing.
func NewLoop(cue timer.Cue, opts ...Option) *Loop {
	l := &Loop{
		cue:       cue,
		newTicker: NewSecondTicker,
		logger:    slog.Default(),
		cmdCh:     make(chan Command, 16),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.runner = timer.NewRunner(l.logger)
	return l
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the loop goroutine and must not block for long.
func (l *Loop) Subscribe(fn func(timer.Snapshot)) {
	l.obsMu.Lock()
	l.observers = append(l.observers, fn)
	l.obsMu.Unlock()
}

func (l *Loop) publish(s timer.Snapshot) {
	l.obsMu.Lock()
	obs := make([]func(timer.Snapshot), len(l.observers))
	copy(obs, l.observers)
	l.obsMu.Unlock()

	for _, fn := range obs {
		fn(s)
	}
}

// Snapshot returns the runner's current state.
func (l *Loop) Snapshot() timer.Snapshot {
	return l.runner.Snapshot()
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run processes commands and ticks until ctx is cancelled. Any active run
// is stopped and the ticker released before it returns.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	var (
		tk    Ticker
		tickC <-chan time.Time
	)
	stopTicker := func() {
		if tk != nil {
			tk.Stop()
			tk = nil
			tickC = nil
		}
	}
	defer stopTicker()

	for {
		select {
		case <-ctx.Done():
			stopTicker()
			if l.runner.State() == timer.StateRunning {
				l.runner.Stop()
				l.publish(l.runner.Snapshot())
			}
			return

		case cmd := <-l.cmdCh:
			err := l.apply(cmd)
			if err == nil {
				switch cmd.Type {
				case CmdStart:
					stopTicker()
					tk = l.newTicker()
					tickC = tk.C()
				case CmdStop:
					stopTicker()
				}
			} else {
				l.logger.Debug("command rejected", "command", cmd.Type.String(), "error", err)
			}
			// Reply first: the caller may be the goroutine an observer hands
			// snapshots to.
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- err:
				default:
				}
			}
			if err == nil {
				l.publish(l.runner.Snapshot())
			}

		case <-tickC:
			snap := l.runner.Tick(l.cue)
			if snap.State != timer.StateRunning {
				stopTicker()
				l.logger.Info("run finished", "steps", snap.Total)
			}
			l.publish(snap)
		}
	}
}

func (l *Loop) apply(cmd Command) error {
	switch cmd.Type {
	case CmdStart:
		if err := l.runner.Start(cmd.Sequence); err != nil {
			return err
		}
		l.logger.Info("run started", "steps", len(cmd.Sequence), "seconds", timer.TotalSeconds(cmd.Sequence))
		return nil
	case CmdStop:
		if l.runner.State() != timer.StateRunning {
			return timer.ErrNotRunning
		}
		l.runner.Stop()
		l.logger.Info("run stopped")
		return nil
	case CmdPatch:
		return l.runner.PatchCurrent(cmd.Seconds)
	}
	return errors.New("unknown command")
}

// Enqueue posts a command without blocking the caller indefinitely. If the
// queue stays full for a short while the command is dropped.
func (l *Loop) Enqueue(cmd Command) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}

	select {
	case l.cmdCh <- cmd:
		return nil
	case <-l.done:
		return ErrClosed
	case <-time.After(enqueueTimeout):
		l.logger.Warn("dropping command, queue full", "command", cmd.Type.String())
		return ErrBusy
	}
}

func (l *Loop) send(cmd Command) error {
	cmd.Reply = make(chan error, 1)
	if err := l.Enqueue(cmd); err != nil {
		return err
	}
	select {
	case err := <-cmd.Reply:
		return err
	case <-l.done:
		select {
		case err := <-cmd.Reply:
			return err
		default:
			return ErrClosed
		}
	}
}

// Start begins a run of seq and waits until the loop has applied it.
func (l *Loop) Start(seq []int) error {
	return l.send(Command{Type: CmdStart, Sequence: seq})
}

// Stop ends the active run. Once it returns no further tick is applied.
func (l *Loop) Stop() error {
	return l.send(Command{Type: CmdStop})
}

// Patch overwrites the current step's duration.
func (l *Loop) Patch(seconds int) error {
	return l.send(Command{Type: CmdPatch, Seconds: seconds})
}
