package store

import (
	"IntervalTimers/timer"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// SavedTimersKey is the slot holding the saved timer list.
const SavedTimersKey = "savedTimers"

var (
	ErrEmptyName     = errors.New("timer name must not be empty")
	ErrTimerNotFound = errors.New("saved timer not found")
	ErrNoSteps       = errors.New("timer has no instructions")
)

// SavedTimer is a named, persisted instruction set.
type SavedTimer struct {
	ID           int
	Name         string
	Instructions []timer.Instruction
}

// Session owns the working instruction list, the saved timer library and
// the identifier counters for both. Every library change rewrites the slot.
type Session struct {
	mu      sync.Mutex
	store   Store
	logger  *slog.Logger
	builder *timer.InstructionList
	timers  []SavedTimer
	nextID  int
}

// Open loads the saved timers from st. Unreadable data is logged and
// treated as an empty library.
func Open(ctx context.Context, st Store, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		store:   st,
		logger:  logger,
		builder: timer.NewInstructionList(),
		nextID:  1,
	}

	raw, ok, err := st.Get(ctx, SavedTimersKey)
	if err != nil {
		return nil, err
	}
	if ok {
		timers, err := decodeTimers(raw)
		if err != nil {
			logger.Warn("ignoring unreadable saved timers", "error", err)
		} else {
			s.timers = timers
		}
	}
	for _, t := range s.timers {
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	logger.Debug("session opened", "saved_timers", len(s.timers))
	return s, nil
}

// Builder returns the working instruction list.
func (s *Session) Builder() *timer.InstructionList {
	return s.builder
}

// SavedTimers returns a copy of the library in save order.
func (s *Session) SavedTimers() []SavedTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SavedTimer, len(s.timers))
	for i, t := range s.timers {
		out[i] = t.clone()
	}
	return out
}

// Find returns the saved timer with id.
func (s *Session) Find(id int) (SavedTimer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return SavedTimer{}, false
	}
	return s.timers[i].clone(), true
}

// FindByName returns the first saved timer whose name matches, ignoring case.
func (s *Session) FindByName(name string) (SavedTimer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name = strings.TrimSpace(name)
	for _, t := range s.timers {
		if strings.EqualFold(t.Name, name) {
			return t.clone(), true
		}
	}
	return SavedTimer{}, false
}

// Resolve looks up ref as an id first, then as a name.
func (s *Session) Resolve(ref string) (SavedTimer, bool) {
	if id, err := strconv.Atoi(ref); err == nil {
		if t, ok := s.Find(id); ok {
			return t, true
		}
	}
	return s.FindByName(ref)
}

// Save stores instructions under a new identifier.
func (s *Session) Save(ctx context.Context, name string, instructions []timer.Instruction) (SavedTimer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedTimer{}, ErrEmptyName
	}
	if len(instructions) == 0 {
		return SavedTimer{}, ErrNoSteps
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := SavedTimer{ID: s.nextID, Name: name, Instructions: cloneInstructions(instructions)}
	timers := append(cloneTimers(s.timers), t)
	if err := s.persistLocked(ctx, timers); err != nil {
		return SavedTimer{}, err
	}
	s.nextID++
	s.logger.Info("timer saved", "id", t.ID, "name", t.Name)
	return t.clone(), nil
}

// SaveCurrent saves the working instruction list.
func (s *Session) SaveCurrent(ctx context.Context, name string) (SavedTimer, error) {
	return s.Save(ctx, name, s.builder.Instructions())
}

// Update replaces the instructions of the saved timer with id.
func (s *Session) Update(ctx context.Context, id int, instructions []timer.Instruction) error {
	if len(instructions) == 0 {
		return ErrNoSteps
	}
	return s.mutate(ctx, id, func(t *SavedTimer) {
		t.Instructions = cloneInstructions(instructions)
	})
}

// UpdateFromCurrent overwrites the saved timer with the working list.
func (s *Session) UpdateFromCurrent(ctx context.Context, id int) error {
	return s.Update(ctx, id, s.builder.Instructions())
}

// Rename changes the name of the saved timer with id.
func (s *Session) Rename(ctx context.Context, id int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.mutate(ctx, id, func(t *SavedTimer) { t.Name = name })
}

// Delete removes the saved timer with id.
func (s *Session) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return ErrTimerNotFound
	}
	timers := cloneTimers(s.timers)
	timers = append(timers[:i], timers[i+1:]...)
	if err := s.persistLocked(ctx, timers); err != nil {
		return err
	}
	s.logger.Info("timer deleted", "id", id)
	return nil
}

// LoadIntoBuilder replaces the working list with the saved timer's steps.
func (s *Session) LoadIntoBuilder(id int) error {
	t, ok := s.Find(id)
	if !ok {
		return ErrTimerNotFound
	}
	s.builder.Replace(t.Instructions)
	return nil
}

func (s *Session) mutate(ctx context.Context, id int, fn func(*SavedTimer)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return ErrTimerNotFound
	}
	timers := cloneTimers(s.timers)
	fn(&timers[i])
	if err := s.persistLocked(ctx, timers); err != nil {
		return err
	}
	s.logger.Info("timer updated", "id", id)
	return nil
}

// persistLocked writes timers and only adopts them once the write succeeded.
func (s *Session) persistLocked(ctx context.Context, timers []SavedTimer) error {
	raw, err := encodeTimers(timers)
	if err != nil {
		return fmt.Errorf("failed to encode saved timers: %w", err)
	}
	if err := s.store.Put(ctx, SavedTimersKey, raw); err != nil {
		return err
	}
	s.timers = timers
	return nil
}

func (s *Session) indexLocked(id int) int {
	for i, t := range s.timers {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// SortedByName returns the library ordered by name, for listings.
func SortedByName(timers []SavedTimer) []SavedTimer {
	out := append([]SavedTimer(nil), timers...)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (t SavedTimer) clone() SavedTimer {
	t.Instructions = cloneInstructions(t.Instructions)
	return t
}

func cloneInstructions(in []timer.Instruction) []timer.Instruction {
	return append([]timer.Instruction(nil), in...)
}

func cloneTimers(in []SavedTimer) []SavedTimer {
	out := make([]SavedTimer, len(in))
	for i, t := range in {
		out[i] = t.clone()
	}
	return out
}
