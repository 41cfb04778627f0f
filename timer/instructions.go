package timer

import (
	"errors"
	"strconv"
	"sync"
)

// Kind tells the two instruction variants apart.
type Kind int

const (
	KindWait Kind = iota
	KindRepeat
)

func (k Kind) String() string {
	switch k {
	case KindWait:
		return "wait"
	case KindRepeat:
		return "repeat"
	}
	return "unknown"
}

// Instruction is one authored step: wait Seconds, or repeat everything
// expanded so far Times more times.
type Instruction struct {
	ID      int
	Kind    Kind
	Seconds int
	Times   int
}

// Wait builds a wait instruction without an identifier.
func Wait(seconds int) Instruction {
	return Instruction{Kind: KindWait, Seconds: seconds}
}

// Repeat builds a repeat instruction without an identifier.
func Repeat(times int) Instruction {
	return Instruction{Kind: KindRepeat, Times: times}
}

// Value returns the editable payload as the user would type it.
func (in Instruction) Value() string {
	if in.Kind == KindRepeat {
		return strconv.Itoa(in.Times)
	}
	return FormatTime(in.Seconds)
}

// Valid reports whether the payload is positive.
func (in Instruction) Valid() bool {
	switch in.Kind {
	case KindWait:
		return in.Seconds > 0
	case KindRepeat:
		return in.Times > 0
	}
	return false
}

var (
	ErrInvalidDuration = errors.New("duration must be a positive time")
	ErrInvalidCount    = errors.New("repeat count must be a positive integer")
	ErrNoWait          = errors.New("repeat needs at least one wait before it")
	ErrNotFound        = errors.New("instruction not found")
	ErrEditInProgress  = errors.New("another edit is in progress")
	ErrNotEditing      = errors.New("instruction is not being edited")
)

// EditState is the state of the list's single edit slot.
type EditState int

const (
	EditIdle EditState = iota
	EditEditing
)

// InstructionList is the authored, ordered list of instructions. Failed
// operations return an error and leave the list untouched.
type InstructionList struct {
	mu      sync.Mutex
	items   []Instruction
	nextID  int
	edit    EditState
	editing int
}

// NewInstructionList returns an empty list whose identifiers start at 1.
func NewInstructionList() *InstructionList {
	return &InstructionList{nextID: 1}
}

// AddWait parses input with ParseTimeInput and appends a wait.
func (l *InstructionList) AddWait(input string) (Instruction, error) {
	sec, err := ParseTimeInput(input)
	if err != nil || sec <= 0 {
		return Instruction{}, ErrInvalidDuration
	}
	return l.append(Wait(sec)), nil
}

// AddRepeat appends a repeat of count. It is rejected while the list
// holds no wait.
func (l *InstructionList) AddRepeat(input string) (Instruction, error) {
	n, err := parseCount(input)
	if err != nil || n <= 0 {
		return Instruction{}, ErrInvalidCount
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.hasWaitLocked() {
		return Instruction{}, ErrNoWait
	}
	return l.appendLocked(Repeat(n)), nil
}

func (l *InstructionList) append(in Instruction) Instruction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(in)
}

func (l *InstructionList) appendLocked(in Instruction) Instruction {
	in.ID = l.nextID
	l.nextID++
	l.items = append(l.items, in)
	return in
}

func (l *InstructionList) hasWaitLocked() bool {
	for _, in := range l.items {
		if in.Kind == KindWait {
			return true
		}
	}
	return false
}

func (l *InstructionList) indexLocked(id int) int {
	for i, in := range l.items {
		if in.ID == id {
			return i
		}
	}
	return -1
}

// ProposeEdit opens the edit slot for id and returns its current value.
func (l *InstructionList) ProposeEdit(id int) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.edit == EditEditing {
		return "", ErrEditInProgress
	}
	i := l.indexLocked(id)
	if i < 0 {
		return "", ErrNotFound
	}
	l.edit = EditEditing
	l.editing = id
	return l.items[i].Value(), nil
}

// ApplyEdit answers the open edit for id. The slot is released whether or
// not input was accepted.
func (l *InstructionList) ApplyEdit(id int, input string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.edit != EditEditing || l.editing != id {
		return ErrNotEditing
	}
	l.edit = EditIdle
	l.editing = 0
	return l.replaceLocked(id, input)
}

// CancelEdit releases the edit slot without changing anything.
func (l *InstructionList) CancelEdit() {
	l.mu.Lock()
	l.edit = EditIdle
	l.editing = 0
	l.mu.Unlock()
}

// EditInstruction proposes and applies an edit in one call.
func (l *InstructionList) EditInstruction(id int, input string) error {
	if _, err := l.ProposeEdit(id); err != nil {
		return err
	}
	return l.ApplyEdit(id, input)
}

// EditState returns the edit slot state and the id being edited.
func (l *InstructionList) EditState() (EditState, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.edit, l.editing
}

func (l *InstructionList) replaceLocked(id int, input string) error {
	i := l.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	in := l.items[i]
	switch in.Kind {
	case KindWait:
		sec, err := ParseTimeInput(input)
		if err != nil || sec <= 0 {
			return ErrInvalidDuration
		}
		in.Seconds = sec
	case KindRepeat:
		n, err := parseCount(input)
		if err != nil || n <= 0 {
			return ErrInvalidCount
		}
		in.Times = n
	}
	l.items[i] = in
	return nil
}

// Delete removes the instruction with id, if present.
func (l *InstructionList) Delete(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	if l.edit == EditEditing && l.editing == id {
		l.edit = EditIdle
		l.editing = 0
	}
}

// Clear empties the list. Identifiers keep counting up.
func (l *InstructionList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.edit = EditIdle
	l.editing = 0
}

// Replace swaps in a whole list, e.g. a saved timer. Missing identifiers
// are assigned and the counter continues after the largest one.
func (l *InstructionList) Replace(items []Instruction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := 1
	for _, in := range items {
		if in.ID >= next {
			next = in.ID + 1
		}
	}
	l.items = make([]Instruction, 0, len(items))
	for _, in := range items {
		if in.ID <= 0 {
			in.ID = next
			next++
		}
		l.items = append(l.items, in)
	}
	if next > l.nextID {
		l.nextID = next
	}
	l.edit = EditIdle
	l.editing = 0
}

// Instructions returns a copy of the current list.
func (l *InstructionList) Instructions() []Instruction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Instruction, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of instructions.
func (l *InstructionList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Sequence expands the current list.
func (l *InstructionList) Sequence() []int {
	return Expand(l.Instructions())
}
