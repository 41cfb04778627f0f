package timer

import (
	"fmt"
	"strings"
)

// Expand flattens instructions into wait durations. A Repeat(k) appends
// the prefix built so far k more times, so the prefix appears k+1 times.
func Expand(instructions []Instruction) []int {
	seq := make([]int, 0, len(instructions))
	for _, in := range instructions {
		switch in.Kind {
		case KindWait:
			seq = append(seq, in.Seconds)
		case KindRepeat:
			prefix := make([]int, len(seq))
			copy(prefix, seq)
			for i := 0; i < in.Times; i++ {
				seq = append(seq, prefix...)
			}
		}
	}
	return seq
}

// TotalSeconds sums a flat sequence.
func TotalSeconds(seq []int) int {
	total := 0
	for _, s := range seq {
		total += s
	}
	return total
}

// ParseSteps builds an instruction list from command line tokens. Times
// ("30", "1:30") become waits; "x3" or "r3" become repeats. Commas split
// tokens too, so "30,x2" works as a single argument.
func ParseSteps(args []string) (*InstructionList, error) {
	l := NewInstructionList()
	for _, arg := range args {
		for _, tok := range strings.Split(arg, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			lower := strings.ToLower(tok)
			if strings.HasPrefix(lower, "x") || strings.HasPrefix(lower, "r") {
				if _, err := l.AddRepeat(lower[1:]); err != nil {
					return nil, fmt.Errorf("step %q: %w", tok, err)
				}
				continue
			}
			if _, err := l.AddWait(tok); err != nil {
				return nil, fmt.Errorf("step %q: %w", tok, err)
			}
		}
	}
	return l, nil
}

// Describe renders instructions in the same token form ParseSteps reads.
func Describe(instructions []Instruction) string {
	parts := make([]string, 0, len(instructions))
	for _, in := range instructions {
		switch in.Kind {
		case KindWait:
			parts = append(parts, FormatClock(in.Seconds))
		case KindRepeat:
			parts = append(parts, fmt.Sprintf("x%d", in.Times))
		}
	}
	return strings.Join(parts, " ")
}
