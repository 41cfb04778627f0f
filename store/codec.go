package store

import (
	"IntervalTimers/timer"
	"encoding/json"
	"fmt"
)

// Wire types for the savedTimers slot:
//
//	[{"id":1,"name":"x","instructions":[{"id":1,"type":"time","time":30},{"id":2,"type":"repeat","times":2}]}]
type savedTimerJSON struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Instructions []instructionJSON `json:"instructions"`
}

type instructionJSON struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Time  *int   `json:"time,omitempty"`
	Times *int   `json:"times,omitempty"`
}

const (
	typeTime   = "time"
	typeRepeat = "repeat"
)

func encodeTimers(timers []SavedTimer) (string, error) {
	out := make([]savedTimerJSON, 0, len(timers))
	for _, t := range timers {
		st := savedTimerJSON{ID: t.ID, Name: t.Name, Instructions: make([]instructionJSON, 0, len(t.Instructions))}
		for _, in := range t.Instructions {
			ij := instructionJSON{ID: in.ID}
			switch in.Kind {
			case timer.KindWait:
				sec := in.Seconds
				ij.Type, ij.Time = typeTime, &sec
			case timer.KindRepeat:
				n := in.Times
				ij.Type, ij.Times = typeRepeat, &n
			}
			st.Instructions = append(st.Instructions, ij)
		}
		out = append(out, st)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeTimers(raw string) ([]SavedTimer, error) {
	var in []savedTimerJSON
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, err
	}

	timers := make([]SavedTimer, 0, len(in))
	for _, st := range in {
		t := SavedTimer{ID: st.ID, Name: st.Name}
		seenWait := false
		for _, ij := range st.Instructions {
			var in timer.Instruction
			switch ij.Type {
			case typeTime:
				if ij.Time == nil {
					return nil, fmt.Errorf("timer %d: instruction %d has no time", st.ID, ij.ID)
				}
				in = timer.Instruction{ID: ij.ID, Kind: timer.KindWait, Seconds: *ij.Time}
				seenWait = true
			case typeRepeat:
				if ij.Times == nil {
					return nil, fmt.Errorf("timer %d: instruction %d has no times", st.ID, ij.ID)
				}
				if !seenWait {
					return nil, fmt.Errorf("timer %d: instruction %d: %w", st.ID, ij.ID, timer.ErrNoWait)
				}
				in = timer.Instruction{ID: ij.ID, Kind: timer.KindRepeat, Times: *ij.Times}
			default:
				return nil, fmt.Errorf("timer %d: unknown instruction type %q", st.ID, ij.Type)
			}
			if !in.Valid() {
				return nil, fmt.Errorf("timer %d: instruction %d has a non-positive %s", st.ID, ij.ID, in.Kind)
			}
			t.Instructions = append(t.Instructions, in)
		}
		timers = append(timers, t)
	}
	return timers, nil
}
