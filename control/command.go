// Package control defines lightweight command messages used by the UI and
// the CLI to drive a run, and the Loop that applies them. The loop
// centralizes every runner mutation, ticks included, on one goroutine.
package control

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdStart CommandType = iota
	CmdStop
	CmdPatch
)

func (c CommandType) String() string {
	switch c {
	case CmdStart:
		return "start"
	case CmdStop:
		return "stop"
	case CmdPatch:
		return "patch"
	}
	return "unknown"
}

// Command is the message sent to Loop.Run. The optional Reply channel
// receives the outcome once the command has been applied.
type Command struct {
	Type     CommandType
	Sequence []int // CmdStart
	Seconds  int   // CmdPatch
	Reply    chan error
}
