package driver

import "time"

// Stage is the step a package is in.
type Stage uint8

const (
	StageLoad Stage = iota + 1
	StageIndex
	StageCheck
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "loading"
	case StageIndex:
		return "indexing"
	case StageCheck:
		return "checking"
	}
	return ""
}

// Status of a package within its stage.
type Status uint8

const (
	StatusQueued Status = iota + 1
	StatusWorking
	StatusDone
	StatusError
)

// Event reports progress. Package is empty for run-wide stage changes.
type Event struct {
	Package string
	Stage   Stage
	Status  Status
	Issues  int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events; it must not block for long.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events to a channel.
type ChannelSink chan<- Event

func (s ChannelSink) OnEvent(ev Event) { s <- ev }

func emit(p ProgressSink, ev Event) {
	if p != nil {
		p.OnEvent(ev)
	}
}
