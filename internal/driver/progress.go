package driver

import (
	"time"

	"humdrum/internal/hum"
)

// Status is the progress state of one file.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusInvalid Status = "invalid" // проанализирован, но есть ошибки
	StatusError   Status = "error"   // не удалось прочитать
)

// Event reports progress for File, or for the whole run when File is empty.
type Event struct {
	File    string
	Phase   hum.Phase
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be
// goroutine-safe: AnalyzeFiles reports from every worker.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into Ch.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

// SinkFunc adapts a function.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) { f(ev) }

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
