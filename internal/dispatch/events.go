package dispatch

import (
	"time"

	"stockpilot/internal/contracts"
)

// Event is one job lifecycle transition, emitted as it happens.
type Event struct {
	Ticker string              `json:"ticker"`
	Status contracts.JobStatus `json:"status"`
	Err    string              `json:"error,omitempty"`
	Time   time.Time           `json:"time"`
}

// Observer receives job events. Emit must be safe for concurrent use;
// it is called from every worker goroutine.
type Observer interface {
	Emit(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) Emit(e Event) { f(e) }
