package hooks

// EventKind distinguishes the two points reported per hook
type EventKind string

const (
	EventStarted EventKind = "started"
	EventDone    EventKind = "done"
)

// Event is streamed while hooks run. Done events carry the outcome.
type Event struct {
	Kind    EventKind
	Key     string
	Outcome *Outcome
}
