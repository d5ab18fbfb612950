package searchstate

import "github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"

// Event is an input of the state machine.
type Event interface {
	isEvent()
}

// QueryChanged is a keystroke.
type QueryChanged struct{ Text string }

// Submitted sets the query and searches without waiting for the debounce.
type Submitted struct{ Text string }

// TimerFired is the end of the debounce window scheduled as Seq for Text.
type TimerFired struct {
	Text string
	Seq  uint64
}

// CategoryChanged selects another facet.
type CategoryChanged struct{ Category searchapi.Category }

// LoadMoreRequested asks for the next page.
type LoadMoreRequested struct{}

// RefreshRequested re-runs the current search from page 1.
type RefreshRequested struct{}

// Cleared resets the query and results.
type Cleared struct{}

// ResponseReceived carries the page answering the request Token.
type ResponseReceived struct {
	Token uint64
	Page  *searchapi.Page
}

// ResponseFailed carries the error of the request Token.
type ResponseFailed struct {
	Token uint64
	Err   error
}

// Disposed is terminal. Every later event is ignored.
type Disposed struct{}

func (QueryChanged) isEvent()      {}
func (Submitted) isEvent()         {}
func (TimerFired) isEvent()        {}
func (CategoryChanged) isEvent()   {}
func (LoadMoreRequested) isEvent() {}
func (RefreshRequested) isEvent()  {}
func (Cleared) isEvent()           {}
func (ResponseReceived) isEvent()  {}
func (ResponseFailed) isEvent()    {}
func (Disposed) isEvent()          {}

// Effect is work the reducer asks the runtime to perform.
type Effect interface {
	isEffect()
}

// ScheduleDebounce (re)starts the debounce timer for Text. Seq identifies
// this window; only the TimerFired carrying the latest Seq is acted on.
type ScheduleDebounce struct {
	Text string
	Seq  uint64
}

// CancelDebounce stops the debounce timer.
type CancelDebounce struct{}

// Fetch issues Request.
type Fetch struct{ Request Request }

// CancelFetch aborts the in-flight request.
type CancelFetch struct{}

// RecordHistory adds Query to the recent searches.
type RecordHistory struct{ Query string }

func (ScheduleDebounce) isEffect() {}
func (CancelDebounce) isEffect()   {}
func (Fetch) isEffect()            {}
func (CancelFetch) isEffect()      {}
func (RecordHistory) isEffect()    {}
