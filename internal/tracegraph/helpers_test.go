package tracegraph

import "github.com/moolen/eventmodel/internal/event"

func newEvent(label string) event.Event {
	return event.Event{Type: event.New(label)}
}
