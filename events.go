package fileseq

import (
	"log/slog"
	"time"
)

// EventKind identifies the type of event emitted by a store.
type EventKind string

const (
	// EventOpened is emitted when a store finishes opening.
	EventOpened EventKind = "store.opened"

	// EventPersisted is emitted after a value is durably written.
	EventPersisted EventKind = "value.persisted"

	// EventHealed is emitted when a read finds the latest slot at or behind
	// the backup and falls back to the backup value.
	EventHealed EventKind = "slot.healed"

	// EventDiscarded is emitted when an unreadable latest slot file is removed.
	EventDiscarded EventKind = "slot.discarded"

	// EventCorrupted is emitted when neither slot holds a readable value.
	EventCorrupted EventKind = "store.corrupted"

	// EventDeleted is emitted when both slot files are removed by Delete.
	EventDeleted EventKind = "store.deleted"
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// Event is a structured record of what happened inside a store.
type Event struct {
	// Kind identifies the event type.
	Kind EventKind

	// Dir is the store directory the event belongs to.
	Dir string

	// Slot is the slot file the event refers to (empty for store-level events).
	Slot string

	// Value is the sequence value involved, when one applies.
	Value uint64

	// Time is when the event occurred.
	Time time.Time

	// Elapsed is the duration of the operation that produced the event.
	Elapsed time.Duration

	// Payload contains event-specific data.
	Payload map[string]any
}

// NewEvent creates a new event with the current timestamp.
func NewEvent(kind EventKind, dir string) Event {
	return Event{
		Kind:    kind,
		Dir:     dir,
		Time:    time.Now(),
		Payload: make(map[string]any),
	}
}

// WithSlot sets the slot file name on the event.
func (e Event) WithSlot(slot string) Event {
	e.Slot = slot
	return e
}

// WithValue sets the sequence value on the event.
func (e Event) WithValue(value uint64) Event {
	e.Value = value
	return e
}

// WithElapsed sets the elapsed duration on the event.
func (e Event) WithElapsed(elapsed time.Duration) Event {
	e.Elapsed = elapsed
	return e
}

// WithPayload adds a key-value pair to the event payload.
func (e Event) WithPayload(key string, value any) Event {
	if e.Payload == nil {
		e.Payload = make(map[string]any)
	}
	e.Payload[key] = value
	return e
}

// EventHandler is a function type for handling store events.
// Implementations can log, aggregate, or forward events as needed.
type EventHandler func(Event)

// MultiEventHandler combines multiple handlers into one.
func MultiEventHandler(handlers ...EventHandler) EventHandler {
	return func(e Event) {
		for _, h := range handlers {
			if h != nil {
				h(e)
			}
		}
	}
}

// ChannelEventHandler returns a handler that sends events to a channel.
// The channel should have sufficient buffer to avoid blocking.
// Events are dropped if the channel is full.
func ChannelEventHandler(ch chan<- Event) EventHandler {
	return func(e Event) {
		select {
		case ch <- e:
		default:
			// Drop event if channel is full
		}
	}
}

// LogHandler returns a handler that writes events to a structured logger.
// Self-healing events log at warn level and corruption at error level;
// lifecycle events log at debug level. If logger is nil, slog.Default()
// is used.
func LogHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(e Event) {
		attrs := []any{slog.String("dir", e.Dir)}
		if e.Slot != "" {
			attrs = append(attrs, slog.String("slot", e.Slot))
		}

		switch e.Kind {
		case EventOpened:
			logger.Debug("sequence store opened", attrs...)
		case EventPersisted:
			attrs = append(attrs,
				slog.Uint64("value", e.Value),
				slog.Duration("elapsed", e.Elapsed),
			)
			logger.Debug("sequence value persisted", attrs...)
		case EventHealed:
			attrs = append(attrs, slog.Uint64("value", e.Value))
			logger.Warn("latest sequence value is not ahead of backup, using backup", attrs...)
		case EventDiscarded:
			logger.Warn("removed unreadable latest slot", attrs...)
		case EventCorrupted:
			logger.Error("both sequence slots are unreadable", attrs...)
		case EventDeleted:
			logger.Debug("sequence store deleted", attrs...)
		default:
			logger.Debug(string(e.Kind), attrs...)
		}
	}
}
