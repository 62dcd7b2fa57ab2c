// Package otel records structured ranker events.
//
// Events are typed structs serialized as JSONL lines. The Logger writes them
// asynchronously through a buffered channel drained by one goroutine, and an
// optional RingBuffer keeps the latest events for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Session events
	KindSessionStart    EventKind = "session.start"
	KindSessionResume   EventKind = "session.resume"
	KindSessionAnswer   EventKind = "session.answer"
	KindSessionUndo     EventKind = "session.undo"
	KindSessionRedo     EventKind = "session.redo"
	KindSessionComplete EventKind = "session.complete"
	KindSessionExplain  EventKind = "session.explain"

	// Share events
	KindShareEncode      EventKind = "share.encode"
	KindShareDecode      EventKind = "share.decode"
	KindShareDecodeError EventKind = "share.decode_error"

	// Store events
	KindStoreSave  EventKind = "store.save"
	KindStoreError EventKind = "store.error"

	// System events
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace events, only emitted when TraceEnabled
	KindMsgHandled EventKind = "trace.msg_handled"
)

// Event is one journal record. Every field except Kind and Time is optional.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // component: "ui", "cli", "store", "main"
	RunID     string         `json:"run,omitempty"`  // same for the whole process
	SessionID string         `json:"sid,omitempty"`  // saved ranking session
	Items     int            `json:"items,omitempty"`
	Cursor    int            `json:"cursor,omitempty"`
	Better    string         `json:"better,omitempty"`
	Worse     string         `json:"worse,omitempty"`
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
