// event.go defines the canonical event data structure sent to the Gatey API.

package gatey

import "time"

// Level indicates the severity level of an event.
type Level string

const (
	// LevelDebug is verbose diagnostic information.
	LevelDebug Level = "debug"

	// LevelInfo indicates a routine occurrence worth recording.
	LevelInfo Level = "info"

	// LevelWarning indicates a non-fatal issue that may need attention.
	LevelWarning Level = "warning"

	// LevelError indicates a recoverable error that caused an operation to fail.
	LevelError Level = "error"

	// LevelCritical indicates an unrecoverable error such as a panic.
	LevelCritical Level = "critical"
)

// CodeContext holds source lines surrounding a stack frame location.
type CodeContext struct {
	// Pre holds the lines immediately before the frame line.
	Pre []string `json:"pre"`

	// Target is the frame line itself.
	Target string `json:"target"`

	// Post holds the lines immediately after the frame line.
	Post []string `json:"post"`
}

// Frame is a single entry of an exception traceback.
type Frame struct {
	// Filename is the source file the frame points at.
	Filename string `json:"filename"`

	// Function is the name of the function executing in the frame.
	Function string `json:"name"`

	// Line is the line number within Filename.
	Line int `json:"line"`

	// Context holds surrounding source lines when capture is enabled
	// and the file is readable. Nil otherwise.
	Context *CodeContext `json:"context,omitempty"`
}

// ExceptionInfo is the normalized representation of a captured error or panic.
type ExceptionInfo struct {
	// Class is the type name of the error ("ValidationError", "errorString").
	Class string `json:"class"`

	// Description is the error message.
	Description string `json:"description"`

	// Traceback is the stack at the capture site, outermost frame last.
	Traceback []Frame `json:"traceback"`
}

// Event is the canonical representation of a captured message or exception.
// Events are immutable once enqueued: the delivery queue owns them until
// they are delivered or dropped.
type Event struct {
	// ID is a unique identifier for this event (UUID).
	ID string `json:"event_id"`

	// ProjectID identifies the Gatey project the event belongs to.
	ProjectID int64 `json:"project_id,omitempty"`

	// Level is the event severity.
	Level Level `json:"level"`

	// Message is the human-readable text of the event, if any.
	Message string `json:"message,omitempty"`

	// Exception holds error details for exception events. Nil for
	// plain message events.
	Exception *ExceptionInfo `json:"exception,omitempty"`

	// Tags are string key-value pairs attached to the event. Includes
	// the client default tags unless excluded at capture time.
	Tags map[string]string `json:"tags,omitempty"`

	// Timestamp is when the event was captured.
	Timestamp time.Time `json:"timestamp"`
}
