package engine

import "fmt"

// Outcome is how an open flow ended. Every flow ends in exactly one
// outcome and none is retried.
type Outcome int

const (
	// OutcomeCancelled: the user dismissed the picker. Nothing is shown.
	OutcomeCancelled Outcome = iota + 1

	// OutcomePathInvalid: the selection vanished or has the wrong type.
	OutcomePathInvalid

	// OutcomeReadFailed: an existing file could not be read.
	OutcomeReadFailed

	// OutcomeEmitFailed: the event could not be delivered.
	OutcomeEmitFailed

	// OutcomeSuccess: the payload was handed to the frontend.
	OutcomeSuccess
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCancelled:
		return "cancelled"
	case OutcomePathInvalid:
		return "path_invalid"
	case OutcomeReadFailed:
		return "read_failed"
	case OutcomeEmitFailed:
		return "emit_failed"
	case OutcomeSuccess:
		return "success"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// OpenPayload is delivered to the frontend after a successful open.
type OpenPayload struct {
	Path string `json:"path"`
	Body string `json:"body"`
}

// Result describes one finished flow.
type Result struct {
	// Op names the flow, e.g. "open_workspace".
	Op string

	Outcome Outcome

	// Payload is set for successful open flows; nil for signals.
	Payload *OpenPayload

	// Err is the failure behind any outcome other than success. For
	// cancellation it is set only when the picker itself failed.
	Err error

	// Message is the text shown to the user, if any.
	Message string
}

// ReadResult is the reply to the read command. On failure Content holds
// the error text.
type ReadResult struct {
	OK      bool   `json:"ok"`
	Content string `json:"content"`
}
