package bridge

import "encoding/json"

// FrameType identifies the kind of frame sent over the WebSocket connection.
type FrameType string

const (
	FrameTypeRequest  FrameType = "request"
	FrameTypeResponse FrameType = "response"
	FrameTypeEvent    FrameType = "event"
)

// Frame is the envelope exchanged between the frontend and the backend.
type Frame struct {
	Type    FrameType       `json:"type"`
	ID      uint64          `json:"id,omitempty"`      // request/response correlation ID
	Method  string          `json:"method,omitempty"`  // request only
	Payload json.RawMessage `json:"payload,omitempty"` // params, result or event
	Error   string          `json:"error,omitempty"`   // response only
}

// Request methods.
const (
	MethodCreateJSONFile = "create_json_file"
	MethodSaveJSONFile   = "save_json_file"
	MethodReadJSONFile   = "read_json_file"
	MethodMenuSelect     = "menu_select"
	MethodMenuList       = "menu_list"
)

// FileParams is the payload of the three file commands. Body is ignored by
// read_json_file.
type FileParams struct {
	Path string `json:"path"`
	Body string `json:"body,omitempty"`
}

// MenuParams is the payload of menu_select.
type MenuParams struct {
	ID string `json:"id"`
}

// MenuAck is the immediate reply to menu_select. The outcome of the action
// arrives later as events.
type MenuAck struct {
	Accepted bool   `json:"accepted"`
	ID       string `json:"id"`
}
