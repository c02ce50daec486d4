package calculator

// SessionResponse is the JSON response for session endpoints. Token and
// SessionID are only set when the session is created.
type SessionResponse struct {
	SessionID string  `json:"session_id,omitempty"`
	Token     string  `json:"token,omitempty"`
	State     State   `json:"state"`
	Display   Display `json:"display"`
}

// PressRequest is the JSON body for POST /calculator/session/press.
type PressRequest struct {
	Key string `json:"key"` // button label, e.g. "7", "+", "=", "DEL", "AC"
}

// ReplayRequest is the JSON body for POST /calculator/replay.
type ReplayRequest struct {
	Actions []ActionRequest `json:"actions"`
}

// ReplayStep records the state after one replayed action.
type ReplayStep struct {
	Action ActionRequest `json:"action"`
	State  State         `json:"state"`
}

// ReplayResponse is the JSON response for POST /calculator/replay.
type ReplayResponse struct {
	Steps   []ReplayStep `json:"steps"`
	State   State        `json:"state"`
	Display Display      `json:"display"`
}

// ComputeRequest is the JSON body for POST /calculator/evaluate.
type ComputeRequest struct {
	PreviousOperand string    `json:"previous_operand"`
	CurrentOperand  string    `json:"current_operand"`
	Operation       Operation `json:"operation"`
}

// ComputeResponse is the JSON response for POST /calculator/evaluate. An
// empty Result means the operands or operation were invalid.
type ComputeResponse struct {
	Operation Operation `json:"operation"`
	Result    string    `json:"result"`
	Display   string    `json:"display"`
}
