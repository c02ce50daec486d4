package calculator

import (
	"encoding/json"
	"fmt"
)

// Action is a single user input fed to Reduce.
type Action interface {
	Type() ActionType
}

// ActionType is the wire name of an action kind.
type ActionType string

const (
	ActionAddDigit        ActionType = "add-digit"
	ActionChooseOperation ActionType = "choose-operation"
	ActionEvaluate        ActionType = "evaluate"
	ActionDeleteDigit     ActionType = "delete-digit"
	ActionClear           ActionType = "clear"
)

// AddDigit appends a digit or decimal point to the current operand.
type AddDigit struct {
	Digit string
}

// ChooseOperation selects the pending operator.
type ChooseOperation struct {
	Operation Operation
}

// Evaluate computes the pending expression.
type Evaluate struct{}

// DeleteDigit removes the last character of the current operand.
type DeleteDigit struct{}

// Clear resets the calculator.
type Clear struct{}

// Unknown carries an action type this package does not recognise. Reduce
// leaves the state unchanged for it.
type Unknown struct {
	Name string
}

func (AddDigit) Type() ActionType        { return ActionAddDigit }
func (ChooseOperation) Type() ActionType { return ActionChooseOperation }
func (Evaluate) Type() ActionType        { return ActionEvaluate }
func (DeleteDigit) Type() ActionType     { return ActionDeleteDigit }
func (Clear) Type() ActionType           { return ActionClear }
func (u Unknown) Type() ActionType       { return ActionType(u.Name) }

// ActionRequest is the JSON envelope of an action: {"type": ..., "payload": ...}.
type ActionRequest struct {
	Type    ActionType    `json:"type"`
	Payload ActionPayload `json:"payload"`
}

// ActionPayload holds the optional arguments of an action.
type ActionPayload struct {
	Digit     string    `json:"digit,omitempty"`
	Operation Operation `json:"operation,omitempty"`
}

// Action converts the envelope into a typed action, validating the payload of
// the kinds that carry one. Unrecognised types become Unknown.
func (r ActionRequest) Action() (Action, error) {
	switch r.Type {
	case ActionAddDigit:
		if !validDigit(r.Payload.Digit) {
			return nil, fmt.Errorf("invalid digit %q", r.Payload.Digit)
		}
		return AddDigit{Digit: r.Payload.Digit}, nil
	case ActionChooseOperation:
		if !r.Payload.Operation.Valid() {
			return nil, fmt.Errorf("invalid operation %q", r.Payload.Operation)
		}
		return ChooseOperation{Operation: r.Payload.Operation}, nil
	case ActionEvaluate:
		return Evaluate{}, nil
	case ActionDeleteDigit:
		return DeleteDigit{}, nil
	case ActionClear:
		return Clear{}, nil
	default:
		return Unknown{Name: string(r.Type)}, nil
	}
}

// MarshalAction renders a typed action in its envelope form.
func MarshalAction(a Action) ActionRequest {
	req := ActionRequest{Type: a.Type()}
	switch a := a.(type) {
	case AddDigit:
		req.Payload.Digit = a.Digit
	case ChooseOperation:
		req.Payload.Operation = a.Operation
	}
	return req
}

// DecodeAction parses a JSON action envelope.
func DecodeAction(data []byte) (Action, error) {
	var req ActionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	return req.Action()
}

func validDigit(d string) bool {
	return len(d) == 1 && (d[0] == '.' || (d[0] >= '0' && d[0] <= '9'))
}
