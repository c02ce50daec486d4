package calculator

import "encoding/json"

// Operation is one of the four arithmetic operators. The zero value means no
// operation has been chosen.
type Operation string

const (
	Add      Operation = "+"
	Subtract Operation = "-"
	Multiply Operation = "*"
	Divide   Operation = "/"
)

// Valid reports whether op is one of the four supported operators.
func (op Operation) Valid() bool {
	switch op {
	case Add, Subtract, Multiply, Divide:
		return true
	}
	return false
}

// MarshalJSON encodes the absent operation as null.
func (op Operation) MarshalJSON() ([]byte, error) {
	if op == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(op))
}

// State is the full calculator state. Operands are kept as text until they
// are evaluated; a nil operand is absent.
type State struct {
	CurrentOperand  *string   `json:"current_operand"`
	PreviousOperand *string   `json:"previous_operand"`
	Operation       Operation `json:"operation"`
	Overwrite       bool      `json:"overwrite"`
}

// NewState returns the state of a freshly opened calculator.
func NewState() State {
	return State{CurrentOperand: operand("0")}
}

func operand(s string) *string {
	return &s
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
