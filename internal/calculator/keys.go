package calculator

import "strings"

// Key labels of the non-digit buttons.
const (
	KeyEquals = "="
	KeyDelete = "DEL"
	KeyClear  = "AC"
)

var operatorKeys = map[string]Operation{
	"+": Add,
	"-": Subtract,
	"*": Multiply,
	"×": Multiply,
	"/": Divide,
	"÷": Divide,
}

// KeyAction maps a button label to the action it triggers. Labels are
// case-insensitive; unknown labels report false.
func KeyAction(label string) (Action, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))

	if validDigit(label) {
		return AddDigit{Digit: label}, true
	}
	if op, ok := operatorKeys[label]; ok {
		return ChooseOperation{Operation: op}, true
	}

	switch label {
	case KeyEquals:
		return Evaluate{}, true
	case KeyDelete:
		return DeleteDigit{}, true
	case KeyClear:
		return Clear{}, true
	}
	return nil, false
}
