package calculator

import "strings"

// Reduce returns the state that results from applying a to s. It never
// mutates s and never fails; actions that do not apply return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddDigit:
		return addDigit(s, a.Digit)
	case ChooseOperation:
		return chooseOperation(s, a.Operation)
	case Evaluate:
		return evaluate(s)
	case DeleteDigit:
		return deleteDigit(s)
	case Clear:
		return NewState()
	default:
		return s
	}
}

// ReduceAll folds actions over s in order.
func ReduceAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func addDigit(s State, digit string) State {
	if s.Overwrite {
		s.CurrentOperand = operand(digit)
		s.Overwrite = false
		return s
	}

	current := text(s.CurrentOperand)
	if digit == "0" && s.CurrentOperand != nil && current == "0" {
		return s
	}
	if strings.Contains(digit, ".") && strings.Contains(current, ".") {
		return s
	}

	s.CurrentOperand = operand(current + digit)
	return s
}

func chooseOperation(s State, op Operation) State {
	if s.CurrentOperand == nil && s.PreviousOperand == nil {
		return s
	}

	// Lets the user change operator before typing the next operand.
	if s.CurrentOperand == nil {
		s.Operation = op
		return s
	}

	if s.PreviousOperand == nil {
		s.PreviousOperand = s.CurrentOperand
		s.CurrentOperand = nil
		s.Operation = op
		return s
	}

	s.PreviousOperand = operand(compute(s))
	s.CurrentOperand = nil
	s.Operation = op
	return s
}

func evaluate(s State) State {
	if s.Operation == "" || s.CurrentOperand == nil || s.PreviousOperand == nil {
		return s
	}

	return State{
		CurrentOperand: operand(compute(s)),
		Overwrite:      true,
	}
}

func deleteDigit(s State) State {
	// A just-evaluated result is discarded whole.
	if s.Overwrite {
		s.Overwrite = false
		s.CurrentOperand = nil
		return s
	}

	if s.CurrentOperand == nil {
		return s
	}

	current := *s.CurrentOperand
	if len(current) <= 1 {
		s.CurrentOperand = nil
		return s
	}

	s.CurrentOperand = operand(current[:len(current)-1])
	return s
}

func compute(s State) string {
	return Compute(text(s.PreviousOperand), text(s.CurrentOperand), s.Operation)
}
