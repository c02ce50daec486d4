package calculator

import (
	"reflect"
	"testing"
)

func digits(ds ...string) []Action {
	actions := make([]Action, 0, len(ds))
	for _, d := range ds {
		actions = append(actions, AddDigit{Digit: d})
	}
	return actions
}

func checkOperand(t *testing.T, name string, got *string, want string, present bool) {
	t.Helper()
	if !present {
		if got != nil {
			t.Fatalf("expected %s to be absent, got %q", name, *got)
		}
		return
	}
	if got == nil {
		t.Fatalf("expected %s %q, got absent", name, want)
	}
	if *got != want {
		t.Fatalf("expected %s %q, got %q", name, want, *got)
	}
}

func TestNewStateStartsAtZero(t *testing.T) {
	s := NewState()
	checkOperand(t, "current", s.CurrentOperand, "0", true)
	checkOperand(t, "previous", s.PreviousOperand, "", false)
	if s.Operation != "" || s.Overwrite {
		t.Fatalf("expected empty operation and no overwrite, got %+v", s)
	}
}

func TestAddDigit(t *testing.T) {
	tests := []struct {
		name    string
		actions []Action
		want    string
	}{
		{name: "appends to initial zero", actions: digits("5"), want: "05"},
		{name: "rejects redundant leading zero", actions: digits("0", "0"), want: "0"},
		{name: "appends decimal point", actions: digits(".", "5"), want: "0.5"},
		{name: "rejects second decimal point", actions: digits("1", ".", "2", ".", "3"), want: "01.23"},
		{name: "keeps trailing decimal point", actions: digits("7", "."), want: "07."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := ReduceAll(NewState(), tc.actions...)
			checkOperand(t, "current", s.CurrentOperand, tc.want, true)
		})
	}
}

func TestAddDigitTreatsAbsentOperandAsEmpty(t *testing.T) {
	s := State{}

	s = Reduce(s, AddDigit{Digit: "."})
	checkOperand(t, "current", s.CurrentOperand, ".", true)

	s = Reduce(State{}, AddDigit{Digit: "0"})
	checkOperand(t, "current", s.CurrentOperand, "0", true)
}

func TestAddDigitDoesNotMutateInput(t *testing.T) {
	before := NewState()
	original := *before.CurrentOperand

	_ = Reduce(before, AddDigit{Digit: "9"})

	if *before.CurrentOperand != original {
		t.Fatalf("input state was mutated: %q", *before.CurrentOperand)
	}
}

func TestAdditionScenario(t *testing.T) {
	s := ReduceAll(State{}, digits("1", "2")...)
	checkOperand(t, "current", s.CurrentOperand, "12", true)

	s = Reduce(s, ChooseOperation{Operation: Add})
	checkOperand(t, "previous", s.PreviousOperand, "12", true)
	checkOperand(t, "current", s.CurrentOperand, "", false)
	if s.Operation != Add {
		t.Fatalf("expected operation %q, got %q", Add, s.Operation)
	}

	s = Reduce(s, AddDigit{Digit: "3"})
	checkOperand(t, "current", s.CurrentOperand, "3", true)

	s = Reduce(s, Evaluate{})
	checkOperand(t, "current", s.CurrentOperand, "15", true)
	checkOperand(t, "previous", s.PreviousOperand, "", false)
	if s.Operation != "" {
		t.Fatalf("expected no operation, got %q", s.Operation)
	}
	if !s.Overwrite {
		t.Fatal("expected overwrite after evaluation")
	}
}

func TestDigitAfterEvaluationReplacesResult(t *testing.T) {
	s := ReduceAll(State{},
		AddDigit{Digit: "1"}, AddDigit{Digit: "2"},
		ChooseOperation{Operation: Add},
		AddDigit{Digit: "3"},
		Evaluate{},
		AddDigit{Digit: "7"},
	)

	checkOperand(t, "current", s.CurrentOperand, "7", true)
	if s.Overwrite {
		t.Fatal("expected overwrite to be cleared")
	}
}

func TestChooseOperation(t *testing.T) {
	t.Run("no operands is a no-op", func(t *testing.T) {
		before := State{}
		after := Reduce(before, ChooseOperation{Operation: Multiply})
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("expected unchanged state, got %+v", after)
		}
	})

	t.Run("replaces operation before second operand", func(t *testing.T) {
		s := ReduceAll(State{}, AddDigit{Digit: "4"}, ChooseOperation{Operation: Add}, ChooseOperation{Operation: Divide})
		if s.Operation != Divide {
			t.Fatalf("expected operation %q, got %q", Divide, s.Operation)
		}
		checkOperand(t, "previous", s.PreviousOperand, "4", true)
	})

	t.Run("chains pending computation", func(t *testing.T) {
		s := ReduceAll(State{},
			AddDigit{Digit: "6"},
			ChooseOperation{Operation: Multiply},
			AddDigit{Digit: "7"},
			ChooseOperation{Operation: Subtract},
		)
		checkOperand(t, "previous", s.PreviousOperand, "42", true)
		checkOperand(t, "current", s.CurrentOperand, "", false)
		if s.Operation != Subtract {
			t.Fatalf("expected operation %q, got %q", Subtract, s.Operation)
		}

		s = ReduceAll(s, AddDigit{Digit: "2"}, Evaluate{})
		checkOperand(t, "current", s.CurrentOperand, "40", true)
	})
}

func TestEvaluateWithoutCurrentOperandIsNoOp(t *testing.T) {
	before := ReduceAll(State{}, AddDigit{Digit: "9"}, ChooseOperation{Operation: Add})
	after := Reduce(before, Evaluate{})

	if !reflect.DeepEqual(before, after) {
		t.Fatalf("expected unchanged state, got %+v", after)
	}
}

func TestEvaluateWithoutOperationIsNoOp(t *testing.T) {
	before := ReduceAll(State{}, AddDigit{Digit: "9"})
	after := Reduce(before, Evaluate{})

	if !reflect.DeepEqual(before, after) {
		t.Fatalf("expected unchanged state, got %+v", after)
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	s := ReduceAll(State{}, AddDigit{Digit: "1"}, ChooseOperation{Operation: Divide}, AddDigit{Digit: "0"}, Evaluate{})
	checkOperand(t, "current", s.CurrentOperand, "Infinity", true)

	s = ReduceAll(State{}, AddDigit{Digit: "0"}, ChooseOperation{Operation: Divide}, AddDigit{Digit: "0"}, Evaluate{})
	checkOperand(t, "current", s.CurrentOperand, "NaN", true)
}

func TestDeleteDigit(t *testing.T) {
	t.Run("trims last character", func(t *testing.T) {
		s := ReduceAll(State{}, append(digits("1", "2", "3"), DeleteDigit{})...)
		checkOperand(t, "current", s.CurrentOperand, "12", true)
	})

	t.Run("collapses single character to absent", func(t *testing.T) {
		s := ReduceAll(State{}, AddDigit{Digit: "5"}, DeleteDigit{})
		checkOperand(t, "current", s.CurrentOperand, "", false)
	})

	t.Run("absent operand is a no-op", func(t *testing.T) {
		before := ReduceAll(State{}, AddDigit{Digit: "5"}, ChooseOperation{Operation: Add})
		after := Reduce(before, DeleteDigit{})
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("expected unchanged state, got %+v", after)
		}
	})

	t.Run("discards evaluated result", func(t *testing.T) {
		s := ReduceAll(State{},
			AddDigit{Digit: "1"}, AddDigit{Digit: "2"},
			ChooseOperation{Operation: Add},
			AddDigit{Digit: "3"},
			Evaluate{},
			DeleteDigit{},
		)
		checkOperand(t, "current", s.CurrentOperand, "", false)
		if s.Overwrite {
			t.Fatal("expected overwrite to be cleared")
		}
	})
}

func TestClearResetsFromAnyState(t *testing.T) {
	states := []State{
		{},
		NewState(),
		ReduceAll(State{}, AddDigit{Digit: "8"}, ChooseOperation{Operation: Multiply}),
		ReduceAll(State{}, AddDigit{Digit: "8"}, ChooseOperation{Operation: Multiply}, AddDigit{Digit: "2"}, Evaluate{}),
	}

	for _, s := range states {
		got := Reduce(s, Clear{})
		if !reflect.DeepEqual(got, NewState()) {
			t.Fatalf("expected initial state, got %+v", got)
		}
	}
}

func TestUnknownActionsLeaveStateUnchanged(t *testing.T) {
	before := ReduceAll(State{}, AddDigit{Digit: "3"}, ChooseOperation{Operation: Add})

	for _, a := range []Action{nil, Unknown{Name: "percent"}} {
		after := Reduce(before, a)
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("action %#v changed state to %+v", a, after)
		}
	}
}

func TestCalculatorDispatch(t *testing.T) {
	c := New()
	for _, a := range digits("9", "9") {
		c.Dispatch(a)
	}
	c.Dispatch(ChooseOperation{Operation: Multiply})
	c.Dispatch(AddDigit{Digit: "2"})
	c.Dispatch(Evaluate{})

	checkOperand(t, "current", c.State().CurrentOperand, "198", true)
}

func TestCalculatorStateIsDetached(t *testing.T) {
	c := New()
	c.Dispatch(AddDigit{Digit: "4"})
	c.Dispatch(ChooseOperation{Operation: Add})
	c.Dispatch(AddDigit{Digit: "2"})

	snap := c.State()
	*snap.CurrentOperand = "999"
	*snap.PreviousOperand = "999"

	got := c.State()
	checkOperand(t, "current", got.CurrentOperand, "2", true)
	checkOperand(t, "previous", got.PreviousOperand, "04", true)
}
