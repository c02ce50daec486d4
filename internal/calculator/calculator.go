package calculator

// Calculator holds one state and advances it through Reduce. It is the entry
// point for single-user shells; it is not safe for concurrent use.
type Calculator struct {
	state State
}

// New returns a Calculator in its initial state.
func New() *Calculator {
	return &Calculator{state: NewState()}
}

// Dispatch applies a to the calculator.
func (c *Calculator) Dispatch(a Action) {
	c.state = Reduce(c.state, a)
}

// State returns a snapshot of the current state. The snapshot does not share
// operand storage with the calculator.
func (c *Calculator) State() State {
	snap := c.state
	snap.CurrentOperand = cloneOperand(c.state.CurrentOperand)
	snap.PreviousOperand = cloneOperand(c.state.PreviousOperand)
	return snap
}

func cloneOperand(s *string) *string {
	if s == nil {
		return nil
	}
	return operand(*s)
}
