package cpu

const (
	STACK_LIMIT = 16 // Maximum call depth
)

// Stack is the subroutine return address stack.
// Sp is the index of the next free slot.
type Stack struct {
	Data [STACK_LIMIT]uint16
	Sp   uint8
}

// Push stores a return address, failing when the stack is full.
func (s *Stack) Push(value uint16) (ok bool) {
	if s.Full() {
		return
	}

	s.Data[s.Sp] = value
	s.Sp++
	return true
}

func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Sp--
	}
	return
}

func (s *Stack) Empty() bool {
	return s.Sp == 0
}

func (s *Stack) Full() bool {
	return s.Sp >= STACK_LIMIT
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Sp-1], true
}

func (s *Stack) Reset() {
	*s = Stack{}
}
