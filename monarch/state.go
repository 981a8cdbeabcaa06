package monarch

// A State is an immutable stack of state names. The zero depth state is the
// definition's start state; every push adds one level.
type State struct {
	name   string
	parent *State
	depth  int
}

func newState(name string) *State {
	return &State{name: name}
}

// Name returns the state on top of the stack.
func (s *State) Name() string {
	return s.name
}

// Depth returns how many states sit below the top one. A tokenizer inside
// two nested block comments reports 2.
func (s *State) Depth() int {
	return s.depth
}

// Parent returns the state below the top, or nil at the bottom.
func (s *State) Parent() *State {
	return s.parent
}

// Push returns a new stack with name on top.
func (s *State) Push(name string) *State {
	return &State{name: name, parent: s, depth: s.depth + 1}
}

// Pop returns the stack without its top. The bottom state is never popped.
func (s *State) Pop() *State {
	if s.parent == nil {
		return s
	}
	return s.parent
}

// Bottom returns the state the stack started from.
func (s *State) Bottom() *State {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// Equals reports whether both stacks hold the same names in the same order.
func (s *State) Equals(other *State) bool {
	for s != nil && other != nil {
		if s == other {
			return true
		}
		if s.depth != other.depth || s.name != other.name {
			return false
		}
		s, other = s.parent, other.parent
	}
	return s == other
}

// Stack returns the state names from bottom to top.
func (s *State) Stack() []string {
	names := make([]string, s.depth+1)
	for i := s.depth; s != nil; i-- {
		names[i] = s.name
		s = s.parent
	}
	return names
}
