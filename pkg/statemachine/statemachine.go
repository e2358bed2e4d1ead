package statemachine

// State is a named state. Implementations are typically string-backed
// domain types.
type State interface {
	Name() string
}

// StringState is a plain string State for simple cases.
type StringState string

func (s StringState) Name() string { return string(s) }

// Machine is a stateless transition table. Unlike a classic FSM it holds
// no current state: the state of record lives elsewhere (a database row)
// and the machine only answers whether a proposed change is legal. Safe
// for concurrent use after Build.
type Machine struct {
	transitions map[string]map[string]struct{}
	fromAny     map[string]struct{}
}

// Builder accumulates allowed transitions for a Machine.
type Builder struct {
	machine *Machine
}

// New starts building a transition table.
func New() *Builder {
	return &Builder{machine: &Machine{
		transitions: make(map[string]map[string]struct{}),
		fromAny:     make(map[string]struct{}),
	}}
}

// Allow permits a transition from one state to another.
func (b *Builder) Allow(from, to State) *Builder {
	m := b.machine
	if _, ok := m.transitions[from.Name()]; !ok {
		m.transitions[from.Name()] = make(map[string]struct{})
	}
	m.transitions[from.Name()][to.Name()] = struct{}{}
	return b
}

// AllowFromAny permits reaching the state from every other state.
func (b *Builder) AllowFromAny(to State) *Builder {
	b.machine.fromAny[to.Name()] = struct{}{}
	return b
}

// Build returns the immutable machine.
func (b *Builder) Build() *Machine {
	return b.machine
}

// Can reports whether the transition is legal. Self-transitions are always
// legal: re-applying the current state is a no-op, not a violation.
func (m *Machine) Can(from, to State) bool {
	if from.Name() == to.Name() {
		return true
	}
	if _, ok := m.fromAny[to.Name()]; ok {
		return true
	}
	targets, ok := m.transitions[from.Name()]
	if !ok {
		return false
	}
	_, ok = targets[to.Name()]
	return ok
}

// Step validates the transition, returning a *TransitionError naming both
// states when it is not legal.
func (m *Machine) Step(from, to State) error {
	if !m.Can(from, to) {
		return &TransitionError{From: from.Name(), To: to.Name()}
	}
	return nil
}
