package history

// State is the live, mutable state a Manager rolls back and forward.
type State interface {
	// Capture returns a deep snapshot of the current state.
	Capture(description string) Snapshot
	// Restore replaces the current state with a copy of s.
	Restore(s Snapshot)
}

// Manager keeps the past and future snapshot stacks. The zero value is ready
// to use. A Manager is not safe for concurrent use.
type Manager struct {
	past   []Snapshot
	future []Snapshot
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// Record pushes s onto the past stack and discards the future. Call it
// before every mutation of the live state.
func (m *Manager) Record(s Snapshot) {
	m.past = append(m.past, s.Clone())
	m.future = nil
}

// Undo rolls state back by up to n recorded actions (at least one) and
// returns how many were undone. Each step saves the current state onto the
// future stack before restoring.
func (m *Manager) Undo(state State, n int) int {
	return step(state, n, &m.past, &m.future)
}

// Redo reapplies up to n undone actions (at least one) and returns how many
// were redone.
func (m *Manager) Redo(state State, n int) int {
	return step(state, n, &m.future, &m.past)
}

// CanUndo reports whether the past stack is non-empty.
func (m *Manager) CanUndo() bool {
	return len(m.past) > 0
}

// CanRedo reports whether the future stack is non-empty.
func (m *Manager) CanRedo() bool {
	return len(m.future) > 0
}

// Past returns copies of the past stack, oldest first.
func (m *Manager) Past() []Snapshot {
	return cloneAll(m.past)
}

// Future returns copies of the future stack, the next redo last.
func (m *Manager) Future() []Snapshot {
	return cloneAll(m.future)
}

func step(state State, n int, from, to *[]Snapshot) int {
	if len(*from) == 0 {
		return 0
	}

	count := min(max(n, 1), len(*from))
	for range count {
		last := len(*from) - 1
		popped := (*from)[last]
		*from = (*from)[:last]

		*to = append(*to, state.Capture(popped.Description))
		state.Restore(popped)
	}
	return count
}

func cloneAll(stack []Snapshot) []Snapshot {
	out := make([]Snapshot, len(stack))
	for i, s := range stack {
		out[i] = s.Clone()
	}
	return out
}
