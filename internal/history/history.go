package history

// Stack keeps two ordered lists of commands, undo and redo, bounded by a
// hard limit on the undo side. It is designed to be driven from the single
// logical thread that applies settings mutations; callers needing concurrent
// access must add their own mutual exclusion. At any instant a recorded
// command sits on exactly one of the two stacks.
type Stack struct {
	limit int
	undo  []Command
	redo  []Command
}

// NewStack constructs an empty stack retaining at most limit undo entries.
// Non-positive limits are clamped to 1 rather than rejected; a history that
// cannot hold even one entry is never useful, so the clamp is a deliberate
// policy, not a silent fallback.
func NewStack(limit int) *Stack {
	if limit < 1 {
		limit = 1
	}
	return &Stack{limit: limit}
}

// Limit reports the configured undo capacity.
func (s *Stack) Limit() int {
	if s == nil {
		return 0
	}
	return s.limit
}

// Record pushes cmd onto the undo stack, evicting the oldest entries beyond
// the limit, and discards all redo entries. Recording is the only operation
// that clears the redo stack.
func (s *Stack) Record(cmd Command) {
	if s == nil {
		return
	}
	//1.- Own a private copy so later caller mutations cannot rewrite history.
	s.undo = append(s.undo, cmd.Clone())
	//2.- Keep the newest entries when the stack overflows.
	if len(s.undo) > s.limit {
		overflow := len(s.undo) - s.limit
		s.undo = append(s.undo[:0], s.undo[overflow:]...)
	}
	//3.- A new edit invalidates anything the user had undone.
	s.redo = nil
}

// CanUndo reports whether an undo entry is available.
func (s *Stack) CanUndo() bool {
	return s != nil && len(s.undo) > 0
}

// CanRedo reports whether a redo entry is available.
func (s *Stack) CanRedo() bool {
	return s != nil && len(s.redo) > 0
}

// UndoDepth reports how many commands sit on the undo stack.
func (s *Stack) UndoDepth() int {
	if s == nil {
		return 0
	}
	return len(s.undo)
}

// RedoDepth reports how many commands sit on the redo stack.
func (s *Stack) RedoDepth() int {
	if s == nil {
		return 0
	}
	return len(s.redo)
}

// Undo moves the most recently recorded command to the redo stack and
// returns it. The caller applies the command's Before fields to its own
// store. Returns false with no effect when the undo stack is empty.
func (s *Stack) Undo() (Command, bool) {
	if s == nil || len(s.undo) == 0 {
		return Command{}, false
	}
	last := len(s.undo) - 1
	cmd := s.undo[last]
	s.undo = s.undo[:last]
	s.redo = append(s.redo, cmd)
	return cmd, true
}

// Redo moves the most recently undone command back to the undo stack and
// returns it. The caller applies the command's After fields. Returns false
// with no effect when the redo stack is empty.
func (s *Stack) Redo() (Command, bool) {
	if s == nil || len(s.redo) == 0 {
		return Command{}, false
	}
	last := len(s.redo) - 1
	cmd := s.redo[last]
	s.redo = s.redo[:last]
	s.undo = append(s.undo, cmd)
	return cmd, true
}

// Clear empties both stacks unconditionally.
func (s *Stack) Clear() {
	if s == nil {
		return
	}
	s.undo = nil
	s.redo = nil
}
