package history

import "testing"

func editCommand(name string, before, after float64) Command {
	return Command{
		Before:      Fields{"oscillator.frequency_hz": Float(before)},
		After:       Fields{"oscillator.frequency_hz": Float(after)},
		Description: name,
	}
}

func TestNewStackClampsNonPositiveLimit(t *testing.T) {
	for _, limit := range []int{0, -5} {
		stack := NewStack(limit)
		if stack.Limit() != 1 {
			t.Fatalf("expected limit %d to clamp to 1, got %d", limit, stack.Limit())
		}
	}
}

func TestRecordEvictsOldestBeyondLimit(t *testing.T) {
	stack := NewStack(2)
	stack.Record(editCommand("A", 1, 2))
	stack.Record(editCommand("B", 2, 3))
	stack.Record(editCommand("C", 3, 4))

	if !stack.CanUndo() {
		t.Fatalf("expected undo to be available")
	}
	if stack.UndoDepth() != 2 {
		t.Fatalf("expected undo depth 2 after overflow, got %d", stack.UndoDepth())
	}

	//1.- The newest commands survive; A was evicted.
	first, _ := stack.Undo()
	second, _ := stack.Undo()
	if first.Description != "C" || second.Description != "B" {
		t.Fatalf("expected to unwind C then B, got %q then %q", first.Description, second.Description)
	}
	if stack.CanUndo() {
		t.Fatalf("expected undo exhausted after two pops")
	}
}

func TestRecordClearsRedo(t *testing.T) {
	stack := NewStack(4)
	stack.Record(editCommand("A", 1, 2))
	stack.Record(editCommand("B", 2, 3))

	if _, ok := stack.Undo(); !ok {
		t.Fatalf("expected undo to pop B")
	}
	if !stack.CanRedo() {
		t.Fatalf("expected redo available after undo")
	}

	stack.Record(editCommand("D", 3, 5))

	if stack.CanRedo() {
		t.Fatalf("expected redo cleared by new record")
	}
	if stack.UndoDepth() != 2 {
		t.Fatalf("expected undo stack {A, D}, got depth %d", stack.UndoDepth())
	}
	top, _ := stack.Undo()
	if top.Description != "D" {
		t.Fatalf("expected newest undo entry D, got %q", top.Description)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	stack := NewStack(4)
	stack.Record(editCommand("A", 1, 2))

	undone, ok := stack.Undo()
	if !ok || undone.Description != "A" {
		t.Fatalf("expected undo to return A, got %+v ok=%v", undone, ok)
	}
	redone, ok := stack.Redo()
	if !ok || redone.Description != "A" {
		t.Fatalf("expected redo to return A, got %+v ok=%v", redone, ok)
	}

	//1.- The command ends up back on the undo stack it started on.
	if stack.UndoDepth() != 1 || stack.RedoDepth() != 0 {
		t.Fatalf("expected undo depth 1 redo depth 0, got %d and %d", stack.UndoDepth(), stack.RedoDepth())
	}
}

func TestUndoRedoOnEmptyStacksAreNoOps(t *testing.T) {
	stack := NewStack(2)

	if _, ok := stack.Undo(); ok {
		t.Fatalf("expected undo on empty stack to report emptiness")
	}
	if _, ok := stack.Redo(); ok {
		t.Fatalf("expected redo on empty stack to report emptiness")
	}
	if stack.UndoDepth() != 0 || stack.RedoDepth() != 0 {
		t.Fatalf("expected both stacks untouched")
	}
}

func TestClearEmptiesBothStacks(t *testing.T) {
	stack := NewStack(4)
	stack.Record(editCommand("A", 1, 2))
	stack.Record(editCommand("B", 2, 3))
	stack.Undo()

	stack.Clear()

	if stack.CanUndo() || stack.CanRedo() {
		t.Fatalf("expected both stacks empty after clear")
	}
}

func TestHistoryScenarioLimitTwo(t *testing.T) {
	stack := NewStack(2)
	stack.Record(editCommand("A", 1, 2))
	stack.Record(editCommand("B", 2, 3))
	stack.Record(editCommand("C", 3, 4))

	if !stack.CanUndo() {
		t.Fatalf("expected undo available")
	}

	undone, ok := stack.Undo()
	if !ok || undone.Description != "C" {
		t.Fatalf("expected undo to return C, got %+v ok=%v", undone, ok)
	}
	if stack.RedoDepth() != 1 {
		t.Fatalf("expected C parked on redo, got depth %d", stack.RedoDepth())
	}

	stack.Record(editCommand("D", 4, 5))

	if stack.CanRedo() {
		t.Fatalf("expected record of D to discard redo entries")
	}
	second, _ := stack.Undo()
	first, _ := stack.Undo()
	if second.Description != "D" || first.Description != "B" {
		t.Fatalf("expected undo stack {B, D}, unwound %q then %q", second.Description, first.Description)
	}
}
