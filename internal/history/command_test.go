package history

import "testing"

func TestFieldValueKinds(t *testing.T) {
	if v, ok := Float(2.5).Float(); !ok || v != 2.5 {
		t.Fatalf("expected float 2.5, got %v ok=%v", v, ok)
	}
	if v, ok := Int(-3).Int(); !ok || v != -3 {
		t.Fatalf("expected int -3, got %v ok=%v", v, ok)
	}
	if v, ok := Bool(true).Bool(); !ok || !v {
		t.Fatalf("expected bool true, got %v ok=%v", v, ok)
	}
	if v, ok := Text("paused").Text(); !ok || v != "paused" {
		t.Fatalf("expected text %q, got %q ok=%v", "paused", v, ok)
	}

	//1.- Cross-kind accessors must refuse instead of returning garbage.
	if _, ok := Float(1).Int(); ok {
		t.Fatalf("expected Int accessor to reject a float value")
	}
	if Float(1).Kind() != KindFloat || Text("x").Kind() != KindText {
		t.Fatalf("unexpected kinds: %v and %v", Float(1).Kind(), Text("x").Kind())
	}
}

func TestCommandCloneIsIndependent(t *testing.T) {
	before := Fields{"render.quality": Text("high")}
	after := Fields{"render.quality": Text("low")}
	cmd := Command{
		Before:      before,
		After:       after,
		Description: "lower render quality",
		Metadata:    map[string]string{"source": "settings-panel"},
	}

	clone := cmd.Clone()

	//1.- Mutating the original maps must not leak into the clone.
	before["render.quality"] = Text("ultra")
	cmd.Metadata["source"] = "tampered"

	if v, _ := clone.Before["render.quality"].Text(); v != "high" {
		t.Fatalf("expected clone to keep %q, got %q", "high", v)
	}
	if clone.Metadata["source"] != "settings-panel" {
		t.Fatalf("expected clone metadata preserved, got %q", clone.Metadata["source"])
	}
}

func TestFieldsCloneOfEmptyIsNil(t *testing.T) {
	if clone := (Fields{}).Clone(); clone != nil {
		t.Fatalf("expected nil clone for empty fields, got %v", clone)
	}
	if clone := Fields(nil).Clone(); clone != nil {
		t.Fatalf("expected nil clone for nil fields, got %v", clone)
	}
}
