// Package history maintains a bounded undo/redo log of reversible settings
// mutations. It never applies side effects itself: callers record a Command
// when they commit a mutation and apply the returned before/after fields back
// onto their own store when the user undoes or redoes.
package history

// FieldID identifies one settings field touched by a mutation. Callers keep
// a closed set of identifiers rather than free-form strings so field names
// cannot drift between the before and after maps.
type FieldID string

// ValueKind enumerates the payload types a FieldValue can carry.
type ValueKind int

const (
	KindFloat ValueKind = iota
	KindInt
	KindBool
	KindText
)

func (k ValueKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// FieldValue is a small tagged union holding one typed settings value.
// Values are comparable, so tests and callers can use == directly.
type FieldValue struct {
	kind  ValueKind
	float float64
	whole int64
	flag  bool
	text  string
}

// Float wraps a float64 settings value.
func Float(v float64) FieldValue { return FieldValue{kind: KindFloat, float: v} }

// Int wraps an int64 settings value.
func Int(v int64) FieldValue { return FieldValue{kind: KindInt, whole: v} }

// Bool wraps a boolean settings value.
func Bool(v bool) FieldValue { return FieldValue{kind: KindBool, flag: v} }

// Text wraps a string settings value.
func Text(v string) FieldValue { return FieldValue{kind: KindText, text: v} }

// Kind reports which payload type the value carries.
func (v FieldValue) Kind() ValueKind { return v.kind }

// Float returns the float payload; the second value is false when the
// FieldValue carries a different kind.
func (v FieldValue) Float() (float64, bool) { return v.float, v.kind == KindFloat }

// Int returns the integer payload when present.
func (v FieldValue) Int() (int64, bool) { return v.whole, v.kind == KindInt }

// Bool returns the boolean payload when present.
func (v FieldValue) Bool() (bool, bool) { return v.flag, v.kind == KindBool }

// Text returns the string payload when present.
func (v FieldValue) Text() (string, bool) { return v.text, v.kind == KindText }

// Fields maps touched field identifiers to their typed values.
type Fields map[FieldID]FieldValue

// Clone returns a defensive copy so holders can share Fields without
// exposing their own map to mutation.
func (f Fields) Clone() Fields {
	if len(f) == 0 {
		return nil
	}
	clone := make(Fields, len(f))
	for id, value := range f {
		clone[id] = value
	}
	return clone
}

// Command pairs the prior and new values of one reversible mutation together
// with a human-readable description. Before and After are expected to cover
// the same field set; that agreement is caller discipline, not enforced here.
type Command struct {
	Before      Fields
	After       Fields
	Description string
	Metadata    map[string]string
}

// Clone duplicates the command's maps so the stack can own its copy while
// the caller keeps mutating its working maps.
func (c Command) Clone() Command {
	clone := Command{
		Before:      c.Before.Clone(),
		After:       c.After.Clone(),
		Description: c.Description,
	}
	if len(c.Metadata) > 0 {
		clone.Metadata = make(map[string]string, len(c.Metadata))
		for key, value := range c.Metadata {
			clone.Metadata[key] = value
		}
	}
	return clone
}
