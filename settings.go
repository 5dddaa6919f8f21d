package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"simviz/statecore/internal/history"
	"simviz/statecore/internal/logging"
)

// The closed set of reversible settings fields. Every mutation recorded in
// the history stack touches a subset of these identifiers.
const (
	FieldFrequency history.FieldID = "oscillator.frequency_hz"
	FieldAmplitude history.FieldID = "oscillator.amplitude"
	FieldDamping   history.FieldID = "oscillator.damping"
	FieldPaused    history.FieldID = "oscillator.paused"
)

// SettingsStore owns the live oscillator tuning and the undo/redo history of
// its edits. All mutations funnel through one mutex, satisfying the history
// stack's single-thread-of-control precondition.
type SettingsStore struct {
	mu     sync.Mutex
	osc    *Oscillator
	stack  *history.Stack
	logger *logging.Logger
}

// NewSettingsStore wires the store to the oscillator it tunes.
func NewSettingsStore(osc *Oscillator, limit int, logger *logging.Logger) *SettingsStore {
	if logger == nil {
		logger = logging.L()
	}
	return &SettingsStore{
		osc:    osc,
		stack:  history.NewStack(limit),
		logger: logger,
	}
}

// current reads the oscillator tuning as history fields.
func (s *SettingsStore) current() history.Fields {
	frequency, amplitude, damping, paused := s.osc.Tuning()
	return history.Fields{
		FieldFrequency: history.Float(frequency),
		FieldAmplitude: history.Float(amplitude),
		FieldDamping:   history.Float(damping),
		FieldPaused:    history.Bool(paused),
	}
}

// push writes the supplied fields onto the oscillator, keeping untouched
// parameters at their current values.
func (s *SettingsStore) push(fields history.Fields) {
	frequency, amplitude, damping, paused := s.osc.Tuning()
	if value, ok := fields[FieldFrequency]; ok {
		frequency, _ = value.Float()
	}
	if value, ok := fields[FieldAmplitude]; ok {
		amplitude, _ = value.Float()
	}
	if value, ok := fields[FieldDamping]; ok {
		damping, _ = value.Float()
	}
	if value, ok := fields[FieldPaused]; ok {
		paused, _ = value.Bool()
	}
	s.osc.Retune(frequency, amplitude, damping, paused)
}

// Apply commits a settings edit and records it for undo. The before map
// captures only the touched fields, so undo restores exactly what changed.
func (s *SettingsStore) Apply(description string, after history.Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()

	//1.- Capture the prior values of the touched fields before mutating.
	full := s.current()
	before := make(history.Fields, len(after))
	for id := range after {
		before[id] = full[id]
	}

	s.push(after)
	s.stack.Record(history.Command{
		Before:      before,
		After:       after.Clone(),
		Description: description,
		Metadata:    map[string]string{"source": "settings-api"},
	})
	s.logger.Info("settings edit applied",
		logging.String("description", description),
		logging.Int("undo_depth", s.stack.UndoDepth()))
}

// Undo reverts the most recent edit, applying its before fields.
func (s *SettingsStore) Undo() (history.Command, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd, ok := s.stack.Undo()
	if !ok {
		return history.Command{}, false
	}
	s.push(cmd.Before)
	s.logger.Info("settings edit undone", logging.String("description", cmd.Description))
	return cmd, true
}

// Redo reapplies the most recently undone edit, applying its after fields.
func (s *SettingsStore) Redo() (history.Command, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd, ok := s.stack.Redo()
	if !ok {
		return history.Command{}, false
	}
	s.push(cmd.After)
	s.logger.Info("settings edit redone", logging.String("description", cmd.Description))
	return cmd, true
}

// Depths reports the undo and redo stack depths.
func (s *SettingsStore) Depths() (undo, redo int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.UndoDepth(), s.stack.RedoDepth()
}

// editRequest is the JSON body accepted by the settings endpoint.
type editRequest struct {
	Description string                     `json:"description"`
	Fields      map[string]json.RawMessage `json:"fields"`
}

// parseFields converts the raw JSON field map into typed history fields,
// rejecting identifiers outside the closed set.
func parseFields(raw map[string]json.RawMessage) (history.Fields, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one field is required")
	}
	fields := make(history.Fields, len(raw))
	for name, value := range raw {
		id := history.FieldID(name)
		switch id {
		case FieldFrequency, FieldAmplitude, FieldDamping:
			var number float64
			if err := json.Unmarshal(value, &number); err != nil {
				return nil, fmt.Errorf("field %s must be a number", name)
			}
			fields[id] = history.Float(number)
		case FieldPaused:
			var flag bool
			if err := json.Unmarshal(value, &flag); err != nil {
				return nil, fmt.Errorf("field %s must be a boolean", name)
			}
			fields[id] = history.Bool(flag)
		default:
			return nil, fmt.Errorf("unknown settings field %q", name)
		}
	}
	return fields, nil
}

// historyStatus is the JSON shape shared by the mutation endpoints.
type historyStatus struct {
	Applied     bool   `json:"applied"`
	Description string `json:"description,omitempty"`
	UndoDepth   int    `json:"undo_depth"`
	RedoDepth   int    `json:"redo_depth"`
}

func (s *SettingsStore) status(applied bool, description string) historyStatus {
	undo, redo := s.Depths()
	return historyStatus{Applied: applied, Description: description, UndoDepth: undo, RedoDepth: redo}
}

// HandleEdit accepts POST requests applying a reversible settings edit.
func (s *SettingsStore) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	fields, err := parseFields(req.Fields)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	description := req.Description
	if description == "" {
		description = "settings edit"
	}
	s.Apply(description, fields)
	writeJSON(w, s.status(true, description))
}

// HandleUndo accepts POST requests reverting the most recent edit. An empty
// undo stack is a normal state, reported in the body rather than an error.
func (s *SettingsStore) HandleUndo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cmd, ok := s.Undo()
	writeJSON(w, s.status(ok, cmd.Description))
}

// HandleRedo accepts POST requests reapplying the most recently undone edit.
func (s *SettingsStore) HandleRedo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cmd, ok := s.Redo()
	writeJSON(w, s.status(ok, cmd.Description))
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.L().Warn("encode response", logging.Error(err))
	}
}
