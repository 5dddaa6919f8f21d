// Command statecore runs the real-time state synchronization service: a
// fixed-timestep demo oscillator publishing snapshots through the latest-only
// slot and ring buffer, a websocket broadcaster for renderers, and an HTTP
// surface for settings edits with undo/redo, history views, and diagnostics
// dumps.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simviz/statecore/internal/config"
	"simviz/statecore/internal/logging"
	"simviz/statecore/internal/replay"
	"simviz/statecore/internal/simulation"
	"simviz/statecore/internal/stream"
)

const (
	defaultFrequencyHz = 1.5
	defaultAmplitude   = 1.0
	defaultDamping     = 0.05
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "statecore: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "statecore: configure logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	osc := NewOscillator(defaultFrequencyHz, defaultAmplitude, defaultDamping)
	producer, err := simulation.NewProducer[OscillatorState](cfg.RingCapacity, time.Now)
	if err != nil {
		logger.Fatal("construct producer", logging.Error(err))
	}
	monitor := simulation.NewStepMonitor()

	loop := simulation.NewLoop(cfg.SimRateHz, func(tick uint64, step time.Duration) {
		started := time.Now()
		simTime, state := osc.Step(step.Seconds())
		producer.Publish(simTime, state)
		monitor.Observe(time.Since(started))
	})

	broadcaster := stream.NewBroadcaster(cfg.BroadcastInterval, latestPoll(producer), logger)
	settings := NewSettingsStore(osc, cfg.HistoryLimit, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop.Start(ctx)
	broadcaster.Start(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", broadcaster)
	mux.HandleFunc("/settings", settings.HandleEdit)
	mux.HandleFunc("/settings/undo", settings.HandleUndo)
	mux.HandleFunc("/settings/redo", settings.HandleRedo)
	mux.HandleFunc("/history", handleHistory(producer))
	mux.HandleFunc("/stats", handleStats(monitor, producer, settings))
	mux.HandleFunc("/dump", handleDump(cfg.DumpDir, producer, logger))

	server := &http.Server{Addr: cfg.Address, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("statecore listening",
		logging.String("address", cfg.Address),
		logging.Float64("sim_rate_hz", cfg.SimRateHz),
		logging.Int("ring_capacity", cfg.RingCapacity),
		logging.Int("history_limit", cfg.HistoryLimit))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", logging.Error(err))
	}

	loop.Stop()
	broadcaster.Stop()
	logger.Info("statecore shut down")
}

// latestPoll adapts the producer's latest-only slot to the broadcaster's
// poll contract, encoding the snapshot as JSON.
func latestPoll(producer *simulation.Producer[OscillatorState]) stream.PollFunc {
	return func() ([]byte, bool) {
		snap, ok := producer.Slot().TryTake()
		if !ok {
			return nil, false
		}
		payload, err := json.Marshal(snap)
		if err != nil {
			logging.L().Warn("encode snapshot", logging.Error(err))
			return nil, false
		}
		return payload, true
	}
}

// handleHistory serves the retained snapshot history, oldest first.
func handleHistory(producer *simulation.Producer[OscillatorState]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, producer.Ring().ToList())
	}
}

// handleStats serves loop timing and handoff occupancy for dashboards.
func handleStats(monitor *simulation.StepMonitor, producer *simulation.Producer[OscillatorState], settings *SettingsStore) http.HandlerFunc {
	type statsResponse struct {
		StepSamples   int     `json:"step_samples"`
		StepAverageMs float64 `json:"step_average_ms"`
		StepMaxMs     float64 `json:"step_max_ms"`
		StepAverageHz float64 `json:"step_average_hz"`
		RingLen       int     `json:"ring_len"`
		RingCap       int     `json:"ring_cap"`
		LatestStep    uint64  `json:"latest_step"`
		LatestPending bool    `json:"latest_pending"`
		UndoDepth     int     `json:"undo_depth"`
		RedoDepth     int     `json:"redo_depth"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		stats := monitor.Stats()
		undo, redo := settings.Depths()
		resp := statsResponse{
			StepSamples:   stats.Samples,
			StepAverageMs: float64(stats.Average) / float64(time.Millisecond),
			StepMaxMs:     float64(stats.Max) / float64(time.Millisecond),
			StepAverageHz: stats.AverageHz(),
			RingLen:       producer.Ring().Len(),
			RingCap:       producer.Ring().Cap(),
			UndoDepth:     undo,
			RedoDepth:     redo,
		}
		//1.- Peek leaves the pending snapshot for the renderer to take.
		if snap, ok := producer.Slot().Peek(); ok {
			resp.LatestStep = snap.Step
			resp.LatestPending = true
		}
		writeJSON(w, resp)
	}
}

// handleDump writes the current ring contents to a diagnostics bundle.
func handleDump(dir string, producer *simulation.Producer[OscillatorState], logger *logging.Logger) http.HandlerFunc {
	type dumpResponse struct {
		Path      string `json:"path"`
		Snapshots int    `json:"snapshots"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snaps := producer.Ring().ToList()
		if len(snaps) == 0 {
			http.Error(w, "no snapshots buffered", http.StatusConflict)
			return
		}
		label := r.URL.Query().Get("label")
		path, manifest, err := replay.WriteBundle(dir, label, snaps, nil)
		if err != nil {
			logger.Error("write diagnostics bundle", logging.Error(err))
			http.Error(w, "dump failed", http.StatusInternalServerError)
			return
		}
		logger.Info("diagnostics bundle written",
			logging.String("path", path),
			logging.Int("snapshots", manifest.SnapshotCount))
		writeJSON(w, dumpResponse{Path: path, Snapshots: manifest.SnapshotCount})
	}
}
