package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/snappy"

	"simviz/statecore/internal/statebus"
)

// LoadBundle reads a diagnostics bundle back into memory. The path may point
// at the bundle directory or directly at its manifest. Snapshots come back
// oldest first, exactly as dumped.
func LoadBundle[P any](path string) (Manifest, []statebus.Snapshot[P], error) {
	if path == "" {
		return Manifest{}, nil, fmt.Errorf("bundle path is required")
	}

	//1.- Resolve the manifest so the asset paths stay relative to the bundle.
	manifestPath := path
	info, err := os.Stat(path)
	if err != nil {
		return Manifest{}, nil, err
	}
	if info.IsDir() {
		manifestPath = filepath.Join(path, manifestName)
	}
	dir := filepath.Dir(manifestPath)

	manifestBytes, err := os.ReadFile(manifestPath)
	if err != nil {
		return Manifest{}, nil, err
	}
	var manifest Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return Manifest{}, nil, err
	}
	if manifest.Version != BundleVersion {
		return Manifest{}, nil, fmt.Errorf("unsupported bundle version %d", manifest.Version)
	}

	snaps, err := loadSnapshots[P](filepath.Join(dir, manifest.SnapshotsPath))
	if err != nil {
		return Manifest{}, nil, err
	}
	if manifest.SnapshotCount != len(snaps) {
		return Manifest{}, nil, fmt.Errorf("manifest declares %d snapshots, log holds %d", manifest.SnapshotCount, len(snaps))
	}
	return manifest, snaps, nil
}

func loadSnapshots[P any](path string) ([]statebus.Snapshot[P], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(snappy.NewReader(file))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var snaps []statebus.Snapshot[P]
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var record snapshotRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("decode snapshot line %d: %w", line, err)
		}
		captured, err := time.Parse(time.RFC3339Nano, record.CapturedAt)
		if err != nil {
			return nil, fmt.Errorf("parse capture time on line %d: %w", line, err)
		}
		var payload P
		if err := json.Unmarshal(record.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode payload on line %d: %w", line, err)
		}
		snaps = append(snaps, statebus.Snapshot[P]{
			Step:       record.Step,
			SimTime:    record.SimTime,
			CapturedAt: captured,
			Payload:    payload,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return snaps, nil
}
