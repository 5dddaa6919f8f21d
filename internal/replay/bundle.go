// Package replay persists ring-buffer histories to disk as diagnostics
// bundles and loads them back for offline inspection. All file I/O of the
// state synchronization core lives here, on the collaborator side of the
// boundary; the statebus itself never touches the filesystem.
package replay

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"simviz/statecore/internal/statebus"
)

var labelCleaner = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

const (
	// BundleVersion tracks the on-disk schema for diagnostics bundles.
	BundleVersion = 1

	snapshotsName = "snapshots.jsonl.sz"
	payloadsName  = "payloads.bin.zst"
	manifestName  = "manifest.json"
)

// Manifest describes the bundle layout so tooling can locate the artefacts.
type Manifest struct {
	Version       int    `json:"version"`
	CreatedAt     string `json:"created_at"`
	Label         string `json:"label"`
	SnapshotCount int    `json:"snapshot_count"`
	SnapshotsPath string `json:"snapshots_path"`
	PayloadsPath  string `json:"payloads_path"`
}

// snapshotRecord is the JSONL row persisted per snapshot.
type snapshotRecord struct {
	Step       uint64          `json:"step"`
	SimTime    float64         `json:"sim_time"`
	CapturedAt string          `json:"captured_at"`
	Payload    json.RawMessage `json:"payload"`
}

// WriteBundle dumps the supplied snapshots, oldest first, into a fresh
// directory under root. Snapshots are encoded twice: a snappy-compressed
// JSONL log for streaming inspection and a zstd-compressed length-prefixed
// payload blob for bulk tooling. The clock may be nil.
func WriteBundle[P any](root, label string, snaps []statebus.Snapshot[P], clock func() time.Time) (string, Manifest, error) {
	if root == "" {
		return "", Manifest{}, fmt.Errorf("bundle root must be provided")
	}
	if len(snaps) == 0 {
		return "", Manifest{}, fmt.Errorf("no snapshots to dump")
	}
	if clock == nil {
		clock = time.Now
	}

	cleaned := labelCleaner.ReplaceAllString(label, "")
	if cleaned == "" {
		cleaned = "session"
	}
	created := clock().UTC()
	dir := filepath.Join(root, fmt.Sprintf("%s-%s", cleaned, created.Format("20060102T150405Z")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", Manifest{}, err
	}

	//1.- Stream the JSONL log through snappy so very large rings stay cheap
	// to dump from the diagnostics endpoint.
	snapFile, err := os.Create(filepath.Join(dir, snapshotsName))
	if err != nil {
		return "", Manifest{}, err
	}
	snapStream := snappy.NewBufferedWriter(snapFile)

	payloadFile, err := os.Create(filepath.Join(dir, payloadsName))
	if err != nil {
		snapStream.Close()
		snapFile.Close()
		return "", Manifest{}, err
	}
	payloadStream, err := zstd.NewWriter(payloadFile)
	if err != nil {
		snapStream.Close()
		snapFile.Close()
		payloadFile.Close()
		return "", Manifest{}, err
	}

	closeAll := func() {
		payloadStream.Close()
		payloadFile.Close()
		snapStream.Close()
		snapFile.Close()
	}

	var prefix [binary.MaxVarintLen64]byte
	for _, snap := range snaps {
		payload, err := json.Marshal(snap.Payload)
		if err != nil {
			closeAll()
			return "", Manifest{}, fmt.Errorf("encode payload for step %d: %w", snap.Step, err)
		}
		record := snapshotRecord{
			Step:       snap.Step,
			SimTime:    snap.SimTime,
			CapturedAt: snap.CapturedAt.Format(time.RFC3339Nano),
			Payload:    payload,
		}
		line, err := json.Marshal(record)
		if err != nil {
			closeAll()
			return "", Manifest{}, err
		}
		if _, err := snapStream.Write(append(line, '\n')); err != nil {
			closeAll()
			return "", Manifest{}, err
		}
		//2.- Length-prefix each payload so bulk readers can skip records
		// without parsing JSON.
		n := binary.PutUvarint(prefix[:], uint64(len(payload)))
		if _, err := payloadStream.Write(prefix[:n]); err != nil {
			closeAll()
			return "", Manifest{}, err
		}
		if _, err := payloadStream.Write(payload); err != nil {
			closeAll()
			return "", Manifest{}, err
		}
	}

	if err := snapStream.Close(); err != nil {
		payloadStream.Close()
		payloadFile.Close()
		snapFile.Close()
		return "", Manifest{}, err
	}
	if err := snapFile.Close(); err != nil {
		payloadStream.Close()
		payloadFile.Close()
		return "", Manifest{}, err
	}
	if err := payloadStream.Close(); err != nil {
		payloadFile.Close()
		return "", Manifest{}, err
	}
	if err := payloadFile.Close(); err != nil {
		return "", Manifest{}, err
	}

	manifest := Manifest{
		Version:       BundleVersion,
		CreatedAt:     created.Format(time.RFC3339Nano),
		Label:         cleaned,
		SnapshotCount: len(snaps),
		SnapshotsPath: snapshotsName,
		PayloadsPath:  payloadsName,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", Manifest{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, manifestName), data, 0o644); err != nil {
		return "", Manifest{}, err
	}
	return dir, manifest, nil
}
