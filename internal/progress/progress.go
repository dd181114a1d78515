// Package progress persists batch checkpoints so an interrupted run can
// resume where it stopped.
package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/datacarts/barcode-enricher/internal/barcode"
	"github.com/datacarts/barcode-enricher/internal/types"
)

// CheckpointFile is the checkpoint's filename under the output dir.
const CheckpointFile = "progress.json"

// Tracker reads and writes the checkpoint file.
type Tracker struct {
	path string
}

// NewTracker creates a tracker for the given output directory.
func NewTracker(dir string) *Tracker {
	return &Tracker{path: filepath.Join(dir, CheckpointFile)}
}

// Load returns the stored checkpoint, or nil when no usable checkpoint
// exists. A corrupt file is treated as absent so a damaged checkpoint
// never blocks a run.
func (t *Tracker) Load() *types.Checkpoint {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil
	}

	var cp types.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil
	}
	return &cp
}

// Save writes the checkpoint.
func (t *Tracker) Save(cp *types.Checkpoint) error {
	cp.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// Clear removes the checkpoint file. Called when a batch completes so
// the next run starts fresh.
func (t *Tracker) Clear() error {
	err := os.Remove(t.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove checkpoint: %w", err)
	}
	return nil
}

// NewCheckpoint starts a fresh checkpoint with a unique run ID.
func NewCheckpoint() *types.Checkpoint {
	return &types.Checkpoint{
		RunID:      uuid.NewString(),
		CurrentRow: -1,
		StartTime:  time.Now(),
	}
}

// ResumeRow decides which input row to start from. Strategies in
// order: the stored checkpoint row, the position of a last-seen
// barcode in the input, and finally the beginning.
func ResumeRow(cp *types.Checkpoint, barcodes []string, lastStored string) int {
	if cp != nil && cp.CurrentRow >= 0 && cp.CurrentRow < len(barcodes) {
		return cp.CurrentRow + 1
	}

	last := lastStored
	if cp != nil && cp.LastBarcode != "" {
		last = cp.LastBarcode
	}
	if last != "" {
		// Checkpoints store normalized barcodes; input cells may not be.
		for i, b := range barcodes {
			if barcode.Normalize(b) == last {
				return i + 1
			}
		}
	}
	return 0
}
