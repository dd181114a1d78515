package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacarts/barcode-enricher/internal/types"
)

func TestTracker_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	tracker := NewTracker(dir)

	cp := NewCheckpoint()
	cp.CurrentRow = 41
	cp.Processed = 42
	cp.LastBarcode = "8901030875071"
	require.NoError(t, tracker.Save(cp))

	loaded := tracker.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, 41, loaded.CurrentRow)
	assert.Equal(t, "8901030875071", loaded.LastBarcode)
	assert.Equal(t, cp.RunID, loaded.RunID)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestTracker_LoadMissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()
	tracker := NewTracker(dir)
	assert.Nil(t, tracker.Load())

	require.NoError(t, os.WriteFile(filepath.Join(dir, CheckpointFile), []byte("garbage"), 0o644))
	assert.Nil(t, tracker.Load())
}

func TestTracker_Clear(t *testing.T) {
	dir := t.TempDir()
	tracker := NewTracker(dir)

	require.NoError(t, tracker.Save(NewCheckpoint()))
	require.NoError(t, tracker.Clear())
	assert.Nil(t, tracker.Load())

	// Clearing again is not an error.
	require.NoError(t, tracker.Clear())
}

func TestResumeRow(t *testing.T) {
	barcodes := []string{"a", "b", "c", "d"}

	tests := []struct {
		name       string
		cp         *types.Checkpoint
		lastStored string
		want       int
	}{
		{"no state", nil, "", 0},
		{"stored row", &types.Checkpoint{CurrentRow: 1}, "", 2},
		{"row out of range falls back to barcode", &types.Checkpoint{CurrentRow: 99, LastBarcode: "b"}, "", 2},
		{"checkpoint barcode", &types.Checkpoint{CurrentRow: -1, LastBarcode: "c"}, "", 3},
		{"last stored product", nil, "b", 2},
		{"unknown barcode starts over", &types.Checkpoint{CurrentRow: -1, LastBarcode: "zz"}, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResumeRow(tt.cp, barcodes, tt.lastStored))
		})
	}
}

func TestResumeRow_NormalizesInputCells(t *testing.T) {
	barcodes := []string{"890-1030-875071", " 8901030875088 "}

	cp := &types.Checkpoint{CurrentRow: -1, LastBarcode: "8901030875071"}
	assert.Equal(t, 1, ResumeRow(cp, barcodes, ""))
	assert.Equal(t, 2, ResumeRow(nil, barcodes, "8901030875088"))
}
