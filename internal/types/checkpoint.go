package types

import "time"

// Checkpoint is the persisted progress snapshot written after every
// processed identifier. CurrentRow is the zero-based index of the row most
// recently finished; resume starts at CurrentRow+1.
type Checkpoint struct {
	RunID          string    `json:"run_id"`
	CurrentRow     int       `json:"current_row"`
	Processed      int       `json:"processed"`
	Succeeded      int       `json:"succeeded"`
	Errored        int       `json:"errored"`
	SkippedInvalid int       `json:"skipped_invalid"`
	LastBarcode    string    `json:"last_barcode"`
	StartTime      time.Time `json:"start_time"`
	UpdatedAt      time.Time `json:"updated_at"`
}
