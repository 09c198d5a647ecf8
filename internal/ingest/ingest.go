package ingest

import (
	"context"
	"time"

	"github.com/joseph-ayodele/furniture-charges/constants"
)

// FileResult is the per-file batch outcome.
type FileResult struct {
	SourcePath   string              `json:"source_path"`
	HashHex      string              `json:"hash,omitempty"`
	Deduplicated bool                `json:"deduplicated,omitempty"`
	Status       constants.RunStatus `json:"status"`
	Items        int                 `json:"items"`
	OutputPath   string              `json:"output_path,omitempty"`
	QuoteID      string              `json:"quote_id,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
	Elapsed      time.Duration       `json:"elapsed"`
	Err          string              `json:"error,omitempty"`
}

// DirStats summarizes a directory run.
type DirStats struct {
	Scanned      uint32 `json:"scanned"`
	Matched      uint32 `json:"matched"`
	Succeeded    uint32 `json:"succeeded"`
	Empty        uint32 `json:"empty"`
	Deduplicated uint32 `json:"deduplicated"`
	Failed       uint32 `json:"failed"`
}

// record folds one processed file into the stats.
func (s *DirStats) record(r FileResult) {
	if r.Deduplicated {
		return
	}
	switch r.Status {
	case constants.RunStatusOK:
		s.Succeeded++
	case constants.RunStatusEmpty:
		s.Succeeded++
		s.Empty++
	case constants.RunStatusFailed:
		s.Failed++
	}
}

// FileHandler is the behavior the batch runner and the watcher depend on.
type FileHandler interface {
	// HandleFile processes a single inventory file end to end.
	HandleFile(ctx context.Context, path string) FileResult
}
