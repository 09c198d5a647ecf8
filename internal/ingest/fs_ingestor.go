package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// Candidate is a supported file discovered under a root.
type Candidate struct {
	Path         string
	HashHex      string
	Deduplicated bool // same content already seen earlier in this scan
}

// FSIngestor discovers inventory files on the local filesystem.
type FSIngestor struct {
	logger     *slog.Logger
	skipHidden bool
}

func NewFSIngestor(logger *slog.Logger, skipHidden bool) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{logger: logger, skipHidden: skipHidden}
}

// ScanDirectory walks root and returns every supported file, hashing each so
// byte-identical copies are flagged rather than processed twice.
func (i *FSIngestor) ScanDirectory(root string) ([]Candidate, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var (
		out   []Candidate
		stats DirStats
		seen  = map[string]string{}
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			i.logger.Warn("ingest.walk.error", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		if path != root && i.skipHidden && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if !AllowedExt(path) {
			return nil
		}
		stats.Matched++

		sum, err := hashFile(path)
		if err != nil {
			i.logger.Warn("ingest.hash.error", "path", path, "error", err)
			stats.Failed++
			return nil
		}
		c := Candidate{Path: path, HashHex: sum}
		if first, dup := seen[sum]; dup {
			i.logger.Info("ingest.dedup", "path", path, "first", first)
			c.Deduplicated = true
			stats.Deduplicated++
		} else {
			seen[sum] = path
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return out, stats, fmt.Errorf("walk: %w", err)
	}

	i.logger.Info("ingest.scan.ok",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"deduplicated", stats.Deduplicated,
	)
	return out, stats, nil
}
