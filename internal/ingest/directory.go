package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/docsense/constants"
)

// IngestDirectory walks root, skips hidden if requested,
// and calls IngestPath for each file. Returns per-file results + aggregate stats.
// Table sidecars are read along with their document and never ingested on their own.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if !AllowedExt(ext) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}

		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})

	i.logger.Info("ingest.directory.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}
