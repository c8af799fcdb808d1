package storage

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
)

// SweepResult summarizes one reconciliation pass.
type SweepResult struct {
	Scanned int
	Removed int
}

// Sweep walks the storage tree and removes files no diary row
// references. referenced holds stored relative paths, including those
// of logically deleted diaries, whose files are kept. Files younger
// than grace are never touched: they may belong to a submission whose
// transaction has not committed yet. Staging files are unreferenced by
// definition, so old ones are always collected.
func (s *Store) Sweep(ctx context.Context, log *slog.Logger, referenced []string, grace time.Duration) (SweepResult, error) {
	keep := make(map[string]struct{}, len(referenced))
	for _, rel := range referenced {
		keep[rel] = struct{}{}
	}

	cutoff := time.Now().Add(-grace)

	var res SweepResult
	for _, dir := range []string{tmpDir, imagesDir, videosDir} {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := s.sweepDir(ctx, log, dir, keep, cutoff, &res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func (s *Store) sweepDir(ctx context.Context, log *slog.Logger, dir string, keep map[string]struct{}, cutoff time.Time, res *SweepResult) error {
	root := filepath.Join(s.root, dir)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %v: %w", dir, err, domain.ErrStorage)
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			return nil
		}

		res.Scanned++

		rel, err := s.Rel(path)
		if err != nil {
			return err
		}
		if _, ok := keep[rel]; ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %v: %w", rel, err, domain.ErrStorage)
		}
		if info.ModTime().After(cutoff) {
			return nil
		}

		if err := os.Remove(path); err != nil {
			log.Warn("failed to remove orphaned file", slog.String("path", rel), slog.Any("error", err))
			return nil
		}

		res.Removed++
		log.Info("removed orphaned file", slog.String("path", rel))
		return nil
	})
}
