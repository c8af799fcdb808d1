// Package media implements the image transform step of the submission
// pipeline: raster uploads are downscaled and re-encoded into a derived
// storage location. Videos are never transformed, only relocated by the
// storage layer.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/wanderlog/traveldiary-backend/internal/config"
	"github.com/wanderlog/traveldiary-backend/internal/domain"
)

// Transformer produces bounded JPEG derivatives of uploaded images.
type Transformer struct {
	derivedDir string
	maxDim     int
	quality    int
	timeout    time.Duration
	log        *slog.Logger
}

// NewTransformer creates a Transformer writing into derivedDir.
func NewTransformer(cfg config.MediaConfig, derivedDir string, logger *slog.Logger) *Transformer {
	return &Transformer{
		derivedDir: derivedDir,
		maxDim:     cfg.MaxDimension,
		quality:    cfg.JPEGQuality,
		timeout:    cfg.TransformTimeout,
		log:        logger.With("component", "media"),
	}
}

// Transform decodes the raster image at rawPath, scales it so its
// longest dimension does not exceed the configured bound (aspect ratio
// preserved, never upscaled), re-encodes it as JPEG at the configured
// quality, and returns the absolute path of the derived file. The
// output appears atomically (temp file + rename), so a failure never
// leaves a partial derivative behind. Corrupt or unsupported input is
// reported as domain.ErrMediaTransform.
//
// The work runs under the transform timeout; on expiry the decode
// goroutine is abandoned and its temp output, if any, is left for the
// sweeper.
func (t *Transformer) Transform(ctx context.Context, rawPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type result struct {
		path string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		path, err := t.transform(rawPath)
		done <- result{path: path, err: err}
	}()

	select {
	case r := <-done:
		return r.path, r.err
	case <-ctx.Done():
		t.log.Warn("image transform abandoned",
			slog.String("path", filepath.Base(rawPath)),
			slog.String("reason", ctx.Err().Error()),
		)
		return "", fmt.Errorf("transform %s: %v: %w", filepath.Base(rawPath), ctx.Err(), domain.ErrMediaTransform)
	}
}

func (t *Transformer) transform(rawPath string) (string, error) {
	img, err := imaging.Open(rawPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode %s: %v: %w", filepath.Base(rawPath), err, domain.ErrMediaTransform)
	}

	// Fit scales down to the bounding box and leaves smaller images
	// untouched, which is exactly the no-upscale contract.
	fitted := imaging.Fit(img, t.maxDim, t.maxDim, imaging.Lanczos)

	if err := os.MkdirAll(t.derivedDir, 0o755); err != nil {
		return "", fmt.Errorf("create derived dir: %v: %w", err, domain.ErrMediaTransform)
	}

	dst := filepath.Join(t.derivedDir, DerivedName(rawPath))

	tmp, err := os.CreateTemp(t.derivedDir, ".transform-*")
	if err != nil {
		return "", fmt.Errorf("create temp output: %v: %w", err, domain.ErrMediaTransform)
	}

	if err := imaging.Encode(tmp, fitted, imaging.JPEG, imaging.JPEGQuality(t.quality)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("encode %s: %v: %w", filepath.Base(rawPath), err, domain.ErrMediaTransform)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("flush %s: %v: %w", filepath.Base(rawPath), err, domain.ErrMediaTransform)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("place %s: %v: %w", filepath.Base(rawPath), err, domain.ErrMediaTransform)
	}

	return dst, nil
}

// DerivedName returns the deterministic derivative filename for a raw
// upload: the original base name with a "compressed-" prefix and a
// .jpg extension, since derivatives are always re-encoded as JPEG.
func DerivedName(rawPath string) string {
	base := filepath.Base(rawPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return "compressed-" + base + ".jpg"
}
