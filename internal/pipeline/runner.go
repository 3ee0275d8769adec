package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/photoclean/photoclean/internal/config"
	"github.com/photoclean/photoclean/internal/display"
	"github.com/photoclean/photoclean/internal/imagefile"
	"github.com/photoclean/photoclean/internal/logging"
	"github.com/photoclean/photoclean/internal/sanitize"
	"github.com/photoclean/photoclean/internal/term"
)

// Run is the top-level batch entry point. It discovers image files under
// cfg.Root and processes each sequentially, returning aggregate stats.
// Per-file failures are recorded and the batch continues.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	files, err := Discover(cfg.Root, cfg.Recursive)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return stats
	}

	stats.Total = len(files)
	if stats.Total == 0 {
		log.Warn("No image files found in %s", cfg.Root)
		return stats
	}

	logBatchHeader(cfg, log, &stats)

	isTTY := term.IsTerminal(os.Stdout) && !cfg.Verbose
	for i, path := range files {
		stats.Current = i + 1

		if ctx.Err() != nil {
			clearProgress(isTTY)
			log.Warn("Interrupted")
			break
		}

		printProgress(isTTY, stats.Current, stats.Total, stats.Failed, filepath.Base(path))
		outcome := processFile(cfg, log, path, &stats, isTTY)
		stats.record(outcome)
	}
	clearProgress(isTTY)

	logSummary(cfg, log, &stats)
	return stats
}

// processFile handles one image file: read → sniff → clean → compare →
// replace. It returns the file's outcome; error detail has already been
// logged by the time it returns.
func processFile(cfg *config.Config, log *logging.Logger, path string, stats *RunStats, isTTY bool) Outcome {
	basename := filepath.Base(path)
	log.Debug(cfg.Verbose, "[%d/%d] %s", stats.Current, stats.Total, basename)

	fi, err := os.Stat(path)
	if err != nil {
		fileError(log, isTTY, "Cannot stat %s: %v", path, err)
		return OutcomeFailed
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fileError(log, isTTY, "Cannot read %s: %v", path, err)
		return OutcomeFailed
	}

	format := imagefile.Sniff(data)
	if format == imagefile.FormatUnknown {
		clearProgress(isTTY)
		log.Warn("Skip (unrecognized content): %s", basename)
		return OutcomeSkipped
	}
	if byExt := imagefile.ByExtension(path); byExt != format {
		log.Debug(cfg.Verbose, "  Extension says %s, content says %s; trusting content", byExt, format)
	}

	if cfg.Verbose {
		if desc := sanitize.DescribeEXIF(data); desc != "" {
			log.Debug(cfg.Verbose, "  Found %s", desc)
		}
	}

	res, err := sanitize.Clean(data, format, sanitize.Options{
		JPEGQuality: cfg.JPEGQuality,
		MaxEdge:     cfg.MaxEdge,
	})
	if err != nil {
		fileError(log, isTTY, "Cannot clean %s: %v", basename, err)
		return OutcomeFailed
	}

	// Already-clean detection happens after the decode above has vouched for
	// the file. A JPEG re-encode is lossy and never byte-stable, so a digest
	// compare cannot work there; a structural scan of the original decides
	// instead. Lossless formats re-encode deterministically, so identical
	// output means the file was already clean.
	if format == imagefile.FormatJPEG {
		if !res.Resized && imagefile.JPEGIsClean(data) {
			log.Debug(cfg.Verbose, "  Already clean")
			return OutcomeUnchanged
		}
	} else if xxhash.Sum64(res.Data) == xxhash.Sum64(data) {
		log.Debug(cfg.Verbose, "  Already clean")
		return OutcomeUnchanged
	}

	if res.TrailingBytes > 0 {
		log.Debug(cfg.Verbose, "  Trailing data: %s past end of image",
			display.FormatBytes(int64(res.TrailingBytes)))
	}

	if cfg.DryRun {
		clearProgress(isTTY)
		log.Success("[DRY] Would clean: %s", basename)
		return OutcomeDryRun
	}

	if err := writeFileAtomic(path, res.Data, fi.Mode()); err != nil {
		fileError(log, isTTY, "Cannot write %s: %v", basename, err)
		return OutcomeFailed
	}

	stats.TotalInputBytes += int64(len(data))
	stats.TotalOutputBytes += int64(len(res.Data))
	stats.TrailingBytes += int64(res.TrailingBytes)

	if cfg.Verbose {
		suffix := ""
		if res.Resized {
			suffix = " [downscaled]"
		}
		log.Success("Cleaned: %s (%s -> %s)%s", basename,
			display.FormatBytes(int64(len(data))),
			display.FormatBytes(int64(len(res.Data))), suffix)
	}
	return OutcomeCleaned
}

// fileError clears the progress line before logging so the error is not
// glued onto a half-overwritten status.
func fileError(log *logging.Logger, isTTY bool, format string, args ...interface{}) {
	clearProgress(isTTY)
	log.Error(format, args...)
}

// writeFileAtomic writes data to a temp file in the same directory as path,
// carries over the original permissions, and renames it over the original.
// Same-directory placement keeps the rename on one filesystem.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".photoclean-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, mode.Perm()); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d image file(s) under %s", stats.Total, cfg.Root)
	if cfg.Recursive {
		log.Info("Scan: recursive")
	} else {
		log.Info("Scan: top-level only")
	}
	log.Info("JPEG quality: %d", cfg.JPEGQuality)
	if cfg.MaxEdge > 0 {
		log.Info("Max edge: %d px (larger images are downscaled)", cfg.MaxEdge)
	}
	log.Info("")
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")

	if cfg.DryRun {
		log.Info("Done: %d would be cleaned, %d already clean, %d skipped, %d failed",
			stats.WouldClean, stats.Unchanged, stats.Skipped, stats.Failed)
		log.Warn("Dry run: no files were modified")
		return
	}

	log.Info("Done: %d cleaned, %d already clean, %d skipped, %d failed",
		stats.Cleaned, stats.Unchanged, stats.Skipped, stats.Failed)

	if stats.TrailingBytes > 0 {
		log.Success("  Hidden trailing data removed: %s", display.FormatBytes(stats.TrailingBytes))
	}

	if stats.Cleaned == 0 {
		return
	}
	saved := stats.SpaceSaved()
	if saved >= 0 {
		log.Success("  Total space saved: %s (input %s -> output %s)",
			display.FormatBytes(saved),
			display.FormatBytes(stats.TotalInputBytes),
			display.FormatBytes(stats.TotalOutputBytes))
	} else {
		log.Warn("  Total space saved: -%s (re-encoded output is larger)",
			display.FormatBytes(-saved))
	}
}
