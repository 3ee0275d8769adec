// Package pipeline orchestrates file discovery, per-file cleaning, and
// batch summary reporting.
//
// Types:
//   - RunStats (Total, Cleaned, Unchanged, Skipped, Failed, WouldClean,
//     byte totals; SpaceSaved method)
//
// Functions:
//   - Run(ctx, cfg, log) → RunStats
//     Batch runner: discover → for each file: read → sniff format →
//     clean (trim + re-encode) → compare → atomically replace → update
//     stats. Per-file failures never abort the batch.
//   - Discover(root, recursive) → []string
//     Walk directory, filter by image extension (jpg, png, gif, tif,
//     webp, …), sort deterministically.
//
// Implementation is split into runner.go, discover.go, stats.go and
// progress.go along these boundaries.
package pipeline
