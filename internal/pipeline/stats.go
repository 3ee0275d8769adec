package pipeline

// Outcome classifies what happened to one file.
type Outcome string

const (
	OutcomeCleaned   Outcome = "cleaned"
	OutcomeUnchanged Outcome = "unchanged" // already clean, file left untouched
	OutcomeSkipped   Outcome = "skipped"   // unrecognized or unsupported content
	OutcomeDryRun    Outcome = "dry-run"   // would have been cleaned
	OutcomeFailed    Outcome = "failed"
)

// RunStats tracks aggregate counters and byte totals across a batch run.
// Byte totals only cover files that were actually rewritten.
type RunStats struct {
	Total      int
	Current    int
	Cleaned    int
	Unchanged  int
	Skipped    int
	Failed     int
	WouldClean int // dry-run only

	TotalInputBytes  int64
	TotalOutputBytes int64
	TrailingBytes    int64 // hidden bytes removed past end-of-image markers
}

// record bumps the counter matching the outcome.
func (s *RunStats) record(o Outcome) {
	switch o {
	case OutcomeCleaned:
		s.Cleaned++
	case OutcomeUnchanged:
		s.Unchanged++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeDryRun:
		s.WouldClean++
	case OutcomeFailed:
		s.Failed++
	}
}

// SpaceSaved returns the aggregate byte difference between inputs and
// outputs of rewritten files. Positive means outputs are smaller.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
