package check

import (
	"fmt"
	"strings"
	"testing"
)

// recordingLogger captures log lines per level for assertions.
type recordingLogger struct {
	infos     []string
	successes []string
	warns     []string
	errors    []string
}

func (r *recordingLogger) Info(f string, a ...interface{})    { r.infos = append(r.infos, fmt.Sprintf(f, a...)) }
func (r *recordingLogger) Success(f string, a ...interface{}) { r.successes = append(r.successes, fmt.Sprintf(f, a...)) }
func (r *recordingLogger) Warn(f string, a ...interface{})    { r.warns = append(r.warns, fmt.Sprintf(f, a...)) }
func (r *recordingLogger) Error(f string, a ...interface{})   { r.errors = append(r.errors, fmt.Sprintf(f, a...)) }

func TestRunCheck_AllPass(t *testing.T) {
	log := &recordingLogger{}
	if !RunCheck(log) {
		t.Fatalf("RunCheck failed; errors: %v", log.errors)
	}
	if len(log.errors) != 0 {
		t.Errorf("unexpected errors: %v", log.errors)
	}

	joined := strings.Join(log.successes, "\n")
	for _, want := range []string{"JPEG", "PNG", "GIF", "TIFF", "WebP", "Scratch write"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing success line for %s; got: %v", want, log.successes)
		}
	}
}

func TestCheckWebPFilter(t *testing.T) {
	if !checkWebPFilter() {
		t.Error("container filter self-test should pass")
	}
}
