package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"maxuptime/internal/escalation"
)

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textfile", "maxuptime.prom")
	s := Snapshot{
		Uptime:      550000,
		Condition:   escalation.UrgentWarning,
		Thresholds:  escalation.DefaultThresholds(),
		Accelerated: true,
		LastRun:     1_790_000_000,
	}
	if err := WriteTextfile(path, s); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	for _, want := range []string{
		"maxuptime_uptime_seconds 550000",
		`maxuptime_condition{condition="UrgentWarning"} 1`,
		`maxuptime_condition{condition="Normal"} 0`,
		`maxuptime_threshold_seconds{threshold="urgent"} 518400`,
		"maxuptime_accelerated_registration 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("textfile missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextfileDisabled(t *testing.T) {
	if err := WriteTextfile("  ", Snapshot{}); err != nil {
		t.Fatalf("empty path should be a no-op: %v", err)
	}
}
