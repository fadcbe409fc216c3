package uptime

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseProcUptime(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "fractional", in: "550000.93 1234.00\n", want: 550000},
		{name: "integer", in: "42 1", want: 42},
		{name: "empty", in: "  ", wantErr: true},
		{name: "garbage", in: "abc 1", wantErr: true},
		{name: "negative", in: "-3.0 1", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseProcUptime(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Fatalf("expected ErrUnavailable, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("parseProcUptime(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestProcFileSource(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "uptime")
	if err := os.WriteFile(path, []byte("700000.10 99.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ProcFile{Path: path}.Uptime(context.Background())
	if err != nil || got != 700000 {
		t.Fatalf("Uptime = %d, %v; want 700000", got, err)
	}

	_, err = ProcFile{Path: filepath.Join(t.TempDir(), "missing")}.Uptime(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("missing file: expected ErrUnavailable, got %v", err)
	}
}
