// Package uptime samples seconds since boot and provides the wall clock used
// by the controller and countdown.
package uptime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrUnavailable = errors.New("uptime unavailable")

// Source reports the machine's uptime in whole seconds.
type Source interface {
	Uptime(ctx context.Context) (int64, error)
}

// Clock supplies wall time and blocking sleeps.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the real clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// System returns the platform uptime source.
func System() Source { return systemSource{} }

// ProcFile reads uptime from a /proc/uptime formatted file.
type ProcFile struct {
	Path string
}

func (p ProcFile) Uptime(ctx context.Context) (int64, error) {
	_ = ctx
	path := p.Path
	if path == "" {
		path = "/proc/uptime"
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return parseProcUptime(string(b))
}

// parseProcUptime parses "12345.67 54321.00" and truncates to whole seconds.
func parseProcUptime(s string) (int64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty uptime data", ErrUnavailable)
	}
	whole, _, _ := strings.Cut(fields[0], ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid uptime %q", ErrUnavailable, fields[0])
	}
	return n, nil
}
