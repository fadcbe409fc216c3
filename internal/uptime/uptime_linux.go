//go:build linux

package uptime

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"
)

type systemSource struct{}

// Uptime uses sysinfo(2) and falls back to /proc/uptime.
func (systemSource) Uptime(ctx context.Context) (int64, error) {
	var info unix.Sysinfo_t
	err := unix.Sysinfo(&info)
	if err == nil && info.Uptime >= 0 {
		return int64(info.Uptime), nil
	}
	n, perr := ProcFile{}.Uptime(ctx)
	if perr != nil {
		return 0, fmt.Errorf("sysinfo: %v; %w", err, perr)
	}
	return n, nil
}
