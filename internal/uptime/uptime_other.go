//go:build !linux

package uptime

import (
	"context"
	"fmt"
)

type systemSource struct{}

func (systemSource) Uptime(ctx context.Context) (int64, error) {
	_ = ctx
	return 0, fmt.Errorf("%w: unsupported OS (linux only)", ErrUnavailable)
}
