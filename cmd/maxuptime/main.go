package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"maxuptime/internal/app"
	logx "maxuptime/pkg/logx"
)

func main() {
	// Interrupts are captured for the whole process: a running countdown
	// keeps going and the signal only ends the post-restart wait.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		reportFailure(logx.NewConsole("info"), err)
		cancel()
		os.Exit(1)
	}
}

// reportFailure logs the error that ends the process. Configuration errors
// happen before the configured sinks exist, so log is a console logger.
func reportFailure(log logx.Logger, err error) {
	var ce *app.ConfigError
	if errors.As(err, &ce) {
		log.Error("fatal: invalid configuration", logx.Err(ce.Err))
		return
	}
	log.Error("run failed", logx.Err(err))
}
