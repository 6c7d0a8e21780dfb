package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaniidev/targetforge/internal/core"
	"github.com/shaniidev/targetforge/internal/ui"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints every part of err except the empty-run error, whose
// diagnostic the pipeline has already printed.
func reportError(err error) {
	var parts []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		parts = joined.Unwrap()
	} else {
		parts = []error{err}
	}
	for _, part := range parts {
		if part == nil || errors.Is(part, core.ErrNothingStaged) {
			continue
		}
		ui.Error("%v", part)
	}
}
