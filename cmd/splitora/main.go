package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/splitora/client/internal/apierr"
	"github.com/splitora/client/pkg/logger"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	logger.Sync()
	if err == nil {
		return
	}

	if errors.Is(err, apierr.ErrReauthRequired) {
		fmt.Fprintf(os.Stderr, "%v\nRun `splitora login` to sign in again.\n", err)
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	os.Exit(1)
}
