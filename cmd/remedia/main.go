package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Makepad-fr/remedia/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
