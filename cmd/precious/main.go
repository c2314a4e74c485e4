// Package main is the precious command line tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cyclone1070/precious/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.NewApp(os.Stdout, os.Stderr).Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
