package main

import (
	"context"
	"os"

	"github.com/dwikikusuma/honey-storefront/pkg/shutdown"
)

func main() {
	ctx, cancel := shutdown.WithSignals(context.Background())
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
