// Command report prints or exports a campaign report without starting the
// web server.
//
// Usage:
//
//	report --posts data/posts.csv --benchmarks data/benchmarks.csv \
//	    --start 2024-03-01 --end 2024-03-31 --platform Instagram --format text
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
