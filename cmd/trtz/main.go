// trtz - Log Timestamp Timezone Rewriter
//
// trtz reads log lines, rewrites the UTC ISO-8601 timestamps it finds into a
// target timezone and writes everything else through unchanged.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cjappl/trtz/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
