// Command sercha-federated searches one owner's records across documents,
// messages, billing records, transcripts, work items and contacts.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// cobra reports the error itself.
	if err := cli.Execute(ctx, version); err != nil {
		stop()
		os.Exit(1)
	}
}
