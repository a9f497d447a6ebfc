package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	httpapi "github.com/custodia-labs/sercha-federated/internal/adapters/driving/http"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP search API",
	Long: `Serves the JSON search API until interrupted.

Endpoints:
  POST /api/search  body {query, ownerId, filters?, limit?, offset?, language?}
  GET  /api/health

The listen address defaults to server.addr from config.toml.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	addr := serveAddr
	if addr == "" {
		addr = appSettings.Server.Addr
	}

	server, err := httpapi.NewServer(searchService, addr)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Search API listening on %s\n", addr)
	return server.Start(cmd.Context())
}
