package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/mcp"
)

var (
	mcpAddr  string
	mcpOwner string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose federated search to MCP clients",
	Long: `Serves the federated_search and health tools and the record type
resources to MCP clients.

Without --addr the server speaks JSON-RPC on stdin/stdout, which is what
desktop assistants expect; logs go to stderr. With --addr it serves the
streamable HTTP transport and a GET /healthz probe instead.

Tool calls that omit ownerId search as --owner.

Examples:
  sercha-federated mcp serve --owner alice
  sercha-federated mcp serve --addr 127.0.0.1:8090`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpAddr, "addr", "", "serve streamable HTTP on this address instead of stdio")
	mcpServeCmd.Flags().StringVar(&mcpOwner, "owner", "", "owner for tool calls that omit ownerId")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search:       searchService,
		DefaultOwner: mcpOwner,
	})
	if err != nil {
		return err
	}

	if mcpAddr == "" {
		return server.Run(cmd.Context())
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "MCP server on http://%s (health: /healthz)\n", displayAddr(mcpAddr))
	return server.RunHTTP(cmd.Context(), mcpAddr)
}

// displayAddr fills in localhost for addresses like ":8090".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
