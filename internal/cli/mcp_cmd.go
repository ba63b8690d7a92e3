package cli

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	liftmcp "github.com/meltforce/liftlog/internal/mcp"
	"github.com/meltforce/liftlog/internal/storage"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analytics tools over MCP on stdin/stdout",
	Long: `Run an MCP server on stdio for a local assistant. Entries come from
--file or, with --remote, from a running liftlogd. Logs go to stderr.

Examples:
  liftlog mcp -f workouts.csv
  liftlog mcp --remote http://liftlog.tailnet.ts.net`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	s, err := resolve()
	if err != nil {
		return err
	}
	ds, err := s.dataSource()
	if err != nil {
		return err
	}
	muscles, err := s.openMappings()
	if err != nil {
		return err
	}

	srv := liftmcp.New(ds, muscles, s.formula, Version, s.log)
	s.log.Info("mcp server on stdio", "formula", s.formula.String())
	return server.ServeStdio(srv, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return liftmcp.WithUserID(ctx, storage.LocalUserID)
	}))
}
