package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/pkg/adapters/loam"
	"github.com/aretw0/intake/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the intake engine as an MCP server over stdio.
Agents can read routing summaries, propose rules and resolve routing as tools.
Drafts from --dir are seeded into the store first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)

		backend, err := cli.OpenBackend(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer backend.Close(context.WithoutCancel(ctx))

		engine, err := cli.NewEngine(ctx, cfg, backend, logger, nil)
		if err != nil {
			return err
		}

		loader, err := loam.Open(cfg.Dir)
		if err != nil {
			return err
		}
		if _, err := cli.Seed(ctx, loader, engine); err != nil {
			return err
		}

		logger.Info("Starting intake MCP server (stdio)")
		return mcp.NewServer(engine).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
