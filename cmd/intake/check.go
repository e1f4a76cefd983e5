package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/internal/presentation/tui"
)

var checkCmd = &cobra.Command{
	Use:   "check <intake-id>",
	Short: "Re-validate stored submissions against the published graph",
	Long: `Loads every submission of an intake from the configured store and
validates it again against the current published snapshot.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		backend, err := cli.OpenBackend(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer backend.Close(ctx)

		engine, err := cli.NewEngine(ctx, cfg, backend, logger, nil)
		if err != nil {
			return err
		}

		results, err := engine.Recheck(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for i, r := range results {
			if r.Valid {
				continue
			}
			failed++
			for _, fe := range r.Errors {
				fmt.Fprintf(out, "#%d %s: %s\n", i+1, fe.BlockID, fe.Message)
			}
		}
		tui.Status(out, failed == 0, fmt.Sprintf("%d of %d submissions valid", len(results)-failed, len(results)))
		if failed > 0 {
			return fmt.Errorf("%d submissions no longer validate", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
