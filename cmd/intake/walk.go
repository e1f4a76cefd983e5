package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/internal/submission"
	"github.com/aretw0/intake/pkg/routing"
)

var walkCmd = &cobra.Command{
	Use:   "walk <intake-id>",
	Short: "Follow the routing of a draft for a set of answers",
	Long: `Resolves the section path a respondent with the given answers would take
and validates the answers against the visited sections.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := loadDraft(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("answers")
		answers, err := cli.ReadAnswers(path, cmd.InOrStdin())
		if err != nil {
			return err
		}

		walked := routing.Walk(draft.Sections, answers)
		res := submission.Validate(draft.Sections, answers, walked)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"path":   walked,
			"result": res,
		}); err != nil {
			return err
		}
		if err := res.Err(); err != nil {
			return fmt.Errorf("answers rejected: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(walkCmd)
	walkCmd.Flags().String("answers", "-", "Answers file (JSON or YAML, - for stdin)")
}
