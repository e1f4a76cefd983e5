package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/presentation/tui"
	"github.com/aretw0/intake/internal/validator"
)

var errInvalidGraph = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate [intake-id]",
	Short: "Check drafts for routing errors",
	Long: `Validates every draft in the directory (or only the given one) and reports
structural, referential and policy errors plus advisory warnings.
Exits non-zero when any draft would be rejected by publish.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		drafts, err := loadDrafts(cmd.Context(), id)
		if err != nil {
			return err
		}

		var opts []validator.Option
		if cfg.StrictReachability {
			opts = append(opts, validator.WithStrictReachability())
		}

		out := cmd.OutOrStdout()
		reports := make(map[string]validator.Report, len(drafts))
		invalid := 0
		render := tui.NewRenderer()
		for _, d := range drafts {
			r := validator.Validate(d.Sections, opts...)
			reports[d.IntakeID] = r
			if !r.IsValid {
				invalid++
			}
			if asJSON {
				continue
			}

			text, err := render(tui.ReportMarkdown(d.IntakeID, r))
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
		}

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(reports); err != nil {
				return err
			}
		} else {
			tui.Status(out, invalid == 0, fmt.Sprintf("%d of %d drafts valid", len(drafts)-invalid, len(drafts)))
		}

		if invalid > 0 {
			return errInvalidGraph
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("json", false, "Print the reports as JSON")
}
