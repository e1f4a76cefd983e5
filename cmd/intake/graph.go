package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/internal/presentation/graph"
	"github.com/aretw0/intake/pkg/routing"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <intake-id>",
	Short: "Export the routing graph as Mermaid",
	Long: `Outputs a Mermaid diagram (graph TD) of the sections and rules of a draft.
With --answers, the path those answers take is highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := loadDraft(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if path, _ := cmd.Flags().GetString("answers"); path != "" {
			answers, err := cli.ReadAnswers(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			walked := routing.Walk(draft.Sections, answers)
			if len(walked) > 0 {
				overlay = &graph.GraphOverlay{
					VisitedSections: walked[:len(walked)-1],
					CurrentSection:  walked[len(walked)-1],
				}
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(draft.Sections, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("answers", "", "Answers file (JSON or YAML, - for stdin) whose path is highlighted")
}
