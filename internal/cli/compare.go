package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/engine"
)

func newCompareCmd(root *rootOpts) *cobra.Command {
	var in inputOpts

	cmd := &cobra.Command{
		Use:   "compare [project]",
		Short: "Compare stud pitch and grain scenarios for a room",
		Long: `Compare runs allocation and nesting for the configured stud pitch and the
other standard pitch, each with and without long-grain nesting, and prints
the panel and sheet counts side by side.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := loadInputs(cmd, root, &in, args[0])
			if err != nil {
				return err
			}

			scenarios := engine.DefaultScenarios(inputs.StudPitch)
			for i := range scenarios {
				scenarios[i].ExtraWalls = inputs.ExtraWalls
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			results, err := engine.CompareScenarios(inputs.Project, inputs.Board, inputs.Rules, scenarios)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Compared %d scenarios", len(results)))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SCENARIO\tPANELS\tOFF-CUTS\tVIOLATIONS\tSHEETS\tUTILIZATION\tUNPLACED")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.1f%%\t%d\n",
					r.Scenario.Name, r.PanelCount, r.CutPieceCount, r.ViolationCount,
					r.SheetCount, r.Utilization*100, r.UnplacedCount)
			}
			return tw.Flush()
		},
	}
	in.register(cmd)
	return cmd
}
