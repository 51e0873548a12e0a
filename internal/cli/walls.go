package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/engine"
)

func newWallsCmd(root *rootOpts) *cobra.Command {
	var in inputOpts

	cmd := &cobra.Command{
		Use:   "walls [project]",
		Short: "Print the resolved wall table of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := loadInputs(cmd, root, &in, args[0])
			if err != nil {
				return err
			}

			walls, err := engine.ResolveWalls(inputs.Project.Room.Polygon, inputs.Project.Room.WallThickness)
			if err != nil {
				return err
			}
			walls, err = engine.MergeExtraWalls(walls, inputs.ExtraWalls)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WALL\tSTART\tEND\tLENGTH\tBASE\tDIRECTION\tOPENINGS")
			for _, w := range walls {
				kind := string(w.Direction)
				if w.Extra {
					kind += " (extra)"
				}
				fmt.Fprintf(tw, "%s\t(%d,%d)\t(%d,%d)\t%d\t%d\t%s\t%d\n",
					w.ID, w.Start.X, w.Start.Y, w.End.X, w.End.Y,
					w.Length, w.BaseLength, kind, len(inputs.Project.OpeningsOn(w.ID)))
			}
			return tw.Flush()
		},
	}
	in.register(cmd)
	return cmd
}
