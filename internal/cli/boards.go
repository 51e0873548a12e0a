package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/project"
)

func newBoardsCmd(root *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List and import board catalog presets",
	}
	cmd.AddCommand(newBoardsListCmd(root), newBoardsImportCmd(root))
	return cmd
}

func newBoardsListCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the boards in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := root.catalog()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSIZE\tTHICKNESS\tROTATABLE\tMAX WALL\tPRICE")
			for _, b := range catalog.Boards {
				maxWall := "-"
				if b.MaxWallHeight > 0 {
					maxWall = fmt.Sprintf("%d", b.MaxWallHeight)
				}
				fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%.1f\t%t\t%s\t%.2f\n",
					b.ID, b.Board.Name, b.Board.Width, b.Board.Height, b.Board.Thickness,
					b.Board.Rotatable, maxWall, b.PricePerSheet)
			}
			return tw.Flush()
		},
	}
}

func newBoardsImportCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Merge the boards of a catalog file into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := root.catalog()
			if err != nil {
				return err
			}
			before := len(catalog.Boards)
			merged, err := project.ImportCatalog(args[0], catalog)
			if err != nil {
				return fmt.Errorf("failed to import catalog: %w", err)
			}
			if err := project.SaveCatalog(root.catalogPath, merged); err != nil {
				return fmt.Errorf("failed to save catalog: %w", err)
			}
			loggerFromContext(cmd.Context()).Info("imported boards", "added", len(merged.Boards)-before, "total", len(merged.Boards))
			return nil
		},
	}
}
