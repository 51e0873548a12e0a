package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/history"
	"github.com/piwi3910/PanelCut/internal/project"
)

// openHistory opens the run history database named by the app config, or
// history.db next to the config file.
func openHistory(cmd *cobra.Command, root *rootOpts) (*history.Store, error) {
	cfg, err := root.config()
	if err != nil {
		return nil, err
	}
	path := project.HistoryPath(root.configPath, cfg)
	loggerFromContext(cmd.Context()).Debug("opening run history", "path", path)
	return history.Open(cmd.Context(), path)
}

func newHistoryCmd(root *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and inspect recorded runs",
	}
	cmd.AddCommand(newHistoryListCmd(root), newHistoryShowCmd(root), newHistoryDeleteCmd(root))
	return cmd
}

func newHistoryListCmd(root *rootOpts) *cobra.Command {
	var (
		limit     int
		projectID string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmd, root)
			if err != nil {
				return err
			}
			defer store.Close()

			var runs []history.Run
			if projectID != "" {
				runs, err = store.ListProject(cmd.Context(), projectID)
			} else {
				runs, err = store.List(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tPROJECT\tBOARD\tPITCH\tPANELS\tSHEETS\tUTILIZATION")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%.1f%%\n",
					r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.ProjectName, r.BoardName,
					r.StudPitch, r.PanelCount, r.SheetCount, r.Utilization*100)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs (0 = all)")
	cmd.Flags().StringVar(&projectID, "project", "", "only runs of this project ID")
	return cmd
}

func newHistoryShowCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print one recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmd, root)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(run)
		},
	}
}

func newHistoryDeleteCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmd, root)
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Delete(cmd.Context(), args[0])
		},
	}
}
