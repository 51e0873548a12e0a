package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/history"
	"github.com/piwi3910/PanelCut/internal/project"
	"github.com/piwi3910/PanelCut/internal/server"
)

func newServeCmd(root *rootOpts) *cobra.Command {
	var (
		addr       string
		masterPath string
		noHistory  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine as a JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := root.config()
			if err != nil {
				return err
			}
			catalog, err := root.catalog()
			if err != nil {
				return err
			}
			master := project.DefaultMaster()
			if masterPath != "" {
				if master, err = project.LoadMaster(masterPath); err != nil {
					return err
				}
			}
			if addr == "" {
				addr = cfg.ServerAddress
			}

			var store *history.Store
			if !noHistory {
				if store, err = openHistory(cmd, root); err != nil {
					return err
				}
				defer store.Close()
			}

			return server.New(master, catalog, store, logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVarP(&masterPath, "master", "m", "", "master data TOML used when a request has no board or rules")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not open the run history database")
	return cmd
}
