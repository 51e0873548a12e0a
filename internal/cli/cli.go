// Package cli implements the panelcut command-line interface.
//
// The commands run the allocation and nesting engine on a room, write the
// cut lists and layouts the shop needs, and manage the run history and the
// board catalog:
//   - run: allocate, nest and export one project
//   - walls: print the resolved wall table
//   - compare: compare stud pitch and grain scenarios
//   - serve: expose the engine as an HTTP API
//   - history: list and inspect recorded runs
//   - boards: list and import board catalog presets
//   - master: write a master data template
//   - backup: export and restore config, catalog and master data
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is passed to commands through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootOpts holds the persistent flags shared by every command.
type rootOpts struct {
	verbose     bool
	configPath  string
	catalogPath string
}

// config loads the application config, falling back to defaults when the
// file does not exist.
func (o *rootOpts) config() (model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(o.configPath)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to load config %s: %w", o.configPath, err)
	}
	return cfg, nil
}

func (o *rootOpts) catalog() (model.Catalog, error) {
	c, err := project.LoadCatalog(o.catalogPath)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("failed to load board catalog %s: %w", o.catalogPath, err)
	}
	return c, nil
}

// Execute runs the panelcut CLI with ctx as the root context.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOpts{
		configPath:  project.DefaultConfigPath(),
		catalogPath: project.DefaultCatalogPath(),
	}

	root := &cobra.Command{
		Use:          "panelcut",
		Short:        "PanelCut allocates wall boards and nests them onto raw sheets",
		Long:         `PanelCut covers the walls of a room with gypsum board panels aligned to the stud grid, cuts out doors and windows, and packs the panels onto raw sheets for cutting.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(stderr, level)))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.SetVersionTemplate(fmt.Sprintf("panelcut %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "application config file")
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", opts.catalogPath, "board catalog file")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newWallsCmd(opts))
	root.AddCommand(newCompareCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newBoardsCmd(opts))
	root.AddCommand(newMasterCmd())
	root.AddCommand(newBackupCmd(opts))

	return root
}
