package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/project"
)

func newBackupCmd(root *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore config, board catalog and master data",
	}

	var exportMaster string
	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write config, catalog and optional master data to one JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			catalog, err := root.catalog()
			if err != nil {
				return err
			}
			var master *project.Master
			if exportMaster != "" {
				m, err := project.LoadMaster(exportMaster)
				if err != nil {
					return err
				}
				master = &m
			}
			if err := project.ExportAllData(args[0], cfg, catalog, master); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("wrote backup", "file", args[0])
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&exportMaster, "master", "m", "", "master data TOML to include")

	var restoreMaster string
	importCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Restore config and catalog from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(root.configPath, backup.Config); err != nil {
				return fmt.Errorf("failed to restore config: %w", err)
			}
			if err := project.SaveCatalog(root.catalogPath, backup.Catalog); err != nil {
				return fmt.Errorf("failed to restore catalog: %w", err)
			}
			if backup.Master != nil && restoreMaster != "" {
				if err := project.SaveMaster(restoreMaster, *backup.Master); err != nil {
					return err
				}
			}
			loggerFromContext(cmd.Context()).Info("restored backup", "version", backup.Version, "created", backup.CreatedAt)
			return nil
		},
	}
	importCmd.Flags().StringVar(&restoreMaster, "master-out", "", "where to write the master data contained in the backup")

	cmd.AddCommand(exportCmd, importCmd)
	return cmd
}
