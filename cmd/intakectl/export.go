package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/shelfintake/internal/backend/export"
	"github.com/jo-hoe/shelfintake/internal/backend/remotesync"
)

var (
	exportFolder string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch a folder from the collection endpoint and write data.xlsx",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		folderName := exportFolder
		if folderName == "" {
			store, err := openFolderStore(config)
			if err != nil {
				return err
			}
			folderName, err = store.GetFolderName(cmd.Context())
			_ = store.Close()
			if err != nil {
				return err
			}
		}
		if folderName == "" {
			return fmt.Errorf("folder name not found, set one with 'intakectl folder set'")
		}

		client := remotesync.NewClient(config.Endpoint, remotesync.WithTimeout(config.RequestTimeout))
		response, err := client.Fetch(cmd.Context(), folderName)
		if err != nil {
			return fmt.Errorf("failed to fetch data from %s: %w", client.Endpoint(), err)
		}

		dir := exportDir
		if dir == "" {
			dir = config.CacheDir
		}
		path, err := export.NewExporter(dir).Export(cmd.Context(), response.ToRows())
		if err != nil {
			return fmt.Errorf("failed to save file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFolder, "folder", "", "folder name (defaults to the folder store)")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "output directory (defaults to cacheDir)")
	rootCmd.AddCommand(exportCmd)
}
