package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Show or change the folder name uploads are filed under",
}

var folderGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current folder name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openFolderStore(config)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		name, err := store.GetFolderName(cmd.Context())
		if err != nil {
			return err
		}
		if name == "" {
			return fmt.Errorf("folder name not set")
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

var folderSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Store the folder name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		if config.FolderStore.Type == "memory" {
			return fmt.Errorf("the memory folder store does not persist; configure folderStore.type redis")
		}
		store, err := openFolderStore(config)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.SetFolderName(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "folder name set to %s\n", args[0])
		return nil
	},
}

func init() {
	folderCmd.AddCommand(folderGetCmd, folderSetCmd)
	rootCmd.AddCommand(folderCmd)
}
