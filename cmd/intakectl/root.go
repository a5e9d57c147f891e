package main

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jo-hoe/shelfintake/internal/backend/folderstore"
	"github.com/jo-hoe/shelfintake/internal/core"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "intakectl",
	Short: "Operator tool for the product intake workflow",
	Long: `intakectl compresses product pictures, manages the folder name that
scopes uploads, pushes single rows to the collection endpoint and exports a
folder to an xlsx workbook.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("failed to load .env: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addConfigFlag(rootCmd.PersistentFlags())
}

func addConfigFlag(flags *pflag.FlagSet) {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = filepath.Join("config", "config.yaml")
	}
	flags.StringVarP(&configPath, "config", "c", defaultPath, "path to the intake service config")
}

// loadConfig reads the config file, falling back to defaults when it does not exist
func loadConfig() (*core.ServiceConfig, error) {
	config, err := core.LoadConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		config = &core.ServiceConfig{}
		config.ApplyDefaults()
		return config, nil
	}
	return config, err
}

func openFolderStore(config *core.ServiceConfig) (folderstore.FolderStore, error) {
	return folderstore.NewFolderStore(config.FolderStore.Type, config.FolderStore.ConnectionString, config.FolderStore.FolderName)
}
