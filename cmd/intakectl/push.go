package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/shelfintake/internal/backend/commandstructure"
	"github.com/jo-hoe/shelfintake/internal/backend/compression"
	"github.com/jo-hoe/shelfintake/internal/backend/datauri"
	"github.com/jo-hoe/shelfintake/internal/backend/remotesync"
	"github.com/jo-hoe/shelfintake/internal/backend/rowstore"
	"github.com/jo-hoe/shelfintake/internal/core"
)

var (
	pushRow     int
	pushBarcode string
	pushFront   string
	pushBack    string
	pushFolder  string
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload a single row to the collection endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pushRow < 1 {
			return fmt.Errorf("--row must be a positive row number")
		}
		config, err := loadConfig()
		if err != nil {
			return err
		}

		folderName := pushFolder
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
			return fmt.Errorf("folder name not set")
		}

		compressor := compression.NewCompressor(compression.NewCommandCodec(), config.Compression)
		row := rowstore.Row{Barcode: pushBarcode}
		if row.FrontImage, err = compressFile(cmd.Context(), config, compressor, pushFront); err != nil {
			return err
		}
		if row.BackImage, err = compressFile(cmd.Context(), config, compressor, pushBack); err != nil {
			return err
		}

		client := remotesync.NewClient(config.Endpoint, remotesync.WithTimeout(config.RequestTimeout))
		ack, err := client.Update(cmd.Context(), remotesync.NewUpdateRequest(folderName, pushRow-1, row))
		if err != nil {
			return fmt.Errorf("failed to update data: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "row %d of %s uploaded to %s: %v\n", pushRow, folderName, client.Endpoint(), ack)
		return nil
	},
}

// compressFile returns "" for an empty path and a JPEG data URI otherwise
func compressFile(ctx context.Context, config *core.ServiceConfig, compressor *compression.Compressor, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	source, err = commandstructure.ExecuteCommands(source, config.Commands)
	if err != nil {
		return "", fmt.Errorf("failed to preprocess %s: %w", path, err)
	}
	result, err := compressor.Compress(ctx, source)
	if err != nil {
		return "", err
	}
	return datauri.FromJPEGBase64(result.Base64), nil
}

func init() {
	pushCmd.Flags().IntVar(&pushRow, "row", 0, "1-based row number")
	pushCmd.Flags().StringVar(&pushBarcode, "barcode", "", "barcode value")
	pushCmd.Flags().StringVar(&pushFront, "front", "", "front image file")
	pushCmd.Flags().StringVar(&pushBack, "back", "", "back image file")
	pushCmd.Flags().StringVar(&pushFolder, "folder", "", "folder name (defaults to the folder store)")
	_ = pushCmd.MarkFlagRequired("row")
	rootCmd.AddCommand(pushCmd)
}
