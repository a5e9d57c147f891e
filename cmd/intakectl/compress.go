package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/shelfintake/internal/backend/commandstructure"
	"github.com/jo-hoe/shelfintake/internal/backend/compression"
)

var (
	compressOutput string
	compressMaxKB  float64
)

var compressCmd = &cobra.Command{
	Use:   "compress <image>",
	Short: "Compress a picture the way captured images are compressed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		source, err = commandstructure.ExecuteCommands(source, config.Commands)
		if err != nil {
			return fmt.Errorf("failed to preprocess %s: %w", args[0], err)
		}

		options := config.Compression
		if compressMaxKB > 0 {
			options.MaxSizeKB = compressMaxKB
		}
		result, err := compression.NewCompressor(compression.NewCommandCodec(), options).Compress(cmd.Context(), source)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "width=%d quality=%.2f size=%.2fKB attempts=%d within_budget=%t\n",
			result.Width, result.Quality, result.SizeKB, result.Attempts, result.WithinBudget)

		if compressOutput == "" {
			return nil
		}
		jpegData, err := base64.StdEncoding.DecodeString(result.Base64)
		if err != nil {
			return fmt.Errorf("failed to decode compressed image: %w", err)
		}
		if err := os.WriteFile(compressOutput, jpegData, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", compressOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", compressOutput)
		return nil
	},
}

func init() {
	compressCmd.Flags().StringVarP(&compressOutput, "output", "o", "", "write the compressed JPEG to this file")
	compressCmd.Flags().Float64Var(&compressMaxKB, "max-kb", 0, "override the size budget in KB")
	rootCmd.AddCommand(compressCmd)
}
