package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"price-scout/app"
	"price-scout/config"
	"price-scout/storage"
	"price-scout/utils"
)

func newSearchCmd() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one search and print price insights",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("query is required")
			}

			cfg := config.Load()
			logger, err := utils.NewLoggerWithLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Search.Search(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			a.Insights.Print(cmd.OutOrStdout(), a.Insights.Generate(result))

			if csvPath == "" {
				return nil
			}
			f, err := os.Create(csvPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", csvPath, err)
			}
			defer f.Close()

			if err := storage.NewCSVWriter().Write(f, result.Results); err != nil {
				return fmt.Errorf("csv export failed: %w", err)
			}
			logger.Info("%d listings saved to %s", len(result.Results), csvPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "also write the listings to this CSV file")
	return cmd
}
