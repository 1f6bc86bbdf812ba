package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stellartravel/itinerary-service/internal/database"
	"github.com/stellartravel/itinerary-service/internal/importer"
)

var importCountry string

var importCmd = &cobra.Command{
	Use:   "import <workbook.xlsx>",
	Short: "Import a catalog workbook into the database",
	Long: `Reads an xlsx workbook with Cities, Hotels, Spots, Activities and
Transport sheets and creates the corresponding catalog entries. Rows
with bad data are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importCountry, "country", "", "default country for city rows without one")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read workbook: %w", err)
	}

	store := database.NewCatalogStore(database.Pool())
	im := importer.New(store)

	result, err := im.ImportWorkbook(context.Background(), content, importCountry)
	if err != nil {
		return err
	}

	logger.Info().
		Int("cities", result.Cities).
		Int("hotels", result.Hotels).
		Int("spots", result.Spots).
		Int("activities", result.Activities).
		Int("transport", result.Transport).
		Msg("Import finished")

	for _, re := range result.Errors {
		logger.Warn().
			Str("sheet", re.Sheet).
			Int("row", re.Row).
			Msg(re.Message)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d rows failed to import", len(result.Errors))
	}
	return nil
}
