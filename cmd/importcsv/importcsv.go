// Package importcsv implements the import command for bulk loading
// emission records from a CSV file.
package importcsv

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenpulse/greenpulse-go/internal/conf"
	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/emissions"
	"github.com/greenpulse/greenpulse-go/internal/identity"
)

// Command creates a new command for replacing the record store with a CSV file.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [input.csv]",
		Short: "Replace all emission records with the contents of a CSV file",
		Long: "Parse an emissions CSV and atomically replace the current records, " +
			"mirroring what the upload endpoint does over HTTP.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunImport(settings, args[0])
		},
	}

	// Set up flags specific to the 'import' command
	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the import command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().IntVar(&settings.Ingest.BatchSize, "batch-size", viper.GetInt("ingest.batchsize"), "Batch size for bulk inserts")

	// Bind flags to the viper settings
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}

// RunImport parses the CSV file and replaces the record table with its rows.
// The records are attributed to the configured identity, the same one the
// HTTP upload endpoint stamps on uploaded rows.
func RunImport(settings *conf.Settings, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	entries, err := emissions.ParseCSV(f)
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", path, err)
	}

	provider, err := identity.NewFromSettings(settings)
	if err != nil {
		return err
	}
	user, err := provider.CurrentUser(context.Background())
	if err != nil {
		return err
	}

	records := emissions.BuildRecords(entries, user.ID)

	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("error closing database: %v\n", err)
		}
	}()

	if err := store.ReplaceAllRecords(records, settings.Ingest.BatchSize); err != nil {
		return fmt.Errorf("error replacing records: %w", err)
	}

	fmt.Printf("Imported %d records from %s for user %s\n", len(records), path, user.ID)
	return nil
}
