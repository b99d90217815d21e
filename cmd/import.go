package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jjenkins/regmonitor/internal/service"
	"github.com/jjenkins/regmonitor/internal/store"
	"github.com/spf13/cobra"
)

var importFile string
var importAllTypes bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a procedure dump into PostgreSQL",
	Long: `Import reads an EP dossier dump (a JSON array or one JSON record per line)
and upserts every record into the procedures table, keyed by procedure
reference. Unchanged records are detected by checksum and left alone.

Examples:
  # Import the configured records file, ordinary legislative procedures only
  ./regmonitor import

  # Import a specific file with every procedure type
  ./regmonitor import --file data/ep_dossiers.json --all-types`,
	Run: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Dossier file to import (defaults to records_path)")
	importCmd.Flags().BoolVar(&importAllTypes, "all-types", false, "Import every procedure type, not just the configured one")
}

func runImport(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL environment variable is required")
		os.Exit(1)
	}

	path := importFile
	if path == "" {
		path = cfg.RecordsPath
	}
	procedureType := cfg.ProcedureType
	if importAllTypes {
		procedureType = ""
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down...")
		cancel()
	}()

	slog.Info("Connecting to database...")
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := store.EnsureSchema(ctx, db); err != nil {
		slog.Error("Failed to prepare schema", "error", err)
		os.Exit(1)
	}

	procedureStore := store.NewProcedureStore(db)
	importer := service.NewImporter(store.NewFileSource(path), procedureStore)

	slog.Info("Starting import", "file", path)
	stats, err := importer.Import(ctx, procedureType)
	if err != nil {
		if ctx.Err() != nil {
			slog.Info("Import cancelled")
			if stats != nil {
				importer.PrintSummary(stats)
			}
			os.Exit(1)
		}
		slog.Error("Import failed", "error", err)
		os.Exit(1)
	}
	importer.PrintSummary(stats)

	total, err := procedureStore.CountProcedures(ctx)
	if err != nil {
		slog.Warn("Failed to count stored procedures", "error", err)
	} else {
		slog.Info("Procedures stored", "total", total)
	}

	if stats.Failed > 0 {
		os.Exit(1)
	}
}
