package cmd

import (
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jjenkins/regmonitor/internal/config"
	"github.com/jjenkins/regmonitor/internal/handlers"
	"github.com/jjenkins/regmonitor/internal/service"
	"github.com/jjenkins/regmonitor/internal/store"
	"github.com/spf13/cobra"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REG Monitoring dashboard",
	Long:  `Start the web dashboard for browsing procedures and analyzing their latest legislative proposal.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if port != "" {
			cfg.Port = port
		}

		if err := cfg.RequireAPIKey(); err != nil {
			slog.Error("Please set the OPENAI_API_KEY environment variable", "error", err)
			os.Exit(1)
		}

		source, closeSource, err := openSource(cfg)
		if err != nil {
			slog.Error("Failed to open record source", "error", err)
			os.Exit(1)
		}
		defer closeSource()

		loader := store.NewLoader(source, cfg.ProcedureType, cfg.SampleSize)

		client := service.NewDocumentClient(service.NewParser(),
			service.WithFetchTimeout(cfg.FetchTimeout),
			service.WithMaxDocumentBytes(cfg.MaxDocumentBytes),
		)

		model, err := service.NewOpenAIModel(service.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			slog.Error("Failed to create model client", "error", err)
			os.Exit(1)
		}
		analyzer := service.NewAnalyzer(model,
			service.WithTextBudget(cfg.TextBudget),
			service.WithModelTimeout(cfg.ModelTimeout),
		)
		pipeline := service.NewPipeline(client, analyzer, cfg.DocumentCategory)

		sessions := session.New()
		batches := store.NewBatches(0)

		app := fiber.New(fiber.Config{
			AppName: "REG Monitoring",
		})

		app.Use(logger.New())

		// Routes
		app.Get("/", handlers.HomeHandler(sessions, batches, pipeline.Category(), cfg.ProcedureType))
		app.Post("/load", handlers.LoadHandler(loader, sessions, batches))

		// Procedure routes
		app.Get("/procedures", handlers.ProceduresHandler(sessions, batches))
		app.Get("/procedures/*", handlers.ProcedureDetailHandler(pipeline, sessions, batches))

		// Analysis routes
		app.Get("/analysis", handlers.AnalysisHandler(sessions))
		app.Post("/analysis/relevance", handlers.RelevanceHandler(pipeline, sessions))
		app.Post("/analysis/topics", handlers.TopicsHandler(pipeline, sessions))

		slog.Info("Starting server", "port", cfg.Port, "record_source", cfg.RecordSource)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	},
}

// openSource returns the configured record source and a func releasing it
func openSource(cfg *config.Config) (store.RecordSource, func(), error) {
	if cfg.RecordSource == config.SourcePostgres {
		db, err := store.NewDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store.NewProcedureStore(db), func() { db.Close() }, nil
	}
	return store.NewFileSource(cfg.RecordsPath), func() {}, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to run the server on (overrides PORT)")
}
