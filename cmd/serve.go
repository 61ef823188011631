package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jjenkins/parlamentar/internal/handlers"
	"github.com/jjenkins/parlamentar/internal/service"
	"github.com/jjenkins/parlamentar/internal/store"
)

var (
	port         string
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the parliamentary data API",
	Long:  `Start the HTTP API and the dashboard over the imported parliamentary data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		// --port wins over config and PORT
		if port != "" {
			cfg.Server.Port = port
		}

		db, err := store.NewDB(cfg.Database.Driver, cfg.Database.URL)
		if err != nil {
			log.Error("failed to connect to database", "driver", cfg.Database.Driver, "error", err)
			return err
		}
		defer db.Close()

		if serveMigrate {
			if err := store.Migrate(cmd.Context(), db, cfg.Database.Driver); err != nil {
				log.Error("migration failed", "error", err)
				return err
			}
		}

		app := handlers.NewApp(handlers.Services{
			Legislators:  service.NewLegislatorService(db, log),
			Expenditures: service.NewExpenditureService(db, log),
			Bills:        service.NewBillService(db, log),
			Rankings:     service.NewRankingService(db, cfg.Analysis.Year, log),
			Metrics:      service.NewMetricsService(db),
		}, handlers.Options{
			MaxPerPage: cfg.Server.MaxPerPage,
			AccessLog:  true,
		}, log)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			log.Info("received interrupt signal, shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.ShutdownWithContext(ctx); err != nil {
				log.Error("shutdown failed", "error", err)
			}
		}()

		log.Info("starting server", "port", cfg.Server.Port, "analysis_year", cfg.Analysis.Year)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Error("failed to start server", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to run the server on (default from config)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Create missing tables before serving")
}
