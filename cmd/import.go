package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jjenkins/parlamentar/internal/service"
	"github.com/jjenkins/parlamentar/internal/store"
)

var (
	importYear         int
	importSkipExpenses bool
	importVotes        bool
	importBillTypes    []string
	importMigrate      bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import parliamentary data from the Câmara open-data API",
	Long: `Import downloads and stores data from the Câmara dos Deputados open-data API.

The import runs in steps: parties, then deputies (with the XML detail
document of each one and its office), then the expenditures of every
stored deputy for the chosen year. With --votes it also fetches the bills
of the given types presented in that year, their voting sessions and the
individual votes. Every step can be re-run; records already stored are
refreshed or skipped.

Examples:
  # Import parties, deputies and the expenditures of the analysis year
  ./parlamentar import

  # Import the expenditures of 2023
  ./parlamentar import --year 2023

  # Refresh deputies only and import PL and PEC votes
  ./parlamentar import --skip-expenses --votes --bill-types PL,PEC`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().IntVarP(&importYear, "year", "y", 0, "Year to import expenditures and bills for (default: analysis year)")
	importCmd.Flags().BoolVar(&importSkipExpenses, "skip-expenses", false, "Do not import expenditures")
	importCmd.Flags().BoolVar(&importVotes, "votes", false, "Also import bills, voting sessions and votes")
	importCmd.Flags().StringSliceVar(&importBillTypes, "bill-types", []string{"PL", "PEC"}, "Bill types imported with --votes")
	importCmd.Flags().BoolVar(&importMigrate, "migrate", true, "Create missing tables before importing")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	year := importYear
	if year == 0 {
		year = cfg.Analysis.Year
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn("received interrupt signal, shutting down")
		cancel()
	}()

	log.Info("connecting to database", "driver", cfg.Database.Driver)
	db, err := store.NewDB(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	if importMigrate {
		if err := store.Migrate(ctx, db, cfg.Database.Driver); err != nil {
			log.Error("migration failed", "error", err)
			return err
		}
	}

	client := service.NewCamaraClient(cfg.Camara)
	importer := service.NewImporter(client, service.NewParser(), db, cfg.Camara.Concurrency, log)

	steps := []struct {
		name string
		skip bool
		run  func(context.Context) (*service.ImportStats, error)
	}{
		{"partidos", false, importer.ImportParties},
		{"deputados", false, importer.ImportLegislators},
		{"despesas", importSkipExpenses, func(ctx context.Context) (*service.ImportStats, error) {
			return importer.ImportExpenditures(ctx, year)
		}},
		{"votacoes", !importVotes, func(ctx context.Context) (*service.ImportStats, error) {
			return importer.ImportVotes(ctx, year, importBillTypes)
		}},
	}

	failed := 0
	for _, step := range steps {
		if step.skip {
			log.Info("skipping import step", "step", step.name)
			continue
		}

		log.Info("starting import step", "step", step.name, "ano", year)
		stats, err := step.run(ctx)
		importer.PrintSummary(stats)
		if err != nil {
			if ctx.Err() != nil {
				log.Warn("import cancelled", "step", step.name)
				return ctx.Err()
			}
			log.Error("import step failed", "step", step.name, "error", err)
			return err
		}
		failed += stats.Failed
	}

	// Calculate system metrics
	metrics, err := service.NewMetricsService(db).Calculate(ctx, year)
	if err != nil {
		log.Warn("failed to calculate metrics", "error", err)
	} else {
		log.Info("system metrics",
			"ano", metrics.Year,
			"deputados", metrics.TotalLegislators,
			"partidos", metrics.TotalParties,
			"despesas", metrics.TotalExpenditures,
			"proposicoes", metrics.TotalBills,
			"votacoes", metrics.TotalSessions,
			"votos", metrics.TotalVotes,
			"total_gasto", metrics.TotalSpent,
			"partido_maior_gasto", metrics.TopParty,
			"partido_maior_gasto_total", metrics.TopPartySpent,
		)
	}

	// Exit with error code if there were failures
	if failed > 0 {
		return fmt.Errorf("%d records failed to import", failed)
	}
	return nil
}
