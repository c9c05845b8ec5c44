package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	appbilling "github.com/tu-usuario/pos-billing/internal/application/billing"
	"github.com/tu-usuario/pos-billing/internal/infrastructure/csvfile"
	infrapdf "github.com/tu-usuario/pos-billing/internal/infrastructure/pdf"
	"github.com/tu-usuario/pos-billing/internal/scheduler"
	"github.com/tu-usuario/pos-billing/pkg/config"
	"github.com/tu-usuario/pos-billing/pkg/logger"
)

// Corrida mensual programada: procesa el snapshot configurado el día N de
// cada mes a partir de las 09:00, con guarda anti doble-corrida diaria.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})
	log.Info().
		Int("day", cfg.Billing.ScheduleDay).
		Str("snapshot", cfg.Billing.SnapshotPath).
		Msg("iniciando scheduler de facturación")

	engine := appbilling.DefaultEngine()
	engine.Threshold = cfg.Billing.Threshold
	if cfg.Billing.RatePerBranch > 0 {
		engine.Tables.RatePerBranch = decimal.NewFromInt(int64(cfg.Billing.RatePerBranch))
	}

	runUC := appbilling.NewRunUseCase(
		engine,
		csvfile.NewLoader(),
		csvfile.NewExporter(cfg.Billing.ExportDir),
		infrapdf.NewMarotoInvoiceGenerator(cfg.Billing.InvoiceDir),
		log,
	)

	run := func(ctx context.Context) error {
		if _, err := os.Stat(cfg.Billing.SnapshotPath); err != nil {
			return err
		}
		summary, err := runUC.Run(ctx, cfg.Billing.SnapshotPath, appbilling.CurrentPeriod())
		if err != nil {
			return err
		}
		log.Info().Int("pairs", len(summary.Rows)).Msg("corrida programada completada")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	s := scheduler.New(cfg.Billing.ScheduleDay, 9, cfg.Billing.GuardFile, run, log)
	s.Start(ctx)
}
