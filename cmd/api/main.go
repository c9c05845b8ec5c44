package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	appbilling "github.com/tu-usuario/pos-billing/internal/application/billing"
	"github.com/tu-usuario/pos-billing/internal/infrastructure/csvfile"
	"github.com/tu-usuario/pos-billing/internal/infrastructure/mail"
	infrapdf "github.com/tu-usuario/pos-billing/internal/infrastructure/pdf"
	httpRouter "github.com/tu-usuario/pos-billing/internal/interfaces/http"
	"github.com/tu-usuario/pos-billing/pkg/config"
	"github.com/tu-usuario/pos-billing/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	engine := appbilling.DefaultEngine()
	engine.Threshold = cfg.Billing.Threshold
	// La tarifa por sucursal también puede venir de config (misma constante
	// de proceso, nunca mutada en runtime).
	if cfg.Billing.RatePerBranch > 0 {
		engine.Tables.RatePerBranch = decimal.NewFromInt(int64(cfg.Billing.RatePerBranch))
	}

	loader := csvfile.NewLoader()
	exporter := csvfile.NewExporter(cfg.Billing.ExportDir)
	invoices := infrapdf.NewMarotoInvoiceGenerator(cfg.Billing.InvoiceDir)
	mailer := mail.NewGomailSender(cfg.SMTP)

	runUC := appbilling.NewRunUseCase(engine, loader, exporter, invoices, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    32 * 1024 * 1024, // snapshots mensuales grandes
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RunUC:   runUC,
		Mailer:  mailer,
		Billing: cfg.Billing,
		Log:     log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
