package http

import (
	"github.com/gofiber/fiber/v2"

	appbilling "github.com/tu-usuario/pos-billing/internal/application/billing"
	"github.com/tu-usuario/pos-billing/pkg/config"
	"github.com/tu-usuario/pos-billing/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RunUC   *appbilling.RunUseCase
	Mailer  appbilling.InvoiceMailer
	Billing config.BillingConfig
	Log     *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	billing := api.Group("/billing")
	handler := NewBillingHandler(deps.RunUC, deps.Mailer, deps.Billing, deps.Log)
	billing.Post("/runs", handler.Upload)
	billing.Get("/invoices", handler.ListInvoices)
	billing.Get("/invoices.zip", handler.DownloadAllInvoices)
	billing.Get("/invoices/:filename", handler.DownloadInvoice)
	billing.Post("/invoices/:filename/email", handler.EmailInvoice)
	billing.Get("/exports", handler.ListExports)
	billing.Get("/exports/*", handler.DownloadExport)
}
