package http

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	appbilling "github.com/tu-usuario/pos-billing/internal/application/billing"
	"github.com/tu-usuario/pos-billing/internal/application/dto"
	"github.com/tu-usuario/pos-billing/internal/domain"
	"github.com/tu-usuario/pos-billing/pkg/config"
	"github.com/tu-usuario/pos-billing/pkg/logger"
)

// BillingHandler maneja las peticiones HTTP de la corrida de facturación.
type BillingHandler struct {
	run    *appbilling.RunUseCase
	mailer appbilling.InvoiceMailer
	cfg    config.BillingConfig
	log    *logger.Logger
}

// NewBillingHandler construye el handler.
func NewBillingHandler(run *appbilling.RunUseCase, mailer appbilling.InvoiceMailer, cfg config.BillingConfig, log *logger.Logger) *BillingHandler {
	return &BillingHandler{run: run, mailer: mailer, cfg: cfg, log: log}
}

// Upload recibe el CSV mensual, dispara la corrida y devuelve el resumen.
// POST /api/billing/runs  (multipart: file, billing_month?, billing_year?)
func (h *BillingHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_FILE", Message: "falta el archivo 'file'"})
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "solo se aceptan archivos .csv"})
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	dest := filepath.Join(h.cfg.UploadDir, filepath.Base(fh.Filename))
	if err := c.SaveFile(fh, dest); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	period, err := periodFrom(c.FormValue("billing_month"), c.FormValue("billing_year"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	resp, err := h.run.Run(c.Context(), dest, period)
	if err != nil {
		if strings.Contains(err.Error(), domain.ErrInvalidSchema.Error()) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_SCHEMA", Message: domain.ErrInvalidSchema.Error()})
		}
		h.log.Error().Err(err).Msg("corrida de facturación fallida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListInvoices lista las facturas PDF generadas.
// GET /api/billing/invoices
func (h *BillingHandler) ListInvoices(c *fiber.Ctx) error {
	type invoiceFile struct {
		Name     string `json:"name"`
		SizeKB   string `json:"size_kb"`
		Modified string `json:"modified"`
	}
	files := []invoiceFile{}

	entries, err := os.ReadDir(h.cfg.InvoiceDir)
	if err != nil && !os.IsNotExist(err) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, invoiceFile{
			Name:     e.Name(),
			SizeKB:   fmt.Sprintf("%.1f", float64(info.Size())/1024),
			Modified: info.ModTime().Format("2006-01-02 15:04"),
		})
	}
	return c.JSON(files)
}

// DownloadInvoice descarga una factura PDF.
// GET /api/billing/invoices/:filename
func (h *BillingHandler) DownloadInvoice(c *fiber.Ctx) error {
	name := filepath.Base(c.Params("filename")) // sin traversal
	full := filepath.Join(h.cfg.InvoiceDir, name)
	if _, err := os.Stat(full); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: domain.ErrNotFound.Error()})
	}
	return c.Download(full, name)
}

// DownloadAllInvoices descarga todas las facturas en un zip.
// GET /api/billing/invoices.zip
func (h *BillingHandler) DownloadAllInvoices(c *fiber.Ctx) error {
	entries, err := os.ReadDir(h.cfg.InvoiceDir)
	if err != nil || len(entries) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay facturas generadas"})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		f, err := os.Open(filepath.Join(h.cfg.InvoiceDir, e.Name()))
		if err != nil {
			continue
		}
		w, err := zw.Create(e.Name())
		if err == nil {
			_, err = io.Copy(w, f)
		}
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	if err := zw.Close(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoices.zip"`)
	return c.Send(buf.Bytes())
}

// ListExports lista los CSV exportados como rutas relativas a la raíz de
// exports (la misma referencia que devuelve el resumen de corrida).
// GET /api/billing/exports
func (h *BillingHandler) ListExports(c *fiber.Ctx) error {
	files := []string{}
	err := filepath.WalkDir(h.cfg.ExportDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		rel, relErr := filepath.Rel(h.cfg.ExportDir, path)
		if relErr == nil {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(files)
}

// DownloadExport descarga un CSV exportado (ruta relativa bajo exports/).
// GET /api/billing/exports/*
func (h *BillingHandler) DownloadExport(c *fiber.Ctx) error {
	rel := filepath.Clean(c.Params("*"))
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ruta inválida"})
	}
	full := filepath.Join(h.cfg.ExportDir, rel)
	if _, err := os.Stat(full); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: domain.ErrNotFound.Error()})
	}
	return c.Download(full, filepath.Base(full))
}

// EmailInvoiceRequest body para el envío de una factura por correo.
type EmailInvoiceRequest struct {
	To      []string `json:"to"`
	Subject string   `json:"subject,omitempty"`
	Body    string   `json:"body,omitempty"`
}

// EmailInvoice envía una factura PDF por correo.
// POST /api/billing/invoices/:filename/email
func (h *BillingHandler) EmailInvoice(c *fiber.Ctx) error {
	name := filepath.Base(c.Params("filename"))
	full := filepath.Join(h.cfg.InvoiceDir, name)
	if _, err := os.Stat(full); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: domain.ErrNotFound.Error()})
	}

	var in EmailInvoiceRequest
	if err := c.BodyParser(&in); err != nil || len(in.To) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere al menos un destinatario"})
	}
	if in.Subject == "" {
		in.Subject = "Monthly integration invoice: " + strings.TrimSuffix(name, filepath.Ext(name))
	}
	if in.Body == "" {
		in.Body = "Adjunto la factura mensual de integración."
	}

	if err := h.mailer.SendInvoice(in.To, in.Subject, in.Body, full); err != nil {
		h.log.Error().Err(err).Str("invoice", name).Msg("envío de factura fallido")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "MAIL_FAILED", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"sent": true, "invoice": name, "recipients": len(in.To)})
}

// periodFrom arma el periodo desde los campos del form; vacíos usan el mes
// en curso.
func periodFrom(monthName, yearStr string) (appbilling.Period, error) {
	period := appbilling.CurrentPeriod()
	if monthName != "" {
		month, err := parseMonth(monthName)
		if err != nil {
			return appbilling.Period{}, err
		}
		period.Month = month
	}
	if yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 2000 || year > 2100 {
			return appbilling.Period{}, fmt.Errorf("%w: billing_year %q", domain.ErrInvalidInput, yearStr)
		}
		period.Year = year
	}
	return period, nil
}

func parseMonth(name string) (time.Month, error) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: billing_month %q", domain.ErrInvalidInput, name)
}
