package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-billing/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// RunSummaryRow fila del resumen de corrida: un par (integrador, país).
type RunSummaryRow struct {
	Integrator string `json:"integrator"`
	Country    string `json:"country"`
	Branches   int    `json:"branches"`
	CSV        string `json:"csv"` // ruta relativa del export
}

// TaxLineResponse línea del desglose de IVA, con montos ya redondeados a 2
// decimales (solo presentación; la suma interna usa valores sin redondear).
type TaxLineResponse struct {
	EntityID    string `json:"entity_id"`
	RatePercent string `json:"rate_percent"`
	Branches    int    `json:"branches"`
	Amount      string `json:"amount"`
}

// InvoiceResponse totales de la factura mensual de un integrador.
type InvoiceResponse struct {
	Integrator    string            `json:"integrator"`
	BranchCount   int               `json:"branch_count"`
	RatePerBranch string            `json:"rate_per_branch"`
	Subtotal      string            `json:"subtotal"`
	TaxLines      []TaxLineResponse `json:"tax_lines,omitempty"`
	TotalTax      string            `json:"total_tax"`
	GrandTotal    string            `json:"grand_total"`
	PDF           string            `json:"pdf,omitempty"` // ruta relativa del PDF generado
}

// RunBillingResponse resultado de una corrida completa.
type RunBillingResponse struct {
	RunID    string            `json:"run_id"`
	Period   string            `json:"period"` // ej. "October 2025"
	Rows     []RunSummaryRow   `json:"rows"`
	Invoices []InvoiceResponse `json:"invoices"`
}

// NewInvoiceResponse convierte los totales del dominio a su representación
// JSON con redondeo de presentación.
func NewInvoiceResponse(totals entity.InvoiceTotals, pdfRef string) InvoiceResponse {
	resp := InvoiceResponse{
		Integrator:    totals.Integrator,
		BranchCount:   totals.BranchCount,
		RatePerBranch: totals.RatePerBranch.StringFixed(2),
		Subtotal:      totals.Subtotal.StringFixed(2),
		TotalTax:      totals.TotalTax.StringFixed(2),
		GrandTotal:    totals.GrandTotal.StringFixed(2),
		PDF:           pdfRef,
	}
	for _, line := range totals.TaxLines {
		resp.TaxLines = append(resp.TaxLines, TaxLineResponse{
			EntityID:    line.EntityID,
			RatePercent: line.Rate.Mul(hundred).StringFixed(0),
			Branches:    line.Branches,
			Amount:      line.Amount.StringFixed(2),
		})
	}
	return resp
}
