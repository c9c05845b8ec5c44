// Package pdf genera la factura mensual de integración en PDF con Maroto v2.
//
// Layout de la página (carta):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  TÍTULO: MONTHLY INTEGRATION INVOICE                        │
//	│  N° factura / fecha / periodo / integrador                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Vendor Code | Branch Name | Delivery | Rate     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: sucursales / subtotal / IVA por entidad / TOTAL   │
//	│  Payment terms: Net 30 days                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/tu-usuario/pos-billing/internal/application/billing"
	"github.com/tu-usuario/pos-billing/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 44, Green: 62, Blue: 80}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoInvoiceGenerator implementa billing.InvoiceGenerator con Maroto v2,
// escribiendo los PDF bajo un directorio de facturas.
type MarotoInvoiceGenerator struct {
	dir string
}

// NewMarotoInvoiceGenerator construye el generador sobre el directorio dado.
func NewMarotoInvoiceGenerator(dir string) MarotoInvoiceGenerator {
	return MarotoInvoiceGenerator{dir: dir}
}

// Generate arma el PDF de la factura mensual de un integrador y devuelve la
// ruta relativa del archivo dentro del directorio de facturas.
func (g MarotoInvoiceGenerator) Generate(
	_ context.Context,
	totals entity.InvoiceTotals,
	rows []entity.BranchRecord,
	period appbilling.Period,
) (string, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Monthly Integration Invoice", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow())
	m.AddRows(detailsRows(totals.Integrator, period)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(branchTableHeader())
	m.AddRows(branchTableRows(rows, totals.RatePerBranch)...)

	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRows(totals)...)

	doc, err := m.Generate()
	if err != nil {
		return "", fmt.Errorf("pdf: generar documento: %w", err)
	}

	rel := fmt.Sprintf("%s_%d_%s.pdf",
		strings.ReplaceAll(totals.Integrator, " ", "_"), period.Year, period.Month.String())
	full := filepath.Join(g.dir, rel)
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: crear directorio: %w", err)
	}
	if err := os.WriteFile(full, doc.GetBytes(), 0o644); err != nil {
		return "", fmt.Errorf("pdf: escribir %s: %w", full, err)
	}
	return rel, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func titleRow() core.Row {
	return row.New(14).Add(
		col.New(12).Add(text.New("MONTHLY INTEGRATION INVOICE", props.Text{
			Style: fontstyle.Bold, Size: 18, Align: align.Center, Color: colorPrimary, Top: 2,
		})),
	)
}

// detailsRows: número de factura, fecha de emisión, periodo e integrador.
func detailsRows(integrator string, period appbilling.Period) []core.Row {
	invoiceNumber := invoiceNumberFor(integrator, period)
	pairs := [][2]string{
		{"Invoice Number:", invoiceNumber},
		{"Invoice Date:", time.Now().Format("January 2, 2006")},
		{"Billing Period:", period.Label()},
		{"Integrator:", integrator},
	}
	result := make([]core.Row, 0, len(pairs))
	for _, p := range pairs {
		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(p[0], props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1,
			})),
			col.New(9).Add(text.New(p[1], props.Text{Size: 9, Top: 1})),
		))
	}
	return result
}

// invoiceNumberFor número tipo INV-<año><mes>-<prefijo del integrador>.
func invoiceNumberFor(integrator string, period appbilling.Period) string {
	prefix := strings.ToUpper(strings.ReplaceAll(integrator, " ", ""))
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("INV-%d%02d-%s", period.Year, int(period.Month), prefix)
}

func branchTableHeader() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Vendor Code", 2, align.Center),
		h("Branch Name", 5, align.Left),
		h("Delivery Type", 2, align.Center),
		h("Rate (EUR)", 2, align.Right),
	)
}

func branchTableRows(rows []entity.BranchRecord, rate decimal.Decimal) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for i, r := range rows {
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(2).Add(text.New(r.VendorCode, props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(5).Add(text.New(r.BranchName, props.Text{
				Size: 8, Align: align.Left, Top: 1,
			})),
			col.New(2).Add(text.New(r.DeliveryType, props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(2).Add(text.New("€"+rate.StringFixed(2), props.Text{
				Size: 8, Align: align.Right, Top: 1,
			})),
		))
	}
	return result
}

// summaryRows: totales con desglose de IVA por entidad y leyenda de pago.
// Todos los montos llegan sin redondear y se fijan a 2 decimales aquí.
func summaryRows(totals entity.InvoiceTotals) []core.Row {
	pair := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		size := 9.0
		color := (*props.Color)(nil)
		if bold {
			style = fontstyle.Bold
			size = 11
			color = colorPrimary
		}
		return row.New(6).Add(
			col.New(8).Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2, Top: 1, Color: color,
			})),
			col.New(4).Add(text.New(value, props.Text{
				Style: style, Size: size, Align: align.Right, Top: 1, Color: color,
			})),
		)
	}

	result := []core.Row{
		pair("Total Branches:", strconv.Itoa(totals.BranchCount), false),
		pair("Rate per Branch:", "€"+totals.RatePerBranch.StringFixed(2)+" EUR", false),
		pair("Subtotal:", "€"+totals.Subtotal.StringFixed(2)+" EUR", false),
	}

	if len(totals.TaxLines) > 0 {
		result = append(result, pair("Tax Breakdown:", "", false))
		for _, tl := range totals.TaxLines {
			label := fmt.Sprintf("%s (%d branches @ %s%% VAT):",
				strings.ReplaceAll(tl.EntityID, "_", " "),
				tl.Branches,
				tl.Rate.Mul(decimal.NewFromInt(100)).StringFixed(0),
			)
			result = append(result, pair(label, "€"+tl.Amount.StringFixed(2)+" EUR", false))
		}
		result = append(result, pair("Total Tax:", "€"+totals.TotalTax.StringFixed(2)+" EUR", false))
	}

	result = append(result,
		pair("TOTAL AMOUNT DUE:", "€"+totals.GrandTotal.StringFixed(2)+" EUR", true),
		row.New(10).Add(col.New(12).Add(text.New(
			"Payment terms: Net 30 days from invoice date",
			props.Text{Size: 8, Style: fontstyle.Italic, Color: colorGray, Top: 4},
		))),
	)
	return result
}
