package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-billing/internal/domain/entity"
	"github.com/tu-usuario/pos-billing/pkg/logger"
)

// ── Fakes de puertos ──────────────────────────────────────────────────────────

type stubLoader struct {
	rows []entity.BranchRecord
	err  error
}

func (s stubLoader) Load(path string) ([]entity.BranchRecord, error) {
	return s.rows, s.err
}

type exportCall struct {
	integrator string
	country    string
	rows       []entity.BranchRecord
}

type recordingExporter struct {
	calls []exportCall
}

func (r *recordingExporter) Export(integrator, country string, rows []entity.BranchRecord, period Period) (string, error) {
	r.calls = append(r.calls, exportCall{integrator: integrator, country: country, rows: rows})
	return period.Slug() + "/" + country + ".csv", nil
}

type recordingInvoices struct {
	totals []entity.InvoiceTotals
	err    error
}

func (r *recordingInvoices) Generate(ctx context.Context, totals entity.InvoiceTotals, rows []entity.BranchRecord, period Period) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.totals = append(r.totals, totals)
	return totals.Integrator + ".pdf", nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func snapshotRow(entityID, vendor, branch, integration string) entity.BranchRecord {
	return entity.BranchRecord{
		EntityID:        entityID,
		VendorCode:      vendor,
		BranchName:      branch,
		IntegrationName: integration,
		DeliveryType:    "talabat_go",
	}
}

func newTestUseCase(loader SnapshotLoader) (*RunUseCase, *recordingExporter, *recordingInvoices) {
	exporter := &recordingExporter{}
	invoices := &recordingInvoices{}
	uc := NewRunUseCase(DefaultEngine(), loader, exporter, invoices, logger.Nop())
	return uc, exporter, invoices
}

var testPeriod = Period{Year: 2025, Month: time.October}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRunAplicaListaDeBloqueoDeUrbanPiper(t *testing.T) {
	loader := stubLoader{rows: []entity.BranchRecord{
		snapshotRow("TB_AE", "V100", "Else Burger", "Urban Piper [UAE]"),
		snapshotRow("TB_AE", "V200", "McDonalds JLT", "Urban Piper [UAE]"),
	}}
	uc, exporter, _ := newTestUseCase(loader)

	resp, err := uc.Run(context.Background(), "snapshot.csv", testPeriod)
	require.NoError(t, err)

	require.Len(t, resp.Rows, 1, "solo debe quedar el par (Urban Piper, UAE)")
	assert.Equal(t, "Urban Piper [UAE]", resp.Rows[0].Integrator)
	assert.Equal(t, "UAE", resp.Rows[0].Country)
	assert.Equal(t, 1, resp.Rows[0].Branches, "Else Burger está en la lista de bloqueo")

	require.Len(t, exporter.calls, 1)
	require.Len(t, exporter.calls[0].rows, 1)
	assert.Equal(t, "McDonalds JLT", exporter.calls[0].rows[0].BranchName)

	require.Len(t, resp.Invoices, 1)
	inv := resp.Invoices[0]
	assert.Equal(t, 1, inv.BranchCount)
	assert.Equal(t, "15.00", inv.Subtotal)
	assert.Equal(t, "0.75", inv.TotalTax)
	assert.Equal(t, "15.75", inv.GrandTotal)
	require.Len(t, inv.TaxLines, 1)
	assert.Equal(t, "TB_AE", inv.TaxLines[0].EntityID)
	assert.Equal(t, "5", inv.TaxLines[0].RatePercent)
	assert.Equal(t, "0.75", inv.TaxLines[0].Amount)

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "October 2025", resp.Period)
}

func TestRunOmiteIntegracionSinRegla(t *testing.T) {
	loader := stubLoader{rows: []entity.BranchRecord{
		snapshotRow("TB_AE", "V100", "McDonalds JLT", "Urban Piper [UAE]"),
		snapshotRow("TB_KW", "V900", "Shawarma House", "Some Random POS"),
	}}
	uc, exporter, _ := newTestUseCase(loader)

	resp, err := uc.Run(context.Background(), "snapshot.csv", testPeriod)
	require.NoError(t, err)

	require.Len(t, resp.Rows, 1, "la integración desconocida no aparece ni con conteo cero")
	assert.Equal(t, "Urban Piper [UAE]", resp.Rows[0].Integrator)
	require.Len(t, resp.Invoices, 1)
	require.Len(t, exporter.calls, 1)
	assert.Equal(t, "Urban Piper [UAE]", exporter.calls[0].integrator)
}

func TestRunColapsaDeliveryTypesEnGrubtech(t *testing.T) {
	tgo := snapshotRow("TB_KW", "V300", "Pasta Bar Salmiya", "HS GrubTech")
	tgo.DeliveryType = "talabat_go"
	tmp := snapshotRow("TB_KW", "V301", "Pasta Bar Salmiya", "HS GrubTech")
	tmp.DeliveryType = "talabat_marketplace"

	loader := stubLoader{rows: []entity.BranchRecord{
		tgo,
		tmp,
		snapshotRow("TB_KW", "V302", "Snap Kitchen", "HS GrubTech"),
	}}
	uc, _, _ := newTestUseCase(loader)

	resp, err := uc.Run(context.Background(), "snapshot.csv", testPeriod)
	require.NoError(t, err)

	require.Len(t, resp.Rows, 1)
	assert.Equal(t, 1, resp.Rows[0].Branches,
		"las variantes de delivery type colapsan y snap queda excluido")

	require.Len(t, resp.Invoices, 1)
	inv := resp.Invoices[0]
	assert.Equal(t, "15.00", inv.Subtotal)
	assert.Equal(t, "0.00", inv.TotalTax, "Kuwait no tiene IVA")
	assert.Equal(t, "15.00", inv.GrandTotal)
	assert.Empty(t, inv.TaxLines, "las entidades con tasa cero no generan línea de IVA")
}

func TestRunAgrupaPorPaisYFacturaUnaSolaVez(t *testing.T) {
	loader := stubLoader{rows: []entity.BranchRecord{
		snapshotRow("TB_AE", "V100", "McDonalds JLT", "Urban Piper [UAE]"),
		snapshotRow("TB_KW", "V400", "Burger Hub", "Urban Piper [UAE]"),
	}}
	uc, exporter, invoices := newTestUseCase(loader)

	resp, err := uc.Run(context.Background(), "snapshot.csv", testPeriod)
	require.NoError(t, err)

	require.Len(t, resp.Rows, 2, "un export por par (integrador, país)")
	assert.Equal(t, "Kuwait", resp.Rows[0].Country, "los países salen en orden alfabético")
	assert.Equal(t, "UAE", resp.Rows[1].Country)
	require.Len(t, exporter.calls, 2)

	require.Len(t, resp.Invoices, 1, "una sola factura por integrador, no por país")
	inv := resp.Invoices[0]
	assert.Equal(t, 2, inv.BranchCount)
	assert.Equal(t, "30.00", inv.Subtotal)
	assert.Equal(t, "0.75", inv.TotalTax, "solo UAE aporta IVA")
	assert.Equal(t, "30.75", inv.GrandTotal)
	require.Len(t, invoices.totals, 1)
}

func TestRunDescartaFilasSinPaisYKSA(t *testing.T) {
	loader := stubLoader{rows: []entity.BranchRecord{
		snapshotRow("HS_SA", "V500", "Riyadh Grill", "Urban Piper [UAE]"),
		snapshotRow("XX_ZZ", "V501", "Ghost Branch", "Urban Piper [UAE]"),
		snapshotRow("TB_AE", "V502", "McDonalds JLT", "Urban Piper [UAE]"),
	}}
	uc, _, _ := newTestUseCase(loader)

	resp, err := uc.Run(context.Background(), "snapshot.csv", testPeriod)
	require.NoError(t, err)

	require.Len(t, resp.Rows, 1)
	assert.Equal(t, 1, resp.Rows[0].Branches,
		"KSA y las entidades sin país salen antes de clasificar")
}

func TestRunPropagaErrorDelLoader(t *testing.T) {
	wantErr := errors.New("archivo ilegible")
	uc, _, _ := newTestUseCase(stubLoader{err: wantErr})

	resp, err := uc.Run(context.Background(), "snapshot.csv", testPeriod)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Nil(t, resp)
}

func TestRunConSnapshotVacioProduceCorridaVacia(t *testing.T) {
	uc, exporter, _ := newTestUseCase(stubLoader{})

	resp, err := uc.Run(context.Background(), "snapshot.csv", testPeriod)
	require.NoError(t, err)
	assert.Empty(t, resp.Rows)
	assert.Empty(t, resp.Invoices)
	assert.Empty(t, exporter.calls)
	assert.NotEmpty(t, resp.RunID, "la corrida vacía sigue siendo una corrida válida")
}
