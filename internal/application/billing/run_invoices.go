package billing

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/tu-usuario/pos-billing/internal/application/dto"
	domainbilling "github.com/tu-usuario/pos-billing/internal/domain/billing"
	"github.com/tu-usuario/pos-billing/internal/domain/entity"
	"github.com/tu-usuario/pos-billing/pkg/logger"
)

// RunUseCase orquesta una corrida completa de facturación sobre un snapshot:
// preparación → clasificación → exclusiones → dedupe → exports por país →
// totales → factura PDF por integrador. Cada corrida es una función pura de
// su entrada más las tablas estáticas; repetirla sobre el mismo snapshot y
// umbral produce el mismo resultado (la guarda anti doble-facturación vive
// en el scheduler, no aquí).
type RunUseCase struct {
	engine   Engine
	loader   SnapshotLoader
	exporter BranchExporter
	invoices InvoiceGenerator
	log      *logger.Logger
}

// NewRunUseCase construye el caso de uso.
func NewRunUseCase(
	engine Engine,
	loader SnapshotLoader,
	exporter BranchExporter,
	invoices InvoiceGenerator,
	log *logger.Logger,
) *RunUseCase {
	return &RunUseCase{
		engine:   engine,
		loader:   loader,
		exporter: exporter,
		invoices: invoices,
		log:      log,
	}
}

// Run procesa el CSV y genera exports y facturas del periodo.
// Los integradores sin regla conocida no aparecen en el resumen (ni siquiera
// con conteo cero); un par (integrador, país) que queda vacío en cualquier
// etapa se omite y el resto continúa.
func (uc *RunUseCase) Run(ctx context.Context, csvPath string, period Period) (*dto.RunBillingResponse, error) {
	rows, err := uc.loader.Load(csvPath)
	if err != nil {
		return nil, fmt.Errorf("cargar snapshot: %w", err)
	}

	prepared, stats := domainbilling.PrepareRows(rows, uc.engine.Tables)
	uc.log.Info().
		Int("input", stats.Input).
		Int("kept", stats.Kept).
		Int("ksa", stats.KSA).
		Int("no_country", stats.NoCountry).
		Int("no_integration", stats.NoIntegration).
		Msg("snapshot preparado")

	// Agrupar por nombre crudo de integración, en orden estable.
	byIntegrator := make(map[string][]entity.BranchRecord)
	for _, row := range prepared {
		byIntegrator[row.IntegrationName] = append(byIntegrator[row.IntegrationName], row)
	}
	names := make([]string, 0, len(byIntegrator))
	for name := range byIntegrator {
		names = append(names, name)
	}
	sort.Strings(names)

	calc := domainbilling.NewCalculator(uc.engine.Tables)
	dedup := domainbilling.NewDeduplicator(uc.engine.Threshold)

	resp := &dto.RunBillingResponse{
		RunID:  uuid.New().String(),
		Period: period.Label(),
	}

	for _, name := range names {
		integratorRows := byIntegrator[name]
		ruleSet, ok := domainbilling.RuleSetFor(name, uc.engine.Tables)
		if !ok {
			// Hueco de configuración: se excluye en silencio, solo queda en logs.
			uc.log.Info().Str("integrator", name).Int("rows", len(integratorRows)).
				Msg("integración sin regla conocida, fuera de la facturación")
			continue
		}

		filtered, removals := ruleSet.ApplyExclusions(integratorRows)
		for _, r := range removals {
			uc.log.Info().Str("integrator", name).Str("policy", r.Policy).
				Int("removed", r.Removed).Msg("filas excluidas por política")
		}
		if len(filtered) == 0 {
			uc.log.Info().Str("integrator", name).Msg("sin filas tras exclusiones, se omite")
			continue
		}

		canonical := dedup.Deduplicate(filtered, ruleSet.IgnoreDeliveryType)
		if len(canonical) == 0 {
			continue
		}
		uc.log.Info().Str("integrator", name).
			Int("before", len(filtered)).Int("canonical", len(canonical)).
			Bool("ignore_delivery_type", ruleSet.IgnoreDeliveryType).
			Msg("sucursales canónicas tras dedupe")

		for _, group := range calc.GroupByCountry(canonical) {
			ref, err := uc.exporter.Export(name, group.Country, group.Rows, period)
			if err != nil {
				return nil, fmt.Errorf("exportar %s/%s: %w", name, group.Country, err)
			}
			resp.Rows = append(resp.Rows, dto.RunSummaryRow{
				Integrator: name,
				Country:    group.Country,
				Branches:   len(group.Rows),
				CSV:        ref,
			})
		}

		totals := calc.Totals(name, canonical)
		pdfRef, err := uc.invoices.Generate(ctx, totals, canonical, period)
		if err != nil {
			return nil, fmt.Errorf("generar factura de %s: %w", name, err)
		}
		resp.Invoices = append(resp.Invoices, dto.NewInvoiceResponse(totals, pdfRef))
	}

	uc.log.Info().Int("pairs", len(resp.Rows)).Int("invoices", len(resp.Invoices)).
		Str("run_id", resp.RunID).Msg("corrida de facturación completada")
	return resp, nil
}
