package billing

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-billing/internal/domain/entity"
)

// Calculator deriva conteos y totales de facturación a partir de las filas
// canónicas de un integrador. Las tasas y la tarifa por sucursal vienen de
// Tables; nunca se derivan de los datos de entrada.
type Calculator struct {
	tables Tables
}

// NewCalculator construye el calculador sobre un juego de tablas.
func NewCalculator(t Tables) Calculator {
	return Calculator{tables: t}
}

// CountryGroup filas canónicas de un país, en orden de entrada.
type CountryGroup struct {
	Country string
	Rows    []entity.BranchRecord
}

// GroupByCountry agrupa filas canónicas por país resuelto, con los grupos
// ordenados alfabéticamente. Filas sin país no deberían llegar aquí
// (PrepareRows las descarta); si llegan, se omiten.
func (c Calculator) GroupByCountry(rows []entity.BranchRecord) []CountryGroup {
	byCountry := make(map[string][]entity.BranchRecord)
	for _, row := range rows {
		if row.Country == "" {
			continue
		}
		byCountry[row.Country] = append(byCountry[row.Country], row)
	}

	countries := make([]string, 0, len(byCountry))
	for country := range byCountry {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	groups := make([]CountryGroup, 0, len(countries))
	for _, country := range countries {
		groups = append(groups, CountryGroup{Country: country, Rows: byCountry[country]})
	}
	return groups
}

// Totals calcula los totales de la factura mensual de un integrador:
// subtotal = sucursales × tarifa, desglose de IVA por entidad (las de tasa 0
// se omiten del desglose pero cuentan en el subtotal), impuesto total y
// gran total. La suma se hace sobre valores sin redondear; el redondeo a 2
// decimales es responsabilidad de la capa de presentación.
func (c Calculator) Totals(integrator string, rows []entity.BranchRecord) entity.InvoiceTotals {
	totals := entity.InvoiceTotals{
		Integrator:    integrator,
		BranchCount:   len(rows),
		RatePerBranch: c.tables.RatePerBranch,
	}

	countByEntity := make(map[string]int)
	for _, row := range rows {
		countByEntity[row.EntityID]++
	}

	entities := make([]string, 0, len(countByEntity))
	for id := range countByEntity {
		entities = append(entities, id)
	}
	sort.Strings(entities)

	totals.Subtotal = c.tables.RatePerBranch.Mul(decimal.NewFromInt(int64(len(rows))))
	totals.TotalTax = decimal.Zero

	for _, id := range entities {
		rate, ok := c.tables.TaxRates[id]
		if !ok {
			rate = decimal.Zero
		}
		count := countByEntity[id]
		entitySubtotal := c.tables.RatePerBranch.Mul(decimal.NewFromInt(int64(count)))
		entityTax := entitySubtotal.Mul(rate)
		totals.TotalTax = totals.TotalTax.Add(entityTax)
		if rate.IsPositive() {
			totals.TaxLines = append(totals.TaxLines, entity.EntityTaxLine{
				EntityID: id,
				Rate:     rate,
				Branches: count,
				Amount:   entityTax,
			})
		}
	}

	totals.GrandTotal = totals.Subtotal.Add(totals.TotalTax)
	return totals
}
