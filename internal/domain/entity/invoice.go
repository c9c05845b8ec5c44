package entity

import "github.com/shopspring/decimal"

// EntityTaxLine línea del desglose de impuestos por entidad dentro de una
// factura mensual. Las entidades con tasa 0 no generan línea (sus sucursales
// sí cuentan en el total de la factura).
type EntityTaxLine struct {
	EntityID string
	Rate     decimal.Decimal // tasa de IVA de la entidad (0.00–0.16)
	Branches int
	Amount   decimal.Decimal // subtotal de la entidad × tasa, sin redondear
}

// InvoiceTotals totales de la factura mensual de un integrador.
// Subtotal, TotalTax y GrandTotal se mantienen sin redondear; el redondeo a
// 2 decimales ocurre solo en la presentación (PDF / JSON).
type InvoiceTotals struct {
	Integrator    string
	BranchCount   int
	RatePerBranch decimal.Decimal
	Subtotal      decimal.Decimal
	TaxLines      []EntityTaxLine
	TotalTax      decimal.Decimal
	GrandTotal    decimal.Decimal
}
