package billing

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/tu-usuario/pos-billing/internal/domain/entity"
	domainbilling "github.com/tu-usuario/pos-billing/internal/domain/billing"
)

// Period periodo de facturación (mes calendario).
type Period struct {
	Year  int
	Month time.Month
}

// CurrentPeriod periodo del mes en curso.
func CurrentPeriod() Period {
	now := time.Now()
	return Period{Year: now.Year(), Month: now.Month()}
}

// Label etiqueta legible, ej. "October 2025".
func (p Period) Label() string {
	return p.Month.String() + " " + strconv.Itoa(p.Year)
}

// Slug forma apta para rutas, ej. "2025_october".
func (p Period) Slug() string {
	return strconv.Itoa(p.Year) + "_" + strings.ToLower(p.Month.String())
}

// SnapshotLoader carga el export mensual crudo. Columnas faltantes se
// toleran (quedan vacías); si ninguna columna requerida está presente el
// loader retorna domain.ErrInvalidSchema y la corrida aborta sin salida
// parcial.
type SnapshotLoader interface {
	Load(path string) ([]entity.BranchRecord, error)
}

// BranchExporter escribe el export canónico de un par (integrador, país):
// filas ordenadas por nombre de sucursal y vendor_code, columnas originales
// más Country. Devuelve la referencia (ruta relativa) del archivo.
type BranchExporter interface {
	Export(integrator, country string, rows []entity.BranchRecord, period Period) (string, error)
}

// InvoiceGenerator materializa la factura PDF de un integrador y devuelve
// su referencia (ruta relativa dentro del directorio de facturas).
type InvoiceGenerator interface {
	Generate(ctx context.Context, totals entity.InvoiceTotals, rows []entity.BranchRecord, period Period) (string, error)
}

// InvoiceMailer envía una factura PDF por correo.
type InvoiceMailer interface {
	SendInvoice(to []string, subject, body, attachmentPath string) error
}

// Engine agrupa las piezas puras del motor que el caso de uso orquesta.
// Existe para que los tests puedan variar umbral y tablas sin tocar config.
type Engine struct {
	Tables    domainbilling.Tables
	Threshold int
}

// DefaultEngine motor con las tablas fijas del dominio y el umbral 85.
func DefaultEngine() Engine {
	return Engine{
		Tables:    domainbilling.DefaultTables(),
		Threshold: domainbilling.DefaultThreshold,
	}
}
