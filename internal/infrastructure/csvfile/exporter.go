package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	appbilling "github.com/tu-usuario/pos-billing/internal/application/billing"
	"github.com/tu-usuario/pos-billing/internal/domain/billing"
	"github.com/tu-usuario/pos-billing/internal/domain/entity"
)

// Exporter escribe los CSV canónicos por par (integrador, país) bajo una
// raíz de exports: <raíz>/<periodo>/<integrador>/<integrador>_<país>_<periodo>.csv
type Exporter struct {
	root string
}

// NewExporter construye el exporter sobre el directorio raíz dado.
func NewExporter(root string) Exporter {
	return Exporter{root: root}
}

// Export escribe las filas canónicas ordenadas por nombre de sucursal y
// vendor_code, con las columnas originales más Country, y devuelve la ruta
// relativa a la raíz de exports.
func (e Exporter) Export(integrator, country string, rows []entity.BranchRecord, period appbilling.Period) (string, error) {
	integratorSlug := billing.Slugify(integrator)
	rel := filepath.Join(
		period.Slug(),
		integratorSlug,
		fmt.Sprintf("%s_%s_%s.csv", integratorSlug, billing.Slugify(country), period.Slug()),
	)
	full := filepath.Join(e.root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("crear directorio de export: %w", err)
	}

	sorted := make([]entity.BranchRecord, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BranchName != sorted[j].BranchName {
			return sorted[i].BranchName < sorted[j].BranchName
		}
		return sorted[i].VendorCode < sorted[j].VendorCode
	})

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("crear %s: %w", full, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append(append([]string{}, allowedColumns...), "Country")
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("escribir encabezado: %w", err)
	}
	for _, row := range sorted {
		orders := ""
		if row.Orders != nil {
			orders = strconv.FormatInt(*row.Orders, 10)
		}
		record := []string{
			row.EntityID,
			row.VendorCode,
			row.RemoteID,
			row.BranchName,
			row.IntegrationName,
			row.ChainID,
			row.ChainName,
			row.DeliveryType,
			orders,
			row.Country,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("escribir fila: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("volcar CSV: %w", err)
	}
	return rel, nil
}
