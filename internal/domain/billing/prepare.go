package billing

import (
	"strings"

	"github.com/tu-usuario/pos-billing/internal/domain/entity"
)

// PrepareStats conteos de filas descartadas en la preparación, para logs de
// auditoría (las exclusiones de configuración son silenciosas, no errores).
type PrepareStats struct {
	Input         int
	NoIntegration int // Integration Name vacío
	KSA           int // Entity ID HS_SA (excluida incondicionalmente)
	NoCountry     int // Entity ID sin entrada en la tabla de países
	Kept          int
}

// PrepareRows resuelve el país de cada fila y aplica los descartes previos a
// cualquier lógica de integrador: filas sin nombre de integración, filas de
// HS_SA y filas cuya entidad no tiene país mapeado. Toda fila sobreviviente
// tiene Country no vacío.
func PrepareRows(rows []entity.BranchRecord, t Tables) ([]entity.BranchRecord, PrepareStats) {
	stats := PrepareStats{Input: len(rows)}
	kept := make([]entity.BranchRecord, 0, len(rows))

	for _, row := range rows {
		if strings.TrimSpace(row.IntegrationName) == "" {
			stats.NoIntegration++
			continue
		}
		if row.EntityID == EntityKSA {
			stats.KSA++
			continue
		}
		country, ok := t.CountryMap[row.EntityID]
		if !ok || row.EntityID == "" {
			stats.NoCountry++
			continue
		}
		row.Country = country
		kept = append(kept, row)
	}

	stats.Kept = len(kept)
	return kept, stats
}
