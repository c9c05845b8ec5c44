package billing

import "github.com/tu-usuario/pos-billing/internal/domain/entity"

// Deduplicator colapsa filas que representan la misma sucursal física,
// tolerando variaciones de ortografía y orden de palabras en el nombre.
type Deduplicator struct {
	// Threshold puntaje mínimo [0,100] de TokenSortRatio para considerar dos
	// nombres como duplicados. 100 degenera a eliminación de duplicados casi
	// exactos (solo colapsan nombres idénticos tras reordenar palabras).
	Threshold int
}

// NewDeduplicator construye el deduplicador con el umbral dado.
func NewDeduplicator(threshold int) Deduplicator {
	return Deduplicator{Threshold: threshold}
}

// Deduplicate devuelve las filas canónicas preservando el orden y el
// contenido original (los duplicados se descartan enteros, no se fusionan
// campo a campo). El orden de entrada es significativo: la primera fila
// vista de un grupo queda como representante.
//
// Las filas se particionan primero en buckets por vendor_code (o por nombre
// normalizado si ignoreDeliveryType es true) y la comparación fuzzy solo
// ocurre dentro del bucket. El costo es O(n²) por bucket en el peor caso;
// aceptable porque los buckets son pequeños (un vendor o un cluster de
// nombre), pero es la restricción de escalado a vigilar si el export crece.
func (d Deduplicator) Deduplicate(rows []entity.BranchRecord, ignoreDeliveryType bool) []entity.BranchRecord {
	if len(rows) == 0 {
		return nil
	}

	unique := make([]entity.BranchRecord, 0, len(rows))
	buckets := make(map[string][]string) // bucket → nombres ya aceptados

	for _, row := range rows {
		key := row.VendorCode
		if ignoreDeliveryType {
			key = NormalizeName(row.BranchName)
		}

		accepted, seen := buckets[key]
		if !seen {
			buckets[key] = []string{row.BranchName}
			unique = append(unique, row)
			continue
		}

		duplicate := false
		for _, name := range accepted {
			if TokenSortRatio(row.BranchName, name) >= d.Threshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		buckets[key] = append(accepted, row.BranchName)
		unique = append(unique, row)
	}

	return unique
}
