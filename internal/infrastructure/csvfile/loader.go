// Package csvfile implementa la carga del snapshot mensual y el export de
// sucursales canónicas en CSV (encoding/csv de la librería estándar).
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tu-usuario/pos-billing/internal/domain"
	"github.com/tu-usuario/pos-billing/internal/domain/entity"
)

// Columnas del export de origen. El orden aquí es el orden de salida de los
// exports; la carga es insensible al orden de columnas del archivo.
var allowedColumns = []string{
	"Entity ID",
	"vendor_code",
	"remote_id",
	"Branch Name",
	"Integration Name",
	"Chain ID",
	"Chain Name",
	"Delivery Type",
	"Orders",
}

// Loader carga snapshots desde archivos CSV.
type Loader struct{}

// NewLoader construye el loader.
func NewLoader() Loader { return Loader{} }

// Load lee el CSV y devuelve una fila por registro. Columnas faltantes se
// toleran y quedan vacías; si ninguna de las nueve columnas requeridas está
// presente el esquema se considera ausente y se retorna ErrInvalidSchema
// (defecto estructural: fatal para la corrida, sin salida parcial).
func (Loader) Load(path string) ([]entity.BranchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) ([]entity.BranchRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // filas cortas se toleran, campos faltantes vacíos

	header, err := cr.Read()
	if err == io.EOF {
		return nil, domain.ErrInvalidSchema
	}
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	known := 0
	for _, col := range allowedColumns {
		if _, ok := index[col]; ok {
			known++
		}
	}
	if known == 0 {
		return nil, domain.ErrInvalidSchema
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []entity.BranchRecord
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer fila %d: %w", len(rows)+2, err)
		}
		rows = append(rows, entity.BranchRecord{
			EntityID:        field(record, "Entity ID"),
			VendorCode:      field(record, "vendor_code"),
			RemoteID:        field(record, "remote_id"),
			BranchName:      field(record, "Branch Name"),
			IntegrationName: field(record, "Integration Name"),
			ChainID:         field(record, "Chain ID"),
			ChainName:       field(record, "Chain Name"),
			DeliveryType:    field(record, "Delivery Type"),
			Orders:          parseOrders(field(record, "Orders")),
		})
	}
	return rows, nil
}

// parseOrders coerción permisiva: un conteo de pedidos no numérico queda como
// desconocido (nil); nunca es fatal porque el dato es solo informativo.
func parseOrders(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}
