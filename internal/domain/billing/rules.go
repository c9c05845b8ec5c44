package billing

import (
	"strings"

	"github.com/tu-usuario/pos-billing/internal/domain/entity"
)

// PolicyKind enumeración cerrada de tipos de política de exclusión.
type PolicyKind int

const (
	// PatternExclude elimina filas cuyo nombre de sucursal o cadena contiene
	// un substring (insensible a mayúsculas), opcionalmente restringido a un
	// conjunto de entidades.
	PatternExclude PolicyKind = iota
	// NamedExclude elimina, solo para una entidad concreta, las filas cuyo
	// nombre normalizado de sucursal O cadena está en una lista de bloqueo.
	NamedExclude
)

// Policy instancia de una política de exclusión. Los campos usados dependen
// del Kind: PatternExclude usa Substring y Entities (nil = global);
// NamedExclude usa Entity y Names (nombres ya normalizados).
type Policy struct {
	Kind      PolicyKind
	Substring string
	Entities  map[string]struct{}
	Entity    string
	Names     map[string]struct{}
}

// Label identificador corto de la política para logs de auditoría.
func (p Policy) Label() string {
	switch p.Kind {
	case PatternExclude:
		return "pattern:" + p.Substring
	case NamedExclude:
		return "named:" + p.Entity
	}
	return "unknown"
}

// RuleSet paquete de políticas que aplica a un integrador.
type RuleSet struct {
	Key string
	// IgnoreDeliveryType agrupa el dedupe por nombre normalizado en lugar de
	// vendor_code, de modo que las variantes de delivery type de una misma
	// sucursal caigan en el mismo bucket y colapsen a una unidad facturable.
	IgnoreDeliveryType bool
	Policies           []Policy
}

// RuleSetFor clasifica un nombre crudo de integración: lo pasa a slug y lo
// busca en la tabla estática. Un nombre sin entrada queda sin clasificar y
// el integrador completo sale del conjunto facturable (no es un error).
func RuleSetFor(integrationName string, t Tables) (RuleSet, bool) {
	key, ok := t.IntegratorRules[Slugify(integrationName)]
	if !ok {
		return RuleSet{}, false
	}
	rs, ok := t.RuleSets[key]
	return rs, ok
}

// Removal conteo de filas eliminadas por una política (para logs, no forma
// parte del contrato de retorno del filtro).
type Removal struct {
	Policy  string
	Removed int
}

// ApplyExclusions aplica en orden todas las políticas del rule set sobre las
// filas de un integrador. Entrada vacía produce salida vacía sin error; el
// resultado puede quedar vacío y las etapas posteriores deben tolerarlo.
func (rs RuleSet) ApplyExclusions(rows []entity.BranchRecord) ([]entity.BranchRecord, []Removal) {
	removals := make([]Removal, 0, len(rs.Policies))
	out := rows
	for _, p := range rs.Policies {
		var removed int
		out, removed = p.apply(out)
		if removed > 0 {
			removals = append(removals, Removal{Policy: p.Label(), Removed: removed})
		}
	}
	return out, removals
}

func (p Policy) apply(rows []entity.BranchRecord) ([]entity.BranchRecord, int) {
	if len(rows) == 0 {
		return rows, 0
	}
	kept := make([]entity.BranchRecord, 0, len(rows))
	for _, row := range rows {
		if p.matches(row) {
			continue
		}
		kept = append(kept, row)
	}
	return kept, len(rows) - len(kept)
}

func (p Policy) matches(row entity.BranchRecord) bool {
	switch p.Kind {
	case PatternExclude:
		if p.Entities != nil {
			if _, ok := p.Entities[row.EntityID]; !ok {
				return false
			}
		}
		return containsFold(row.BranchName, p.Substring) ||
			containsFold(row.ChainName, p.Substring)
	case NamedExclude:
		if row.EntityID != p.Entity {
			return false
		}
		if _, ok := p.Names[NormalizeName(row.BranchName)]; ok {
			return true
		}
		_, ok := p.Names[NormalizeName(row.ChainName)]
		return ok
	}
	return false
}

func containsFold(s, substr string) bool {
	return substr != "" && strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
