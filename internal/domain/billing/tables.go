// Package billing implementa el motor de deduplicación de sucursales y reglas
// de facturación para integraciones POS.
//
// Pipeline de una corrida (sin estado entre corridas):
//
//	filas crudas ─► PrepareRows (país, KSA fuera) ─► RuleSetFor (clasificación)
//	             ─► ApplyExclusions (políticas por integrador)
//	             ─► Deduplicator (fuzzy por bucket)
//	             ─► Calculator (conteos por país + totales con IVA)
//
// Todas las tablas (países, tasas, reglas, listas de bloqueo) viajan en un
// valor Tables inmutable que se pasa explícito a cada componente; no hay
// estado global, por lo que los tests pueden usar tablas sintéticas.
package billing

import (
	"github.com/shopspring/decimal"
)

// Identificadores de rule set (paquete de políticas por integrador).
const (
	RuleSetGrubtech      = "grubtech"
	RuleSetLimetrayUAE   = "limetray_uae"
	RuleSetUrbanPiperUAE = "urbanpiper_uae"
)

// EntityKSA se excluye incondicionalmente antes de cualquier lógica de
// integrador (la facturación de Arabia Saudita va por otro canal).
const EntityKSA = "HS_SA"

// DefaultThreshold umbral de similitud [0,100] para considerar dos nombres
// de sucursal como duplicados.
const DefaultThreshold = 85

// Tables agrupa las tablas estáticas de una corrida. Es de solo lectura
// durante todo el proceso; los loops por integrador pueden paralelizarse
// sin locking sobre ella.
type Tables struct {
	// CountryMap Entity ID → nombre de país. Filas sin entrada se excluyen.
	CountryMap map[string]string
	// TaxRates Entity ID → tasa de IVA decimal (0.00–0.16).
	TaxRates map[string]decimal.Decimal
	// RatePerBranch tarifa mensual por sucursal canónica (EUR).
	RatePerBranch decimal.Decimal
	// IntegratorRules slug del nombre de integración → clave de rule set.
	// Varias escrituras del mismo integrador apuntan a la misma clave.
	IntegratorRules map[string]string
	// RuleSets clave de rule set → políticas de exclusión y modo de dedupe.
	RuleSets map[string]RuleSet
}

// DefaultTables construye las tablas fijas del dominio (8 entidades GCC+).
func DefaultTables() Tables {
	return Tables{
		CountryMap: map[string]string{
			"TB_KW": "Kuwait",
			"TB_AE": "UAE",
			"TB_OM": "Oman",
			"TB_BH": "Bahrain",
			"TB_QA": "Qatar",
			"TB_JO": "Jordan",
			"HF_EG": "Egypt",
			"HS_SA": "Saudi Arabia",
		},
		TaxRates: map[string]decimal.Decimal{
			"TB_KW": decimal.Zero,                     // Kuwait - sin IVA
			"TB_AE": decimal.NewFromFloat(0.05),       // UAE - 5%
			"TB_OM": decimal.NewFromFloat(0.05),       // Omán - 5%
			"TB_BH": decimal.NewFromFloat(0.10),       // Baréin - 10%
			"TB_QA": decimal.Zero,                     // Catar - sin IVA
			"TB_JO": decimal.NewFromFloat(0.16),       // Jordania - 16%
			"HF_EG": decimal.NewFromFloat(0.14),       // Egipto - 14%
			"HS_SA": decimal.NewFromFloat(0.15),       // KSA - excluida de todos modos
		},
		RatePerBranch:   decimal.NewFromInt(15),
		IntegratorRules: defaultIntegratorRules(),
		RuleSets:        defaultRuleSets(),
	}
}

// defaultIntegratorRules tabla de escrituras conocidas de cada integrador.
// Las claves se guardan ya en forma de slug (ver Slugify).
func defaultIntegratorRules() map[string]string {
	raw := map[string]string{
		// Grubtech
		"HS GrubTech":          RuleSetGrubtech,
		"TLBT GrubTech Plugin": RuleSetGrubtech,
		"Grubtech":             RuleSetGrubtech,

		// Limetray
		"Limetray [UAE]": RuleSetLimetrayUAE,
		"TLBT LimeTray":  RuleSetLimetrayUAE,
		"Limetray":       RuleSetLimetrayUAE,

		// Urban Piper
		"Urban Piper [UAE]":     RuleSetUrbanPiperUAE,
		"HS-UrbanPiper":         RuleSetUrbanPiperUAE,
		"TLBT UrbanPiper Plugin": RuleSetUrbanPiperUAE,
		"Urban Piper":           RuleSetUrbanPiperUAE,
		"urbanpiper":            RuleSetUrbanPiperUAE,
	}
	rules := make(map[string]string, len(raw))
	for name, key := range raw {
		rules[Slugify(name)] = key
	}
	return rules
}

func defaultRuleSets() map[string]RuleSet {
	urbanPiperBlock := normalizeSet(
		"Edo Sushi and Poke",
		"Else Burger",
	)
	limetrayBlock := normalizeSet(
		"Toss & Co.",
		"World of Asia",
		"Biryani Boy",
		"Tim Hortons",
		"Chef Lanka",
		"Steers",
		"Debonairs Pizza , Dibba",
		"Tim Hortons home select",
		"The Kebab Shop",
	)

	return map[string]RuleSet{
		RuleSetGrubtech: {
			Key: RuleSetGrubtech,
			// TGO vs TMP: la misma sucursal aparece con dos delivery types;
			// se agrupa por nombre normalizado para que colapsen en una.
			IgnoreDeliveryType: true,
			Policies: []Policy{
				{Kind: PatternExclude, Substring: "snap"},
			},
		},
		RuleSetUrbanPiperUAE: {
			Key: RuleSetUrbanPiperUAE,
			Policies: []Policy{
				{Kind: PatternExclude, Substring: "snap", Entities: entitySet("TB_AE")},
				{Kind: NamedExclude, Entity: "TB_AE", Names: urbanPiperBlock},
			},
		},
		RuleSetLimetrayUAE: {
			Key: RuleSetLimetrayUAE,
			Policies: []Policy{
				{Kind: PatternExclude, Substring: "snap", Entities: entitySet("TB_AE")},
				{Kind: NamedExclude, Entity: "TB_AE", Names: limetrayBlock},
			},
		},
	}
}

func normalizeSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[NormalizeName(n)] = struct{}{}
	}
	return set
}

func entitySet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
