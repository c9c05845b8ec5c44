package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/pos-billing/internal/domain/billing"
)

func TestTokenSortRatio_AnagramaDePalabras(t *testing.T) {
	// Mismas palabras en distinto orden puntúan 100.
	assert.Equal(t, 100, billing.TokenSortRatio("Burger Else", "Else Burger"))
	assert.Equal(t, 100, billing.TokenSortRatio("salmiya mcdonalds", "McDonalds Salmiya"))
}

func TestTokenSortRatio_Identicas(t *testing.T) {
	assert.Equal(t, 100, billing.TokenSortRatio("Pizza Hut Dibba", "Pizza Hut Dibba"))
	assert.Equal(t, 100, billing.TokenSortRatio("", ""), "dos vacías son iguales")
}

func TestTokenSortRatio_Disjuntas(t *testing.T) {
	score := billing.TokenSortRatio("abcdefgh", "stuvwxyz")
	assert.Less(t, score, 15, "cadenas sin caracteres comunes puntúan cerca de 0")
}

func TestTokenSortRatio_VariacionLeve(t *testing.T) {
	// Un typo de un carácter en nombres reales queda muy por encima del
	// umbral por defecto (85).
	score := billing.TokenSortRatio("McDonalds Salmiya", "McDonals Salmiya")
	assert.GreaterOrEqual(t, score, billing.DefaultThreshold)
}

func TestTokenSortRatio_Simetrica(t *testing.T) {
	a, b := "Else Burger JLT", "Burger Else Marina"
	assert.Equal(t, billing.TokenSortRatio(a, b), billing.TokenSortRatio(b, a))
}

func TestTokenSortRatio_RangoValido(t *testing.T) {
	pairs := [][2]string{
		{"a", "b"},
		{"Else Burger", ""},
		{"x", "xxxxxxxxxxxxxxxx"},
		{"Tim Hortons home select", "Tim Hortons"},
	}
	for _, p := range pairs {
		score := billing.TokenSortRatio(p[0], p[1])
		assert.GreaterOrEqual(t, score, 0, "par %v", p)
		assert.LessOrEqual(t, score, 100, "par %v", p)
	}
}
