package billing

import (
	"sort"
	"strings"
)

// TokenSortRatio similitud [0,100] entre dos nombres, insensible al orden de
// las palabras: minúsculas, tokeniza por espacios, ordena alfabéticamente,
// reensambla y compara con distancia de Levenshtein normalizada.
//
// Dos cadenas que son anagramas de palabras entre sí puntúan 100; cadenas
// totalmente disjuntas puntúan cerca de 0. El algoritmo se implementa aquí
// mismo (no se delega a una librería) para que el puntaje sea reproducible
// bit a bit entre implementaciones.
func TokenSortRatio(a, b string) int {
	sa := tokenSort(a)
	sb := tokenSort(b)
	if sa == sb {
		return 100
	}
	ra, rb := []rune(sa), []rune(sb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 100
	}
	d := levenshtein(ra, rb)
	return (maxLen - d) * 100 / maxLen
}

func tokenSort(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// levenshtein distancia de edición clásica (inserción, borrado, sustitución
// con costo 1) en O(len(a)×len(b)) tiempo y O(len(b)) memoria.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
