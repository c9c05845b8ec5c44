package billing

import "strings"

// NormalizeName reduce un nombre a minúsculas alfanuméricas para
// comparaciones insensibles a mayúsculas y puntuación. Es idempotente:
// NormalizeName(NormalizeName(x)) == NormalizeName(x).
func NormalizeName(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slugify produce un slug apto para lookups y nombres de archivo: minúsculas
// con las corridas no alfanuméricas colapsadas a un solo guion bajo.
func Slugify(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	pendingSep := false
	for _, r := range value {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r + ('a' - 'A'))
		default:
			pendingSep = true
		}
	}
	return b.String()
}
