package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/pos-billing/internal/domain/billing"
	"github.com/tu-usuario/pos-billing/internal/domain/entity"
)

func branch(vendor, name, deliveryType string) entity.BranchRecord {
	return entity.BranchRecord{
		EntityID:     "TB_AE",
		VendorCode:   vendor,
		BranchName:   name,
		DeliveryType: deliveryType,
	}
}

func TestDeduplicate_EntradaVacia(t *testing.T) {
	d := billing.NewDeduplicator(billing.DefaultThreshold)
	assert.Empty(t, d.Deduplicate(nil, false))
	assert.Empty(t, d.Deduplicate([]entity.BranchRecord{}, true))
}

// Dos filas con el mismo vendor_code y el mismo nombre colapsan siempre,
// incluso con umbral 0 (nombres idénticos puntúan 100 ≥ cualquier umbral...
// y con umbral 0 todo lo que caiga en el mismo bucket colapsa).
func TestDeduplicate_DuplicadoExactoColapsaConCualquierUmbral(t *testing.T) {
	rows := []entity.BranchRecord{
		branch("V1", "Else Burger", "Own Delivery"),
		branch("V1", "Else Burger", "Own Delivery"),
	}
	for _, threshold := range []int{0, 50, 85, 100} {
		d := billing.NewDeduplicator(threshold)
		out := d.Deduplicate(rows, false)
		assert.Len(t, out, 1, "umbral %d", threshold)
	}
}

// El primero visto gana: el representante del grupo es la primera fila en el
// orden de entrada y se conserva tal cual (sin fusionar campos).
func TestDeduplicate_PrimeroVistoGana(t *testing.T) {
	rows := []entity.BranchRecord{
		branch("V1", "McDonalds Salmiya", "Platform Delivery"),
		branch("V1", "Salmiya McDonalds", "Own Delivery"),
	}
	d := billing.NewDeduplicator(billing.DefaultThreshold)
	out := d.Deduplicate(rows, false)

	require.Len(t, out, 1)
	assert.Equal(t, "McDonalds Salmiya", out[0].BranchName)
	assert.Equal(t, "Platform Delivery", out[0].DeliveryType)
}

// Nombres distintos bajo el mismo vendor_code se conservan si su similitud
// queda por debajo del umbral.
func TestDeduplicate_NombresDistintosSobreviven(t *testing.T) {
	rows := []entity.BranchRecord{
		branch("V1", "Else Burger Marina", ""),
		branch("V1", "Biryani Boy Downtown", ""),
	}
	d := billing.NewDeduplicator(billing.DefaultThreshold)
	out := d.Deduplicate(rows, false)
	assert.Len(t, out, 2)
}

// Vendor codes distintos van a buckets distintos: sin el modo
// ignoreDeliveryType nunca se comparan entre sí.
func TestDeduplicate_BucketsPorVendorCode(t *testing.T) {
	rows := []entity.BranchRecord{
		branch("V1", "Else Burger", "Own Delivery"),
		branch("V2", "Else Burger", "Platform Delivery"),
	}
	d := billing.NewDeduplicator(billing.DefaultThreshold)

	out := d.Deduplicate(rows, false)
	assert.Len(t, out, 2, "con la bandera apagada quedan dos filas")

	out = d.Deduplicate(rows, true)
	assert.Len(t, out, 1, "con la bandera encendida colapsan a una unidad facturable")
}

// Umbral 100 degenera a eliminación casi exacta: solo colapsan nombres
// idénticos tras reordenar palabras.
func TestDeduplicate_Umbral100(t *testing.T) {
	rows := []entity.BranchRecord{
		branch("V1", "Else Burger", ""),
		branch("V1", "Burger Else", ""),    // anagrama de palabras: puntúa 100
		branch("V1", "Else Burgerr", ""),   // un typo: puntúa < 100
	}
	d := billing.NewDeduplicator(100)
	out := d.Deduplicate(rows, false)

	require.Len(t, out, 2)
	assert.Equal(t, "Else Burger", out[0].BranchName)
	assert.Equal(t, "Else Burgerr", out[1].BranchName)
}

// Idempotencia: deduplicar un resultado ya deduplicado no cambia nada.
func TestDeduplicate_Idempotente(t *testing.T) {
	rows := []entity.BranchRecord{
		branch("V1", "Else Burger", ""),
		branch("V1", "Burger Else", ""),
		branch("V1", "Biryani Boy", ""),
		branch("V2", "Tim Hortons", ""),
		branch("V2", "Tim Hortons DIFC", ""),
	}
	for _, ignore := range []bool{false, true} {
		d := billing.NewDeduplicator(billing.DefaultThreshold)
		once := d.Deduplicate(rows, ignore)
		twice := d.Deduplicate(once, ignore)
		assert.Equal(t, once, twice, "ignoreDeliveryType=%v", ignore)
	}
}

// Monotonicidad: subir el umbral nunca elimina más duplicados; el tamaño de
// la salida es no decreciente en el umbral.
func TestDeduplicate_MonotonoEnUmbral(t *testing.T) {
	rows := []entity.BranchRecord{
		branch("V1", "Else Burger", ""),
		branch("V1", "Else Burger Marina", ""),
		branch("V1", "Burger Else", ""),
		branch("V1", "Biryani Boy", ""),
		branch("V1", "Biryani Boyz", ""),
	}
	prev := -1
	for threshold := 0; threshold <= 100; threshold += 5 {
		d := billing.NewDeduplicator(threshold)
		n := len(d.Deduplicate(rows, false))
		if prev >= 0 {
			assert.GreaterOrEqual(t, n, prev, "umbral %d", threshold)
		}
		prev = n
	}
}
