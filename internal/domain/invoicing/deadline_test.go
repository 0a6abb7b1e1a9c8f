package invoicing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entrega = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

func TestDeadlineFor_DosHoras(t *testing.T) {
	assert.Equal(t, entrega.Add(2*time.Hour), DeadlineFor(entrega))
}

func TestClassify_Limites(t *testing.T) {
	dl := DeadlineFor(entrega)

	c := Classify(&dl, entrega.Add(119*time.Minute))
	assert.Equal(t, StatusUrgent, c.Status, "a T+119min es urgente")
	assert.False(t, c.Overdue(), "a T+119min no está vencido")
	assert.Equal(t, time.Minute, c.Remaining)

	c = Classify(&dl, entrega.Add(120*time.Minute+time.Second))
	assert.Equal(t, StatusOverdue, c.Status, "a T+120min+1s está vencido")

	c = Classify(&dl, entrega.Add(120*time.Minute))
	assert.False(t, c.Overdue(), "exactamente en el deadline todavía no vence")
	assert.Equal(t, StatusUrgent, c.Status)

	c = Classify(&dl, entrega.Add(90*time.Minute))
	assert.Equal(t, StatusOnTime, c.Status, "30 minutos restantes no es urgente")

	c = Classify(&dl, entrega.Add(90*time.Minute+time.Second))
	assert.Equal(t, StatusUrgent, c.Status)
}

func TestClassify_SinDeadline(t *testing.T) {
	c := Classify(nil, entrega)
	assert.Equal(t, StatusNoDeadline, c.Status)
	assert.Nil(t, c.Deadline)
}

func TestMarcador_IdaYVuelta(t *testing.T) {
	dl := DeadlineFor(entrega)
	comments := WithDeadlineMarker("", dl)
	assert.Equal(t, "DEADLINE_FACTURACION: 2025-03-10T16:00:00.000Z", comments)

	got, ok := ParseDeadline(comments)
	require.True(t, ok)
	assert.True(t, got.Equal(dl))
}

func TestWithDeadlineMarker_ReemplazaMarcadorPrevio(t *testing.T) {
	first := WithDeadlineMarker("Entregar en guardia", entrega)
	second := WithDeadlineMarker(first, DeadlineFor(entrega))

	assert.Equal(t, 1, strings.Count(second, DeadlineMarker), "un solo marcador tras re-entrega")
	assert.Contains(t, second, "Entregar en guardia", "se conserva el texto libre")

	got, ok := ParseDeadline(second)
	require.True(t, ok)
	assert.True(t, got.Equal(DeadlineFor(entrega)))
}

func TestParseDeadline_FormatoJS(t *testing.T) {
	got, ok := ParseDeadline("nota\nDEADLINE_FACTURACION: 2024-05-01T12:30:00.000Z\notra")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC), got.UTC())

	_, ok = ParseDeadline("DEADLINE_FACTURACION: no-es-fecha")
	assert.False(t, ok)
	_, ok = ParseDeadline("sin marcador")
	assert.False(t, ok)
}

func TestAppendInvoiceMarker(t *testing.T) {
	at := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)
	got := AppendInvoiceMarker("DEADLINE_FACTURACION: 2025-03-10T16:00:00.000Z", "0001-00000123", at)
	assert.True(t, strings.HasSuffix(got, "\n[FACTURA_INFO: Nro=0001-00000123, Fecha=2025-03-10T17:00:00.000Z]"))
}

func TestResolveDeadline_PrefiereColumna(t *testing.T) {
	typed := entrega.Add(time.Hour)
	got := ResolveDeadline(&typed, WithDeadlineMarker("", entrega))
	require.NotNil(t, got)
	assert.True(t, got.Equal(typed))

	got = ResolveDeadline(nil, WithDeadlineMarker("", entrega))
	require.NotNil(t, got)
	assert.True(t, got.Equal(entrega))

	assert.Nil(t, ResolveDeadline(nil, ""))
}
