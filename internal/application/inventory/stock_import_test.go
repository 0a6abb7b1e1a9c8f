package inventory_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/application/inventory"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
)

func TestParseStockCSV_PuntoYComaYNumeros(t *testing.T) {
	data := "\xef\xbb\xbfNombre;Categoria;Precio_Unitario;Stock_Actual;Stock_Minimo\n" +
		"\"Guantes de látex\";Descartables;1260.50;12;10\n" +
		"\n" +
		"Gasas;Curaciones;abc;;5\n"
	sheet, err := inventory.ParseStockCSV([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, inventory.ExpectedColumns, sheet.Headers)
	assert.Empty(t, sheet.Missing)
	require.Len(t, sheet.Rows, 2, "las líneas vacías se ignoran")
	assert.Equal(t, "Guantes de látex", sheet.Rows[0]["nombre"])
	assert.Equal(t, 1260.5, sheet.Rows[0]["precio_unitario"])
	assert.Equal(t, float64(12), sheet.Rows[0]["stock_actual"])
	assert.Equal(t, float64(0), sheet.Rows[1]["precio_unitario"], "no numérico queda en 0")
	assert.Equal(t, float64(0), sheet.Rows[1]["stock_actual"])
}

func TestParseStockCSV_ComaYColumnasFaltantes(t *testing.T) {
	sheet, err := inventory.ParseStockCSV([]byte("nombre,stock_actual\r\nBarbijos,40\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"categoria", "precio_unitario", "stock_minimo"}, sheet.Missing)
	assert.Equal(t, float64(40), sheet.Rows[0]["stock_actual"])
}

func TestParseStockCSV_Latin1(t *testing.T) {
	// "Algodón" en ISO-8859-1.
	data := []byte("nombre;categoria\nAlgod\xf3n;Curaciones\n")
	sheet, err := inventory.ParseStockCSV(data)
	require.NoError(t, err)
	assert.Equal(t, "Algodón", sheet.Rows[0]["nombre"])
}

func TestParseStockCSV_SinFilas(t *testing.T) {
	_, err := inventory.ParseStockCSV([]byte("nombre;categoria\n\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = inventory.ParseStockCSV(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type captureNotifier struct {
	event string
	data  map[string]interface{}
}

func (c *captureNotifier) Notify(event string, data map[string]interface{}) {
	c.event, c.data = event, data
}

func TestStockImport_EnviaTodoYDevuelveVistaPrevia(t *testing.T) {
	var b strings.Builder
	b.WriteString("nombre;categoria;precio_unitario;stock_actual;stock_minimo\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "Producto %d;General;%d;%d;1\n", i, 100+i, i)
	}
	n := &captureNotifier{}
	uc := inventory.NewStockTransferUseCase(n, nil)

	out, err := uc.Import(context.Background(), []byte(b.String()))
	require.NoError(t, err)
	assert.Equal(t, 8, out.Rows)
	assert.Len(t, out.Preview, inventory.PreviewRows)
	assert.Equal(t, ports.EventImportStock, n.event)
	rows, ok := n.data["body"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, rows, 8, "la automatización recibe todas las filas")
}

func TestStockExport_DisparaEvento(t *testing.T) {
	n := &captureNotifier{}
	inventory.NewStockTransferUseCase(n, nil).Export(context.Background())
	assert.Equal(t, ports.EventExportStock, n.event)
}
