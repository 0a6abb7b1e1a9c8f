// import_stock genera un script SQL que sincroniza productos a partir de una planilla CSV de stock
// (mismo formato que POST /api/stock/import: nombre;categoria;precio_unitario;stock_actual;stock_minimo).
//
// Uso: go run ./cmd/import_stock planilla.csv [salida.sql]
// Por defecto escribe stock_import.sql en el directorio actual.
// Productos existentes (por nombre, sin distinguir mayúsculas) se actualizan; el resto se inserta.
package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/jhoicas/medical-farma-api/internal/application/inventory"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: import_stock planilla.csv [salida.sql]")
		os.Exit(2)
	}
	outPath := "stock_import.sql"
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	sheet, err := inventory.ParseStockCSV(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parsear CSV: %v\n", err)
		os.Exit(1)
	}
	if len(sheet.Missing) > 0 {
		fmt.Fprintf(os.Stderr, "Aviso: columnas faltantes %s (se usan valores por defecto)\n", strings.Join(sheet.Missing, ", "))
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Sincronización de stock generada desde " + escapeSQL(os.Args[1]) + "\n")
	out.WriteString("BEGIN;\n\n")
	written, skipped := 0, 0
	for _, row := range sheet.Rows {
		name := strings.TrimSpace(text(row["nombre"]))
		if name == "" {
			skipped++
			continue
		}
		category := text(row["categoria"])
		price := number(row["precio_unitario"])
		stock := clampInt(number(row["stock_actual"]))
		minimum := clampInt(number(row["stock_minimo"]))

		fmt.Fprintf(out, "UPDATE productos SET categoria = NULLIF('%s', ''), precio_unitario = %.2f, precio_venta_final = %.2f,\n",
			escapeSQL(category), price, price)
		fmt.Fprintf(out, "  stock_actual = %d, stock_minimo = %d, updated_at = now()\n", stock, minimum)
		fmt.Fprintf(out, "WHERE lower(nombre) = lower('%s');\n", escapeSQL(name))

		fmt.Fprintf(out, "INSERT INTO productos (nombre, categoria, precio_unitario, precio_venta_final, stock_actual, stock_minimo)\n")
		fmt.Fprintf(out, "SELECT '%s', NULLIF('%s', ''), %.2f, %.2f, %d, %d\n",
			escapeSQL(name), escapeSQL(category), price, price, stock, minimum)
		fmt.Fprintf(out, "WHERE NOT EXISTS (SELECT 1 FROM productos WHERE lower(nombre) = lower('%s'));\n\n", escapeSQL(name))
		written++
	}
	out.WriteString("COMMIT;\n")

	fmt.Printf("Generado %s: %d productos, %d filas sin nombre omitidas\n", outPath, written, skipped)
}

func text(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func number(v interface{}) float64 {
	f, _ := v.(float64)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func clampInt(f float64) int {
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Round(f))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
