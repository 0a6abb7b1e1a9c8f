package inventory

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ExpectedColumns cabeceras que espera la automatización de importación.
var ExpectedColumns = []string{"nombre", "categoria", "precio_unitario", "stock_actual", "stock_minimo"}

var numericColumns = map[string]bool{"stock_actual": true, "stock_minimo": true, "precio_unitario": true}

// PreviewRows filas que se devuelven como vista previa.
const PreviewRows = 5

// StockSheet planilla de stock ya normalizada.
type StockSheet struct {
	Headers []string
	Missing []string
	Rows    []map[string]interface{}
}

// ParseStockCSV lee la planilla: separador ';' si la cabecera lo contiene, si no ','.
// Ignora líneas en blanco, normaliza cabeceras y convierte las columnas numéricas (0 si no parsean).
// Si el contenido no es UTF-8 válido se decodifica como ISO-8859-1.
func ParseStockCSV(data []byte) (*StockSheet, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: el archivo CSV está vacío o no tiene cabeceras", domain.ErrInvalidInput)
	}

	sep := ','
	if strings.Contains(lines[0], ";") {
		sep = ';'
	}
	r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cabecera CSV: %v", domain.ErrInvalidInput, err)
	}
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.ToLower(cleanCell(h))
	}

	sheet := &StockSheet{Headers: headers, Missing: missingColumns(headers)}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: CSV: %v", domain.ErrInvalidInput, err)
		}
		row := make(map[string]interface{}, len(headers))
		for i, h := range headers {
			if i >= len(rec) {
				break
			}
			v := cleanCell(rec[i])
			if numericColumns[h] {
				row[h] = toNumber(v)
				continue
			}
			row[h] = v
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("%w: codificación no soportada: %v", domain.ErrInvalidInput, err)
	}
	return string(out), nil
}

func cleanCell(s string) string {
	return strings.NewReplacer(`"`, "", `'`, "").Replace(strings.TrimSpace(s))
}

func toNumber(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func missingColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	missing := []string{}
	for _, c := range ExpectedColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// StockTransferUseCase importación y exportación masiva de stock vía automatización.
type StockTransferUseCase struct {
	notifier ports.Notifier
	audit    ports.AuditRecorder
}

// NewStockTransferUseCase construye el caso de uso.
func NewStockTransferUseCase(notifier ports.Notifier, audit ports.AuditRecorder) *StockTransferUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &StockTransferUseCase{notifier: notifier, audit: audit}
}

// Import parsea la planilla completa, la envía a import-stock y devuelve la vista previa.
func (uc *StockTransferUseCase) Import(ctx context.Context, data []byte) (*dto.StockImportResponse, error) {
	sheet, err := ParseStockCSV(data)
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify(ports.EventImportStock, map[string]interface{}{"body": sheet.Rows})
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "importar_stock", "productos", map[string]interface{}{"filas": len(sheet.Rows)})

	preview := sheet.Rows
	if len(preview) > PreviewRows {
		preview = preview[:PreviewRows]
	}
	return &dto.StockImportResponse{
		Rows:    len(sheet.Rows),
		Columns: sheet.Headers,
		Missing: sheet.Missing,
		Preview: preview,
	}, nil
}

// Export dispara export-stock; el archivo lo entrega la automatización.
func (uc *StockTransferUseCase) Export(ctx context.Context) {
	uc.notifier.Notify(ports.EventExportStock, map[string]interface{}{})
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "exportar_stock", "productos", nil)
}
