// Package pdf genera el remito (nota de entrega) de un pedido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Distribuidora        │  REMITO N° Pedido + Fecha    │
//	│  CLIENTE: Nombre / Institución / CUIT / Email                │
//	│  TABLA: Cant | Producto | Marca | P.Unit | Subtotal          │
//	│  TOTALES: Subtotal / Descuento / TOTAL                       │
//	│  ENTREGA: Transportista / Seguimiento / Recibió              │
//	│  FIRMA                                                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/medical-farma-api/internal/application/billing"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

var _ appbilling.DeliveryNotePDFGenerator = (*MarotoPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 102}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator implementa billing.DeliveryNotePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// GenerateDeliveryNotePDF genera el remito y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDeliveryNotePDF(_ context.Context, note appbilling.DeliveryNote) ([]byte, error) {
	if note.Order == nil {
		return nil, fmt.Errorf("pdf: remito sin pedido")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remito "+note.Order.Number, true).
		WithAuthor(note.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(note, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(note.Customer, note.Order.CustomerID))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(note.Order.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(note.Order))

	if len(note.Dispatches) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(dispatchRows(note.Dispatches)...)
	}
	m.AddRows(line.NewRow(12))
	m.AddRows(signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar remito: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(note appbilling.DeliveryNote, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(note.CompanyName, "Distribuidora"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Insumos médicos", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("REMITO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(note.Order.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+now.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func customerRow(customer *entity.User, customerID string) core.Row {
	name, detail := "Cliente "+customerID, ""
	if customer != nil {
		name = nonEmpty(customer.Institution, customer.FullName)
		detail = fmt.Sprintf("Contacto: %s   |   CUIT/DNI: %s   |   Email: %s",
			nonEmpty(customer.FullName, "—"),
			nonEmpty(customer.TaxID, "—"),
			nonEmpty(customer.Email, "—"),
		)
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(detail, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Marca", 2, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func itemRows(items []entity.OrderItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(it.Brand, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money(it.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money(it.Subtotal()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalsRow(o *entity.Order) core.Row {
	label := func(s string, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 2, Style: fontstyle.Bold}
		if bold {
			p.Size, p.Color = 10, colorPrimary
		}
		return text.New(s, p)
	}
	value := func(s string, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 1}
		if bold {
			p.Size, p.Color, p.Style = 10, colorPrimary, fontstyle.Bold
		}
		return text.New(s, p)
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(label("Subtotal:", false), label("Descuento:", false), label("TOTAL:", true)),
		col.New(3).Add(value(money(o.Subtotal), false), value(money(o.Discount), false), value(money(o.Total), true)),
	)
}

func dispatchRows(dispatches []*entity.Dispatch) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ENTREGA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	for _, d := range dispatches {
		parts := []string{"Estado: " + d.Status}
		if d.Carrier != "" {
			parts = append(parts, "Transportista: "+d.Carrier)
		}
		if d.TrackingNumber != "" {
			parts = append(parts, "Seguimiento: "+d.TrackingNumber)
		}
		if d.ReceivedBy != "" {
			parts = append(parts, "Recibió: "+d.ReceivedBy)
		}
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(strings.Join(parts, "   |   "), props.Text{Size: 8, Color: colorGray, Left: 2}),
		)))
	}
	return rows
}

func signatureRow() core.Row {
	return row.New(10).Add(
		col.New(6).Add(text.New("______________________________\nFirma y aclaración", props.Text{Size: 8, Align: align.Center, Color: colorGray})),
		col.New(6).Add(text.New("______________________________\nFecha de recepción", props.Text{Size: 8, Align: align.Center, Color: colorGray})),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formato $ 1.234,56.
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	out := "$ " + formatThousands(intPart) + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// formatThousands inserta puntos de miles: "1000000" → "1.000.000".
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
