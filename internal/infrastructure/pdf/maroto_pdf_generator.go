// Package pdf genera el comprobante de pago del plan en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre empresa + código │  N° Orden + Fecha de pago │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: email / código de empresa                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: Concepto | Vigencia | Monto                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  REFERENCIAS: orden y pago en la pasarela + QR               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/hrms-api/internal/application/ports"
)

var _ ports.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa ports.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	issuer string
}

// NewMarotoReceiptGenerator construye el generador; issuer aparece como autor del documento.
func NewMarotoReceiptGenerator(issuer string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{issuer: issuer}
}

// PaymentReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) PaymentReceipt(data ports.ReceiptData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de pago "+data.OrderID, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(detailRow(data))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(data))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(referenceRows(data)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(d ports.ReceiptData) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(d.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Código de empresa: "+d.CompanyCode, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE PAGO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(d.OrderID, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+d.PaidAt.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func customerRow(d ports.ReceiptData) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("FACTURADO A", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Email: %s",
				d.CompanyName, nonEmpty(d.CompanyEmail, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Concepto", 5, align.Left),
		h("Vigencia", 4, align.Center),
		h("Monto", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func detailRow(d ports.ReceiptData) core.Row {
	return row.New(8).Add(
		col.New(5).Add(text.New("Suscripción anual HRMS", props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(4).Add(text.New(planWindow(d.PlanStart, d.PlanEnd), props.Text{
			Size: 8, Align: align.Center, Top: 1,
		})),
		col.New(3).Add(text.New(formatAmount(d), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
	)
}

func totalRow(d ports.ReceiptData) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL PAGADO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(formatAmount(d), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// referenceRows ids de la pasarela y un QR con la orden para conciliación.
func referenceRows(d ports.ReceiptData) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("REFERENCIAS DE PAGO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(40).Add(
			col.New(4).Add(code.NewQr(d.OrderID+"|"+d.ProviderPaymentID, props.Rect{
				Percent: 90,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Orden de pasarela: "+nonEmpty(d.ProviderOrderID, "—"), props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("Pago de pasarela: "+nonEmpty(d.ProviderPaymentID, "—"), props.Text{
					Size: 8, Top: 10, Left: 3, Color: colorGray,
				}),
				text.New("Conserve este documento como soporte de su suscripción.", props.Text{
					Size: 7, Top: 20, Left: 3, Color: colorGray,
				}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func planWindow(start, end *time.Time) string {
	if start == nil || end == nil {
		return "—"
	}
	return start.Format(dateLayout) + " - " + end.Format(dateLayout)
}

func formatAmount(d ports.ReceiptData) string {
	return d.Currency + " " + formatMoney(d.Amount.StringFixed(2))
}

// formatMoney agrupa miles con coma en un decimal con dos cifras.
// Ej: "25000.00" → "25,000.00", "999.00" → "999.00"
func formatMoney(s string) string {
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := string(buf)
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
