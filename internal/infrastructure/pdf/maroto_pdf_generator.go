// Package pdf genera el reporte de ventas en PDF (A4, una página).
//
// Layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte          │  Moneda               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LIMPIEZA: cargadas / conservadas / descartadas por regla    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Producto | Ingreso                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | País | Ingreso | % del top                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: nota sobre el porcentaje                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
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

	"github.com/jhoicas/retail-visuals/internal/application/dto"
	"github.com/jhoicas/retail-visuals/internal/application/report"
)

var _ report.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 48, Blue: 135} // #003087
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 245, Green: 246, Blue: 245}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	title  string
	author string
}

// NewMarotoPDFGenerator construye el generador. author se usa como metadato.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{title: "Retail Revenue Report", author: author}
}

// GenerateReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReportPDF(ctx context.Context, rep *dto.RetailReportDTO) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, rep.Currency))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(cleaningRows(rep.Cleaning)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("Top productos por ingreso"))
	m.AddRows(productRows(rep.TopProducts)...)
	m.AddRows(line.NewRow(4))

	m.AddRows(sectionTitle("Top países por ingreso"))
	m.AddRows(countryRows(rep.TopCountries)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title, currency string) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Moneda: "+nonEmpty(currency, "—"), props.Text{
				Size: 9, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

// cleaningRows resumen de la limpieza: una fila por contador.
func cleaningRows(s dto.CleaningSummaryDTO) []core.Row {
	entries := []struct {
		label string
		value int
	}{
		{"Filas cargadas", s.Loaded},
		{"Filas conservadas", s.Kept},
		{"Facturas canceladas", s.Cancelled},
		{"Cantidad ≤ 0", s.NonPositiveQty},
		{"Precio ≤ 0", s.NonPositivePrice},
		{"Sin cliente", s.MissingCustomer},
	}

	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("LIMPIEZA DE DATOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
		)),
	}
	for _, e := range entries {
		rows = append(rows, row.New(5).Add(
			col.New(4).Add(text.New(e.label+":", props.Text{Size: 8, Color: colorGray, Top: 0.5})),
			col.New(3).Add(text.New(humanize.Comma(int64(e.value)), props.Text{
				Size: 8, Align: align.Right, Top: 0.5,
			})),
			col.New(5),
		))
	}
	return rows
}

func sectionTitle(label string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}),
	))
}

// tableHeader cabecera con fondo azul y texto blanco en negrita.
func tableHeader(labels []string, sizes []int, aligns []align.Type) core.Row {
	cols := make([]core.Col, len(labels))
	for i, label := range labels {
		cols[i] = col.New(sizes[i]).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: aligns[i],
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableBody fila de datos; las filas pares van sobre gris claro.
func tableBody(i int, values []string, sizes []int, aligns []align.Type) core.Row {
	cols := make([]core.Col, len(values))
	for j, v := range values {
		cols[j] = col.New(sizes[j]).Add(text.New(v, props.Text{
			Size: 8, Align: aligns[j], Color: colorPrimary, Top: 1.5, Left: 1, Right: 1,
		}))
	}
	r := row.New(7).Add(cols...)
	if i%2 == 1 {
		r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return r
}

func productRows(products []dto.ProductRevenueDTO) []core.Row {
	sizes := []int{1, 8, 3}
	aligns := []align.Type{align.Center, align.Left, align.Right}
	rows := []core.Row{tableHeader([]string{"#", "Producto", "Ingreso"}, sizes, aligns)}
	for i, p := range products {
		rows = append(rows, tableBody(i, []string{strconv.Itoa(p.Rank), p.Description, p.RevenueLabel}, sizes, aligns))
	}
	return rows
}

func countryRows(countries []dto.CountryRevenueDTO) []core.Row {
	sizes := []int{1, 5, 4, 2}
	aligns := []align.Type{align.Center, align.Left, align.Right, align.Right}
	rows := []core.Row{tableHeader([]string{"#", "País", "Ingreso", "% del top"}, sizes, aligns)}
	for i, c := range countries {
		rows = append(rows, tableBody(i, []string{strconv.Itoa(c.Rank), c.Country, c.RevenueLabel, c.ShareLabel}, sizes, aligns))
	}
	return rows
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"El porcentaje de cada país se calcula sobre la suma de los países listados, "+
				"no sobre el ingreso total. Se excluyen facturas canceladas, cantidades y "+
				"precios no positivos y filas sin cliente.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
