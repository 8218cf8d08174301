package visual

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jhoicas/retail-visuals/internal/application/dto"
	"github.com/jhoicas/retail-visuals/internal/application/report"
)

var _ report.TableRenderer = (*TableRenderer)(nil)

const (
	tableWidthIn  = 8.0
	tableHeightIn = 4.0
	tableWidthPct = 0.8
	rowHeightPt   = 10 * 1.9 * 1.2 // fuente de 10 pt, celdas escaladas ×1.2
)

// columnWidths ancho relativo de País | Ingreso | % del total.
var columnWidths = []float64{0.4, 0.3, 0.3}

// TableOptions configuración de la tabla.
type TableOptions struct {
	DPI            float64
	CurrencySymbol string
	Title          string
}

// TableRenderer tabla sin bordes: cabecera azul con texto blanco en negrita y
// filas alternadas blanco / gris claro con texto azul.
type TableRenderer struct {
	opts TableOptions
}

// NewTableRenderer construye el renderer.
func NewTableRenderer(opts TableOptions) *TableRenderer {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "£"
	}
	if opts.Title == "" {
		opts.Title = "Revenue by Country"
	}
	return &TableRenderer{opts: opts}
}

// Headers títulos de columna.
func (t *TableRenderer) Headers() []string {
	return []string{"Country", fmt.Sprintf("Revenue (%s)", t.opts.CurrencySymbol), "% of Total"}
}

// tableLayout cajas de cada celda (fila 0 = cabecera) y posición del título.
type tableLayout struct {
	cells  [][]chart.Box
	titleY int
}

func (t *TableRenderer) layout(c *canvas, rows int) tableLayout {
	tableW := int(float64(c.width) * tableWidthPct)
	rowH := c.px(rowHeightPt)
	titleGap := c.px(20)

	titleH := c.measure(t.opts.Title, textStyle{font: c.fonts.bold, size: 14}).Height()
	blockH := titleH + titleGap + rows*rowH
	top := (c.height-blockH)/2 + titleH + titleGap
	left := (c.width - tableW) / 2

	cells := make([][]chart.Box, rows)
	for r := range rows {
		x := left
		cells[r] = make([]chart.Box, len(columnWidths))
		for col, frac := range columnWidths {
			w := int(float64(tableW) * frac)
			if col == len(columnWidths)-1 {
				w = left + tableW - x
			}
			cells[r][col] = chart.Box{Top: top + r*rowH, Left: x, Right: x + w, Bottom: top + (r+1)*rowH}
			x += w
		}
	}
	return tableLayout{cells: cells, titleY: top - titleGap}
}

// rowBackground color de fondo de la fila i (0 = cabecera). Las filas de datos
// pares van en gris claro y las impares en blanco.
func rowBackground(i int) drawing.Color {
	switch {
	case i == 0:
		return colorNavy
	case i%2 == 0:
		return colorStripe
	default:
		return colorWhite
	}
}

// RenderCountryTable dibuja la tabla y codifica el PNG en w.
func (t *TableRenderer) RenderCountryTable(ctx context.Context, w io.Writer, countries []dto.CountryRevenueDTO) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(countries) == 0 {
		return fmt.Errorf("visual: tabla sin países")
	}

	c, err := newCanvas(tableWidthIn, tableHeightIn, t.opts.DPI)
	if err != nil {
		return err
	}

	rows := append([][]string{t.Headers()}, lo.Map(countries, func(cr dto.CountryRevenueDTO, _ int) []string {
		return []string{cr.Country, cr.RevenueLabel, cr.ShareLabel}
	})...)
	l := t.layout(c, len(rows))

	header := textStyle{font: c.fonts.bold, size: 10, color: colorWhite}
	body := textStyle{font: c.fonts.regular, size: 10, color: colorNavy}
	for i, values := range rows {
		style := body
		if i == 0 {
			style = header
		}
		for col, value := range values {
			cell := l.cells[i][col]
			c.fillRect(cell, rowBackground(i))
			text := c.fit(value, style, cell.Width()-c.px(4))
			c.textCentered(text, cell.Left+cell.Width()/2, cell.Top+cell.Height()/2, style)
		}
	}

	title := textStyle{font: c.fonts.bold, size: 14, color: colorNavy}
	tb := c.measure(t.opts.Title, title)
	c.text(t.opts.Title, c.width/2-tb.Width()/2, l.titleY, title)

	return c.save(w)
}
