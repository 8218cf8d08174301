package visual

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/jhoicas/retail-visuals/internal/application/dto"
	"github.com/jhoicas/retail-visuals/internal/application/report"
)

var _ report.ChartRenderer = (*BarChartRenderer)(nil)

const (
	barChartWidthIn  = 10.0
	barChartHeightIn = 6.0
	barFill          = 0.8  // ancho de barra relativo a su ranura
	labelOffsetRatio = 0.02 // etiqueta de valor a 2% de la altura de la barra
	headroomRatio    = 1.12 // espacio para la etiqueta sobre la barra más alta
	xLabelAngle      = 45.0
	yTickTarget      = 6
)

var sin45 = math.Sin(xLabelAngle * math.Pi / 180)

// BarChartOptions configuración del gráfico.
type BarChartOptions struct {
	DPI            float64
	CurrencySymbol string
	Title          string
}

// BarChartRenderer gráfico de barras verticales del top de productos por ingreso.
type BarChartRenderer struct {
	opts BarChartOptions
}

// NewBarChartRenderer construye el renderer.
func NewBarChartRenderer(opts BarChartOptions) *BarChartRenderer {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "£"
	}
	if opts.Title == "" {
		opts.Title = "Top 5 Revenue-Generating Products"
	}
	return &BarChartRenderer{opts: opts}
}

// barLayout geometría del gráfico en píxeles. plot coincide con la caja del
// lienzo de chart.BarChart: Background.Padding la fija al mismo rectángulo.
type barLayout struct {
	plot   chart.Box
	slot   int
	bar    int
	top    float64
	yRange *chart.ContinuousRange
	ticks  []float64
	labels []string // etiquetas del eje X ya recortadas
}

// within devuelve el layout ajustado a la caja que entrega BarChart.
func (l barLayout) within(box chart.Box) barLayout {
	l.plot = box
	l.yRange = &chart.ContinuousRange{Min: 0, Max: l.top, Domain: box.Height()}
	return l
}

// barBox rectángulo de la barra i, con la misma aritmética que chart.BarChart:
// ranuras de slot px y la barra centrada con (slot-bar)/2 px a cada lado.
func (l barLayout) barBox(i int, value float64) chart.Box {
	left := l.plot.Left + i*l.slot + (l.slot-l.bar)>>1
	return chart.Box{
		Top:    l.plot.Bottom - l.yRange.Translate(value),
		Left:   left,
		Right:  left + l.bar,
		Bottom: l.plot.Bottom,
	}
}

// barStyles estilos de texto del gráfico.
type barStyles struct {
	title, axis, tick, value textStyle
}

func (g *BarChartRenderer) styles(c *canvas) barStyles {
	return barStyles{
		title: textStyle{font: c.fonts.bold, size: 14, color: colorNavy},
		axis:  textStyle{font: c.fonts.regular, size: 12, color: colorNavy},
		tick:  textStyle{font: c.fonts.regular, size: 10, color: colorNavy},
		value: textStyle{font: c.fonts.regular, size: 10, color: colorGold},
	}
}

// RenderTopProducts dibuja una barra por producto y codifica el PNG en w.
// Las barras las dibuja chart.BarChart; rejilla, etiquetas de valor, ejes y
// títulos se dibujan en su hook Elements, después de las barras.
func (g *BarChartRenderer) RenderTopProducts(ctx context.Context, w io.Writer, products []dto.ProductRevenueDTO) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(products) == 0 {
		return fmt.Errorf("visual: gráfico sin productos")
	}

	m, err := newMeasureCanvas(barChartWidthIn, barChartHeightIn, g.opts.DPI)
	if err != nil {
		return err
	}
	st := g.styles(m)
	values := lo.Map(products, func(p dto.ProductRevenueDTO, _ int) float64 { return p.Revenue.InexactFloat64() })
	names := lo.Map(products, func(p dto.ProductRevenueDTO, _ int) string { return p.Description })
	l := g.layout(m, st, names, values)

	bc := chart.BarChart{
		Width:  m.width,
		Height: m.height,
		DPI:    m.dpi,
		Font:   m.fonts.regular,
		Canvas: chart.Style{FillColor: colorWhite, StrokeColor: colorWhite},
		Background: chart.Style{
			FillColor:   colorWhite,
			StrokeColor: colorWhite,
			Padding: chart.Box{
				Top:    l.plot.Top,
				Left:   l.plot.Left,
				Right:  m.width - l.plot.Right,
				Bottom: m.height - l.plot.Bottom,
				IsSet:  true,
			},
		},
		// Los ejes propios de BarChart van a la derecha y parten las etiquetas
		// en líneas; se ocultan y se dibujan en Elements.
		XAxis:      chart.Style{Hidden: true},
		YAxis:      chart.YAxis{Style: chart.Style{Hidden: true}, Range: &chart.ContinuousRange{Min: 0, Max: l.top}},
		BarWidth:   l.bar,
		BarSpacing: l.slot - l.bar,
		Bars: lo.Map(values, func(v float64, _ int) chart.Value {
			return chart.Value{Value: v, Style: chart.Style{FillColor: colorNavy, StrokeColor: colorNavy, StrokeWidth: 0.5}}
		}),
		Elements: []chart.Renderable{
			func(r chart.Renderer, box chart.Box, _ chart.Style) {
				g.decorate(m.on(r), st, l.within(box), products, values)
			},
		},
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("visual: renderizar gráfico: %w", err)
	}
	return nil
}

// decorate rejilla horizontal, etiquetas de valor, marco, ejes y títulos.
func (g *BarChartRenderer) decorate(c *canvas, st barStyles, l barLayout, products []dto.ProductRevenueDTO, values []float64) {
	// Rejilla solo en el eje Y.
	for _, t := range l.ticks {
		y := l.plot.Bottom - l.yRange.Translate(t)
		c.line(l.plot.Left, y, l.plot.Right, y, colorGrid, 0.8, []float64{float64(c.px(3.7)), float64(c.px(1.6))})
	}

	// Etiqueta dorada a 2% por encima de cada barra.
	for i, p := range products {
		bar := l.barBox(i, values[i])
		labelY := l.plot.Bottom - l.yRange.Translate(values[i]*(1+labelOffsetRatio))
		b := c.measure(p.RevenueLabel, st.value)
		c.text(p.RevenueLabel, bar.Left+bar.Width()/2-b.Width()/2, labelY-c.descent(st.value), st.value)
	}

	g.drawFrame(c, l)
	g.drawYAxis(c, st, l)
	g.drawXAxis(c, st, l)

	tb := c.measure(g.opts.Title, st.title)
	c.text(g.opts.Title, l.plot.Left+l.plot.Width()/2-tb.Width()/2, c.px(8)+tb.Height(), st.title)

	xName := "Product"
	xb := c.measure(xName, st.axis)
	c.text(xName, l.plot.Left+l.plot.Width()/2-xb.Width()/2, c.height-c.px(6), st.axis)

	yName := fmt.Sprintf("Revenue (%s)", g.opts.CurrencySymbol)
	yb := c.measure(yName, st.axis)
	c.textRotated(yName, c.px(6)+yb.Height(), l.plot.Top+l.plot.Height()/2+yb.Width()/2, 90, st.axis)
}

// layout calcula márgenes a partir del texto medido: ticks del eje Y a la
// izquierda, etiquetas rotadas 45° abajo y título arriba.
func (g *BarChartRenderer) layout(c *canvas, st barStyles, names []string, values []float64) barLayout {
	pad := c.px(6)
	ticks, top := niceTicks(lo.Max(values)*headroomRatio, yTickTarget)
	tickLabels := lo.Map(ticks, func(t float64, _ int) string { return formatTick(t) })

	yTickW := lo.Max(lo.Map(tickLabels, func(s string, _ int) int { return c.measure(s, st.tick).Width() }))
	yNameH := c.measure("Revenue", st.axis).Height()
	titleH := c.measure(g.opts.Title, st.title).Height()
	xNameH := c.measure("Product", st.axis).Height()

	// Las etiquetas rotadas no pueden ocupar más del 40% del alto.
	maxLabelW := int(float64(c.height) * 0.40 / sin45)
	labels := lo.Map(names, func(n string, _ int) string { return c.fit(n, st.tick, maxLabelW) })
	labelH := c.measure("Ag", st.tick).Height()
	labelWs := lo.Map(labels, func(s string, _ int) int { return c.measure(s, st.tick).Width() })
	rotatedH := int(float64(lo.Max(labelWs)+labelH) * sin45)

	plot := chart.Box{
		Top:    titleH + 3*pad,
		Left:   pad + yNameH + pad + yTickW + pad,
		Right:  c.width - 2*pad,
		Bottom: c.height - (pad + xNameH + pad + rotatedH + pad),
	}

	// La primera etiqueta rotada se extiende a la izquierda de su barra.
	n := len(values)
	for range 2 {
		slot := plot.Width() / n
		overhang := int(float64(labelWs[0])*sin45) - slot/2
		if overhang+pad > plot.Left {
			plot.Left = overhang + pad
		}
	}

	slot := plot.Width() / n
	return barLayout{
		plot:   plot,
		slot:   slot,
		bar:    int(float64(slot) * barFill),
		top:    top,
		yRange: &chart.ContinuousRange{Min: 0, Max: top, Domain: plot.Height()},
		ticks:  ticks,
		labels: labels,
	}
}

func (g *BarChartRenderer) drawFrame(c *canvas, l barLayout) {
	p := l.plot
	c.line(p.Left, p.Top, p.Right, p.Top, colorFrame, 0.8, nil)
	c.line(p.Right, p.Top, p.Right, p.Bottom, colorFrame, 0.8, nil)
	c.line(p.Left, p.Bottom, p.Right, p.Bottom, colorFrame, 0.8, nil)
	c.line(p.Left, p.Top, p.Left, p.Bottom, colorFrame, 0.8, nil)
}

func (g *BarChartRenderer) drawYAxis(c *canvas, st barStyles, l barLayout) {
	tick := c.px(3.5)
	for _, t := range l.ticks {
		y := l.plot.Bottom - l.yRange.Translate(t)
		c.line(l.plot.Left-tick, y, l.plot.Left, y, colorFrame, 0.8, nil)
		label := formatTick(t)
		b := c.measure(label, st.tick)
		c.text(label, l.plot.Left-tick-c.px(3.5)-b.Width(), y+b.Height()/2, st.tick)
	}
}

// drawXAxis etiquetas rotadas 45° con el final alineado a la marca de la barra.
func (g *BarChartRenderer) drawXAxis(c *canvas, st barStyles, l barLayout) {
	tick := c.px(3.5)
	for i, label := range l.labels {
		cx := l.plot.Left + i*l.slot + l.slot/2
		c.line(cx, l.plot.Bottom, cx, l.plot.Bottom+tick, colorFrame, 0.8, nil)

		b := c.measure(label, st.tick)
		w, h := float64(b.Width()), float64(b.Height())
		endY := float64(l.plot.Bottom+tick+c.px(3.5)) + h*sin45
		x := float64(cx) - w*sin45
		y := endY + w*sin45
		c.textRotated(label, int(math.Round(x)), int(math.Round(y)), xLabelAngle, st.tick)
	}
}

// niceTicks marcas "redondas" (1, 2, 2.5, 5 × 10^k) desde 0 hasta cubrir limit.
// GenerateContinuousTicks de go-chart reparte el rango según el ancho de las
// etiquetas y no produce pasos redondos.
func niceTicks(limit float64, target int) (ticks []float64, top float64) {
	if limit <= 0 || math.IsNaN(limit) {
		return []float64{0, 1}, 1
	}
	raw := limit / float64(target-1)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag * 10
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if raw <= m*mag {
			step = m * mag
			break
		}
	}
	top = math.Ceil(limit/step) * step
	for i := 0; float64(i)*step <= top+step/2; i++ {
		ticks = append(ticks, float64(i)*step)
	}
	return ticks, top
}

// formatTick ej: 20000 → "20,000"; 2.5 → "2.5".
func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 2)
}
