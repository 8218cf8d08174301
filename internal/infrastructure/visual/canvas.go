// Package visual dibuja los visuales del reporte como PNG usando el renderer
// raster de go-chart: gráfico de barras del top de productos y tabla de
// ingresos por país. El tamaño se expresa en pulgadas y la resolución en DPI
// (10×6 in a 300 DPI = 3000×1800 px).
package visual

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultDPI resolución de los PNG.
const DefaultDPI = 300.0

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorNavy   = drawing.ColorFromHex("003087")
	colorGold   = drawing.ColorFromHex("FFD700")
	colorStripe = drawing.ColorFromHex("F5F6F5")
	colorWhite  = drawing.ColorWhite
	colorFrame  = drawing.ColorFromHex("333333")
	colorGrid   = drawing.ColorFromHex("B0B0B0").WithAlpha(178) // alpha 0.7
)

// ── Fuentes ───────────────────────────────────────────────────────────────────

type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
}

var loadFonts = sync.OnceValues(func() (fontSet, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fontSet{}, fmt.Errorf("visual: fuente regular: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return fontSet{}, fmt.Errorf("visual: fuente negrita: %w", err)
	}
	return fontSet{regular: regular, bold: bold}, nil
})

// ── Canvas ────────────────────────────────────────────────────────────────────

// textStyle fuente, tamaño en puntos y color de un texto.
type textStyle struct {
	font  *truetype.Font
	size  float64
	color drawing.Color
}

// canvas superficie raster de go-chart con helpers de dibujo en píxeles.
type canvas struct {
	r      chart.Renderer
	width  int
	height int
	dpi    float64
	fonts  fontSet
}

// newCanvas crea una superficie de widthIn×heightIn pulgadas con fondo blanco.
func newCanvas(widthIn, heightIn, dpi float64) (*canvas, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	w := int(math.Round(widthIn * dpi))
	h := int(math.Round(heightIn * dpi))
	r, err := chart.PNG(w, h)
	if err != nil {
		return nil, fmt.Errorf("visual: crear superficie %dx%d: %w", w, h, err)
	}
	r.SetDPI(dpi)

	c := &canvas{r: r, width: w, height: h, dpi: dpi, fonts: fonts}
	c.fillRect(chart.Box{Top: 0, Left: 0, Right: w, Bottom: h}, colorWhite)
	return c, nil
}

// newMeasureCanvas canvas de 1×1 px que solo sirve para medir texto; width y
// height conservan el tamaño lógico de widthIn×heightIn.
func newMeasureCanvas(widthIn, heightIn, dpi float64) (*canvas, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	r, err := chart.PNG(1, 1)
	if err != nil {
		return nil, fmt.Errorf("visual: crear superficie de medición: %w", err)
	}
	r.SetDPI(dpi)
	return &canvas{
		r:      r,
		width:  int(math.Round(widthIn * dpi)),
		height: int(math.Round(heightIn * dpi)),
		dpi:    dpi,
		fonts:  fonts,
	}, nil
}

// on devuelve un canvas con las mismas dimensiones que dibuja sobre r.
func (c *canvas) on(r chart.Renderer) *canvas {
	return &canvas{r: r, width: c.width, height: c.height, dpi: c.dpi, fonts: c.fonts}
}

// px convierte puntos tipográficos a píxeles según el DPI.
func (c *canvas) px(points float64) int {
	return int(math.Round(points * c.dpi / 72))
}

func (c *canvas) fillRect(b chart.Box, color drawing.Color) {
	defer c.r.ResetStyle()
	c.r.SetFillColor(color)
	c.r.MoveTo(b.Left, b.Top)
	c.r.LineTo(b.Right, b.Top)
	c.r.LineTo(b.Right, b.Bottom)
	c.r.LineTo(b.Left, b.Bottom)
	c.r.Close()
	c.r.Fill()
}

func (c *canvas) line(x1, y1, x2, y2 int, color drawing.Color, widthPt float64, dash []float64) {
	defer c.r.ResetStyle()
	c.r.SetStrokeColor(color)
	c.r.SetStrokeWidth(float64(c.px(widthPt)))
	if len(dash) > 0 {
		c.r.SetStrokeDashArray(dash)
	}
	c.r.MoveTo(x1, y1)
	c.r.LineTo(x2, y2)
	c.r.Stroke()
}

func (c *canvas) applyText(s textStyle) {
	c.r.SetFont(s.font)
	c.r.SetFontSize(s.size)
	c.r.SetFontColor(s.color)
}

// measure caja del texto sin rotar.
func (c *canvas) measure(text string, s textStyle) chart.Box {
	defer c.r.ResetStyle()
	c.r.ClearTextRotation()
	c.applyText(s)
	return c.r.MeasureText(text)
}

// descent píxeles bajo la línea base del estilo (comas, "g", "p").
func (c *canvas) descent(s textStyle) int {
	return truetype.NewFace(s.font, &truetype.Options{Size: s.size, DPI: c.dpi}).Metrics().Descent.Ceil()
}

// text dibuja con la línea base en y.
func (c *canvas) text(text string, x, y int, s textStyle) {
	defer c.r.ResetStyle()
	c.applyText(s)
	c.r.Text(text, x, y)
}

// textCentered centra el texto horizontalmente en cx y verticalmente en cy.
func (c *canvas) textCentered(text string, cx, cy int, s textStyle) {
	b := c.measure(text, s)
	c.text(text, cx-b.Width()/2, cy+b.Height()/2, s)
}

// textRotated dibuja desde (x, y) girando degrees en sentido antihorario.
func (c *canvas) textRotated(text string, x, y int, degrees float64, s textStyle) {
	defer c.r.ResetStyle()
	defer c.r.ClearTextRotation()
	c.applyText(s)
	c.r.SetTextRotation(chart.DegreesToRadians(-degrees))
	c.r.Text(text, x, y)
}

// fit recorta el texto con "…" hasta que mida como máximo maxWidth píxeles.
func (c *canvas) fit(text string, s textStyle, maxWidth int) string {
	if maxWidth <= 0 || c.measure(text, s).Width() <= maxWidth {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + "…"
		if c.measure(candidate, s).Width() <= maxWidth {
			return candidate
		}
	}
	return "…"
}

// save codifica la superficie en w.
func (c *canvas) save(w io.Writer) error {
	if err := c.r.Save(w); err != nil {
		return fmt.Errorf("visual: codificar PNG: %w", err)
	}
	return nil
}
