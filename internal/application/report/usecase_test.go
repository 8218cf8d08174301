package report_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-visuals/internal/application/dto"
	"github.com/jhoicas/retail-visuals/internal/application/report"
	"github.com/jhoicas/retail-visuals/internal/domain"
	"github.com/jhoicas/retail-visuals/internal/domain/entity"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeSource struct {
	rows  []entity.Transaction
	err   error
	calls int
}

func (f *fakeSource) Load(context.Context) ([]entity.Transaction, error) {
	f.calls++
	return f.rows, f.err
}

type fakeChart struct {
	got []dto.ProductRevenueDTO
	err error
}

func (f *fakeChart) RenderTopProducts(_ context.Context, w io.Writer, p []dto.ProductRevenueDTO) error {
	f.got = p
	if _, err := w.Write([]byte("chart")); err != nil {
		return err
	}
	return f.err
}

type fakeTable struct {
	got []dto.CountryRevenueDTO
	err error
}

func (f *fakeTable) RenderCountryTable(_ context.Context, w io.Writer, c []dto.CountryRevenueDTO) error {
	f.got = c
	if _, err := w.Write([]byte("table")); err != nil {
		return err
	}
	return f.err
}

type fakePDF struct{ calls int }

func (f *fakePDF) GenerateReportPDF(context.Context, *dto.RetailReportDTO) ([]byte, error) {
	f.calls++
	return []byte("%PDF-1.3 fake"), nil
}

func ptr(s string) *string { return &s }

func tx(inv string, qty int64, price string, cust *string, desc, country string) entity.Transaction {
	return entity.Transaction{
		InvoiceNo:   inv,
		Description: desc,
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
		CustomerID:  cust,
		Country:     country,
	}
}

// sampleRows siete países y seis productos válidos, más filas que la limpieza descarta.
func sampleRows() []entity.Transaction {
	return []entity.Transaction{
		tx("1", 10, "5", ptr("1"), "LAMP", "United Kingdom"), // 50
		tx("2", 4, "10", ptr("2"), "MUG", "France"),          // 40
		tx("3", 3, "10", ptr("3"), "BAG", "Germany"),         // 30
		tx("4", 2, "10", ptr("4"), "CANDLE", "EIRE"),         // 20
		tx("5", 1, "10", ptr("5"), "CLOCK", "Spain"),         // 10
		tx("6", 1, "5", ptr("6"), "PEN", "Netherlands"),      // 5
		tx("7", 1, "1", ptr("7"), "LAMP", "Belgium"),         // 1
		tx("C8", 100, "100", ptr("8"), "LAMP", "Australia"),  // anulada
		tx("9", -3, "10", ptr("9"), "MUG", "Australia"),      // cantidad negativa
		tx("10", 3, "0", ptr("10"), "MUG", "Australia"),      // precio cero
		tx("11", 500, "10", nil, "PEN", "Australia"),         // sin cliente
	}
}

func newUseCase(src *fakeSource, chart *fakeChart, table *fakeTable, pdf report.ReportPDFGenerator, cfg report.Config) *report.UseCase {
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = "£"
	}
	return report.NewUseCase(src, chart, table, pdf, cfg, nil)
}

// ── Build ─────────────────────────────────────────────────────────────────────

func TestBuild_EjemploAnulacion(t *testing.T) {
	src := &fakeSource{rows: []entity.Transaction{
		tx("536365", 6, "2.55", ptr("17850"), "A", "UK"),
		tx("C536366", 3, "5", ptr("17850"), "B", "UK"),
	}}
	uc := newUseCase(src, &fakeChart{}, &fakeTable{}, nil, report.Config{TopN: 5})

	rep, err := uc.Build(context.Background())

	require.NoError(t, err)
	require.Len(t, rep.TopProducts, 1)
	assert.Equal(t, "A", rep.TopProducts[0].Description)
	assert.Equal(t, "£15.30", rep.TopProducts[0].RevenueLabel)
	assert.Equal(t, 1, rep.TopProducts[0].Rank)

	require.Len(t, rep.TopCountries, 1)
	assert.Equal(t, "UK", rep.TopCountries[0].Country)
	assert.Equal(t, "100.0%", rep.TopCountries[0].ShareLabel)
	assert.Equal(t, 1, rep.Cleaning.Cancelled)
	assert.Equal(t, 1, rep.Cleaning.Kept)
}

func TestBuild_RankingsYPorcentajeSobreElTop(t *testing.T) {
	uc := newUseCase(&fakeSource{rows: sampleRows()}, &fakeChart{}, &fakeTable{}, nil, report.Config{TopN: 5})

	rep, err := uc.Build(context.Background())
	require.NoError(t, err)

	products := make([]string, 0, len(rep.TopProducts))
	for _, p := range rep.TopProducts {
		products = append(products, p.Description)
	}
	assert.Equal(t, []string{"LAMP", "MUG", "BAG", "CANDLE", "CLOCK"}, products)
	assert.Equal(t, "£51.00", rep.TopProducts[0].RevenueLabel)

	countries := make([]string, 0, len(rep.TopCountries))
	for _, c := range rep.TopCountries {
		countries = append(countries, c.Country)
	}
	assert.Equal(t, []string{"United Kingdom", "France", "Germany", "EIRE", "Spain"}, countries)

	// 50 / (50+40+30+20+10) = 33.3%, no 50/156.
	assert.Equal(t, "33.3%", rep.TopCountries[0].ShareLabel)
	assert.Equal(t, "26.7%", rep.TopCountries[1].ShareLabel)

	sum := decimal.Zero
	for _, c := range rep.TopCountries {
		sum = sum.Add(c.SharePct)
	}
	assert.InDelta(t, 100.0, sum.InexactFloat64(), 0.01)

	assert.Equal(t, dto.CleaningSummaryDTO{
		Loaded: 11, Kept: 7, Cancelled: 1, NonPositiveQty: 1, NonPositivePrice: 1, MissingCustomer: 1,
	}, rep.Cleaning)
}

func TestBuild_Idempotente(t *testing.T) {
	src := &fakeSource{rows: sampleRows()}
	uc := newUseCase(src, &fakeChart{}, &fakeTable{}, nil, report.Config{TopN: 5})

	first, err := uc.Build(context.Background())
	require.NoError(t, err)
	second, err := uc.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, src.calls)
}

func TestBuild_TopNPorDefecto(t *testing.T) {
	uc := newUseCase(&fakeSource{rows: sampleRows()}, &fakeChart{}, &fakeTable{}, nil, report.Config{})

	rep, err := uc.Build(context.Background())
	require.NoError(t, err)
	assert.Len(t, rep.TopProducts, 5)
	assert.Len(t, rep.TopCountries, 5)
}

func TestBuild_SinFilasValidas(t *testing.T) {
	src := &fakeSource{rows: []entity.Transaction{
		tx("C1", 1, "1", ptr("1"), "A", "UK"),
		tx("2", 1, "1", nil, "B", "UK"),
	}}
	uc := newUseCase(src, &fakeChart{}, &fakeTable{}, nil, report.Config{TopN: 5})

	_, err := uc.Build(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoRows)
}

func TestBuild_PropagaErrorDeCarga(t *testing.T) {
	src := &fakeSource{err: domain.ErrMissingColumn}
	uc := newUseCase(src, &fakeChart{}, &fakeTable{}, nil, report.Config{TopN: 5})

	_, err := uc.Build(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestBuild_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	uc := newUseCase(&fakeSource{rows: sampleRows()}, &fakeChart{}, &fakeTable{}, nil, report.Config{TopN: 5})

	_, err := uc.Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// ── Generate ──────────────────────────────────────────────────────────────────

func outputConfig(dir string) report.Config {
	return report.Config{
		TopN:      5,
		ChartPath: filepath.Join(dir, "top_products.png"),
		TablePath: filepath.Join(dir, "country_revenue_table.png"),
	}
}

func TestGenerate_EscribeAmbosArtefactos(t *testing.T) {
	dir := t.TempDir()
	chart, table, pdf := &fakeChart{}, &fakeTable{}, &fakePDF{}
	uc := newUseCase(&fakeSource{rows: sampleRows()}, chart, table, pdf, outputConfig(dir))

	out, err := uc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "top_products.png"), out.ChartPath)
	assert.Equal(t, filepath.Join(dir, "country_revenue_table.png"), out.TablePath)
	assert.Empty(t, out.PDFPath)
	assert.Zero(t, pdf.calls, "sin ruta de PDF no se genera")

	b, err := os.ReadFile(out.ChartPath)
	require.NoError(t, err)
	assert.Equal(t, "chart", string(b))
	b, err = os.ReadFile(out.TablePath)
	require.NoError(t, err)
	assert.Equal(t, "table", string(b))

	assert.Len(t, chart.got, 5)
	assert.Len(t, table.got, 5)
}

func TestGenerate_ConPDF(t *testing.T) {
	dir := t.TempDir()
	cfg := outputConfig(dir)
	cfg.PDFPath = filepath.Join(dir, "report.pdf")
	pdf := &fakePDF{}
	uc := newUseCase(&fakeSource{rows: sampleRows()}, &fakeChart{}, &fakeTable{}, pdf, cfg)

	out, err := uc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, cfg.PDFPath, out.PDFPath)
	assert.Equal(t, 1, pdf.calls)
	b, err := os.ReadFile(cfg.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 fake", string(b))
}

func TestGenerate_ErrorDeRenderEliminaArchivoParcial(t *testing.T) {
	dir := t.TempDir()
	cfg := outputConfig(dir)
	boom := errors.New("boom")
	uc := newUseCase(&fakeSource{rows: sampleRows()}, &fakeChart{}, &fakeTable{err: boom}, nil, cfg)

	_, err := uc.Generate(context.Background())
	require.ErrorIs(t, err, boom)

	_, statErr := os.Stat(cfg.TablePath)
	assert.True(t, os.IsNotExist(statErr), "la tabla parcial debe eliminarse")
	_, statErr = os.Stat(cfg.ChartPath)
	assert.NoError(t, statErr, "el gráfico ya escrito se conserva")
}

func TestGenerate_DirectorioInexistente(t *testing.T) {
	cfg := outputConfig(filepath.Join(t.TempDir(), "no", "existe"))
	uc := newUseCase(&fakeSource{rows: sampleRows()}, &fakeChart{}, &fakeTable{}, nil, cfg)

	_, err := uc.Generate(context.Background())
	assert.Error(t, err)
}

func TestGenerate_NoEscribeSiBuildFalla(t *testing.T) {
	dir := t.TempDir()
	cfg := outputConfig(dir)
	chart := &fakeChart{}
	uc := newUseCase(&fakeSource{err: domain.ErrInvalidInput}, chart, &fakeTable{}, nil, cfg)

	_, err := uc.Generate(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, chart.got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
