// Package report contiene el caso de uso que genera los visuales de ventas:
// carga → limpieza → ingresos → rankings → gráfico, tabla y PDF opcional.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/jhoicas/retail-visuals/internal/application/dto"
	"github.com/jhoicas/retail-visuals/internal/domain"
	"github.com/jhoicas/retail-visuals/internal/domain/repository"
	"github.com/jhoicas/retail-visuals/internal/domain/sales"
	"github.com/jhoicas/retail-visuals/pkg/logger"
)

// Config reglas del reporte y rutas de salida.
type Config struct {
	TopN               int
	CurrencySymbol     string
	CancellationPrefix string
	ChartPath          string
	TablePath          string
	PDFPath            string // vacío = sin PDF
}

// UseCase orquesta el pipeline completo. Todo es síncrono: cada etapa termina
// antes de la siguiente.
type UseCase struct {
	source  repository.TransactionSource
	cleaner *sales.Cleaner
	chart   ChartRenderer
	table   TableRenderer
	pdf     ReportPDFGenerator // opcional
	cfg     Config
	log     *logger.Logger
}

// NewUseCase construye el caso de uso. pdf puede ser nil.
func NewUseCase(
	source repository.TransactionSource,
	chart ChartRenderer,
	table TableRenderer,
	pdf ReportPDFGenerator,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	if cfg.TopN <= 0 {
		cfg.TopN = sales.DefaultTopN
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		source:  source,
		cleaner: sales.NewCleaner(cfg.CancellationPrefix),
		chart:   chart,
		table:   table,
		pdf:     pdf,
		cfg:     cfg,
		log:     log.WithComponent("report"),
	}
}

// Build ejecuta carga, limpieza, cálculo de ingresos y rankings.
//
// Retorna:
//   - domain.ErrMissingColumn / domain.ErrMalformedCell si la hoja no es válida.
//   - domain.ErrNoRows si ninguna fila sobrevive a la limpieza.
func (uc *UseCase) Build(ctx context.Context) (*dto.RetailReportDTO, error) {
	// ── 1. Cargar ─────────────────────────────────────────────────────────────
	rows, err := uc.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("report: cargar transacciones: %w", err)
	}

	// ── 2. Limpiar ────────────────────────────────────────────────────────────
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kept, stats := uc.cleaner.Clean(rows)
	uc.log.Info().
		Str("loaded", humanize.Comma(int64(stats.Loaded))).
		Str("kept", humanize.Comma(int64(stats.Kept))).
		Int("cancelled", stats.Cancelled).
		Int("non_positive_qty", stats.NonPositiveQty).
		Int("non_positive_price", stats.NonPositivePrice).
		Int("missing_customer", stats.MissingCustomer).
		Msg("limpieza terminada")
	if len(kept) == 0 {
		return nil, fmt.Errorf("report: %w (%d filas cargadas)", domain.ErrNoRows, stats.Loaded)
	}

	// ── 3. Ingresos por línea ─────────────────────────────────────────────────
	withRevenue := sales.DeriveRevenue(kept)

	// ── 4. Rankings ───────────────────────────────────────────────────────────
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	products := sales.RankBy(withRevenue, sales.ByDescription, uc.cfg.TopN)
	countries := sales.RankBy(withRevenue, sales.ByCountry, uc.cfg.TopN)

	return &dto.RetailReportDTO{
		Currency:     uc.cfg.CurrencySymbol,
		Cleaning:     cleaningSummary(stats),
		TopProducts:  buildProductRanking(products, uc.cfg.CurrencySymbol),
		TopCountries: buildCountryRanking(countries, uc.cfg.CurrencySymbol),
	}, nil
}

// Generate construye el reporte y escribe los artefactos.
func (uc *UseCase) Generate(ctx context.Context) (*dto.ArtifactsDTO, error) {
	rep, err := uc.Build(ctx)
	if err != nil {
		return nil, err
	}

	err = uc.writeArtifact(uc.cfg.ChartPath, func(w io.Writer) error {
		return uc.chart.RenderTopProducts(ctx, w, rep.TopProducts)
	})
	if err != nil {
		return nil, fmt.Errorf("report: gráfico de productos: %w", err)
	}

	err = uc.writeArtifact(uc.cfg.TablePath, func(w io.Writer) error {
		return uc.table.RenderCountryTable(ctx, w, rep.TopCountries)
	})
	if err != nil {
		return nil, fmt.Errorf("report: tabla de países: %w", err)
	}

	artifacts := &dto.ArtifactsDTO{ChartPath: uc.cfg.ChartPath, TablePath: uc.cfg.TablePath}

	if uc.pdf != nil && uc.cfg.PDFPath != "" {
		doc, err := uc.pdf.GenerateReportPDF(ctx, rep)
		if err != nil {
			return nil, fmt.Errorf("report: pdf: %w", err)
		}
		err = uc.writeArtifact(uc.cfg.PDFPath, func(w io.Writer) error {
			_, err := w.Write(doc)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("report: pdf: %w", err)
		}
		artifacts.PDFPath = uc.cfg.PDFPath
	}
	return artifacts, nil
}

// writeArtifact crea path, delega la escritura y cierra el archivo aunque render
// falle. Si algo falla, el archivo parcial se elimina.
func (uc *UseCase) writeArtifact(path string, render func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
		if err != nil {
			_ = os.Remove(path)
			return
		}
		if info, statErr := os.Stat(path); statErr == nil {
			uc.log.Info().Str("path", path).Str("size", humanize.Bytes(uint64(info.Size()))).Msg("artefacto escrito")
		}
	}()
	return render(f)
}

func cleaningSummary(s sales.CleanStats) dto.CleaningSummaryDTO {
	return dto.CleaningSummaryDTO{
		Loaded:           s.Loaded,
		Kept:             s.Kept,
		Cancelled:        s.Cancelled,
		NonPositiveQty:   s.NonPositiveQty,
		NonPositivePrice: s.NonPositivePrice,
		MissingCustomer:  s.MissingCustomer,
	}
}

func buildProductRanking(groups []sales.GroupTotal, currency string) []dto.ProductRevenueDTO {
	return lo.Map(groups, func(g sales.GroupTotal, i int) dto.ProductRevenueDTO {
		return dto.ProductRevenueDTO{
			Rank:         i + 1,
			Description:  g.Key,
			Revenue:      g.Revenue,
			RevenueLabel: sales.FormatMoney(currency, g.Revenue),
		}
	})
}

// buildCountryRanking añade la participación de cada país sobre el top retenido.
func buildCountryRanking(groups []sales.GroupTotal, currency string) []dto.CountryRevenueDTO {
	shares := sales.Shares(groups)
	return lo.Map(groups, func(g sales.GroupTotal, i int) dto.CountryRevenueDTO {
		return dto.CountryRevenueDTO{
			Rank:         i + 1,
			Country:      g.Key,
			Revenue:      g.Revenue,
			RevenueLabel: sales.FormatMoney(currency, g.Revenue),
			SharePct:     shares[i],
			ShareLabel:   sales.FormatPercent(shares[i]),
		}
	})
}
