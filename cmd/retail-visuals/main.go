package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-visuals/internal/application/report"
	infrapdf "github.com/jhoicas/retail-visuals/internal/infrastructure/pdf"
	"github.com/jhoicas/retail-visuals/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/retail-visuals/internal/infrastructure/visual"
	"github.com/jhoicas/retail-visuals/pkg/config"
	"github.com/jhoicas/retail-visuals/pkg/logger"
)

func main() {
	os.Exit(run())
}

// run devuelve el código de salida; los defers corren antes de os.Exit.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración: "+err.Error())
		return 1
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	}).WithRun(uuid.NewString())
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("input", cfg.Input.Path).
		Str("format", cfg.Input.Format()).
		Msg("iniciando reporte")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := spreadsheet.NewSource(spreadsheet.Options{
		Path:    cfg.Input.Path,
		Sheet:   cfg.Input.Sheet,
		Charset: cfg.Input.Charset,
	}, log)

	chart := visual.NewBarChartRenderer(visual.BarChartOptions{
		DPI:            cfg.Output.DPI,
		CurrencySymbol: cfg.Report.CurrencySymbol,
	})
	table := visual.NewTableRenderer(visual.TableOptions{
		DPI:            cfg.Output.DPI,
		CurrencySymbol: cfg.Report.CurrencySymbol,
	})

	// PDF opcional: solo si REPORT_PDF_PATH está definido.
	var pdfGenerator report.ReportPDFGenerator
	if cfg.Output.PDFPath != "" {
		pdfGenerator = infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	}

	uc := report.NewUseCase(source, chart, table, pdfGenerator, report.Config{
		TopN:               cfg.Report.TopN,
		CurrencySymbol:     cfg.Report.CurrencySymbol,
		CancellationPrefix: cfg.Report.CancellationPrefix,
		ChartPath:          cfg.Output.ChartPath,
		TablePath:          cfg.Output.TablePath,
		PDFPath:            cfg.Output.PDFPath,
	}, log)

	start := time.Now()
	out, err := uc.Generate(ctx)
	if err != nil {
		log.Error().Err(err).Msg("generar reporte")
		return 1
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("reporte generado")

	fmt.Printf("Visuals saved as '%s' and '%s'\n", out.ChartPath, out.TablePath)
	return 0
}
