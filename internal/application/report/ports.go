package report

import (
	"context"
	"io"

	"github.com/jhoicas/retail-visuals/internal/application/dto"
)

// ChartRenderer dibuja el gráfico de barras del top de productos y lo codifica en w.
type ChartRenderer interface {
	RenderTopProducts(ctx context.Context, w io.Writer, products []dto.ProductRevenueDTO) error
}

// TableRenderer dibuja la tabla de ingresos por país y la codifica en w.
type TableRenderer interface {
	RenderCountryTable(ctx context.Context, w io.Writer, countries []dto.CountryRevenueDTO) error
}

// ReportPDFGenerator genera el PDF con ambos rankings y devuelve sus bytes.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, report *dto.RetailReportDTO) ([]byte, error)
}
