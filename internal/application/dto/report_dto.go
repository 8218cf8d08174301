package dto

import "github.com/shopspring/decimal"

// ── Ranking de productos ──────────────────────────────────────────────────────

// ProductRevenueDTO ingreso acumulado de un producto (barra del gráfico).
type ProductRevenueDTO struct {
	Rank         int             `json:"rank"` // 1 = mayor ingreso
	Description  string          `json:"description"`
	Revenue      decimal.Decimal `json:"revenue"`
	RevenueLabel string          `json:"revenue_label"` // ej: "£15.30"
}

// ── Ranking de países ─────────────────────────────────────────────────────────

// CountryRevenueDTO fila de la tabla de ingresos por país.
// SharePct es relativo a la suma del top mostrado, no al total general.
type CountryRevenueDTO struct {
	Rank         int             `json:"rank"`
	Country      string          `json:"country"`
	Revenue      decimal.Decimal `json:"revenue"`
	RevenueLabel string          `json:"revenue_label"` // ej: "£7,308,391.55"
	SharePct     decimal.Decimal `json:"share_pct"`
	ShareLabel   string          `json:"share_label"` // ej: "82.4%"
}

// ── Reporte combinado ─────────────────────────────────────────────────────────

// CleaningSummaryDTO filas cargadas, conservadas y descartadas por regla.
type CleaningSummaryDTO struct {
	Loaded           int `json:"loaded"`
	Kept             int `json:"kept"`
	Cancelled        int `json:"cancelled"`
	NonPositiveQty   int `json:"non_positive_quantity"`
	NonPositivePrice int `json:"non_positive_price"`
	MissingCustomer  int `json:"missing_customer"`
}

// RetailReportDTO resultado del pipeline antes de renderizar.
type RetailReportDTO struct {
	Currency     string              `json:"currency"`
	Cleaning     CleaningSummaryDTO  `json:"cleaning"`
	TopProducts  []ProductRevenueDTO `json:"top_products"`
	TopCountries []CountryRevenueDTO `json:"top_countries"`
}

// ArtifactsDTO rutas de los archivos generados.
type ArtifactsDTO struct {
	ChartPath string `json:"chart_path"`
	TablePath string `json:"table_path"`
	PDFPath   string `json:"pdf_path,omitempty"`
}
