package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Columnas esperadas en la hoja de transacciones (nombres exactos).
const (
	ColumnInvoiceNo   = "InvoiceNo"
	ColumnDescription = "Description"
	ColumnQuantity    = "Quantity"
	ColumnUnitPrice   = "UnitPrice"
	ColumnCustomerID  = "CustomerID"
	ColumnCountry     = "Country"
)

// RequiredColumns columnas sin las cuales no se puede construir el reporte.
var RequiredColumns = []string{
	ColumnInvoiceNo,
	ColumnQuantity,
	ColumnUnitPrice,
	ColumnCustomerID,
	ColumnDescription,
	ColumnCountry,
}

// Transaction representa una línea de factura de la hoja de ventas.
// CustomerID es nil cuando la celda está vacía. Revenue se calcula una sola vez (sales.DeriveRevenue).
type Transaction struct {
	Row         int    // fila de datos (1-based) en el archivo de origen
	InvoiceNo   string // "C..." = anulación
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	CustomerID  *string
	Country     string
	Revenue     decimal.Decimal
}

// HasCustomer indica si la línea tiene cliente identificado.
func (t Transaction) HasCustomer() bool {
	return t.CustomerID != nil && strings.TrimSpace(*t.CustomerID) != ""
}

// IsCancellation indica si el número de factura lleva el prefijo de anulación.
func (t Transaction) IsCancellation(prefix string) bool {
	return prefix != "" && strings.HasPrefix(t.InvoiceNo, prefix)
}
