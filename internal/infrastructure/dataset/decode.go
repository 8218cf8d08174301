package dataset

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-visuals/internal/domain"
	"github.com/jhoicas/retail-visuals/internal/domain/entity"
)

// Decode convierte cada fila de la tabla en una entity.Transaction.
//
// Reglas de celda:
//   - Quantity: entero ("6" o "6.0"); UnitPrice: decimal.
//   - Celdas numéricas vacías o "NaN" quedan en cero: los predicados de
//     positividad las excluyen en la limpieza.
//   - Texto numérico inválido falla con domain.ErrMalformedCell (fila y columna).
//   - CustomerID vacío o "NaN" queda en nil; "17850.0" se normaliza a "17850".
func Decode(t *Table) ([]entity.Transaction, error) {
	if err := t.RequireColumns(entity.RequiredColumns...); err != nil {
		return nil, err
	}

	col := func(name string) []string {
		values, _ := t.Column(name)
		return values
	}
	invoices := col(entity.ColumnInvoiceNo)
	descriptions := col(entity.ColumnDescription)
	quantities := col(entity.ColumnQuantity)
	prices := col(entity.ColumnUnitPrice)
	customers := col(entity.ColumnCustomerID)
	countries := col(entity.ColumnCountry)

	out := make([]entity.Transaction, t.Len())
	for i := range out {
		row := i + 1

		qty, err := parseQuantity(quantities[i])
		if err != nil {
			return nil, cellError(row, entity.ColumnQuantity, quantities[i], err)
		}
		price, err := parseDecimal(prices[i])
		if err != nil {
			return nil, cellError(row, entity.ColumnUnitPrice, prices[i], err)
		}

		out[i] = entity.Transaction{
			Row:         row,
			InvoiceNo:   strings.TrimSpace(textValue(invoices[i])),
			Description: textValue(descriptions[i]),
			Quantity:    qty,
			UnitPrice:   price,
			CustomerID:  parseCustomerID(customers[i]),
			Country:     textValue(countries[i]),
		}
	}
	return out, nil
}

func cellError(row int, column, value string, err error) error {
	return fmt.Errorf("dataset: %w: fila %d, columna %s, valor %q: %v", domain.ErrMalformedCell, row, column, value, err)
}

func isMissing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "nan")
}

// textValue devuelve "" para celdas ausentes y el texto sin modificar en otro caso.
func textValue(s string) string {
	if isMissing(s) {
		return ""
	}
	return s
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if isMissing(s) {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}

func parseQuantity(s string) (int64, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("cantidad no entera")
	}
	return d.IntPart(), nil
}

func parseCustomerID(s string) *string {
	if isMissing(s) {
		return nil
	}
	id := strings.TrimSpace(s)
	if !strings.Contains(id, ".") {
		return &id
	}
	if d, err := decimal.NewFromString(id); err == nil && d.IsInteger() {
		id = d.String()
	}
	return &id
}
