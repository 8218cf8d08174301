package sales

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-visuals/internal/domain/entity"
)

// LineRevenue ingreso de una línea: Quantity × UnitPrice, aritmética exacta.
func LineRevenue(t entity.Transaction) decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(t.Quantity))
}

// DeriveRevenue devuelve una copia de las líneas con Revenue calculado.
// El slice de entrada no se modifica.
func DeriveRevenue(rows []entity.Transaction) []entity.Transaction {
	out := make([]entity.Transaction, len(rows))
	for i, t := range rows {
		t.Revenue = LineRevenue(t)
		out[i] = t
	}
	return out
}
