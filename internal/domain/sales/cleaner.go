// Package sales contiene los servicios de dominio del reporte de ventas:
// limpieza de transacciones, cálculo de ingresos y ranking por agrupación.
// No depende de infraestructura; opera sobre entity.Transaction.
package sales

import (
	"github.com/samber/lo"

	"github.com/jhoicas/retail-visuals/internal/domain/entity"
)

// DefaultCancellationPrefix prefijo de InvoiceNo de las facturas anuladas.
const DefaultCancellationPrefix = "C"

// CleanStats conteo de filas por predicado. Una fila que incumple varios
// predicados se cuenta en cada uno de ellos.
type CleanStats struct {
	Loaded           int
	Kept             int
	Cancelled        int
	NonPositiveQty   int
	NonPositivePrice int
	MissingCustomer  int
}

// Dropped total de filas excluidas.
func (s CleanStats) Dropped() int { return s.Loaded - s.Kept }

// Predicate regla de validez de una línea.
type Predicate func(entity.Transaction) bool

// NotCancelled descarta las anulaciones (prefijo en InvoiceNo).
func NotCancelled(prefix string) Predicate {
	return func(t entity.Transaction) bool { return !t.IsCancellation(prefix) }
}

// PositiveQuantity exige Quantity > 0.
func PositiveQuantity(t entity.Transaction) bool { return t.Quantity > 0 }

// PositivePrice exige UnitPrice > 0.
func PositivePrice(t entity.Transaction) bool { return t.UnitPrice.IsPositive() }

// HasCustomer exige CustomerID presente.
func HasCustomer(t entity.Transaction) bool { return t.HasCustomer() }

// Cleaner aplica los cuatro predicados como filtro conjuntivo.
// El orden de aplicación no altera el resultado y ninguna fila se modifica.
type Cleaner struct {
	cancellationPrefix string
}

// NewCleaner construye el limpiador; prefix vacío usa DefaultCancellationPrefix.
func NewCleaner(prefix string) *Cleaner {
	if prefix == "" {
		prefix = DefaultCancellationPrefix
	}
	return &Cleaner{cancellationPrefix: prefix}
}

// Predicates devuelve las reglas en el orden en que se reportan en CleanStats.
func (c *Cleaner) Predicates() []Predicate {
	return []Predicate{NotCancelled(c.cancellationPrefix), PositiveQuantity, PositivePrice, HasCustomer}
}

// Clean devuelve las líneas válidas (nuevo slice, mismo orden) y las estadísticas de descarte.
func (c *Cleaner) Clean(rows []entity.Transaction) ([]entity.Transaction, CleanStats) {
	preds := c.Predicates()
	stats := CleanStats{Loaded: len(rows)}
	counters := []*int{&stats.Cancelled, &stats.NonPositiveQty, &stats.NonPositivePrice, &stats.MissingCustomer}

	kept := lo.Filter(rows, func(t entity.Transaction, _ int) bool {
		ok := true
		for i, p := range preds {
			if !p(t) {
				*counters[i]++
				ok = false
			}
		}
		return ok
	})
	stats.Kept = len(kept)
	return kept, stats
}
