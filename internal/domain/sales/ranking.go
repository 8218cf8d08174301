package sales

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-visuals/internal/domain/entity"
)

// DefaultTopN número de grupos que muestran los visuales.
const DefaultTopN = 5

var hundred = decimal.NewFromInt(100)

// KeyFunc extrae la clave de agrupación de una línea.
type KeyFunc func(entity.Transaction) string

// ByDescription agrupa por descripción del producto.
func ByDescription(t entity.Transaction) string { return t.Description }

// ByCountry agrupa por país.
func ByCountry(t entity.Transaction) string { return t.Country }

// GroupTotal ingreso acumulado de un grupo.
type GroupTotal struct {
	Key     string
	Revenue decimal.Decimal
}

// RankBy agrupa por key, suma Revenue, ordena descendente y trunca a topN.
// Empates: se conserva el orden de primera aparición (orden estable).
// Las líneas con clave vacía no forman grupo. topN <= 0 devuelve todos los grupos.
func RankBy(rows []entity.Transaction, key KeyFunc, topN int) []GroupTotal {
	index := make(map[string]int)
	groups := make([]GroupTotal, 0)
	for _, t := range rows {
		k := key(t)
		if strings.TrimSpace(k) == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, GroupTotal{Key: k})
		}
		groups[i].Revenue = groups[i].Revenue.Add(t.Revenue)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Revenue.GreaterThan(groups[j].Revenue)
	})

	if topN > 0 && len(groups) > topN {
		groups = groups[:topN]
	}
	return groups
}

// Total suma de ingresos de los grupos recibidos.
func Total(groups []GroupTotal) decimal.Decimal {
	return lo.Reduce(groups, func(acc decimal.Decimal, g GroupTotal, _ int) decimal.Decimal {
		return acc.Add(g.Revenue)
	}, decimal.Zero)
}

// Shares participación porcentual de cada grupo sobre el total de los grupos
// recibidos (no sobre el total general): con el top-N, los porcentajes suman
// ~100 solo entre las filas mostradas.
func Shares(groups []GroupTotal) []decimal.Decimal {
	total := Total(groups)
	return lo.Map(groups, func(g GroupTotal, _ int) decimal.Decimal {
		if !total.IsPositive() {
			return decimal.Zero
		}
		return g.Revenue.Div(total).Mul(hundred)
	})
}
