package sales

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formatea un monto con símbolo, separador de miles "," y dos decimales.
// Redondeo al par en la mitad exacta: 2500.125 → "2,500.12".
// Ej: ("£", 1234.5) → "£1,234.50"
func FormatMoney(symbol string, d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	intPart, frac, _ := strings.Cut(d.StringFixedBank(2), ".")
	return sign + symbol + groupThousands(intPart) + "." + frac
}

// FormatPercent formatea un porcentaje con un decimal. Ej: 12.345 → "12.3%"
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixedBank(1) + "%"
}

// groupThousands inserta comas de miles en un string numérico sin signo.
// Ej: "25000" → "25,000", "1000000" → "1,000,000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
