// Package dataset expone la tabla en memoria con columnas nombradas sobre la que
// trabaja el reporte. Internamente es un gota DataFrame con todas las columnas
// tipadas como texto; la conversión a tipos de dominio la hace Decode.
package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/samber/lo"

	"github.com/jhoicas/retail-visuals/internal/domain"
)

// Table tabla inmutable con cabecera.
type Table struct {
	df dataframe.DataFrame
}

// loadOptions: sin detección de tipos ni conversión de "NA" a NaN; la semántica
// de celdas vacías la decide el decodificador.
func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	}
}

// FromRecords construye la tabla desde filas crudas; la primera fila es la cabecera.
// Las filas más cortas que la cabecera se completan con celdas vacías (excelize
// omite las celdas vacías al final de la fila) y las más largas se recortan.
func FromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("dataset: %w: hoja sin cabecera", domain.ErrInvalidInput)
	}
	header := lo.Map(records[0], func(h string, _ int) string { return strings.TrimSpace(h) })
	width := len(header)

	normalized := make([][]string, 0, len(records))
	normalized = append(normalized, header)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make([]string, width)
		copy(row, rec)
		normalized = append(normalized, row)
	}

	df := dataframe.LoadRecords(normalized, loadOptions()...)
	if df.Err != nil {
		return nil, fmt.Errorf("dataset: cargar registros: %w", df.Err)
	}
	return &Table{df: df}, nil
}

// ReadCSV construye la tabla desde un CSV con cabecera.
func ReadCSV(r io.Reader) (*Table, error) {
	df := dataframe.ReadCSV(r, append(loadOptions(), dataframe.WithLazyQuotes(true))...)
	if df.Err != nil {
		return nil, fmt.Errorf("dataset: leer CSV: %w", df.Err)
	}
	return &Table{df: df}, nil
}

// Columns nombres de columna en orden de la cabecera.
func (t *Table) Columns() []string { return t.df.Names() }

// Len número de filas de datos.
func (t *Table) Len() int { return t.df.Nrow() }

// Column valores de una columna como texto. ok=false si no existe.
func (t *Table) Column(name string) (values []string, ok bool) {
	if !lo.Contains(t.df.Names(), name) {
		return nil, false
	}
	return t.df.Col(name).Records(), true
}

// RequireColumns falla con domain.ErrMissingColumn listando las columnas ausentes.
func (t *Table) RequireColumns(names ...string) error {
	missing := lo.Without(names, t.df.Names()...)
	if len(missing) > 0 {
		return fmt.Errorf("dataset: %w: %s", domain.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

func isBlank(rec []string) bool {
	return lo.EveryBy(rec, func(c string) bool { return strings.TrimSpace(c) == "" })
}
