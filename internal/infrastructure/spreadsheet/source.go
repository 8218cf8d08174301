// Package spreadsheet implementa repository.TransactionSource sobre archivos
// locales: libros Excel (.xlsx/.xlsm) vía excelize y CSV vía gota.
package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/retail-visuals/internal/domain"
	"github.com/jhoicas/retail-visuals/internal/domain/entity"
	"github.com/jhoicas/retail-visuals/internal/domain/repository"
	"github.com/jhoicas/retail-visuals/internal/infrastructure/dataset"
	"github.com/jhoicas/retail-visuals/pkg/logger"
)

var _ repository.TransactionSource = (*Source)(nil)

// ctxCheckEvery cada cuántas filas se revisa la cancelación del contexto.
const ctxCheckEvery = 10_000

// Options ubicación y lectura del archivo.
type Options struct {
	Path    string
	Sheet   string // solo libros Excel; vacío = primera hoja
	Charset string // solo CSV: utf-8 | iso-8859-1
}

// Source lee la hoja completa en memoria.
type Source struct {
	opts Options
	log  *logger.Logger
}

// NewSource construye el adaptador.
func NewSource(opts Options, log *logger.Logger) *Source {
	if log == nil {
		log = logger.Nop()
	}
	return &Source{opts: opts, log: log.WithComponent("spreadsheet")}
}

// Load lee el archivo y decodifica cada fila en una transacción.
func (s *Source) Load(ctx context.Context) ([]entity.Transaction, error) {
	tbl, err := s.LoadTable(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := dataset.Decode(tbl)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: %s: %w", s.opts.Path, err)
	}
	return rows, nil
}

// LoadTable lee el archivo como tabla de texto con columnas nombradas.
func (s *Source) LoadTable(ctx context.Context) (*dataset.Table, error) {
	var (
		tbl *dataset.Table
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(s.opts.Path)); ext {
	case ".xlsx", ".xlsm":
		tbl, err = s.readWorkbook(ctx)
	case ".csv":
		tbl, err = s.readCSV()
	default:
		return nil, fmt.Errorf("spreadsheet: %w: %q", domain.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("path", s.opts.Path).
		Str("rows", humanize.Comma(int64(tbl.Len()))).
		Strs("columns", tbl.Columns()).
		Msg("hoja cargada")
	return tbl, nil
}

func (s *Source) readWorkbook(ctx context.Context) (*dataset.Table, error) {
	f, err := excelize.OpenFile(s.opts.Path)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: abrir %s: %w", s.opts.Path, err)
	}
	defer f.Close()

	sheet := s.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("spreadsheet: %w: libro sin hojas", domain.ErrInvalidInput)
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: hoja %q: %w", sheet, err)
	}
	defer rows.Close()

	var records [][]string
	for rows.Next() {
		if len(records)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		// Valor almacenado, sin formato de número ("1200", no "1,200.00").
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("spreadsheet: hoja %q fila %d: %w", sheet, len(records)+1, err)
		}
		records = append(records, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("spreadsheet: hoja %q: %w", sheet, err)
	}

	s.log.Debug().Str("sheet", sheet).Int("records", len(records)).Msg("hoja leída")
	return dataset.FromRecords(records)
}

func (s *Source) readCSV() (*dataset.Table, error) {
	f, err := os.Open(s.opts.Path)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: abrir %s: %w", s.opts.Path, err)
	}
	defer f.Close()

	return dataset.ReadCSV(decodeCharset(f, s.opts.Charset))
}

// decodeCharset convierte la entrada a UTF-8. El CSV público de Online Retail
// está en ISO-8859-1; en UTF-8 se descarta el BOM si lo hay.
func decodeCharset(r io.Reader, charset string) io.Reader {
	switch strings.ToLower(charset) {
	case "iso-8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	}
}
