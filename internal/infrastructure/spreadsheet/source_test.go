package spreadsheet_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/retail-visuals/internal/domain"
	"github.com/jhoicas/retail-visuals/internal/infrastructure/spreadsheet"
)

// writeWorkbook crea un .xlsx con la cabecera de Online Retail y las filas dadas.
func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Online_Retail.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}

	all := append([][]interface{}{{
		"InvoiceNo", "StockCode", "Description", "Quantity", "InvoiceDate", "UnitPrice", "CustomerID", "Country",
	}}, rows...)
	for i, r := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoad_Xlsx(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"536365", "85123A", "WHITE HANGING HEART T-LIGHT HOLDER", 6, "2010-12-01 08:26", 2.55, 17850, "United Kingdom"},
		{"C536379", "D", "Discount", -1, "2010-12-01 09:41", 27.5, 14527, "United Kingdom"},
		{"536414", "22139", "", 56, "2010-12-01 11:52", 0, nil, "United Kingdom"},
	})

	src := spreadsheet.NewSource(spreadsheet.Options{Path: path}, nil)
	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "536365", rows[0].InvoiceNo)
	assert.Equal(t, int64(6), rows[0].Quantity)
	assert.Equal(t, "2.55", rows[0].UnitPrice.String())
	require.NotNil(t, rows[0].CustomerID)
	assert.Equal(t, "17850", *rows[0].CustomerID)

	assert.True(t, rows[1].IsCancellation("C"))
	assert.Nil(t, rows[2].CustomerID, "CustomerID vacío al final de la fila queda nil")
	assert.Equal(t, "United Kingdom", rows[2].Country)
}

// TestLoad_XlsxCeldasConFormato: un formato de visualización "#,##0.00" no
// altera el número leído.
func TestLoad_XlsxCeldasConFormato(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"536365", "85123A", "WHITE HANGING HEART T-LIGHT HOLDER", 1200, "", 1234.5, 17850, "United Kingdom"},
	})

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "D2", "D2", style))
	require.NoError(t, f.SetCellStyle("Sheet1", "F2", "G2", style))
	formatted, err := f.GetCellValue("Sheet1", "D2")
	require.NoError(t, err)
	require.Equal(t, "1,200.00", formatted)
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	rows, err := spreadsheet.NewSource(spreadsheet.Options{Path: path}, nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, int64(1200), rows[0].Quantity)
	assert.Equal(t, "1234.5", rows[0].UnitPrice.String())
	require.NotNil(t, rows[0].CustomerID)
	assert.Equal(t, "17850", *rows[0].CustomerID)
}

func TestLoad_XlsxHojaConfigurada(t *testing.T) {
	path := writeWorkbook(t, "Online Retail", [][]interface{}{
		{"536365", "71053", "WHITE METAL LANTERN", 6, "", 3.39, 17850, "United Kingdom"},
	})

	src := spreadsheet.NewSource(spreadsheet.Options{Path: path, Sheet: "Online Retail"}, nil)
	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "WHITE METAL LANTERN", rows[0].Description)
}

func TestLoad_ErrorColumnaAusente(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sin_country.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"InvoiceNo", "Quantity", "UnitPrice", "CustomerID", "Description"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"1", 1, 1.5, 1, "x"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := spreadsheet.NewSource(spreadsheet.Options{Path: path}, nil).Load(context.Background())
	require.ErrorIs(t, err, domain.ErrMissingColumn)
	assert.Contains(t, err.Error(), "Country")
}

func TestLoad_ErrorArchivoInexistente(t *testing.T) {
	src := spreadsheet.NewSource(spreadsheet.Options{Path: filepath.Join(t.TempDir(), "no.xlsx")}, nil)
	_, err := src.Load(context.Background())
	assert.Error(t, err)
}

func TestLoad_ErrorArchivoMalformado(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roto.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("esto no es un zip"), 0o644))

	_, err := spreadsheet.NewSource(spreadsheet.Options{Path: path}, nil).Load(context.Background())
	assert.Error(t, err)
}

func TestLoad_ErrorFormatoNoSoportado(t *testing.T) {
	_, err := spreadsheet.NewSource(spreadsheet.Options{Path: "ventas.ods"}, nil).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestLoad_ContextoCancelado(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{{"1", "a", "x", 1, "", 1, 1, "UK"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := spreadsheet.NewSource(spreadsheet.Options{Path: path}, nil).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestLoad_CSVLatin1: el CSV público viene en ISO-8859-1.
func TestLoad_CSVLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Online_Retail.csv")
	content := "InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country\n" +
		"536365,85123A,CAF\xc9 SIGN,6,12/1/2010 8:26,2.55,17850,United Kingdom\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	src := spreadsheet.NewSource(spreadsheet.Options{Path: path, Charset: "iso-8859-1"}, nil)
	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CAFÉ SIGN", rows[0].Description)
}

func TestLoad_CSVConBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ventas.csv")
	content := "\xef\xbb\xbfInvoiceNo,Description,Quantity,UnitPrice,CustomerID,Country\n" +
		"536365,LANTERN,6,3.39,17850,France\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := spreadsheet.NewSource(spreadsheet.Options{Path: path}, nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "536365", rows[0].InvoiceNo)
	assert.Equal(t, "France", rows[0].Country)
}
