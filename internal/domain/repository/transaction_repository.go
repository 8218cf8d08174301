package repository

import (
	"context"

	"github.com/jhoicas/retail-visuals/internal/domain/entity"
)

// TransactionSource fuente de líneas de venta (hoja de cálculo, CSV).
// Las implementaciones son read-only y fallan si el archivo no existe, está
// malformado o le faltan columnas requeridas. No reintentan.
type TransactionSource interface {
	// Load devuelve todas las líneas en el orden del archivo, sin limpiar.
	Load(ctx context.Context) ([]entity.Transaction, error)
}
