package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrMissingColumn     = errors.New("columna requerida ausente")
	ErrMalformedCell     = errors.New("celda con formato inválido")
	ErrNoRows            = errors.New("ninguna fila sobrevivió a la limpieza")
	ErrUnsupportedFormat = errors.New("formato de archivo no soportado")
)
