// Package timewindow resuelve las ventanas de reporte del dashboard a partir de
// un filtro de granularidad (semana, mes, trimestre, año) y calcula el período
// anterior equivalente para las comparaciones período contra período.
//
// Todas las funciones son puras: no leen el reloj del sistema. El instante de
// referencia llega como argumento (o vía Clock en las capas superiores).
package timewindow

import (
	"errors"
	"strings"
)

// Errores del paquete. Son distintos a propósito: crear la ventana actual y
// crear la ventana anterior se validan por separado.
var (
	ErrInvalidFilter     = errors.New("filtro de tiempo inválido")
	ErrUnsupportedPeriod = errors.New("período no soportado para comparación")
)

// Filter granularidad del reporte.
type Filter string

const (
	Week    Filter = "week"
	Month   Filter = "month"
	Quarter Filter = "quarter"
	Year    Filter = "year"
)

// Filters devuelve los filtros soportados en orden de granularidad creciente.
func Filters() []Filter {
	return []Filter{Week, Month, Quarter, Year}
}

// ParseFilter convierte el token recibido (query param, payload de un job)
// en un Filter. No hay valor por defecto: un token desconocido es error del llamador.
func ParseFilter(token string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(token)))
	if !f.Valid() {
		return "", invalidFilter(token)
	}
	return f, nil
}

// Valid indica si el filtro tiene regla de calendario asociada.
func (f Filter) Valid() bool {
	_, ok := rules[f]
	return ok
}

func (f Filter) String() string { return string(f) }
