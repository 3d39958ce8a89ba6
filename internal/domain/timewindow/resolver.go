package timewindow

import (
	"fmt"
	"time"
)

// unit duración de calendario de un período. Solo uno de los campos es distinto de cero.
type unit struct {
	days   int
	months int
}

// rule describe un filtro: cómo anclar el inicio del período que contiene un
// instante y cuánto mide el período. La misma unidad sirve para calcular el fin
// de la ventana actual y para retroceder al período anterior, así ambos
// resolvers no pueden desincronizarse.
type rule struct {
	anchor func(day time.Time) time.Time
	unit   unit
}

var rules = map[Filter]rule{
	Week:    {anchor: startOfISOWeek, unit: unit{days: 7}},
	Month:   {anchor: startOfMonth, unit: unit{months: 1}},
	Quarter: {anchor: startOfQuarter, unit: unit{months: 3}},
	Year:    {anchor: startOfYear, unit: unit{months: 12}},
}

// Resolve devuelve la ventana [inicio, fin] del período actual para el filtro,
// tomando now como referencia (en su propia zona horaria).
//
//	week    → lunes 00:00 … domingo 23:59:59.999999999 (semana ISO)
//	month   → día 1 … último día del mes
//	quarter → primer día del bloque Ene-Mar/Abr-Jun/Jul-Sep/Oct-Dic … último día del bloque
//	year    → 1 de enero … 31 de diciembre
func Resolve(filter Filter, now time.Time) (Window, error) {
	r, ok := rules[filter]
	if !ok {
		return Window{}, invalidFilter(string(filter))
	}
	start := r.anchor(startOfDay(now))
	next := r.unit.add(start, 1)
	return Window{Start: start, End: endOfDay(next.AddDate(0, 0, -1))}, nil
}

// ResolvePrevious desplaza ambos límites de la ventana exactamente una unidad
// del filtro hacia atrás. Semana = 7 días fijos; mes, trimestre y año usan
// aritmética de calendario con la política de ShiftMonths.
func ResolvePrevious(w Window, filter Filter) (Window, error) {
	r, ok := rules[filter]
	if !ok {
		return Window{}, fmt.Errorf("%w: %q", ErrUnsupportedPeriod, string(filter))
	}
	return Window{
		Start: r.unit.add(w.Start, -1),
		End:   r.unit.add(w.End, -1),
	}, nil
}

// ResolveWithPrevious combina Resolve y ResolvePrevious.
func ResolveWithPrevious(filter Filter, now time.Time) (current, previous Window, err error) {
	current, err = Resolve(filter, now)
	if err != nil {
		return Window{}, Window{}, err
	}
	previous, err = ResolvePrevious(current, filter)
	if err != nil {
		return Window{}, Window{}, err
	}
	return current, previous, nil
}

func (u unit) add(t time.Time, n int) time.Time {
	if u.days != 0 {
		return t.AddDate(0, 0, u.days*n)
	}
	return ShiftMonths(t, u.months*n)
}

func invalidFilter(token string) error {
	return fmt.Errorf("%w: %q", ErrInvalidFilter, token)
}
