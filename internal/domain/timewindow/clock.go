package timewindow

import "time"

// Clock provee el instante actual. Las capas que necesitan "ahora" lo reciben
// inyectado para que los tests fijen el instante sin tocar estado global.
type Clock interface {
	Now() time.Time
}

// SystemClock reloj real, opcionalmente fijado a una zona horaria de negocio.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock construye el reloj. loc nil = hora local del proceso.
func NewSystemClock(loc *time.Location) SystemClock {
	return SystemClock{loc: loc}
}

// Now devuelve la hora del sistema en la zona configurada.
func (c SystemClock) Now() time.Time {
	if c.loc == nil {
		return time.Now()
	}
	return time.Now().In(c.loc)
}

// FixedClock reloj que siempre devuelve el mismo instante.
type FixedClock time.Time

// Now devuelve el instante fijado.
func (c FixedClock) Now() time.Time { return time.Time(c) }
