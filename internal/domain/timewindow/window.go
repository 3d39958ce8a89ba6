package timewindow

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Window período cerrado [Start, End]. Start es el inicio del primer día y End
// el último nanosegundo del último día.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains indica si t cae dentro de la ventana (ambos extremos inclusive).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days número de días de calendario que cubre la ventana.
func (w Window) Days() int {
	if w.End.Before(w.Start) {
		return 0
	}
	n := 0
	for d := startOfDay(w.Start); !d.After(w.End); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// StartDate fecha de inicio en formato YYYY-MM-DD.
func (w Window) StartDate() string { return w.Start.Format(dateLayout) }

// EndDate fecha de fin en formato YYYY-MM-DD.
func (w Window) EndDate() string { return w.End.Format(dateLayout) }

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s]", w.StartDate(), w.EndDate())
}
