package timewindow

import "time"

// ShiftMonths suma n meses de calendario (n negativo resta) conservando hora,
// minuto, segundo, nanosegundo y zona horaria.
//
// Política de desbordamiento (no se delega en la normalización de time.Date,
// que convierte "31 de marzo - 1 mes" en "3 de marzo"):
//   - el día se recorta a la longitud del mes destino (31 ene + 1 mes = 28/29 feb);
//   - si el día de origen es el último de su mes, el resultado es el último día
//     del mes destino (28 feb - 1 mes = 31 ene, 29 feb 2020 + 12 meses = 28 feb 2021).
func ShiftMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	ty, tm := first.Year(), first.Month()

	last := daysIn(ty, tm)
	if d == daysIn(y, m) || d > last {
		d = last
	}
	return time.Date(ty, tm, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// ShiftYears suma n años con la misma política que ShiftMonths.
func ShiftYears(t time.Time, n int) time.Time {
	return ShiftMonths(t, 12*n)
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// StartOfWeek devuelve el lunes 00:00 de la semana ISO que contiene t.
func StartOfWeek(t time.Time) time.Time {
	return startOfISOWeek(startOfDay(t))
}

func startOfISOWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7 // lunes = 0
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
}

func startOfQuarter(day time.Time) time.Time {
	m := ((day.Month()-1)/3)*3 + 1
	return time.Date(day.Year(), m, 1, 0, 0, 0, 0, day.Location())
}

func startOfYear(day time.Time) time.Time {
	return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
}
