package timewindow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayEnd(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, 999999999, time.UTC)
}

// 2023-04-15 es sábado.
var saturday = time.Date(2023, time.April, 15, 14, 30, 0, 0, time.UTC)

func TestResolve_Week_LunesADomingo(t *testing.T) {
	w, err := timewindow.Resolve(timewindow.Week, saturday)
	require.NoError(t, err)

	assert.Equal(t, day(2023, time.April, 10), w.Start)
	assert.Equal(t, dayEnd(2023, time.April, 16), w.End)
	assert.Equal(t, time.Monday, w.Start.Weekday())
	assert.Equal(t, time.Sunday, w.End.Weekday())
}

func TestResolve_Week_DomingoPerteneceALaSemanaQueTermina(t *testing.T) {
	sunday := time.Date(2023, time.April, 16, 23, 0, 0, 0, time.UTC)
	w, err := timewindow.Resolve(timewindow.Week, sunday)
	require.NoError(t, err)

	assert.Equal(t, day(2023, time.April, 10), w.Start)
	assert.Equal(t, dayEnd(2023, time.April, 16), w.End)
}

func TestResolve_Week_CruzaCambioDeAnio(t *testing.T) {
	w, err := timewindow.Resolve(timewindow.Week, day(2025, time.January, 1))
	require.NoError(t, err)

	assert.Equal(t, day(2024, time.December, 30), w.Start)
	assert.Equal(t, dayEnd(2025, time.January, 5), w.End)
}

func TestResolve_Month(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		from time.Time
		to   time.Time
	}{
		{"abril", saturday, day(2023, time.April, 1), dayEnd(2023, time.April, 30)},
		{"febrero bisiesto", day(2024, time.February, 10), day(2024, time.February, 1), dayEnd(2024, time.February, 29)},
		{"febrero no bisiesto", day(2023, time.February, 28), day(2023, time.February, 1), dayEnd(2023, time.February, 28)},
		{"diciembre", dayEnd(2023, time.December, 31), day(2023, time.December, 1), dayEnd(2023, time.December, 31)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, err := timewindow.Resolve(timewindow.Month, tc.now)
			require.NoError(t, err)
			assert.Equal(t, tc.from, w.Start)
			assert.Equal(t, tc.to, w.End)
		})
	}
}

func TestResolve_Quarter(t *testing.T) {
	w, err := timewindow.Resolve(timewindow.Quarter, saturday)
	require.NoError(t, err)
	assert.Equal(t, day(2023, time.April, 1), w.Start)
	assert.Equal(t, dayEnd(2023, time.June, 30), w.End)

	cases := map[time.Month][2]time.Time{
		time.January:   {day(2023, time.January, 1), dayEnd(2023, time.March, 31)},
		time.March:     {day(2023, time.January, 1), dayEnd(2023, time.March, 31)},
		time.July:      {day(2023, time.July, 1), dayEnd(2023, time.September, 30)},
		time.September: {day(2023, time.July, 1), dayEnd(2023, time.September, 30)},
		time.October:   {day(2023, time.October, 1), dayEnd(2023, time.December, 31)},
		time.December:  {day(2023, time.October, 1), dayEnd(2023, time.December, 31)},
	}
	for m, want := range cases {
		w, err := timewindow.Resolve(timewindow.Quarter, day(2023, m, 15))
		require.NoError(t, err)
		assert.Equal(t, want[0], w.Start, "inicio del trimestre para %s", m)
		assert.Equal(t, want[1], w.End, "fin del trimestre para %s", m)
	}
}

func TestResolve_Year(t *testing.T) {
	w, err := timewindow.Resolve(timewindow.Year, saturday)
	require.NoError(t, err)
	assert.Equal(t, day(2023, time.January, 1), w.Start)
	assert.Equal(t, dayEnd(2023, time.December, 31), w.End)
}

func TestResolve_ConservaZonaHoraria(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	// 2023-04-17 02:00 UTC es todavía domingo 16 en Bogotá.
	now := time.Date(2023, time.April, 17, 2, 0, 0, 0, time.UTC).In(bogota)

	w, err := timewindow.Resolve(timewindow.Week, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.April, 10, 0, 0, 0, 0, bogota), w.Start)
	assert.Equal(t, bogota, w.Start.Location())
}

func TestResolve_LimitesOrdenadosYDeterministas(t *testing.T) {
	instants := []time.Time{
		saturday,
		day(2020, time.February, 29),
		dayEnd(1999, time.December, 31),
		day(2024, time.January, 1),
		time.Date(2023, time.March, 26, 2, 30, 0, 0, time.UTC),
	}
	for _, f := range timewindow.Filters() {
		for _, now := range instants {
			a, err := timewindow.Resolve(f, now)
			require.NoError(t, err)
			b, err := timewindow.Resolve(f, now)
			require.NoError(t, err)

			assert.False(t, a.Start.After(a.End), "%s %s: start > end", f, now)
			assert.True(t, a.Contains(now), "%s %s: la ventana debe contener now", f, now)
			assert.Equal(t, a, b, "%s %s: resultado no determinista", f, now)
		}
	}
}

func TestResolve_FiltroInvalido(t *testing.T) {
	_, err := timewindow.Resolve(timewindow.Filter("bogus"), saturday)
	require.Error(t, err)
	assert.ErrorIs(t, err, timewindow.ErrInvalidFilter)
	assert.NotErrorIs(t, err, timewindow.ErrUnsupportedPeriod)
}

func TestResolvePrevious_Week(t *testing.T) {
	w := timewindow.Window{Start: day(2023, time.April, 10), End: dayEnd(2023, time.April, 16)}
	prev, err := timewindow.ResolvePrevious(w, timewindow.Week)
	require.NoError(t, err)

	assert.Equal(t, day(2023, time.April, 3), prev.Start)
	assert.Equal(t, dayEnd(2023, time.April, 9), prev.End)
}

func TestResolvePrevious_MonthCruzaAnio(t *testing.T) {
	w := timewindow.Window{Start: day(2023, time.January, 1), End: dayEnd(2023, time.January, 31)}
	prev, err := timewindow.ResolvePrevious(w, timewindow.Month)
	require.NoError(t, err)

	assert.Equal(t, day(2022, time.December, 1), prev.Start)
	assert.Equal(t, dayEnd(2022, time.December, 31), prev.End)
}

func TestResolvePrevious_MonthMantieneUnMesCompleto(t *testing.T) {
	cases := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"marzo a febrero", day(2023, time.March, 10), day(2023, time.February, 1), dayEnd(2023, time.February, 28)},
		{"marzo a febrero bisiesto", day(2024, time.March, 10), day(2024, time.February, 1), dayEnd(2024, time.February, 29)},
		{"febrero a enero", day(2023, time.February, 10), day(2023, time.January, 1), dayEnd(2023, time.January, 31)},
		{"mayo a abril", day(2023, time.May, 31), day(2023, time.April, 1), dayEnd(2023, time.April, 30)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			current, prev, err := timewindow.ResolveWithPrevious(timewindow.Month, tc.now)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStart, prev.Start)
			assert.Equal(t, tc.wantEnd, prev.End)
			assert.True(t, prev.End.Before(current.Start))
			assert.Equal(t, current.Start, prev.End.Add(time.Nanosecond), "los períodos deben ser contiguos")
		})
	}
}

func TestResolvePrevious_Quarter(t *testing.T) {
	current, prev, err := timewindow.ResolveWithPrevious(timewindow.Quarter, saturday)
	require.NoError(t, err)
	assert.Equal(t, day(2023, time.April, 1), current.Start)
	assert.Equal(t, day(2023, time.January, 1), prev.Start)
	assert.Equal(t, dayEnd(2023, time.March, 31), prev.End)

	_, prev, err = timewindow.ResolveWithPrevious(timewindow.Quarter, day(2023, time.February, 1))
	require.NoError(t, err)
	assert.Equal(t, day(2022, time.October, 1), prev.Start)
	assert.Equal(t, dayEnd(2022, time.December, 31), prev.End)
}

func TestResolvePrevious_Year(t *testing.T) {
	_, prev, err := timewindow.ResolveWithPrevious(timewindow.Year, saturday)
	require.NoError(t, err)
	assert.Equal(t, day(2022, time.January, 1), prev.Start)
	assert.Equal(t, dayEnd(2022, time.December, 31), prev.End)
}

func TestResolvePrevious_FiltroNoSoportado(t *testing.T) {
	w := timewindow.Window{Start: day(2023, time.April, 10), End: dayEnd(2023, time.April, 16)}
	_, err := timewindow.ResolvePrevious(w, timewindow.Filter("bogus"))
	require.Error(t, err)
	assert.ErrorIs(t, err, timewindow.ErrUnsupportedPeriod)
	assert.NotErrorIs(t, err, timewindow.ErrInvalidFilter)
}

func TestResolvePrevious_TodosLosFiltrosTienenRegla(t *testing.T) {
	for _, f := range timewindow.Filters() {
		current, err := timewindow.Resolve(f, saturday)
		require.NoError(t, err)
		prev, err := timewindow.ResolvePrevious(current, f)
		require.NoError(t, err, "filtro %s sin período anterior", f)
		assert.True(t, prev.End.Before(current.Start), "filtro %s", f)
	}
}

func TestShiftMonths_PoliticaDeRecorte(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"29 feb bisiesto + 1 año", day(2020, time.February, 29), 12, day(2021, time.February, 28)},
		{"29 feb bisiesto - 1 año", day(2020, time.February, 29), -12, day(2019, time.February, 28)},
		{"31 ene + 1 mes", day(2023, time.January, 31), 1, day(2023, time.February, 28)},
		{"31 mar - 1 mes", day(2023, time.March, 31), -1, day(2023, time.February, 28)},
		{"30 abr - 1 mes es fin de mes", day(2023, time.April, 30), -1, day(2023, time.March, 31)},
		{"15 mar - 1 mes conserva el día", day(2023, time.March, 15), -1, day(2023, time.February, 15)},
		{"30 ene - 1 mes conserva el día", day(2023, time.January, 30), -1, day(2022, time.December, 30)},
		{"1 ene - 13 meses", day(2023, time.January, 1), -13, day(2021, time.December, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, timewindow.ShiftMonths(tc.in, tc.n))
		})
	}
}

func TestShiftYears_DiaBisiestoCaeEnFechaValida(t *testing.T) {
	got := timewindow.ShiftYears(day(2020, time.February, 29), 1)
	assert.Equal(t, day(2021, time.February, 28), got)

	got = timewindow.ShiftYears(dayEnd(2020, time.February, 29), 1)
	assert.Equal(t, dayEnd(2021, time.February, 28), got, "debe conservar la hora")
}

func TestParseFilter(t *testing.T) {
	for _, token := range []string{"week", "Month", " QUARTER ", "year"} {
		f, err := timewindow.ParseFilter(token)
		require.NoError(t, err, token)
		assert.True(t, f.Valid())
	}

	_, err := timewindow.ParseFilter("bogus")
	assert.ErrorIs(t, err, timewindow.ErrInvalidFilter)
	_, err = timewindow.ParseFilter("")
	assert.ErrorIs(t, err, timewindow.ErrInvalidFilter)
}

func TestWindow_DaysYFormato(t *testing.T) {
	w, err := timewindow.Resolve(timewindow.Month, day(2024, time.February, 3))
	require.NoError(t, err)
	assert.Equal(t, 29, w.Days())
	assert.Equal(t, "2024-02-01", w.StartDate())
	assert.Equal(t, "2024-02-29", w.EndDate())
	assert.Equal(t, "[2024-02-01, 2024-02-29]", w.String())
}

func TestFixedClock(t *testing.T) {
	c := timewindow.FixedClock(saturday)
	assert.Equal(t, saturday, c.Now())
}
