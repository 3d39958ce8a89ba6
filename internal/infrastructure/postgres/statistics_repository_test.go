package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
)

func TestFinancialBuckets_CubrenTodosLosFiltros(t *testing.T) {
	for _, f := range timewindow.Filters() {
		b, ok := financialBuckets[f]
		require.True(t, ok, "filtro sin intervalo: %s", f)
		assert.NotEmpty(t, b.trunc)
		assert.NotEmpty(t, b.step)
	}
	assert.Equal(t, "day", financialBuckets[timewindow.Week].trunc)
	assert.Equal(t, "month", financialBuckets[timewindow.Year].trunc)
}

func TestZoneName(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	assert.Equal(t, "UTC", zoneName(nil))
	assert.Equal(t, "UTC", zoneName(time.Local))
	assert.Equal(t, "UTC", zoneName(time.UTC))
	assert.Equal(t, "America/Bogota", zoneName(bogota))
}

func TestNullableText(t *testing.T) {
	s := "700000"
	assert.Nil(t, nullableText(nil))
	assert.Equal(t, "700000", nullableText(&s))
}

func TestGetFinancialSummary_FiltroInvalidoSinConsultar(t *testing.T) {
	repo := NewStatisticsRepository(nil, timewindow.FixedClock(time.Now()))
	_, err := repo.GetFinancialSummary(t.Context(), "decade")
	assert.ErrorIs(t, err, timewindow.ErrInvalidFilter)
}
