package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "storefront-api", cfg.App.Name)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Equal(t, "UTC", cfg.Dashboard.Timezone)
	assert.Equal(t, "*/5 * * * *", cfg.Dashboard.WarmupCron)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("DASHBOARD_CACHE_TTL", "90s")
	t.Setenv("DASHBOARD_WARMUP_CRON", "* * * * *")
	t.Setenv("DASHBOARD_TIMEZONE", "America/Bogota")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 90*time.Second, cfg.Dashboard.CacheTTL)
	assert.Equal(t, "debug", cfg.Log.Level)

	loc, err := cfg.Dashboard.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Bogota", loc.String())
}

func TestLoad_ValoresInvalidos(t *testing.T) {
	t.Run("ttl", func(t *testing.T) {
		t.Setenv("DASHBOARD_CACHE_TTL", "cinco minutos")
		_, err := Load()
		assert.ErrorContains(t, err, "DASHBOARD_CACHE_TTL")
	})
	t.Run("cron", func(t *testing.T) {
		t.Setenv("DASHBOARD_WARMUP_CRON", "cada rato")
		_, err := Load()
		assert.ErrorContains(t, err, "DASHBOARD_WARMUP_CRON")
	})
	t.Run("ttl menor que el cron", func(t *testing.T) {
		t.Setenv("DASHBOARD_CACHE_TTL", "5m")
		t.Setenv("DASHBOARD_WARMUP_CRON", "*/30 * * * *")
		_, err := Load()
		assert.ErrorContains(t, err, "menor que el intervalo")
	})
	t.Run("zona horaria", func(t *testing.T) {
		t.Setenv("DASHBOARD_TIMEZONE", "Marte/Olympus")
		_, err := Load()
		assert.ErrorContains(t, err, "Marte/Olympus")
	})
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "storefront", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/storefront?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestDashboardConfig_WarmupInterval(t *testing.T) {
	tests := []struct {
		spec string
		want time.Duration
	}{
		{"", 0},
		{"*/5 * * * *", 5 * time.Minute},
		{"*/30 * * * *", 30 * time.Minute},
		{"0 * * * *", time.Hour},
		{"0 8,20 * * *", 12 * time.Hour},
	}
	for _, tt := range tests {
		got, err := DashboardConfig{WarmupCron: tt.spec}.WarmupInterval()
		require.NoError(t, err, tt.spec)
		assert.Equal(t, tt.want, got, tt.spec)
	}
}

func TestDashboardConfig_CronDesactivadoNoExigeTTL(t *testing.T) {
	c := DashboardConfig{CacheTTL: time.Second, Timezone: "UTC"}
	assert.NoError(t, c.validate())
}
