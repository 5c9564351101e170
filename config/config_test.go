package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  host: localhost\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Planner.MaxPlansPerUser)
	assert.Equal(t, 10, cfg.Planner.LockTTLSeconds)
	assert.Equal(t, 300, cfg.Catalog.CacheTTLSeconds)
	assert.Equal(t, 15, cfg.Worker.RecomputeSweepMinutes)
}

func TestParse_SQLiteDefaultPath(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  driver: sqlite\n"))
	require.NoError(t, err)
	assert.Equal(t, "flightprofit.db", cfg.Database.SQLitePath)
}

func TestParse_UnknownDriver(t *testing.T) {
	_, err := Parse([]byte("database:\n  driver: oracle\n"))
	assert.EqualError(t, err, `unsupported database driver "oracle"`)
}

func TestParse_NegativeValues(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
		want string
	}{
		{name: "Plan cap", yaml: "planner:\n  max_plans_per_user: -1\n", want: "planner.max_plans_per_user must not be negative"},
		{name: "Lock TTL", yaml: "planner:\n  lock_ttl_seconds: -5\n", want: "planner.lock_ttl_seconds must not be negative"},
		{name: "Cache TTL", yaml: "catalog:\n  cache_ttl_seconds: -1\n", want: "catalog.cache_ttl_seconds must not be negative"},
		{name: "Sweep interval", yaml: "worker:\n  recompute_sweep_minutes: -1\n", want: "worker.recompute_sweep_minutes must not be negative"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.EqualError(t, err, tc.want)
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("http: ["))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
http:
  address: ":9090"
database:
  host: db
  port: 5432
  user: app
  password: secret
  name: flightprofit
kafka:
  brokers: ["kafka:9092"]
  flightplan_events_topic: flightplan_events
planner:
  max_plans_per_user: 3
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Planner.MaxPlansPerUser)
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=flightprofit sslmode=disable", cfg.Database.DSN())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}
