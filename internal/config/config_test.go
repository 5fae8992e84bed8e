package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lordthorzonus/oura-api-exporter/internal/models"
)

const minimalConfig = `
persons:
  - name: alice
    access_token: token-a
  - name: bob
    access_token: token-b
poller_interval: 120
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "configuration.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Setenv("CONFIGURATION_FILE_PATH", writeConfig(t, minimalConfig))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []models.Person{
		{Name: "alice", AccessToken: "token-a"},
		{Name: "bob", AccessToken: "token-b"},
	}, cfg.Persons)
	assert.Equal(t, 120*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 64*time.Hour, cfg.Poller.Lookback)
	assert.Equal(t, 10, cfg.Poller.ChunkSize)
	assert.Equal(t, 0, cfg.Poller.MaxConcurrency)

	assert.Equal(t, "https://api.ouraring.com", cfg.Oura.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Oura.RequestTimeout)
	assert.Equal(t, 3, cfg.Oura.RetryCount)
	assert.Equal(t, 100, cfg.Exporter.BatchSize)

	assert.False(t, cfg.InfluxDB.Enabled())
	assert.False(t, cfg.Timescale.Enabled())
	assert.False(t, cfg.MQTT.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Streams.Enabled)

	assert.Equal(t, "oura:cursor:", cfg.CursorKeyPrefix)
	assert.Equal(t, "", cfg.Metrics.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_SinkBlocks(t *testing.T) {
	t.Setenv("CONFIGURATION_FILE_PATH", writeConfig(t, minimalConfig+`
influxdb:
  url: http://influx:8086
  token: secret
  organization: home
  bucket: oura
`))

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.InfluxDB.Enabled())
	assert.Equal(t, "home", cfg.InfluxDB.Organization)
}

func TestLoad_TimescaleAndBrokers(t *testing.T) {
	t.Setenv("CONFIGURATION_FILE_PATH", writeConfig(t, minimalConfig+`
timescale:
  host: tsdb
  user: oura
  database: metrics
mqtt:
  broker: tcp://broker:1883
  qos: 1
redis:
  addr: redis:6379
redis_streams:
  enabled: true
  prefix: ring
`))

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.InfluxDB.Enabled())
	assert.True(t, cfg.Timescale.Enabled())
	assert.Equal(t, 5432, cfg.Timescale.Port)
	assert.Equal(t, "disable", cfg.Timescale.SSLMode)

	assert.True(t, cfg.MQTT.Enabled())
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Contains(t, cfg.MQTT.ClientID, "oura-exporter-")

	assert.True(t, cfg.Streams.Enabled)
	assert.Equal(t, "ring", cfg.Streams.Prefix)
	assert.Equal(t, int64(10000), cfg.Streams.MaxLen)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("CONFIGURATION_FILE_PATH", writeConfig(t, minimalConfig))
	t.Setenv("POLLER_INTERVAL", "30")
	t.Setenv("POLLER_LOOKBACK", "6h")
	t.Setenv("INFLUXDB_URL", "http://localhost:8086")
	t.Setenv("INFLUXDB_BUCKET", "env-bucket")
	t.Setenv("MQTT_BROKER", "tcp://localhost:1883")
	t.Setenv("MQTT_CLIENT_ID", "fixed")
	t.Setenv("MQTT_TOPIC_PREFIX", "home/oura")
	t.Setenv("METRICS_ADDR", ":9100")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 6*time.Hour, cfg.Poller.Lookback)
	assert.Equal(t, "env-bucket", cfg.InfluxDB.Bucket)
	assert.Equal(t, "fixed", cfg.MQTT.ClientID)
	assert.Equal(t, "home/oura", cfg.MQTT.TopicPrefix)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIGURATION_FILE_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"no persons", "poller_interval: 10\n", "no persons configured"},
		{"missing token", "persons:\n  - name: alice\n", "person alice has no access_token"},
		{"duplicate", "persons:\n  - {name: a, access_token: x}\n  - {name: a, access_token: y}\n", "person a is configured twice"},
		{"streams without redis", "persons:\n  - {name: a, access_token: x}\nredis_streams:\n  enabled: true\n", "redis streams enabled without a redis address"},
		{"two time-series sinks", "persons:\n  - {name: a, access_token: x}\ninfluxdb: {url: 'http://i', bucket: b}\ntimescale: {host: db}\n", "not both"},
		{"invalid yaml", "persons: [", "failed to parse configuration file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetEnv(t *testing.T) {
	assert.Equal(t, "default-value", getEnv("OURA_TEST_KEY", "default-value"))

	t.Setenv("OURA_TEST_KEY", "custom-value")
	assert.Equal(t, "custom-value", getEnv("OURA_TEST_KEY", "default-value"))

	t.Setenv("OURA_TEST_INT", "not-a-number")
	assert.Equal(t, 7, getEnvInt("OURA_TEST_INT", 7))
}
