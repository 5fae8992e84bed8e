package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lordthorzonus/oura-api-exporter/internal/common/config"
	"github.com/lordthorzonus/oura-api-exporter/internal/models"
)

const DefaultConfigurationFile = "configuration.yaml"

// Config is the exporter service configuration.
type Config struct {
	Persons []models.Person

	Poller struct {
		Interval       time.Duration // pause between poll cycles
		Lookback       time.Duration // window length when no cursor is stored
		ChunkSize      int           // records per queued export chunk
		MaxConcurrency int           // persons polled at once, 0 = all
	}

	Oura struct {
		BaseURL        string
		RequestTimeout time.Duration
		RetryCount     int
	}

	Exporter struct {
		BatchSize int
	}

	InfluxDB  config.InfluxDBConfig
	Timescale config.DatabaseConfig
	MQTT      config.MQTTConfig
	Redis     config.RedisConfig

	Streams struct {
		Enabled bool
		Prefix  string
		MaxLen  int64
	}

	CursorKeyPrefix string

	Metrics struct {
		Addr string
	}

	Log struct {
		Level  string
		Format string
	}
}

// fileConfig is the YAML layout of the configuration file.
type fileConfig struct {
	Persons        []models.Person        `yaml:"persons"`
	PollerInterval int                    `yaml:"poller_interval"`
	InfluxDB       *config.InfluxDBConfig `yaml:"influxdb"`
	Timescale      *config.DatabaseConfig `yaml:"timescale"`
	MQTT           *config.MQTTConfig     `yaml:"mqtt"`
	Redis          *config.RedisConfig    `yaml:"redis"`
	RedisStreams   *struct {
		Enabled bool   `yaml:"enabled"`
		Prefix  string `yaml:"prefix"`
		MaxLen  int64  `yaml:"max_len"`
	} `yaml:"redis_streams"`
}

// Load reads .env, the YAML file named by CONFIGURATION_FILE_PATH and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := getEnv("CONFIGURATION_FILE_PATH", DefaultConfigurationFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	return Parse(raw)
}

// Parse builds a Config from YAML content and the environment.
func Parse(raw []byte) (*Config, error) {
	var file fileConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	cfg := &Config{Persons: file.Persons}

	interval := file.PollerInterval
	if interval <= 0 {
		interval = 300
	}
	cfg.Poller.Interval = time.Duration(getEnvInt("POLLER_INTERVAL", interval)) * time.Second
	cfg.Poller.Lookback = getEnvDuration("POLLER_LOOKBACK", 64*time.Hour)
	cfg.Poller.ChunkSize = getEnvInt("POLLER_CHUNK_SIZE", 10)
	cfg.Poller.MaxConcurrency = getEnvInt("POLLER_MAX_CONCURRENCY", 0)

	cfg.Oura.BaseURL = getEnv("OURA_BASE_URL", "https://api.ouraring.com")
	cfg.Oura.RequestTimeout = getEnvDuration("OURA_REQUEST_TIMEOUT", 30*time.Second)
	cfg.Oura.RetryCount = getEnvInt("OURA_RETRY_COUNT", 3)

	cfg.Exporter.BatchSize = getEnvInt("EXPORT_BATCH_SIZE", 100)

	if file.InfluxDB != nil {
		cfg.InfluxDB = *file.InfluxDB
	}
	cfg.InfluxDB.LoadFromEnv("INFLUXDB")

	if file.Timescale != nil {
		cfg.Timescale = *file.Timescale
	}
	cfg.Timescale.LoadFromEnv("TIMESCALE")
	if cfg.Timescale.Enabled() {
		if cfg.Timescale.Port == 0 {
			cfg.Timescale.Port = 5432
		}
		if cfg.Timescale.SSLMode == "" {
			cfg.Timescale.SSLMode = "disable"
		}
	}

	if file.MQTT != nil {
		cfg.MQTT = *file.MQTT
	}
	cfg.MQTT.LoadFromEnv("MQTT")
	if cfg.MQTT.Enabled() && cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "oura-exporter-" + uuid.NewString()[:8]
	}

	if file.Redis != nil {
		cfg.Redis = *file.Redis
	}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Streams.Prefix = "oura"
	cfg.Streams.MaxLen = 10000
	if s := file.RedisStreams; s != nil {
		cfg.Streams.Enabled = s.Enabled
		if s.Prefix != "" {
			cfg.Streams.Prefix = s.Prefix
		}
		if s.MaxLen > 0 {
			cfg.Streams.MaxLen = s.MaxLen
		}
	}
	cfg.Streams.Enabled = getEnvBool("REDIS_STREAMS_ENABLED", cfg.Streams.Enabled)
	cfg.Streams.Prefix = getEnv("REDIS_STREAMS_PREFIX", cfg.Streams.Prefix)
	cfg.Streams.MaxLen = int64(getEnvInt("REDIS_STREAMS_MAX_LEN", int(cfg.Streams.MaxLen)))

	cfg.CursorKeyPrefix = getEnv("CURSOR_KEY_PREFIX", "oura:cursor:")
	cfg.Metrics.Addr = getEnv("METRICS_ADDR", "")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if len(c.Persons) == 0 {
		return errors.New("no persons configured")
	}
	seen := make(map[string]bool, len(c.Persons))
	for i, p := range c.Persons {
		if p.Name == "" {
			return fmt.Errorf("person #%d has no name", i+1)
		}
		if p.AccessToken == "" {
			return fmt.Errorf("person %s has no access_token", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("person %s is configured twice", p.Name)
		}
		seen[p.Name] = true
	}
	if c.Poller.Interval <= 0 {
		return errors.New("poller interval must be positive")
	}
	if c.Poller.ChunkSize <= 0 {
		return errors.New("poller chunk size must be positive")
	}
	if c.InfluxDB.Enabled() && c.Timescale.Enabled() {
		return errors.New("configure either influxdb or timescale as the time-series sink, not both")
	}
	if c.Streams.Enabled && !c.Redis.Enabled() {
		return errors.New("redis streams enabled without a redis address")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return defaultValue
}
