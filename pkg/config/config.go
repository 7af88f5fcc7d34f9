package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		RateLimit       struct {
			Enabled   bool    `yaml:"enabled"`
			Burst     float64 `yaml:"burst"`
			PerSecond float64 `yaml:"per_second"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Logger struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logger"`
	Pipeline struct {
		LowThreshold  float64 `yaml:"low_threshold"`
		HighThreshold float64 `yaml:"high_threshold"`
		AlphaScale    float64 `yaml:"alpha_scale"`
		Seed          int64   `yaml:"seed"`
		Rules         struct {
			LowRiskBuy      float64 `yaml:"low_risk_buy"`
			LowRiskHold     float64 `yaml:"low_risk_hold"`
			HighRiskBuy     float64 `yaml:"high_risk_buy"`
			ExposureLimit   float64 `yaml:"exposure_limit"`
			HighExposureBuy float64 `yaml:"high_exposure_buy"`
			VolatileSell    float64 `yaml:"volatile_sell"`
		} `yaml:"rules"`
		Synthetic struct {
			Mean   float64 `yaml:"mean"`
			Std    float64 `yaml:"std"`
			Length int     `yaml:"length"`
		} `yaml:"synthetic"`
	} `yaml:"pipeline"`
	Model struct {
		Type       string        `yaml:"type"`
		Path       string        `yaml:"path"`
		ServiceURL string        `yaml:"service_url"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"model"`
	Dataset struct {
		Source string `yaml:"source"`
		Path   string `yaml:"path"`
		Table  string `yaml:"table"`
		Size   int    `yaml:"size"`
		Seed   int64  `yaml:"seed"`
	} `yaml:"dataset"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
	Cache struct {
		TTL           time.Duration `yaml:"ttl"`
		MemoryMaxSize int           `yaml:"memory_max_size"`
		MemoryCleanup time.Duration `yaml:"memory_cleanup"`
		MemoryTTL     time.Duration `yaml:"memory_ttl"`
		Redis         struct {
			Enabled      bool          `yaml:"enabled"`
			Host         string        `yaml:"host"`
			Port         int           `yaml:"port"`
			Password     string        `yaml:"password"`
			DB           int           `yaml:"db"`
			Prefix       string        `yaml:"prefix"`
			PoolSize     int           `yaml:"pool_size"`
			MinIdleConns int           `yaml:"min_idle_conns"`
			PoolTimeout  time.Duration `yaml:"pool_timeout"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Default returns a configuration that runs without a file: in-process
// linear model, CSV dataset, memory cache, no Kafka.
func Default() *Config {
	var c Config
	c.Environment = "development"

	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 10 * time.Second
	c.Server.ShutdownTimeout = 15 * time.Second
	c.Server.RateLimit.Burst = 20
	c.Server.RateLimit.PerSecond = 10

	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"

	c.Logger.Level = "info"
	c.Logger.Format = "json"
	c.Logger.Output = "stdout"

	c.Pipeline.LowThreshold = 0.02
	c.Pipeline.HighThreshold = 0.08
	c.Pipeline.AlphaScale = 0.1
	c.Pipeline.Seed = 42
	c.Pipeline.Rules.LowRiskBuy = 0.7
	c.Pipeline.Rules.LowRiskHold = 1.2
	c.Pipeline.Rules.HighRiskBuy = 1.2
	c.Pipeline.Rules.ExposureLimit = 0.6
	c.Pipeline.Rules.HighExposureBuy = 0.5
	c.Pipeline.Rules.VolatileSell = 1.3
	c.Pipeline.Synthetic.Mean = 0.001
	c.Pipeline.Synthetic.Std = 0.02
	c.Pipeline.Synthetic.Length = 60

	c.Model.Type = "linear"
	c.Model.Timeout = 3 * time.Second

	c.Dataset.Source = "csv"
	c.Dataset.Path = "data/all_assets.csv"
	c.Dataset.Table = "assets"
	c.Dataset.Size = 1500
	c.Dataset.Seed = 42

	c.ClickHouse.Port = 9000
	c.ClickHouse.Database = "default"
	c.ClickHouse.User = "default"
	c.ClickHouse.DialTimeout = 5 * time.Second
	c.ClickHouse.ReadTimeout = 10 * time.Second

	c.Kafka.Topic = "finsight.recommendations"
	c.Kafka.RequiredAcks = -1
	c.Kafka.Compression = "gzip"
	c.Kafka.MaxAttempts = 3
	c.Kafka.WriteTimeout = 10 * time.Second

	c.Cache.TTL = time.Hour
	c.Cache.MemoryMaxSize = 1000
	c.Cache.MemoryCleanup = time.Minute
	c.Cache.MemoryTTL = time.Minute
	c.Cache.Redis.Host = "localhost"
	c.Cache.Redis.Port = 6379
	c.Cache.Redis.Prefix = "finsight"
	c.Cache.Redis.PoolSize = 10
	c.Cache.Redis.MinIdleConns = 2
	c.Cache.Redis.PoolTimeout = 4 * time.Second

	return &c
}

// Load reads a YAML configuration file on top of Default.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML (or defaults when path is empty) and
// overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c := Default()
	if path != "" {
		var err error
		if c, err = Load(path); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("MODEL_TYPE"); v != "" {
		c.Model.Type = v
	}
	if v := os.Getenv("MODEL_SERVICE_URL"); v != "" {
		c.Model.ServiceURL = v
	}
	if v := os.Getenv("DATASET_PATH"); v != "" {
		c.Dataset.Path = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Enabled = true
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Host = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	p := c.Pipeline
	if p.LowThreshold < 0 || p.LowThreshold > p.HighThreshold {
		return fmt.Errorf("pipeline thresholds must satisfy 0 <= low <= high, got %v/%v", p.LowThreshold, p.HighThreshold)
	}
	if p.AlphaScale <= 0 {
		return fmt.Errorf("pipeline.alpha_scale must be positive")
	}
	if p.Synthetic.Std < 0 {
		return fmt.Errorf("pipeline.synthetic.std must be non-negative")
	}
	switch c.Model.Type {
	case "linear":
	case "http":
		if c.Model.ServiceURL == "" {
			return fmt.Errorf("model.service_url is required for model.type 'http'")
		}
	default:
		return fmt.Errorf("model.type must be 'linear' or 'http', got '%s'", c.Model.Type)
	}
	switch c.Dataset.Source {
	case "csv":
		if c.Dataset.Path == "" {
			return fmt.Errorf("dataset.path is required for dataset.source 'csv'")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for dataset.source 'clickhouse'")
		}
	default:
		return fmt.Errorf("dataset.source must be 'csv' or 'clickhouse', got '%s'", c.Dataset.Source)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
