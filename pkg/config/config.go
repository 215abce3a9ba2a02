package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"StockScan/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Cache struct {
		Namespace string `yaml:"namespace"`
		Redis     struct {
			Addr        string        `yaml:"addr"`
			Password    string        `yaml:"password"`
			DB          int           `yaml:"db"`
			PoolSize    int           `yaml:"pool_size"`
			MinIdle     int           `yaml:"min_idle"`
			CallTimeout time.Duration `yaml:"call_timeout"`
		} `yaml:"redis"`
		SeriesTTL time.Duration `yaml:"series_ttl"`
		SignalTTL time.Duration `yaml:"signal_ttl"`
		DedupTTL  time.Duration `yaml:"dedup_ttl"`
	} `yaml:"cache"`
	MarketData struct {
		Source            string        `yaml:"source"` // http or clickhouse
		BaseURL           string        `yaml:"base_url"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
		Timeout           time.Duration `yaml:"timeout"`
	} `yaml:"market_data"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		SignalsTopic string   `yaml:"signals_topic"`
		LogsTopic    string   `yaml:"logs_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Queue struct {
		Enabled    bool          `yaml:"enabled"`
		Workers    int           `yaml:"workers"`
		QueueSize  int           `yaml:"queue_size"`
		RetryLimit int           `yaml:"retry_limit"`
		RetryDelay time.Duration `yaml:"retry_delay"`
	} `yaml:"queue"`
	Dhan struct {
		BaseURL     string `yaml:"base_url"`
		AccessToken string `yaml:"access_token"`
		ClientID    string `yaml:"client_id"`
	} `yaml:"dhan"`
	Scanner struct {
		Workers           int     `yaml:"workers"`
		DefaultBars       int     `yaml:"default_bars"`
		StopATRMultiple   float64 `yaml:"stop_atr_multiple"`
		TargetATRMultiple float64 `yaml:"target_atr_multiple"`
		StopPct           float64 `yaml:"stop_pct"`
		TargetPct         float64 `yaml:"target_pct"`
	} `yaml:"scanner"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing REDIS_ADDR is not an error: the cache falls back to memory.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		c.Cache.Redis.DB = util.ParseIntDefault(v, c.Cache.Redis.DB)
	}
	if v := os.Getenv("MARKET_DATA_SOURCE"); v != "" {
		c.MarketData.Source = v
	}
	if v := os.Getenv("MARKET_DATA_URL"); v != "" {
		c.MarketData.BaseURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Enabled = true
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_SIGNALS_TOPIC"); v != "" {
		c.Kafka.SignalsTopic = v
	}
	if v := os.Getenv("DHAN_ACCESS_TOKEN"); v != "" {
		c.Dhan.AccessToken = v
	}
	if v := os.Getenv("DHAN_CLIENT_ID"); v != "" {
		c.Dhan.ClientID = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Cache.Redis.CallTimeout == 0 {
		c.Cache.Redis.CallTimeout = 3 * time.Second
	}
	if c.Cache.SeriesTTL == 0 {
		c.Cache.SeriesTTL = time.Hour
	}
	if c.Cache.SignalTTL == 0 {
		c.Cache.SignalTTL = 24 * time.Hour
	}
	if c.Cache.DedupTTL == 0 {
		c.Cache.DedupTTL = 24 * time.Hour
	}
	if c.MarketData.Source == "" {
		c.MarketData.Source = "http"
	}
	if c.MarketData.RequestsPerSecond == 0 {
		c.MarketData.RequestsPerSecond = 4
	}
	if c.MarketData.Timeout == 0 {
		c.MarketData.Timeout = 30 * time.Second
	}
	if c.Kafka.SignalsTopic == "" {
		c.Kafka.SignalsTopic = "stockscan.signals"
	}
	if c.Kafka.LogsTopic == "" {
		c.Kafka.LogsTopic = "stockscan.logs"
	}
	if c.Queue.Workers == 0 {
		c.Queue.Workers = 2
	}
	if c.Queue.QueueSize == 0 {
		c.Queue.QueueSize = 100
	}
	if c.Queue.RetryLimit == 0 {
		c.Queue.RetryLimit = 3
	}
	if c.Queue.RetryDelay == 0 {
		c.Queue.RetryDelay = 30 * time.Second
	}
	if c.Dhan.BaseURL == "" {
		c.Dhan.BaseURL = "https://api.dhan.co"
	}
	if c.Scanner.Workers == 0 {
		c.Scanner.Workers = 8
	}
	if c.Scanner.DefaultBars == 0 {
		c.Scanner.DefaultBars = 100
	}
	if c.Scanner.StopATRMultiple == 0 {
		c.Scanner.StopATRMultiple = 1.5
	}
	if c.Scanner.TargetATRMultiple == 0 {
		c.Scanner.TargetATRMultiple = 3.0
	}
	if c.Scanner.StopPct == 0 {
		c.Scanner.StopPct = 0.03
	}
	if c.Scanner.TargetPct == 0 {
		c.Scanner.TargetPct = 0.06
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.MarketData.Source {
	case "http":
		if c.MarketData.BaseURL == "" {
			return fmt.Errorf("market_data.base_url is required for the http source")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for the clickhouse source")
		}
	default:
		return fmt.Errorf("market_data.source must be 'http' or 'clickhouse', got '%s'", c.MarketData.Source)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
