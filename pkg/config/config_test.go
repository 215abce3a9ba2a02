package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalYAML = `
environment: test
market_data:
  source: http
  base_url: https://query1.finance.yahoo.com
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Cache.SeriesTTL != time.Hour || cfg.Cache.DedupTTL != 24*time.Hour {
		t.Fatalf("cache ttls = %v %v", cfg.Cache.SeriesTTL, cfg.Cache.DedupTTL)
	}
	if cfg.Kafka.SignalsTopic != "stockscan.signals" {
		t.Fatalf("signals topic = %q", cfg.Kafka.SignalsTopic)
	}
	if cfg.Scanner.Workers != 8 || cfg.Scanner.StopATRMultiple != 1.5 {
		t.Fatalf("scanner defaults = %+v", cfg.Scanner)
	}
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	body := `
environment: test
market_data:
  source: carrier-pigeon
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected source validation error")
	}
}

func TestLoadRequiresClickHouseHost(t *testing.T) {
	body := `
environment: test
market_data:
  source: clickhouse
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected clickhouse host error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis-test:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cache.Redis.Addr != "redis-test:6379" || cfg.Cache.Redis.DB != 3 {
		t.Fatalf("redis override = %+v", cfg.Cache.Redis)
	}
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("kafka override = %+v", cfg.Kafka)
	}
}

func TestLoadWithEnvMissingRedisIsNotAnError(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cache.Redis.Addr != "" {
		t.Fatalf("redis addr = %q", cfg.Cache.Redis.Addr)
	}
}
