package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	yaml := `
server:
  port: 9090

mysql:
  host: db.internal
  port: 3306
  user: root
  password: secret
  database: sealedauction_test
  max_open_conns: 20
  max_idle_conns: 5

redis:
  host: redis.internal
  port: 6380
  password: ""
  db: 1

kafka:
  brokers:
    - broker1:9092
  topic:
    auction_events: auction.events.test

scheduler:
  interval_ms: 500
  tick_timeout_ms: 15000
  stale_lease_sec: 60

auction:
  max_total_items: 500
  max_items_per_round: 50
  min_round_duration_sec: 5
  max_round_duration_sec: 1800
  max_anti_snipe_window_sec: 300
  max_anti_snipe_extension_sec: 60
  max_anti_snipe_max_total_extension_sec: 600

outbox:
  max_retry_count: 3

log:
  level: debug
`
	path := writeTempConfig(t, yaml)

	cfg := LoadConfig(path)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.MySQL.Database != "sealedauction_test" {
		t.Errorf("MySQL.Database = %q, want %q", cfg.MySQL.Database, "sealedauction_test")
	}
	if len(cfg.Kafka.Brokers) != 1 || cfg.Kafka.Brokers[0] != "broker1:9092" {
		t.Errorf("Kafka.Brokers = %v, want [broker1:9092]", cfg.Kafka.Brokers)
	}
	if cfg.Scheduler.Interval().Milliseconds() != 500 {
		t.Errorf("Scheduler.Interval() = %v, want 500ms", cfg.Scheduler.Interval())
	}
	if cfg.Scheduler.StaleLease().Seconds() != 60 {
		t.Errorf("Scheduler.StaleLease() = %v, want 60s", cfg.Scheduler.StaleLease())
	}
	if cfg.Auction.MaxTotalItems != 500 {
		t.Errorf("Auction.MaxTotalItems = %d, want 500", cfg.Auction.MaxTotalItems)
	}
	if cfg.Outbox.MaxRetryCount != 3 {
		t.Errorf("Outbox.MaxRetryCount = %d, want 3", cfg.Outbox.MaxRetryCount)
	}
	if GlobalConfig != cfg {
		t.Error("LoadConfig() did not set GlobalConfig to the returned config")
	}
}
