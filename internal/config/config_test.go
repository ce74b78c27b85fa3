package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoad_DefaultsAndYaml(t *testing.T) {
	dir := writeConfig(t, `
app:
  name: lockstep-test
  port: 9000
lockstep:
  tick_interval_ms: 33
  match_size: 2
`)
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "lockstep-test", cfg.App.Name)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, 8090, cfg.App.GrpcPort)
	assert.Equal(t, 33*time.Millisecond, cfg.Lockstep.TickInterval())
	assert.Equal(t, 2, cfg.Lockstep.MatchSize)
	assert.Equal(t, 600, cfg.Lockstep.RetentionFrames)
	assert.Equal(t, 5*time.Millisecond, cfg.Lockstep.PollInterval())
	assert.Equal(t, 10*time.Second, cfg.Lockstep.DirectoryTTL())
	assert.Equal(t, BroadcastLocal, cfg.Lockstep.Broadcast)
	assert.Equal(t, "/ws", cfg.WSS.Path)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "app:\n  env: local\n")
	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvPort, "7000")
	t.Setenv(EnvTickMS, "100")
	t.Setenv(EnvMatchSize, "8")
	t.Setenv(EnvRetentionFrames, "1200")
	t.Setenv(EnvRedisAddr, "redis:6379")
	t.Setenv(EnvBroadcast, BroadcastRedis)
	t.Setenv(EnvMySQLHost, "mysql")
	t.Setenv(EnvMySQLDB, "lockstep")
	t.Setenv(EnvPodIP, "10.1.2.3")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, 7000, cfg.App.Port)
	assert.Equal(t, "10.1.2.3", cfg.App.PodIP)
	assert.Equal(t, 100, cfg.Lockstep.TickIntervalMS)
	assert.Equal(t, 8, cfg.Lockstep.MatchSize)
	assert.Equal(t, 1200, cfg.Lockstep.RetentionFrames)
	assert.Equal(t, BroadcastRedis, cfg.Lockstep.Broadcast)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "mysql", cfg.MySQL.Host)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoad_BadYaml(t *testing.T) {
	_, err := Load(writeConfig(t, "app: [unclosed"))
	assert.Error(t, err)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := defaults()
	cfg.Lockstep.TickIntervalMS = 0
	cfg.Lockstep.MatchSize = 0
	cfg.Lockstep.Broadcast = "carrier-pigeon"
	cfg.MySQL.Host = "mysql"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "tick_interval_ms")
	assert.Contains(t, msg, "match_size")
	assert.Contains(t, msg, "carrier-pigeon")
	assert.Contains(t, msg, "mysql.dbname")
}

func TestValidate_PollSlowerThanTick(t *testing.T) {
	cfg := defaults()
	cfg.Lockstep.PollIntervalMS = 100
	assert.ErrorContains(t, cfg.Validate(), "poll_interval_ms")
}

func TestValidate_RedisBroadcastNeedsAddr(t *testing.T) {
	cfg := defaults()
	cfg.Lockstep.Broadcast = BroadcastRedis
	assert.ErrorContains(t, cfg.Validate(), "redis.addr")

	cfg.Redis.Addr = "localhost:6379"
	assert.NoError(t, cfg.Validate())
}
