package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

// Config 總配置結構
type Config struct {
	App      AppConfig      `yaml:"app"`
	Redis    RedisConfig    `yaml:"redis"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	WSS      WSSConfig      `yaml:"wss"`
	Lockstep LockstepConfig `yaml:"lockstep"`
}

type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`      // HTTP (Admin API + WebSocket)
	GrpcPort int    `yaml:"grpc_port"` // RoomRPC
	PodIP    string `yaml:"-"`         // Pod IP (runtime injected, not from file)
}

// RedisConfig Addr 留空代表不啟用 Room Directory 與跨 Pod 推播
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MySQLConfig Host 留空代表不寫入對局紀錄
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type WSSConfig struct {
	Path            string   `yaml:"path"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	ReadBufferSize  int      `yaml:"read_buffer_size"`
	WriteBufferSize int      `yaml:"write_buffer_size"`
	WriteWaitSec    int      `yaml:"write_wait_sec"`
	PongWaitSec     int      `yaml:"pong_wait_sec"`
	MaxMessageSize  int64    `yaml:"max_message_size"`
	JoinTimeoutSec  int      `yaml:"join_timeout_sec"`
	MaxConnections  int      `yaml:"max_connections"`
}

// LockstepConfig 房間推進參數
type LockstepConfig struct {
	TickIntervalMS  int     `yaml:"tick_interval_ms"`
	MatchSize       int     `yaml:"match_size"`
	RetentionFrames int     `yaml:"retention_frames"`
	LookaheadFrames int     `yaml:"lookahead_frames"`
	MailboxSize     int     `yaml:"mailbox_size"`
	PollIntervalMS  int     `yaml:"poll_interval_ms"`
	MaxCatchUp      int     `yaml:"max_catch_up"`
	Broadcast       string  `yaml:"broadcast"` // local | redis
	InputRate       float64 `yaml:"input_rate"`
	InputBurst      int     `yaml:"input_burst"`
	DirectoryTTLSec int     `yaml:"directory_ttl_sec"`
}

// Broadcast 模式
const (
	BroadcastLocal = "local"
	BroadcastRedis = "redis"
)

// TickInterval 幀間隔
func (c LockstepConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// PollInterval 檢查間隔
func (c LockstepConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// DirectoryTTL 房間登記的存活時間
func (c LockstepConfig) DirectoryTTL() time.Duration {
	return time.Duration(c.DirectoryTTLSec) * time.Second
}

// Load 讀取設定檔
// 優先讀取 config/config.yaml，然後使用環境變數覆蓋，最後驗證
func Load(configPath ...string) (*Config, error) {
	dir := "./config"
	if len(configPath) > 0 {
		dir = configPath[0]
	}
	fullPath := filepath.Join(dir, "config.yaml")

	cfg := defaults()

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at %s: %w", fullPath, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml at %s: %w", fullPath, err)
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// defaults YAML 沒寫到的欄位採用的值 (20Hz，4 人一局)
func defaults() *Config {
	return &Config{
		App: AppConfig{Name: "lockstep", Env: "local", Port: 8080, GrpcPort: 8090},
		WSS: WSSConfig{
			Path:           "/ws",
			AllowedOrigins: []string{"*"},
			PongWaitSec:    60,
			WriteWaitSec:   10,
			MaxMessageSize: 4096,
			JoinTimeoutSec: 10,
		},
		MySQL: MySQLConfig{Port: 3306},
		Lockstep: LockstepConfig{
			TickIntervalMS:  50,
			MatchSize:       4,
			RetentionFrames: 600,
			LookaheadFrames: 10,
			MailboxSize:     256,
			PollIntervalMS:  5,
			MaxCatchUp:      5,
			Broadcast:       BroadcastLocal,
			InputRate:       60,
			InputBurst:      30,
			DirectoryTTLSec: 10,
		},
	}
}

// Validate 一次列出所有設定錯誤
func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.App.Port <= 0 {
		el.Add(fmt.Errorf("app.port must be positive"))
	}
	if c.App.GrpcPort < 0 {
		el.Add(fmt.Errorf("app.grpc_port must not be negative"))
	}
	el.Add(c.Lockstep.Validate())

	if c.Lockstep.Broadcast == BroadcastRedis && c.Redis.Addr == "" {
		el.Add(fmt.Errorf("lockstep.broadcast=redis requires redis.addr"))
	}
	if c.MySQL.Host != "" && c.MySQL.DBName == "" {
		el.Add(fmt.Errorf("mysql.dbname is required when mysql.host is set"))
	}

	return el.Err()
}

// Validate 房間參數的合法範圍
func (c *LockstepConfig) Validate() error {
	el := errors.NewErrorList()

	if c.TickIntervalMS <= 0 {
		el.Add(fmt.Errorf("lockstep.tick_interval_ms must be positive"))
	}
	if c.MatchSize <= 0 {
		el.Add(fmt.Errorf("lockstep.match_size must be positive"))
	}
	if c.RetentionFrames <= 0 {
		el.Add(fmt.Errorf("lockstep.retention_frames must be positive"))
	}
	if c.LookaheadFrames <= 0 {
		el.Add(fmt.Errorf("lockstep.lookahead_frames must be positive"))
	}
	if c.MailboxSize <= 0 {
		el.Add(fmt.Errorf("lockstep.mailbox_size must be positive"))
	}
	if c.PollIntervalMS <= 0 {
		el.Add(fmt.Errorf("lockstep.poll_interval_ms must be positive"))
	} else if c.PollIntervalMS > c.TickIntervalMS && c.TickIntervalMS > 0 {
		el.Add(fmt.Errorf("lockstep.poll_interval_ms (%d) must not exceed tick_interval_ms (%d)", c.PollIntervalMS, c.TickIntervalMS))
	}
	switch c.Broadcast {
	case BroadcastLocal, BroadcastRedis:
	default:
		el.Add(fmt.Errorf("lockstep.broadcast must be %q or %q, got %q", BroadcastLocal, BroadcastRedis, c.Broadcast))
	}

	return el.Err()
}

func overrideWithEnv(cfg *Config) {
	// App
	if env := os.Getenv(EnvAppEnv); env != "" {
		cfg.App.Env = env
	}
	setInt(EnvPort, &cfg.App.Port)
	setInt(EnvGrpcPort, &cfg.App.GrpcPort)
	if podIP := os.Getenv(EnvPodIP); podIP != "" {
		cfg.App.PodIP = podIP
	}

	// MySQL
	setString(EnvMySQLHost, &cfg.MySQL.Host)
	setString(EnvMySQLPassword, &cfg.MySQL.Password)
	setString(EnvMySQLUser, &cfg.MySQL.User)
	setString(EnvMySQLDB, &cfg.MySQL.DBName)
	setInt(EnvMySQLPort, &cfg.MySQL.Port)

	// Redis
	setString(EnvRedisAddr, &cfg.Redis.Addr)
	setString(EnvRedisPassword, &cfg.Redis.Password)

	// Lockstep
	setInt(EnvTickMS, &cfg.Lockstep.TickIntervalMS)
	setInt(EnvMatchSize, &cfg.Lockstep.MatchSize)
	setInt(EnvRetentionFrames, &cfg.Lockstep.RetentionFrames)
	setString(EnvBroadcast, &cfg.Lockstep.Broadcast)
}

func setString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}
