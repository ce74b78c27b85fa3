package wss

import "time"

// Config WebSocket 伺服器設定
type Config struct {
	ReadBufferSize  int
	WriteBufferSize int
	MaxMessageSize  int64         // 單一訊息上限 (bytes)
	SendBufferSize  int           // 每條連線的待送佇列長度
	WriteWait       time.Duration // 單次寫入逾時
	PongWait        time.Duration // 等待 Pong 的最長時間
	PingPeriod      time.Duration // Ping 間隔 (未設定時取 PongWait 的 90%)
	MaxConnections  int           // 同時在線上限，0 代表不限制
	AllowedOrigins  []string
}

// DefaultConfig 預設設定
func DefaultConfig() *Config {
	return &Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		MaxMessageSize:  4096,
		SendBufferSize:  256,
		WriteWait:       10 * time.Second,
		PongWait:        60 * time.Second,
		AllowedOrigins:  []string{"*"},
	}
}
