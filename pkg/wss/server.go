package wss

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

// Server 是 websocket package 對外的主要門面 (Facade)，並實現了 http.Handler 介面。
type Server struct {
	hub      *hub
	cfg      *Config
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

var _ http.Handler = (*Server)(nil)

// NewServer 創建 WebSocket 伺服器，ctx 結束時關閉所有連線。
//
// @param ctx - 用於控制伺服器生命週期的上下文。
// @param cfg - WebSocket 伺服器的設定參數 (nil 時使用 DefaultConfig)。
// @param logger - 用於記錄日誌的 slog 實例。
func NewServer(ctx context.Context, cfg *Config, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.PingPeriod == 0 && cfg.PongWait > 0 {
		cfg.PingPeriod = (cfg.PongWait * 9) / 10
	}

	h := newHub(ctx, logger.With("component", "hub"))
	go h.run()
	s := &Server{
		hub:    h,
		cfg:    cfg,
		logger: logger.With("component", "wss_server"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Register 將一個業務邏輯處理器 (Subscriber) 註冊到 WebSocket 伺服器。
func (s *Server) Register(subscriber Subscriber) {
	s.hub.registerSubscriber(subscriber)
}

// Online 目前在線連線數
func (s *Server) Online() int {
	return s.hub.count()
}

// ServeHTTP 處理 WebSocket 的升級請求。
// 在線數達 MaxConnections 時直接回 503，不進行升級。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxConnections > 0 && s.hub.count() >= s.cfg.MaxConnections {
		s.logger.Warn("Connection rejected, server full", "limit", s.cfg.MaxConnections, "remote", r.RemoteAddr)
		http.Error(w, "server full", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := newConnection(s.hub, conn, r, s.cfg.SendBufferSize, s.logger.With("component", "client"))
	if !s.hub.add(client) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()
		return
	}

	go client.writePump(s.cfg)
	go client.readPump(s.cfg)
}

// checkOrigin 未設定 AllowedOrigins 時只允許同源 (沒有 Origin 標頭的非瀏覽器請求一律允許)
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(s.cfg.AllowedOrigins) == 0 {
		return false
	}
	return slices.Contains(s.cfg.AllowedOrigins, "*") || slices.Contains(s.cfg.AllowedOrigins, origin)
}
