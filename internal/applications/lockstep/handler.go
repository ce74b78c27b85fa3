package lockstep

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/applications/lockstep/protocol"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/applications/lockstep/session"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	corelockstep "github.com/JoeShih716/go-k8s-lockstep-server/internal/core/lockstep"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-lockstep-server/pkg/wss"
)

const (
	tagJoinTimer = "join_timer"
	tagLimiter   = "input_limiter"
	tagPlayerID  = "player_id"
	tagRoomID    = "room_id"
)

// Config 連線層參數
type Config struct {
	JoinTimeout    time.Duration // 連線後必須在此時間內 join
	RequestTimeout time.Duration // 單一請求呼叫 RoomService 的逾時
	InputRate      float64       // 每秒可上傳的 input 數
	InputBurst     int
}

// DefaultConfig 預設參數 (20Hz 加上重送的餘裕)
func DefaultConfig() Config {
	return Config{
		JoinTimeout:    10 * time.Second,
		RequestTimeout: 2 * time.Second,
		InputRate:      60,
		InputBurst:     30,
	}
}

type routeFunc func(ctx context.Context, conn wss.Client, payload json.RawMessage)

// WebsocketHandler 實作 wss.Subscriber 介面，把客戶端訊息分派到 RoomService
type WebsocketHandler struct {
	svc       ports.RoomService
	sessions  *session.Manager
	directory ports.RoomDirectory
	cfg       Config
	logger    *slog.Logger
	routes    map[protocol.Action]routeFunc
}

var _ wss.Subscriber = (*WebsocketHandler)(nil)

// NewWebsocketHandler 建立 WebSocket 事件處理器。
// directory 可為 nil，此時找不到的房間不會回傳 redirect。
func NewWebsocketHandler(svc ports.RoomService, sessions *session.Manager, directory ports.RoomDirectory, cfg Config, logger *slog.Logger) *WebsocketHandler {
	h := &WebsocketHandler{
		svc:       svc,
		sessions:  sessions,
		directory: directory,
		cfg:       cfg,
		logger:    logger.With("component", "ws_handler"),
	}
	h.routes = map[protocol.Action]routeFunc{
		protocol.ActionJoin:      h.handleJoin,
		protocol.ActionReconnect: h.handleReconnect,
		protocol.ActionInput:     h.handleInput,
		protocol.ActionHash:      h.handleHash,
		protocol.ActionLeave:     h.handleLeave,
	}
	return h
}

// OnConnect 當新連線建立時觸發
func (h *WebsocketHandler) OnConnect(conn wss.Client) {
	h.logger.Debug("Client connected", "id", conn.ID())

	if h.cfg.InputRate > 0 {
		conn.SetTag(tagLimiter, rate.NewLimiter(rate.Limit(h.cfg.InputRate), max(h.cfg.InputBurst, 1)))
	}

	if h.cfg.JoinTimeout > 0 {
		joinTimer := time.AfterFunc(h.cfg.JoinTimeout, func() {
			h.logger.Info("Join timeout, kicking client", "id", conn.ID())
			_ = conn.Kick("Join Timeout")
		})
		conn.SetTag(tagJoinTimer, joinTimer)
	}
}

// OnDisconnect 當連線斷開時觸發。
// 斷線不等於離開房間，玩家仍可在別的連線上 reconnect。
func (h *WebsocketHandler) OnDisconnect(conn wss.Client) {
	h.stopTimer(conn, tagJoinTimer)

	playerID, roomID, ok := h.binding(conn)
	if !ok {
		return
	}
	h.sessions.Unbind(playerID, conn.ID())
	h.logger.Info("Client disconnected", "id", conn.ID(), "room_id", roomID, "player_id", playerID, "online", h.sessions.Count())
}

// OnMessage 解析 Envelope 後依 Action 分派
func (h *WebsocketHandler) OnMessage(conn wss.Client, msg []byte) {
	var envelope protocol.Envelope
	if err := json.Unmarshal(msg, &envelope); err != nil {
		h.logger.Warn("Invalid JSON envelope", "id", conn.ID(), "error", err)
		h.sendError(conn, "unknown", "Invalid JSON format")
		return
	}

	route, ok := h.routes[envelope.Action]
	if !ok {
		h.logger.Warn("Unknown Action", "id", conn.ID(), "action", envelope.Action)
		h.sendError(conn, envelope.Action, "Unknown Action")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout())
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Handler panic", "id", conn.ID(), "action", envelope.Action, "panic", r)
			h.sendError(conn, envelope.Action, "Internal Error")
		}
	}()
	route(ctx, conn, envelope.Payload)
}

// -------------------------------------------------------------
// Handlers
// -------------------------------------------------------------

func (h *WebsocketHandler) handleJoin(ctx context.Context, conn wss.Client, payload json.RawMessage) {
	if _, _, ok := h.binding(conn); ok {
		h.sendError(conn, protocol.ActionJoin, "Already Joined")
		return
	}
	h.bind(ctx, conn, protocol.ActionJoin, payload)
}

func (h *WebsocketHandler) handleReconnect(ctx context.Context, conn wss.Client, payload json.RawMessage) {
	h.bind(ctx, conn, protocol.ActionReconnect, payload)
}

// bind 確認玩家屬於該房間後綁定連線，回傳重連所需的資訊
func (h *WebsocketHandler) bind(ctx context.Context, conn wss.Client, action protocol.Action, payload json.RawMessage) {
	var req protocol.JoinReq
	if err := json.Unmarshal(payload, &req); err != nil || req.RoomID == "" || req.PlayerID == "" {
		h.sendError(conn, action, "Invalid Payload")
		return
	}

	resp, err := h.svc.Reconnect(ctx, req.RoomID, req.PlayerID)
	if errors.Is(err, ports.ErrRoomNotFound) {
		h.redirect(ctx, conn, action, req.RoomID)
		return
	}
	if err != nil {
		h.logger.Warn("Join rejected", "id", conn.ID(), "room_id", req.RoomID, "player_id", req.PlayerID, "error", err)
		h.sendError(conn, action, errorMessage(err))
		return
	}

	h.stopTimer(conn, tagJoinTimer)
	if prevPlayer, prevRoom, ok := h.binding(conn); ok && (prevPlayer != req.PlayerID || prevRoom != req.RoomID) {
		h.sessions.Unbind(prevPlayer, conn.ID())
	}
	conn.SetTag(tagPlayerID, req.PlayerID)
	conn.SetTag(tagRoomID, req.RoomID)

	if replaced := h.sessions.Bind(session.NewSession(conn, req.PlayerID, req.RoomID)); replaced != nil && replaced.ConnID() != conn.ID() {
		_ = replaced.Kick("Replaced By New Connection")
	}

	h.logger.Info("Player bound", "id", conn.ID(), "room_id", req.RoomID, "player_id", req.PlayerID, "frame", resp.AuthoritativeFrame)
	h.sendResponse(conn, action, resp)
}

func (h *WebsocketHandler) redirect(ctx context.Context, conn wss.Client, action protocol.Action, roomID string) {
	if h.directory != nil {
		entry, err := h.directory.Lookup(ctx, roomID)
		if err == nil {
			h.send(conn, action, protocol.RedirectResp{RoomID: roomID, Endpoint: entry.Endpoint}, "Room Hosted Elsewhere")
			return
		}
		if !errors.Is(err, ports.ErrRoomNotFound) {
			h.logger.Warn("Directory lookup failed", "room_id", roomID, "error", err)
		}
	}
	h.sendError(conn, action, "Room Not Found")
}

func (h *WebsocketHandler) handleInput(ctx context.Context, conn wss.Client, payload json.RawMessage) {
	playerID, roomID, ok := h.binding(conn)
	if !ok {
		h.sendError(conn, protocol.ActionInput, "Not Joined")
		return
	}
	if !h.allow(conn) {
		h.logger.Debug("Input rate limited", "room_id", roomID, "player_id", playerID)
		return
	}

	var req protocol.InputReq
	if err := json.Unmarshal(payload, &req); err != nil {
		h.sendError(conn, protocol.ActionInput, "Invalid Payload")
		return
	}

	err := h.svc.InsertInput(ctx, roomID, playerID, req.Frame, req.Input)
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrMailboxFull):
		// 視為丟包，客戶端會重送
		h.logger.Debug("Input dropped", "room_id", roomID, "player_id", playerID, "frame", req.Frame)
	default:
		h.sendError(conn, protocol.ActionInput, errorMessage(err))
	}
}

func (h *WebsocketHandler) handleHash(ctx context.Context, conn wss.Client, payload json.RawMessage) {
	playerID, roomID, ok := h.binding(conn)
	if !ok {
		h.sendError(conn, protocol.ActionHash, "Not Joined")
		return
	}

	var req protocol.HashReq
	if err := json.Unmarshal(payload, &req); err != nil {
		h.sendError(conn, protocol.ActionHash, "Invalid Payload")
		return
	}

	if err := h.svc.CheckHash(ctx, roomID, playerID, req.Frame, req.Hash); err != nil {
		h.sendError(conn, protocol.ActionHash, errorMessage(err))
	}
}

func (h *WebsocketHandler) handleLeave(ctx context.Context, conn wss.Client, _ json.RawMessage) {
	playerID, roomID, ok := h.binding(conn)
	if !ok {
		h.sendError(conn, protocol.ActionLeave, "Not Joined")
		return
	}

	if err := h.svc.Leave(ctx, roomID, playerID); err != nil && !errors.Is(err, ports.ErrRoomNotFound) {
		h.sendError(conn, protocol.ActionLeave, errorMessage(err))
		return
	}

	h.sessions.Unbind(playerID, conn.ID())
	conn.SetTag(tagPlayerID, domain.PlayerID(""))
	conn.SetTag(tagRoomID, "")
	h.sendResponse(conn, protocol.ActionLeave, protocol.LeaveResp{RoomID: roomID})
}

// -------------------------------------------------------------
// Helpers
// -------------------------------------------------------------

func (h *WebsocketHandler) requestTimeout() time.Duration {
	if h.cfg.RequestTimeout <= 0 {
		return 2 * time.Second
	}
	return h.cfg.RequestTimeout
}

func (h *WebsocketHandler) allow(conn wss.Client) bool {
	v, ok := conn.GetTag(tagLimiter)
	if !ok {
		return true
	}
	limiter, ok := v.(*rate.Limiter)
	return !ok || limiter.Allow()
}

func (h *WebsocketHandler) binding(conn wss.Client) (domain.PlayerID, string, bool) {
	pv, ok := conn.GetTag(tagPlayerID)
	if !ok {
		return "", "", false
	}
	rv, ok := conn.GetTag(tagRoomID)
	if !ok {
		return "", "", false
	}
	playerID, _ := pv.(domain.PlayerID)
	roomID, _ := rv.(string)
	if playerID == "" || roomID == "" {
		return "", "", false
	}
	return playerID, roomID, true
}

func (h *WebsocketHandler) stopTimer(conn wss.Client, tagKey string) {
	if v, ok := conn.GetTag(tagKey); ok {
		if t, ok := v.(*time.Timer); ok {
			t.Stop()
		}
	}
}

func (h *WebsocketHandler) sendError(conn wss.Client, action protocol.Action, msg string) {
	h.send(conn, action, nil, msg)
}

func (h *WebsocketHandler) sendResponse(conn wss.Client, action protocol.Action, data any) {
	h.send(conn, action, data, "")
}

func (h *WebsocketHandler) send(conn wss.Client, action protocol.Action, data any, errMsg string) {
	if err := conn.SendMessage(protocol.Marshal(action, data, errMsg)); err != nil {
		h.logger.Debug("Send failed", "id", conn.ID(), "action", action, "error", err)
	}
}

// errorMessage 將領域錯誤轉成給客戶端看的訊息
func errorMessage(err error) string {
	switch {
	case errors.Is(err, ports.ErrRoomNotFound):
		return "Room Not Found"
	case errors.Is(err, ports.ErrRoomClosed):
		return "Room Closed"
	case errors.Is(err, ports.ErrUnknownParticipant):
		return "Unknown Participant"
	case errors.Is(err, ports.ErrPlayerLeft):
		return "Player Left"
	case errors.Is(err, ports.ErrMailboxFull):
		return "Server Busy"
	case errors.Is(err, corelockstep.ErrLateInput):
		return "Late Input"
	case errors.Is(err, corelockstep.ErrInputTooFarAhead):
		return "Input Too Far Ahead"
	case errors.Is(err, corelockstep.ErrFrameNotRetained):
		return "Frame Not Retained"
	default:
		return "Internal Error"
	}
}
