package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
)

// Handler 管理 / 診斷用的 HTTP API
type Handler struct {
	svc    ports.RoomService
	logger *slog.Logger
}

// NewHandler 建立 Admin Handler
func NewHandler(svc ports.RoomService, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "admin"),
	}
}

type createRoomReq struct {
	Players []domain.PlayerID `json:"players" binding:"required,min=1"`
}

// DefaultWSPath WebSocket 預設掛載路徑
const DefaultWSPath = "/ws"

// NewRouter 建立 gin Engine；ws 不為 nil 時掛在 wsPath (空字串使用 DefaultWSPath)
func NewRouter(h *Handler, ws http.Handler, wsPath string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	rooms := r.Group("/rooms")
	rooms.GET("", h.ListRooms)
	rooms.POST("", h.CreateRoom)
	rooms.GET("/:id", h.GetRoom)
	rooms.DELETE("/:id", h.DestroyRoom)

	if ws != nil {
		if wsPath == "" {
			wsPath = DefaultWSPath
		}
		r.GET(wsPath, gin.WrapH(ws))
	}
	return r
}

// ListRooms GET /rooms
func (h *Handler) ListRooms(ctx *gin.Context) {
	rooms, err := h.svc.ListRooms(ctx.Request.Context())
	if err != nil {
		h.abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoom GET /rooms/:id
func (h *Handler) GetRoom(ctx *gin.Context) {
	info, err := h.svc.RoomSummary(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		h.abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, info)
}

// CreateRoom POST /rooms {"players": [...]}
func (h *Handler) CreateRoom(ctx *gin.Context) {
	var req createRoomReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-body"})
		return
	}
	id, err := h.svc.CreateRoom(ctx.Request.Context(), req.Players)
	if err != nil {
		h.abort(ctx, err)
		return
	}
	h.logger.Info("Room created via admin", "room_id", id, "players", req.Players)
	ctx.JSON(http.StatusCreated, gin.H{"room_id": id})
}

// DestroyRoom DELETE /rooms/:id
func (h *Handler) DestroyRoom(ctx *gin.Context) {
	if err := h.svc.DestroyRoom(ctx.Request.Context(), ctx.Param("id")); err != nil {
		h.abort(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *Handler) abort(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ports.ErrRoomNotFound):
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "room-not-found"})
	case errors.Is(err, ports.ErrInvalidParticipants):
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-participants"})
	case errors.Is(err, ports.ErrRoomClosed):
		ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "room-closed"})
	default:
		h.logger.Error("Admin request failed", "path", ctx.FullPath(), "error", err)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
	}
}
