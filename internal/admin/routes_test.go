package admin

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
	mock_ports "github.com/JoeShih716/go-k8s-lockstep-server/test/mocks/core/ports"
)

func newRouter(t *testing.T, ws http.Handler, wsPath ...string) (*mock_ports.MockRoomService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := mock_ports.NewMockRoomService(ctrl)
	path := ""
	if len(wsPath) > 0 {
		path = wsPath[0]
	}
	return svc, NewRouter(NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))), ws, path)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdmin_Healthz(t *testing.T) {
	_, r := newRouter(t, nil)
	w := do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", w.Body.String())
}

func TestAdmin_ListAndGet(t *testing.T) {
	svc, r := newRouter(t, nil)
	summary := domain.RoomSummary{RoomID: "room-1", Status: domain.RoomStatusTicking, AuthoritativeFrame: 42}
	svc.EXPECT().ListRooms(gomock.Any()).Return([]domain.RoomSummary{summary}, nil)
	svc.EXPECT().RoomSummary(gomock.Any(), "room-1").Return(&summary, nil)
	svc.EXPECT().RoomSummary(gomock.Any(), "nope").Return(nil, ports.ErrRoomNotFound)

	w := do(r, http.MethodGet, "/rooms", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Rooms []domain.RoomSummary `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Rooms, 1)
	assert.Equal(t, int64(42), list.Rooms[0].AuthoritativeFrame)

	w = do(r, http.MethodGet, "/rooms/room-1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/rooms/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"room-not-found"}`, w.Body.String())
}

func TestAdmin_CreateRoom(t *testing.T) {
	svc, r := newRouter(t, nil)
	svc.EXPECT().CreateRoom(gomock.Any(), []domain.PlayerID{"p1", "p2"}).Return("room-1", nil)
	svc.EXPECT().CreateRoom(gomock.Any(), []domain.PlayerID{"p1", "p1"}).Return("", ports.ErrInvalidParticipants)

	w := do(r, http.MethodPost, "/rooms", `{"players":["p1","p2"]}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"room_id":"room-1"}`, w.Body.String())

	w = do(r, http.MethodPost, "/rooms", `{"players":["p1","p1"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/rooms", `{"players":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid-body"}`, w.Body.String())
}

func TestAdmin_DestroyRoom(t *testing.T) {
	svc, r := newRouter(t, nil)
	svc.EXPECT().DestroyRoom(gomock.Any(), "room-1").Return(nil)
	svc.EXPECT().DestroyRoom(gomock.Any(), "room-2").Return(ports.ErrRoomClosed)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/rooms/room-1", "").Code)
	assert.Equal(t, http.StatusConflict, do(r, http.MethodDelete, "/rooms/room-2", "").Code)
}

func TestAdmin_WebsocketMount(t *testing.T) {
	ws := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	_, r := newRouter(t, ws)
	assert.Equal(t, http.StatusTeapot, do(r, http.MethodGet, "/ws", "").Code)

	_, r = newRouter(t, ws, "/play")
	assert.Equal(t, http.StatusTeapot, do(r, http.MethodGet, "/play", "").Code)

	_, r = newRouter(t, nil)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/ws", "").Code)
}
