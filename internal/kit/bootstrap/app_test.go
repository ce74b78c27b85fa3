package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/config"
)

func TestNewLogger_ProdIsJSON(t *testing.T) {
	var buf bytes.Buffer
	NewLogger("prod", &buf).Info("Room created", "room_id", "r1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Room created", line["msg"])
	assert.Equal(t, "r1", line["room_id"])
}

func TestNewLogger_LocalIsTextWithDebug(t *testing.T) {
	var buf bytes.Buffer
	NewLogger("local", &buf).Debug("Input dropped", "frame", 3)

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "frame=3")
}

func testApp() *App {
	return newApp("test", &config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestApp_Run_Shutdown(t *testing.T) {
	app := testApp()

	var stopped bool
	go func() {
		time.Sleep(10 * time.Millisecond)
		app.Shutdown()
	}()
	err := app.Run(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}, func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		stopped = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, stopped)
	assert.Error(t, app.Context().Err())
}

func TestApp_Run_StartFailure(t *testing.T) {
	app := testApp()
	boom := errors.New("listen failed")

	var stopped bool
	err := app.Run(func(context.Context) error {
		return boom
	}, func(context.Context) error {
		stopped = true
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.True(t, stopped, "cleanup runs even when start fails")
	assert.Error(t, app.Context().Err())
}

func TestApp_Run_StopErrorJoined(t *testing.T) {
	app := testApp()
	app.ShutdownTimeout = 50 * time.Millisecond
	slow := errors.New("manager stop timeout")

	err := app.Run(func(context.Context) error {
		return nil
	}, func(ctx context.Context) error {
		<-ctx.Done()
		return slow
	})

	assert.ErrorIs(t, err, slow)
}
