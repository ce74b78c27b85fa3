package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/config"
)

// DefaultShutdownTimeout stop 階段的預設期限
const DefaultShutdownTimeout = 10 * time.Second

// App 封裝了應用程式的基礎組件
type App struct {
	Name   string
	Config *config.Config
	Logger *slog.Logger

	// ShutdownTimeout 傳給 stop 的 context 期限
	ShutdownTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp 建立一個新的應用程式實例
//
// 1. 載入 Config (config.yaml + Env Override + Validate)，失敗直接結束程序
// 2. 依 app.env 選擇 Logger 格式並設為 Default
func NewApp(appName string, configDir ...string) *App {
	cfg, err := config.Load(configDir...)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := NewLogger(cfg.App.Env, os.Stdout).With("app", appName)
	slog.SetDefault(logger)
	return newApp(appName, cfg, logger)
}

func newApp(name string, cfg *config.Config, logger *slog.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Name:            name,
		Config:          cfg,
		Logger:          logger,
		ShutdownTimeout: DefaultShutdownTimeout,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// NewLogger Production -> JSON (Structured Logging)，其他 -> Text (Readable, Debug 等級)
func NewLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case "production", "prod":
		return slog.New(slog.NewJSONHandler(w, nil))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// Context 在關機開始時取消 (信號、Shutdown 或 start 結束)
func (a *App) Context() context.Context {
	return a.ctx
}

// Shutdown 主動觸發關機流程，效果等同收到 SIGTERM
func (a *App) Shutdown() {
	a.cancel()
}

// Run 在背景執行 start，阻塞直到以下任一發生:
//   - 收到 SIGINT / SIGTERM
//   - Shutdown 被呼叫
//   - start 回傳 (不論成功與否)
//
// 接著取消 Context 並以 ShutdownTimeout 為期限呼叫 stop。
// 回傳 start 的錯誤與 stop 的錯誤 (errors.Join)。
func (a *App) Run(start func(ctx context.Context) error, stop func(ctx context.Context) error) error {
	sigCtx, stopSignals := signal.NotifyContext(a.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	a.Logger.Info("Starting service", "env", a.Config.App.Env)
	started := make(chan error, 1)
	go func() { started <- start(sigCtx) }()

	var runErr error
	select {
	case <-sigCtx.Done():
		a.Logger.Info("Shutting down service...")
	case err := <-started:
		if err != nil {
			a.Logger.Error("Service stopped unexpectedly", "error", err)
			runErr = err
		} else {
			a.Logger.Info("Service finished, shutting down")
		}
	}
	a.cancel()

	if stop != nil {
		timeout := a.ShutdownTimeout
		if timeout <= 0 {
			timeout = DefaultShutdownTimeout
		}
		stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := stop(stopCtx); err != nil {
			a.Logger.Warn("Cleanup incomplete", "error", err)
			runErr = errors.Join(runErr, err)
		}
	}

	a.Logger.Info("Service exited")
	return runErr
}
