package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/admin"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/applications/lockstep"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/applications/lockstep/manager"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/applications/lockstep/session"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/config"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/room"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/infrastructure/broadcast"
	directory "github.com/JoeShih716/go-k8s-lockstep-server/internal/infrastructure/directory/redis"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/infrastructure/persistence/mysql"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/kit/bootstrap"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/simulation/kinematics"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/transport/rpc"
	mysqlpkg "github.com/JoeShih716/go-k8s-lockstep-server/pkg/mysql"
	"github.com/JoeShih716/go-k8s-lockstep-server/pkg/redis"
	"github.com/JoeShih716/go-k8s-lockstep-server/pkg/wss"
)

func main() {
	// 1. 基礎組件 (Logger + Config)
	app := bootstrap.NewApp("lockstep")
	cfg := app.Config
	logger := app.Logger
	ctx := app.Context()

	endpoint := advertiseEndpoint(cfg.App)
	sessions := session.NewManager()
	local := broadcast.NewLocal(sessions, logger)

	var (
		out       ports.Broadcaster = local
		roomDir   ports.RoomDirectory
		relay     *broadcast.Relay
		redisOut  *broadcast.Redis
		rds       *redis.Client
		db        *mysqlpkg.Client
		mgrOption []manager.Option
	)
	mgrOption = append(mgrOption, manager.WithLogger(logger))

	// 2. Redis (Room Directory + 跨 Pod 推播)，未設定時單機運行
	if cfg.Redis.Addr != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := redis.NewClient(dialCtx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cancel()
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		rds = client
		roomDir = directory.NewDirectory(rds, cfg.Lockstep.DirectoryTTL())
		mgrOption = append(mgrOption, manager.WithDirectory(roomDir, endpoint))

		if cfg.Lockstep.Broadcast == config.BroadcastRedis {
			redisOut = broadcast.NewRedis(rds, broadcast.DefaultQueueSize, logger)
			out = redisOut
			relay = broadcast.NewRelay(rds, local, logger)
		}
	}

	// 3. MySQL (對局紀錄)，未設定時不寫入
	if cfg.MySQL.Host != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := mysqlpkg.NewClient(dialCtx, mysqlpkg.Config{
			Host:     cfg.MySQL.Host,
			Port:     cfg.MySQL.Port,
			User:     cfg.MySQL.User,
			Password: cfg.MySQL.Password,
			Database: cfg.MySQL.DBName,
		})
		cancel()
		if err != nil {
			logger.Error("Failed to connect to MySQL", "error", err)
			os.Exit(1)
		}
		db = client
		repo := mysql.NewMatchRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			logger.Error("Failed to migrate match table", "error", err)
			os.Exit(1)
		}
		mgrOption = append(mgrOption, manager.WithArchive(repo))
	}

	// 4. Room Manager
	mgr := manager.NewManager(managerConfig(cfg.Lockstep), kinematics.NewFactory(kinematics.DefaultConfig()), out, mgrOption...)

	// 5. WebSocket Gateway
	wsServer := wss.NewServer(ctx, &wss.Config{
		AllowedOrigins:  cfg.WSS.AllowedOrigins,
		ReadBufferSize:  cfg.WSS.ReadBufferSize,
		WriteBufferSize: cfg.WSS.WriteBufferSize,
		WriteWait:       time.Duration(cfg.WSS.WriteWaitSec) * time.Second,
		PongWait:        time.Duration(cfg.WSS.PongWaitSec) * time.Second,
		MaxMessageSize:  cfg.WSS.MaxMessageSize,
		SendBufferSize:  wss.DefaultConfig().SendBufferSize,
		MaxConnections:  cfg.WSS.MaxConnections,
	}, logger)
	wsServer.Register(lockstep.NewWebsocketHandler(mgr, sessions, roomDir, lockstep.Config{
		JoinTimeout:    time.Duration(cfg.WSS.JoinTimeoutSec) * time.Second,
		RequestTimeout: 2 * time.Second,
		InputRate:      cfg.Lockstep.InputRate,
		InputBurst:     cfg.Lockstep.InputBurst,
	}, logger))

	// 6. HTTP (Admin API + /ws)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           admin.NewRouter(admin.NewHandler(mgr, logger), wsServer, cfg.WSS.Path),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 7. gRPC (RoomRPC)
	grpcServer := grpc.NewServer(
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	)
	rpc.RegisterRoomRPCServer(grpcServer, rpc.NewServer(mgr, logger))
	reflection.Register(grpcServer)

	// 8. 執行
	err := app.Run(func(ctx context.Context) error {
		if relay != nil {
			if err := relay.Start(ctx); err != nil {
				return err
			}
		}
		if redisOut != nil {
			go redisOut.Run(ctx)
		}
		go mgr.Start(ctx)

		if cfg.App.GrpcPort > 0 {
			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.App.GrpcPort))
			if err != nil {
				return fmt.Errorf("failed to listen: %w", err)
			}
			go func() {
				if err := grpcServer.Serve(lis); err != nil {
					logger.Error("gRPC server stopped", "error", err)
				}
			}()
			logger.Info("RoomRPC listening", "port", cfg.App.GrpcPort)
		}

		logger.Info("Lockstep Service listening", "port", cfg.App.Port, "ws_path", cfg.WSS.Path, "endpoint", endpoint, "broadcast", cfg.Lockstep.Broadcast)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(ctx context.Context) error {
		// 先停對外入口，再結束房間 (房間結束時仍需 Redis / MySQL)
		errs := []error{httpServer.Shutdown(ctx)}
		grpcServer.GracefulStop()
		errs = append(errs, mgr.Stop(ctx))
		if rds != nil {
			errs = append(errs, rds.Close())
		}
		if db != nil {
			errs = append(errs, db.Close())
		}
		return errors.Join(errs...)
	})
	if err != nil {
		os.Exit(1)
	}
}

func managerConfig(c config.LockstepConfig) manager.Config {
	cfg := manager.DefaultConfig()
	cfg.Room = room.Config{
		TickInterval: c.TickInterval(),
		MatchSize:    c.MatchSize,
		Retention:    c.RetentionFrames,
		Lookahead:    c.LookaheadFrames,
	}
	cfg.MailboxSize = c.MailboxSize
	cfg.PollInterval = c.PollInterval()
	cfg.MaxCatchUp = c.MaxCatchUp
	if ttl := c.DirectoryTTL(); ttl > 0 {
		cfg.HeartbeatInterval = ttl / 3
	}
	return cfg
}

// advertiseEndpoint 其他 Pod 用來找到本機 RoomRPC 的位址
func advertiseEndpoint(c config.AppConfig) string {
	host := c.PodIP
	if host == "" {
		host, _ = os.Hostname()
	}
	return fmt.Sprintf("%s:%d", host, c.GrpcPort)
}
