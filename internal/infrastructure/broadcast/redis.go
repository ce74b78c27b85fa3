package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/applications/lockstep/protocol"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-lockstep-server/pkg/redis"
)

//go:generate mockgen -destination=../../../test/mocks/infrastructure/broadcast/mock_publisher.go -package=mock_broadcast github.com/JoeShih716/go-k8s-lockstep-server/internal/infrastructure/broadcast Publisher
//go:generate mockgen -destination=../../../test/mocks/infrastructure/broadcast/mock_subscriber.go -package=mock_broadcast github.com/JoeShih716/go-k8s-lockstep-server/internal/infrastructure/broadcast Subscriber

// Channel 跨 Pod 推播使用的 Redis 頻道
const Channel = "lockstep:outbound"

const (
	// DefaultQueueSize 待發布佇列長度，滿了就丟棄
	DefaultQueueSize = 1024
	// PublishTimeout 單次 PUBLISH 的期限
	PublishTimeout = 500 * time.Millisecond
)

// Publisher Redis 發布端 (*redis.Client 即滿足)
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) error
}

// Subscriber Redis 訂閱端 (*redis.Client 即滿足)
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler redis.MessageHandler) error
}

var (
	_ Publisher  = (*redis.Client)(nil)
	_ Subscriber = (*redis.Client)(nil)
)

// envelope 頻道上傳遞的封包：收件者 + 已序列化好的客戶端訊息
type envelope struct {
	To   []domain.PlayerID `json:"to"`
	Body string            `json:"body"`
}

// Redis 把所有推播發布到 Redis，由每個 Pod 上的 Relay 送到本機 Session。
// 玩家的 WebSocket 與房間不在同一個 Pod 時使用。
//
// 推播方法只把封包放進佇列就返回，實際的 PUBLISH 由 Run 的單一 goroutine 執行，
// 房間的 Tick 不會等待 Redis。
type Redis struct {
	pub     Publisher
	channel string
	queue   chan []byte
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.Broadcaster = (*Redis)(nil)

// NewRedis 建立 Redis 廣播器，需另外以 Run 啟動發布迴圈
func NewRedis(pub Publisher, queueSize int, logger *slog.Logger) *Redis {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Redis{
		pub:     pub,
		channel: Channel,
		queue:   make(chan []byte, queueSize),
		timeout: PublishTimeout,
		logger:  logger.With("component", "broadcast_redis"),
	}
}

// Run 逐筆發布佇列中的封包 (阻塞直到 ctx 結束)
func (r *Redis) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-r.queue:
			pubCtx, cancel := context.WithTimeout(ctx, r.timeout)
			err := r.pub.Publish(pubCtx, r.channel, data)
			cancel()
			if err != nil {
				r.logger.Warn("Failed to publish", "error", err)
			}
		}
	}
}

func (r *Redis) BroadcastFrame(ctx context.Context, to []domain.PlayerID, msg *domain.FrameMessage) {
	r.publish(ctx, to, protocol.PushFrame, msg)
}

func (r *Redis) PushSnapshot(ctx context.Context, to domain.PlayerID, msg *domain.SnapshotMessage) {
	r.publish(ctx, []domain.PlayerID{to}, protocol.PushSnapshot, msg)
}

func (r *Redis) PushStart(ctx context.Context, to []domain.PlayerID, msg *domain.StartMessage) {
	r.publish(ctx, to, protocol.PushStart, msg)
}

func (r *Redis) PushAdjustTime(ctx context.Context, to domain.PlayerID, msg *domain.AdjustTimeMessage) {
	r.publish(ctx, []domain.PlayerID{to}, protocol.PushAdjustTime, msg)
}

func (r *Redis) publish(_ context.Context, to []domain.PlayerID, action protocol.Action, msg any) {
	if len(to) == 0 {
		return
	}
	data, err := json.Marshal(envelope{To: to, Body: protocol.Marshal(action, msg, "")})
	if err != nil {
		r.logger.Error("Failed to marshal envelope", "action", action, "error", err)
		return
	}
	select {
	case r.queue <- data:
	default:
		r.logger.Warn("Outbound queue full, message dropped", "action", action, "recipients", len(to))
	}
}

// Relay 訂閱 Redis 頻道並把訊息送給本機 Session
type Relay struct {
	sub    Subscriber
	local  *Local
	logger *slog.Logger
}

// NewRelay 建立轉送器
func NewRelay(sub Subscriber, local *Local, logger *slog.Logger) *Relay {
	return &Relay{
		sub:    sub,
		local:  local,
		logger: logger.With("component", "broadcast_relay"),
	}
}

// Start 開始訂閱 (非阻塞)，ctx 結束時取消訂閱
func (r *Relay) Start(ctx context.Context) error {
	if err := r.sub.Subscribe(ctx, Channel, r.handle); err != nil {
		return fmt.Errorf("failed to subscribe %s: %w", Channel, err)
	}
	r.logger.Info("Relay subscribed", "channel", Channel)
	return nil
}

func (r *Relay) handle(payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		r.logger.Warn("Malformed envelope", "error", err)
		return
	}
	r.local.Deliver(env.To, env.Body)
}
