package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-lockstep-server/pkg/redis"
)

//go:generate mockgen -destination=../../../../test/mocks/infrastructure/directory/redis/mock_store.go -package=mock_redis github.com/JoeShih716/go-k8s-lockstep-server/internal/infrastructure/directory/redis Store

const (
	// Key Pattern: lockstep:room:{RoomID} -> RoomEntry (JSON)
	KeyRoom = "lockstep:room:%s"

	DefaultTTL = 10 * time.Second
)

// Store Directory 需要的 Redis 操作 (*redis.Client 即滿足)
type Store interface {
	SetStruct(ctx context.Context, key string, value any, expiration ...time.Duration) error
	GetStruct(ctx context.Context, key string, dest any) error
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

var _ Store = (*redis.Client)(nil)

// Directory 以 Redis 記錄每個房間由哪個 Pod 承載。
// 每筆登記帶 TTL，由 Room Manager 的心跳續約；Pod 掛掉時自然過期。
type Directory struct {
	rds Store
	ttl time.Duration
}

var _ ports.RoomDirectory = (*Directory)(nil)

// NewDirectory ttl <= 0 時使用 DefaultTTL
func NewDirectory(rds Store, ttl time.Duration) *Directory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Directory{rds: rds, ttl: ttl}
}

// Register 登記 (或覆寫) 房間位置
func (d *Directory) Register(ctx context.Context, entry *domain.RoomEntry) error {
	if err := d.rds.SetStruct(ctx, key(entry.RoomID), entry, d.ttl); err != nil {
		return fmt.Errorf("failed to register room %s: %w", entry.RoomID, err)
	}
	return nil
}

// Heartbeat 續約；登記已過期時回傳 ErrDirectoryEntryMissing 讓呼叫端重新登記
func (d *Directory) Heartbeat(ctx context.Context, roomID string) error {
	ok, err := d.rds.Expire(ctx, key(roomID), d.ttl)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ports.ErrDirectoryEntryMissing, roomID)
	}
	return nil
}

// Deregister 移除登記 (不存在視為成功)
func (d *Directory) Deregister(ctx context.Context, roomID string) error {
	return d.rds.Del(ctx, key(roomID))
}

// Lookup 查詢房間位置，找不到時回傳 ports.ErrRoomNotFound
func (d *Directory) Lookup(ctx context.Context, roomID string) (*domain.RoomEntry, error) {
	var entry domain.RoomEntry
	err := d.rds.GetStruct(ctx, key(roomID), &entry)
	if errors.Is(err, redis.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ports.ErrRoomNotFound, roomID)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func key(roomID string) string {
	return fmt.Sprintf(KeyRoom, roomID)
}
