package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
	mysqlpkg "github.com/JoeShih716/go-k8s-lockstep-server/pkg/mysql"
)

// ensure interface compliance
var _ ports.MatchArchive = (*MatchRepository)(nil)

// matchRecord 對局紀錄的資料表模型
type matchRecord struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	RoomID     string    `gorm:"size:64;uniqueIndex"`
	Players    string    `gorm:"type:json"`
	StartTime  time.Time `gorm:"index"`
	EndTime    time.Time
	FinalFrame int64
	FinalHash  uint64
	Reason     string `gorm:"size:16"`
}

func (matchRecord) TableName() string {
	return "match_records"
}

// MatchRepository 實作 ports.MatchArchive
type MatchRepository struct {
	client *mysqlpkg.Client
}

// NewMatchRepository 建立 MySQL Repository
func NewMatchRepository(client *mysqlpkg.Client) *MatchRepository {
	return &MatchRepository{client: client}
}

// Migrate 建立 / 更新資料表
func (r *MatchRepository) Migrate(ctx context.Context) error {
	return r.client.DB().WithContext(ctx).AutoMigrate(&matchRecord{})
}

// Save 寫入一筆對局紀錄
func (r *MatchRepository) Save(ctx context.Context, record *domain.MatchRecord) error {
	row, err := toRow(record)
	if err != nil {
		return err
	}
	if err := r.client.DB().WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to save match %s: %w", record.RoomID, err)
	}
	return nil
}

func toRow(record *domain.MatchRecord) (*matchRecord, error) {
	players, err := json.Marshal(record.Players)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal players: %w", err)
	}
	return &matchRecord{
		RoomID:     record.RoomID,
		Players:    string(players),
		StartTime:  record.StartTime.UTC(),
		EndTime:    record.EndTime.UTC(),
		FinalFrame: record.FinalFrame,
		FinalHash:  record.FinalHash,
		Reason:     string(record.Reason),
	}, nil
}
