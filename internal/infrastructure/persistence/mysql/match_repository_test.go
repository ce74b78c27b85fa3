package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	mysqlpkg "github.com/JoeShih716/go-k8s-lockstep-server/pkg/mysql"
)

func sampleRecord() *domain.MatchRecord {
	start := time.Unix(1700000000, 0)
	return &domain.MatchRecord{
		RoomID:     "room-1",
		Players:    []domain.PlayerID{"p1", "p2"},
		StartTime:  start,
		EndTime:    start.Add(time.Minute),
		FinalFrame: 1200,
		FinalHash:  0xdeadbeef,
		Reason:     domain.EndReasonAllLeft,
	}
}

func TestToRow(t *testing.T) {
	row, err := toRow(sampleRecord())
	require.NoError(t, err)

	assert.Equal(t, "room-1", row.RoomID)
	assert.JSONEq(t, `["p1","p2"]`, row.Players)
	assert.Equal(t, int64(1200), row.FinalFrame)
	assert.Equal(t, uint64(0xdeadbeef), row.FinalHash)
	assert.Equal(t, "all_left", row.Reason)
	assert.Equal(t, time.UTC, row.StartTime.Location())
	assert.Equal(t, time.Minute, row.EndTime.Sub(row.StartTime))
}

func TestMatchRepository_SaveBuildsInsert(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/lockstep?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	repo := NewMatchRepository(mysqlpkg.NewClientFromDB(db))
	require.NoError(t, repo.Save(context.Background(), sampleRecord()))

	stmt := db.Session(&gorm.Session{DryRun: true}).Create(&matchRecord{RoomID: "room-1"}).Statement
	assert.Contains(t, stmt.SQL.String(), "INSERT INTO `match_records`")
}
