package repository

import (
	"context"
	"errors"
	"time"

	"EventBoard/internal/model"

	"gorm.io/gorm"
)

// ActionStats 操作流水统计
type ActionStats struct {
	Total             int64 `json:"total"`
	ReachedOut        int64 `json:"reached_out"`
	Archive           int64 `json:"archive"`
	HackathonActions  int64 `json:"hackathon_actions"`
	ConferenceActions int64 `json:"conference_actions"`
	Recent24h         int64 `json:"recent_24h"`
}

// ActionRepository 事件操作流水仓储（只追加，不更新不删除）
type ActionRepository interface {
	// Append 追加一条操作记录
	Append(ctx context.Context, action *model.EventAction) error
	// Latest 取 (event_id, event_type) 最新一条操作，没有则返回 nil
	Latest(ctx context.Context, eventID string, eventType string) (*model.EventAction, error)
	// Stats 操作流水统计
	Stats(ctx context.Context) (*ActionStats, error)
}

type actionRepository struct {
	db *gorm.DB
}

// NewActionRepository 创建 ActionRepository 实例
func NewActionRepository(db *gorm.DB) ActionRepository {
	return &actionRepository{db: db}
}

// Append 追加一条操作记录（单条写入，调用方视角下原子）
func (r *actionRepository) Append(ctx context.Context, action *model.EventAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// Latest 取最新一条操作。时间戳相同时由数据库任取一条（现实中毫秒级时间戳几乎不重复）
func (r *actionRepository) Latest(ctx context.Context, eventID string, eventType string) (*model.EventAction, error) {
	var action model.EventAction
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND event_type = ?", eventID, eventType).
		Order("timestamp DESC").
		First(&action).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &action, nil
}

// Stats 操作流水统计（按操作类型、事件类型、近24小时）
func (r *actionRepository) Stats(ctx context.Context) (*ActionStats, error) {
	stats := &ActionStats{}
	db := r.db.WithContext(ctx).Model(&model.EventAction{})

	if err := db.Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	counts := []struct {
		where string
		value interface{}
		dst   *int64
	}{
		{"action = ?", string(model.ActionReachedOut), &stats.ReachedOut},
		{"action = ?", string(model.ActionArchive), &stats.Archive},
		{"event_type = ?", string(model.EventTypeHackathon), &stats.HackathonActions},
		{"event_type = ?", string(model.EventTypeConference), &stats.ConferenceActions},
		{"timestamp >= ?", time.Now().UTC().Add(-24 * time.Hour), &stats.Recent24h},
	}
	for _, c := range counts {
		if err := r.db.WithContext(ctx).Model(&model.EventAction{}).
			Where(c.where, c.value).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}
