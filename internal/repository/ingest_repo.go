package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"EventBoard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaveCounts 批量入库结果统计
type SaveCounts struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// IngestRepository 爬虫数据入库仓储。URL 为业务唯一键：
// 非更新模式下已存在的 URL 跳过，更新模式下按 URL 覆盖描述性字段
type IngestRepository interface {
	SaveHackathons(ctx context.Context, events []*model.Hackathon, update bool) (*SaveCounts, error)
	SaveConferences(ctx context.Context, events []*model.Conference, update bool) (*SaveCounts, error)
	SaveCollectedURLs(ctx context.Context, urls []*model.CollectedURL) (*SaveCounts, error)
}

type ingestRepository struct {
	db *gorm.DB
}

// NewIngestRepository 创建 IngestRepository 实例
func NewIngestRepository(db *gorm.DB) IngestRepository {
	return &ingestRepository{db: db}
}

// SaveHackathons 批量保存黑客松（单事务，任一行失败整体回滚）
func (r *ingestRepository) SaveHackathons(ctx context.Context, events []*model.Hackathon, update bool) (*SaveCounts, error) {
	counts := &SaveCounts{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ev := range events {
			if ev.ID == "" {
				ev.ID = uuid.NewString() // 生成全局唯一ID
			}
			var existing int64
			if err := tx.Model(&model.Hackathon{}).Where("url = ?", ev.URL).Count(&existing).Error; err != nil {
				return fmt.Errorf("查询已存在URL失败: %w", err)
			}
			if existing > 0 {
				if !update {
					counts.Skipped++
					continue
				}
				if err := tx.Model(&model.Hackathon{}).Where("url = ?", ev.URL).
					Updates(hackathonUpdates(ev)).Error; err != nil {
					return fmt.Errorf("更新事件失败: %w, url: %s", err, ev.URL)
				}
				counts.Updated++
				continue
			}
			if err := tx.Create(ev).Error; err != nil {
				return fmt.Errorf("保存事件失败: %w, name: %s", err, ev.Name)
			}
			counts.Inserted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// SaveConferences 批量保存会议（单事务，任一行失败整体回滚）
func (r *ingestRepository) SaveConferences(ctx context.Context, events []*model.Conference, update bool) (*SaveCounts, error) {
	counts := &SaveCounts{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ev := range events {
			if ev.ID == "" {
				ev.ID = uuid.NewString()
			}
			var existing int64
			if err := tx.Model(&model.Conference{}).Where("url = ?", ev.URL).Count(&existing).Error; err != nil {
				return fmt.Errorf("查询已存在URL失败: %w", err)
			}
			if existing > 0 {
				if !update {
					counts.Skipped++
					continue
				}
				if err := tx.Model(&model.Conference{}).Where("url = ?", ev.URL).
					Updates(conferenceUpdates(ev)).Error; err != nil {
					return fmt.Errorf("更新事件失败: %w, url: %s", err, ev.URL)
				}
				counts.Updated++
				continue
			}
			if err := tx.Create(ev).Error; err != nil {
				return fmt.Errorf("保存事件失败: %w, name: %s", err, ev.Name)
			}
			counts.Inserted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// SaveCollectedURLs 保存收集到的 URL；已存在且带新元数据时刷新元数据与收集时间
func (r *ingestRepository) SaveCollectedURLs(ctx context.Context, urls []*model.CollectedURL) (*SaveCounts, error) {
	counts := &SaveCounts{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range urls {
			var existing model.CollectedURL
			err := tx.Where("url = ?", u.URL).First(&existing).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("查询URL失败: %w", err)
			}
			if err == nil {
				if len(u.URLMetadata) > 0 && string(u.URLMetadata) != string(existing.URLMetadata) {
					if err := tx.Model(&model.CollectedURL{}).Where("url = ?", u.URL).
						Updates(map[string]interface{}{
							"url_metadata":        u.URLMetadata,
							"timestamp_collected": time.Now().UTC(),
						}).Error; err != nil {
						return fmt.Errorf("更新URL元数据失败: %w, url: %s", err, u.URL)
					}
					counts.Updated++
				} else {
					counts.Skipped++
				}
				continue
			}
			if u.TimestampCollected.IsZero() {
				u.TimestampCollected = time.Now().UTC()
			}
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("保存URL失败: %w, url: %s", err, u.URL)
			}
			counts.Inserted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// hackathonUpdates URL 冲突时允许覆盖的字段（id、url、created_at 不动）
func hackathonUpdates(ev *model.Hackathon) map[string]interface{} {
	return map[string]interface{}{
		"name":              ev.Name,
		"date":              ev.Date,
		"start_date":        ev.StartDate,
		"end_date":          ev.EndDate,
		"location":          ev.Location,
		"city":              ev.City,
		"remote":            ev.Remote,
		"description":       ev.Description,
		"short_description": ev.ShortDescription,
		"speakers":          ev.Speakers,
		"sponsors":          ev.Sponsors,
		"ticket_price":      ev.TicketPrice,
		"is_paid":           ev.IsPaid,
		"themes":            ev.Themes,
		"source":            ev.Source,
	}
}

func conferenceUpdates(ev *model.Conference) map[string]interface{} {
	updates := map[string]interface{}{
		"name":              ev.Name,
		"date":              ev.Date,
		"start_date":        ev.StartDate,
		"end_date":          ev.EndDate,
		"location":          ev.Location,
		"city":              ev.City,
		"remote":            ev.Remote,
		"description":       ev.Description,
		"short_description": ev.ShortDescription,
		"speakers":          ev.Speakers,
		"sponsors":          ev.Sponsors,
		"ticket_price":      ev.TicketPrice,
		"is_paid":           ev.IsPaid,
		"themes":            ev.Themes,
		"source":            ev.Source,
	}
	if ev.RegistrationURL != nil {
		updates["registration_url"] = ev.RegistrationURL
	}
	if ev.RegistrationDeadline != nil {
		updates["registration_deadline"] = ev.RegistrationDeadline
	}
	return updates
}
