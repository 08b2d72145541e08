package repository

import (
	"context"
	"time"

	"EventBoard/internal/model"

	"gorm.io/gorm"
)

// UnifiedEventRow 合并读取的行视图：两张事件表打上变体标签后 UNION，
// 再左连接每个 (event_id, event_type) 的最新一条操作
type UnifiedEventRow struct {
	ID         string     `gorm:"column:id"`
	Name       string     `gorm:"column:name"`
	URL        string     `gorm:"column:url"`
	Location   *string    `gorm:"column:location"`
	City       *string    `gorm:"column:city"`
	Remote     bool       `gorm:"column:remote"`
	Date       *string    `gorm:"column:date"`
	StartDate  *string    `gorm:"column:start_date"`
	EndDate    *string    `gorm:"column:end_date"`
	EventType  string     `gorm:"column:event_type"`
	LastAction *string    `gorm:"column:last_action"`
	ActionTime *time.Time `gorm:"column:action_time"`
}

// TableStats 单张事件表的统计
type TableStats struct {
	Total     int64 `json:"total"`
	Remote    int64 `json:"remote"`
	InPerson  int64 `json:"in_person"`
	Recent24h int64 `json:"recent_24h"`
}

// EventRepository 统一事件读取仓储
type EventRepository interface {
	// ListUnifiedEvents 一次往返取出两张事件表的全部行并带上最新操作。
	// 过滤、排序、截断等残余逻辑在 service 层完成
	ListUnifiedEvents(ctx context.Context) ([]*UnifiedEventRow, error)
	// CountEvents 两张事件表的行数（健康检查用）
	CountEvents(ctx context.Context) (hackathons int64, conferences int64, err error)
	// StatsFor 指定变体的统计信息
	StatsFor(ctx context.Context, eventType model.EventType) (*TableStats, error)
	// Ping 存储可达性探测，独立于正常查询
	Ping(ctx context.Context) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository 创建 EventRepository 实例
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// unifiedEventsQuery 核心查询：原先的 N+1 模式（逐事件再查一次最新操作）被
// 一条 UNION ALL + DISTINCT ON 子查询左连接取代，整个读路径只有这一次数据库往返
const unifiedEventsQuery = `
SELECT e.id, e.name, e.url, e.location, e.city, e.remote,
       e.date, e.start_date, e.end_date, e.event_type,
       a.action AS last_action, a.timestamp AS action_time
FROM (
    SELECT id, name, url, location, city, remote, date, start_date, end_date,
           'hackathon' AS event_type
    FROM hackathons
    UNION ALL
    SELECT id, name, url, location, city, remote, date, start_date, end_date,
           'conference' AS event_type
    FROM conferences
) e
LEFT JOIN (
    SELECT DISTINCT ON (event_id, event_type)
           event_id, event_type, action, timestamp
    FROM event_actions
    ORDER BY event_id, event_type, timestamp DESC
) a ON a.event_id = e.id AND a.event_type = e.event_type
`

// ListUnifiedEvents 一次往返取出全部事件行及其最新操作
func (r *eventRepository) ListUnifiedEvents(ctx context.Context) ([]*UnifiedEventRow, error) {
	var rows []*UnifiedEventRow
	if err := r.db.WithContext(ctx).Raw(unifiedEventsQuery).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountEvents 两张事件表的行数
func (r *eventRepository) CountEvents(ctx context.Context) (int64, int64, error) {
	var hackathons, conferences int64
	if err := r.db.WithContext(ctx).Model(&model.Hackathon{}).Count(&hackathons).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Conference{}).Count(&conferences).Error; err != nil {
		return 0, 0, err
	}
	return hackathons, conferences, nil
}

// StatsFor 指定变体的统计信息（总数、远程/线下、近24小时新增）
func (r *eventRepository) StatsFor(ctx context.Context, eventType model.EventType) (*TableStats, error) {
	var target interface{}
	switch eventType {
	case model.EventTypeHackathon:
		target = &model.Hackathon{}
	case model.EventTypeConference:
		target = &model.Conference{}
	default:
		return &TableStats{}, nil
	}

	stats := &TableStats{}
	db := r.db.WithContext(ctx)
	if err := db.Model(target).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(target).Where("remote = ?", true).Count(&stats.Remote).Error; err != nil {
		return nil, err
	}
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	if err := db.Model(target).Where("created_at >= ?", yesterday).Count(&stats.Recent24h).Error; err != nil {
		return nil, err
	}
	stats.InPerson = stats.Total - stats.Remote
	return stats, nil
}

// Ping 存储可达性探测
func (r *eventRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
