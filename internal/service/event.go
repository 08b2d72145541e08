package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"EventBoard/internal/model"
	"EventBoard/internal/repository"

	"github.com/sirupsen/logrus"
)

// 展示用哨兵值与状态枚举（沿用前端已有约定）
const (
	ValueTBD       = "TBD"
	LocationRemote = "Remote"

	StatusValidated = "validated" // 默认状态
	StatusFiltered  = "filtered"  // 缺开始日期
	StatusEnriched  = "enriched"  // 日期、地点齐全

	DefaultLimit = 100
)

// EventFilter 统一查询的过滤参数，空值或 "all" 表示不过滤
type EventFilter struct {
	Type     string // 精确匹配变体标签：hackathon / conference
	Location string // 大小写不敏感的子串匹配
	Status   string // 匹配派生状态，也可匹配 last_action
	Limit    int    // 结果上限，<=0 时取 DefaultLimit
}

// EnrichedEvent 事件 + 最新操作的只读投影，不落库
type EnrichedEvent struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Type       string     `json:"type"`
	Location   string     `json:"location"`
	StartDate  string     `json:"start_date"` // 原始字符串，缺失为 "TBD"
	EndDate    string     `json:"end_date"`
	URL        string     `json:"url"`
	Status     string     `json:"status"`
	LastAction *string    `json:"last_action"`
	ActionTime *time.Time `json:"action_time"`

	startTime *time.Time // 排序用解析结果，缺失或无法解析为 nil
}

// EventLister 统一查询契约。EventService 是真实现，
// FallbackEventService 在其外层做存储不可达时的降级
type EventLister interface {
	ListEvents(ctx context.Context, filter EventFilter) ([]*EnrichedEvent, error)
}

// EventService 统一事件查询服务（核心读路径）
type EventService struct {
	repo   repository.EventRepository
	logger *logrus.Logger
}

// NewEventService 创建 EventService
func NewEventService(repo repository.EventRepository, logger *logrus.Logger) *EventService {
	return &EventService{repo: repo, logger: logger}
}

// ListEvents 合并两类事件并叠加最新操作，按过滤条件返回有序结果。
// 读路径只有仓储层的一次数据库往返；过滤、排序、截断在内存中完成
func (s *EventService) ListEvents(ctx context.Context, filter EventFilter) ([]*EnrichedEvent, error) {
	rows, err := s.repo.ListUnifiedEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	events := make([]*EnrichedEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, s.enrich(row))
	}
	return applyFilter(events, filter), nil
}

// enrich 单行数据整形：补哨兵值、派生状态、容错解析日期。
// 字段级异常（无法解析的日期、未知的操作枚举）置空并记日志，不让整批失败
func (s *EventService) enrich(row *repository.UnifiedEventRow) *EnrichedEvent {
	title := row.Name
	if title == "" {
		title = "Untitled Event"
	}

	location := deref(row.Location)
	if location == "" {
		location = deref(row.City)
	}
	if location == "" {
		if row.Remote {
			location = LocationRemote
		} else {
			location = ValueTBD
		}
	}

	startDate := deref(row.StartDate)
	if startDate == "" {
		startDate = deref(row.Date) // 兼容旧字段
	}
	if startDate == "" {
		startDate = ValueTBD
	}
	endDate := deref(row.EndDate)
	if endDate == "" {
		endDate = ValueTBD
	}

	// 按数据完整度派生状态
	status := StatusValidated
	if startDate == ValueTBD {
		status = StatusFiltered
	} else if location != ValueTBD {
		status = StatusEnriched
	}

	ev := &EnrichedEvent{
		ID:         row.ID,
		Title:      title,
		Type:       row.EventType,
		Location:   location,
		StartDate:  startDate,
		EndDate:    endDate,
		URL:        row.URL,
		Status:     status,
		ActionTime: row.ActionTime,
	}

	if startDate != ValueTBD {
		if t, ok := parseEventDate(startDate); ok {
			ev.startTime = &t
		} else {
			s.logger.WithFields(logrus.Fields{
				"event_id":   row.ID,
				"event_type": row.EventType,
				"start_date": startDate,
			}).Warn("事件开始日期无法解析，按缺失处理")
		}
	}

	if row.LastAction != nil {
		if model.ValidActionKind(*row.LastAction) {
			ev.LastAction = row.LastAction
		} else {
			s.logger.WithFields(logrus.Fields{
				"event_id":   row.ID,
				"event_type": row.EventType,
				"action":     *row.LastAction,
			}).Warn("操作记录含未知操作类型，已忽略")
			ev.ActionTime = nil
		}
	}
	return ev
}

// applyFilter 残余过滤 + 排序 + 截断（核心服务与降级数据共用同一条路径）
func applyFilter(events []*EnrichedEvent, filter EventFilter) []*EnrichedEvent {
	out := make([]*EnrichedEvent, 0, len(events))
	for _, e := range events {
		if !filterActive(filter.Type) || strings.EqualFold(e.Type, filter.Type) {
			if matchLocation(e, filter.Location) && matchStatus(e, filter.Status) {
				out = append(out, e)
			}
		}
	}
	sortByStartDesc(out)

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// filterActive 空值与 "all" 均视为不过滤
func filterActive(value string) bool {
	return value != "" && !strings.EqualFold(value, "all")
}

func matchLocation(e *EnrichedEvent, filter string) bool {
	if !filterActive(filter) {
		return true
	}
	return strings.Contains(strings.ToLower(e.Location), strings.ToLower(filter))
}

func matchStatus(e *EnrichedEvent, filter string) bool {
	if !filterActive(filter) {
		return true
	}
	if strings.EqualFold(e.Status, filter) {
		return true
	}
	return e.LastAction != nil && strings.EqualFold(*e.LastAction, filter)
}

// sortByStartDesc 开始日期降序；日期缺失或无法解析的排在所有有效日期之后。
// 稳定排序保证同日期事件维持输入顺序
func sortByStartDesc(events []*EnrichedEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].startTime, events[j].startTime
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
