package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"EventBoard/internal/model"
	"EventBoard/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// RawEvent 爬虫侧传来的原始事件（字段名与类型都不保证规范）
type RawEvent map[string]interface{}

// ImportResult 批量导入结果
type ImportResult struct {
	Table string `json:"table"`
	repository.SaveCounts
}

// IngestService 爬虫数据入库服务：规范化原始事件后批量落库，
// 并把 URL 登记进 collected_urls 追踪表
type IngestService struct {
	repo   repository.IngestRepository
	logger *logrus.Logger
}

// NewIngestService 创建 IngestService
func NewIngestService(repo repository.IngestRepository, logger *logrus.Logger) *IngestService {
	return &IngestService{repo: repo, logger: logger}
}

// Import 规范化并保存一批事件。单条规范化失败只计入 Errors 不中断整批；
// update=true 时按 URL 冲突覆盖描述性字段，否则跳过已存在的 URL
func (s *IngestService) Import(ctx context.Context, table string, raw []RawEvent, update bool) (*ImportResult, error) {
	var sourceType model.EventType
	switch table {
	case "hackathons":
		sourceType = model.EventTypeHackathon
	case "conferences":
		sourceType = model.EventTypeConference
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	result := &ImportResult{Table: table}
	normalized := make([]*normalizedEvent, 0, len(raw))
	for _, ev := range raw {
		n, err := normalizeRawEvent(ev)
		if err != nil {
			s.logger.WithError(err).Warn("事件规范化失败，跳过该条")
			result.Errors++
			continue
		}
		normalized = append(normalized, n)
	}

	var counts *repository.SaveCounts
	var err error
	if sourceType == model.EventTypeHackathon {
		events := make([]*model.Hackathon, 0, len(normalized))
		for _, n := range normalized {
			events = append(events, n.toHackathon())
		}
		counts, err = s.repo.SaveHackathons(ctx, events, update)
	} else {
		events := make([]*model.Conference, 0, len(normalized))
		for _, n := range normalized {
			events = append(events, n.toConference())
		}
		counts, err = s.repo.SaveConferences(ctx, events, update)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	result.Inserted = counts.Inserted
	result.Updated = counts.Updated
	result.Skipped = counts.Skipped

	// URL 登记失败不影响事件入库结果，记日志即可
	urls := make([]*model.CollectedURL, 0, len(normalized))
	for _, n := range normalized {
		urls = append(urls, n.toCollectedURL(string(sourceType)))
	}
	if _, err := s.repo.SaveCollectedURLs(ctx, urls); err != nil {
		s.logger.WithError(err).Warn("collected_urls 登记失败")
	}

	s.logger.WithFields(logrus.Fields{
		"table":    table,
		"inserted": result.Inserted,
		"updated":  result.Updated,
		"skipped":  result.Skipped,
		"errors":   result.Errors,
	}).Info("批量导入完成")
	return result, nil
}

// normalizedEvent 规范化后的中间结构，两个变体共用
type normalizedEvent struct {
	Name             string
	URL              string
	Date             *string
	StartDate        *string
	EndDate          *string
	Location         *string
	City             *string
	Remote           bool
	Description      *string
	ShortDescription *string
	Speakers         []string
	Sponsors         []string
	Themes           []string
	TicketPrice      interface{}
	IsPaid           bool
	Source           *string
}

// fieldAliases 原始数据字段别名表：按顺序取第一个出现的键
var fieldAliases = map[string][]string{
	"name":              {"name", "title"},
	"url":               {"url", "link"},
	"date":              {"date", "start_date", "event_date"},
	"start_date":        {"start_date", "date", "event_date"},
	"end_date":          {"end_date"},
	"location":          {"location", "city", "venue"},
	"city":              {"city", "location", "venue"},
	"remote":            {"remote", "is_remote"},
	"description":       {"description", "short_description", "summary"},
	"short_description": {"short_description", "description", "summary"},
	"speakers":          {"speakers"},
	"sponsors":          {"sponsors"},
	"ticket_price":      {"ticket_price", "price", "cost"},
	"is_paid":           {"is_paid", "paid"},
	"themes":            {"themes", "topics", "categories"},
	"source":            {"source", "data_source"},
}

// normalizeRawEvent 把自由格式的原始事件整成库表结构：
// 字段别名归一、布尔/列表类型矫正、必填字段兜底。URL 缺失视为坏数据
func normalizeRawEvent(raw RawEvent) (*normalizedEvent, error) {
	pick := func(field string) interface{} {
		for _, key := range fieldAliases[field] {
			if v, ok := raw[key]; ok && v != nil {
				return v
			}
		}
		return nil
	}

	n := &normalizedEvent{
		URL:              asString(pick("url")),
		Name:             asString(pick("name")),
		Date:             asStringPtr(pick("date")),
		StartDate:        asStringPtr(pick("start_date")),
		EndDate:          asStringPtr(pick("end_date")),
		Location:         asStringPtr(pick("location")),
		City:             asStringPtr(pick("city")),
		Remote:           asFlag(pick("remote"), "remote"),
		Description:      asStringPtr(pick("description")),
		ShortDescription: asStringPtr(pick("short_description")),
		Speakers:         asStringList(pick("speakers")),
		Sponsors:         asStringList(pick("sponsors")),
		Themes:           asStringList(pick("themes")),
		TicketPrice:      asTicketPrice(pick("ticket_price")),
		IsPaid:           asFlag(pick("is_paid"), "paid"),
		Source:           asStringPtr(pick("source")),
	}

	if n.URL == "" {
		return nil, fmt.Errorf("event must have a URL")
	}
	if n.Name == "" {
		n.Name = fmt.Sprintf("Event at %s", n.URL)
	}
	if n.Date == nil && n.StartDate == nil {
		tbd := ValueTBD
		n.Date = &tbd
	}
	if n.Location == nil && n.City == nil {
		loc := ValueTBD
		if n.Remote {
			loc = LocationRemote
		}
		n.Location = &loc
	}
	if n.Description == nil && n.ShortDescription == nil {
		desc := "No description available"
		n.Description = &desc
	}
	return n, nil
}

func (n *normalizedEvent) toHackathon() *model.Hackathon {
	return &model.Hackathon{
		Name:             n.Name,
		URL:              n.URL,
		Date:             n.Date,
		StartDate:        n.StartDate,
		EndDate:          n.EndDate,
		Location:         n.Location,
		City:             n.City,
		Remote:           n.Remote,
		Description:      n.Description,
		ShortDescription: n.ShortDescription,
		Speakers:         toJSON(n.Speakers),
		Sponsors:         toJSON(n.Sponsors),
		TicketPrice:      toJSON(n.TicketPrice),
		IsPaid:           n.IsPaid,
		Themes:           toJSON(n.Themes),
		Source:           n.Source,
	}
}

func (n *normalizedEvent) toConference() *model.Conference {
	return &model.Conference{
		Name:             n.Name,
		URL:              n.URL,
		Date:             n.Date,
		StartDate:        n.StartDate,
		EndDate:          n.EndDate,
		Location:         n.Location,
		City:             n.City,
		Remote:           n.Remote,
		Description:      n.Description,
		ShortDescription: n.ShortDescription,
		Speakers:         toJSON(n.Speakers),
		Sponsors:         toJSON(n.Sponsors),
		TicketPrice:      toJSON(n.TicketPrice),
		IsPaid:           n.IsPaid,
		Themes:           toJSON(n.Themes),
		Source:           n.Source,
	}
}

func (n *normalizedEvent) toCollectedURL(sourceType string) *model.CollectedURL {
	meta := map[string]interface{}{"name": n.Name}
	if n.Source != nil {
		meta["source"] = *n.Source
	}
	return &model.CollectedURL{
		URL:         n.URL,
		SourceType:  sourceType,
		IsEnriched:  true, // 导入的已是补全后的完整事件
		URLMetadata: toJSON(meta),
	}
}

func asString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

func asStringPtr(v interface{}) *string {
	s := asString(v)
	if s == "" {
		return nil
	}
	return &s
}

// asFlag 布尔矫正：true/1/yes 及字段专属关键词（remote/paid）都算真
func asFlag(v interface{}, keyword string) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "1" || lower == "yes" || lower == keyword
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return false
	}
}

// asStringList 列表矫正：数组逐项转字符串，逗号分隔的字符串拆开，标量包成单元素
func asStringList(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		return val
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if val == "" {
			return []string{}
		}
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{asString(v)}
	}
}

// asTicketPrice 票价可能是对象、数组或标量；标量统一包成 {"price": "..."}
func asTicketPrice(v interface{}) interface{} {
	switch v.(type) {
	case nil:
		return nil
	case map[string]interface{}, []interface{}:
		return v
	default:
		return map[string]interface{}{"price": asString(v)}
	}
}

// toJSON 序列化为 jsonb 列；nil 输入返回空（库里存 NULL）
func toJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
