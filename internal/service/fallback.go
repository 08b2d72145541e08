package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// FallbackEventService 查询契约的降级装饰器：存储不可达时返回内置示例数据，
// 其他错误原样上抛。降级不做在核心服务里，保证核心的失败语义可单独测试
type FallbackEventService struct {
	inner  EventLister
	logger *logrus.Logger
}

// NewFallbackEventService 创建降级装饰器
func NewFallbackEventService(inner EventLister, logger *logrus.Logger) *FallbackEventService {
	return &FallbackEventService{inner: inner, logger: logger}
}

// ListEvents 优先走真实查询；仅在 StoreUnavailable 时降级到示例数据，
// 示例数据走与真实数据相同的过滤、排序、截断路径
func (s *FallbackEventService) ListEvents(ctx context.Context, filter EventFilter) ([]*EnrichedEvent, error) {
	events, err := s.inner.ListEvents(ctx, filter)
	if err == nil {
		return events, nil
	}
	if !errors.Is(err, ErrStoreUnavailable) {
		return nil, err
	}
	s.logger.WithError(err).Warn("事件存储不可达，返回内置示例数据")
	return applyFilter(sampleEvents(), filter), nil
}

// sampleEvents 内置示例数据（存储不可达时前端仍有内容可展示）
func sampleEvents() []*EnrichedEvent {
	return []*EnrichedEvent{
		sampleEvent("AI/ML Hackathon 2024", "hackathon", "San Francisco, CA",
			"2024-02-15", "2024-02-17", "https://example.com/ai-hackathon", StatusValidated),
		sampleEvent("TechCrunch Disrupt 2024", "conference", "San Francisco, CA",
			"2024-03-10", "2024-03-12", "https://techcrunch.com/disrupt", StatusEnriched),
		sampleEvent("Global React Conference", "conference", "New York, NY",
			"2024-04-05", "2024-04-07", "https://react.global", StatusValidated),
		sampleEvent("Blockchain Hackathon", "hackathon", "Remote",
			"2024-03-20", "2024-03-22", "https://blockchain-hack.com", StatusFiltered),
		sampleEvent("DevOps Summit 2024", "conference", "Remote",
			"2024-05-15", "2024-05-16", "https://devops-summit.io", StatusEnriched),
		sampleEvent("Climate Tech Hackathon", "hackathon", "New York, NY",
			"2024-04-12", "2024-04-14", "https://climate-tech-hack.org", StatusValidated),
		sampleEvent("Cybersecurity Summit", "conference", "New York, NY",
			"2024-07-10", "2024-07-12", "https://cybersec-summit.net", StatusValidated),
		sampleEvent("Green Energy Hackathon", "hackathon", "San Francisco, CA",
			"2024-06-20", "2024-06-22", "https://green-energy-hack.org", StatusEnriched),
	}
}

func sampleEvent(title, eventType, location, start, end, url, status string) *EnrichedEvent {
	ev := &EnrichedEvent{
		Title:     title,
		Type:      eventType,
		Location:  location,
		StartDate: start,
		EndDate:   end,
		URL:       url,
		Status:    status,
	}
	if t, ok := parseEventDate(start); ok {
		ev.startTime = &t
	}
	return ev
}
