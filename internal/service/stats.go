package service

import (
	"context"
	"fmt"

	"EventBoard/internal/model"
	"EventBoard/internal/repository"

	"github.com/sirupsen/logrus"
)

// DashboardStats 运营统计（给前端仪表盘用）
type DashboardStats struct {
	Hackathons  *repository.TableStats  `json:"hackathons"`
	Conferences *repository.TableStats  `json:"conferences"`
	Actions     *repository.ActionStats `json:"actions"`
	Database    string                  `json:"database"`
}

// StatsService 汇总两张事件表与操作流水的统计信息
type StatsService struct {
	events  repository.EventRepository
	actions repository.ActionRepository
	logger  *logrus.Logger
}

// NewStatsService 创建 StatsService
func NewStatsService(events repository.EventRepository, actions repository.ActionRepository, logger *logrus.Logger) *StatsService {
	return &StatsService{events: events, actions: actions, logger: logger}
}

// Collect 收集统计信息
func (s *StatsService) Collect(ctx context.Context) (*DashboardStats, error) {
	hackathons, err := s.events.StatsFor(ctx, model.EventTypeHackathon)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	conferences, err := s.events.StatsFor(ctx, model.EventTypeConference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	actions, err := s.actions.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &DashboardStats{
		Hackathons:  hackathons,
		Conferences: conferences,
		Actions:     actions,
		Database:    "PostgreSQL (GORM)",
	}, nil
}
