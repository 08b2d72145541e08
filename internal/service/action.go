package service

import (
	"context"
	"fmt"
	"time"

	"EventBoard/internal/model"
	"EventBoard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ActionService 事件操作记录服务（核心写路径）
type ActionService struct {
	repo   repository.ActionRepository
	logger *logrus.Logger
}

// NewActionService 创建 ActionService
func NewActionService(repo repository.ActionRepository, logger *logrus.Logger) *ActionService {
	return &ActionService{repo: repo, logger: logger}
}

// Record 校验并追加一条操作，写入后对下一次查询立即可见。
// 沿用原系统设计：不校验 event_id 在事件表中是否存在，
// 流水允许指向当前查询窗口之外的事件（如需收紧应与使用方确认）
func (s *ActionService) Record(ctx context.Context, eventID, eventType, action string) (*model.EventAction, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%w: event_id is required", ErrInvalidAction)
	}
	if !model.ValidEventType(eventType) {
		return nil, fmt.Errorf("%w: unknown event_type %q", ErrInvalidAction, eventType)
	}
	if !model.ValidActionKind(action) {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidAction, action)
	}

	record := &model.EventAction{
		ID:        uuid.NewString(),
		EventID:   eventID,
		EventType: eventType,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
	if err := s.repo.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.WithFields(logrus.Fields{
		"event_id":   eventID,
		"event_type": eventType,
		"action":     action,
	}).Info("已记录事件操作")
	return record, nil
}

// Latest 取 (event_id, event_type) 的最新操作，没有则返回 nil
func (s *ActionService) Latest(ctx context.Context, eventID, eventType string) (*model.EventAction, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%w: event_id is required", ErrInvalidAction)
	}
	if !model.ValidEventType(eventType) {
		return nil, fmt.Errorf("%w: unknown event_type %q", ErrInvalidAction, eventType)
	}
	action, err := s.repo.Latest(ctx, eventID, eventType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return action, nil
}
