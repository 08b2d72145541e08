package api

import (
	"context"
	"errors"
	"net/http"

	"EventBoard/internal/model"
	"EventBoard/internal/repository"
	"EventBoard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// actionRecorder ActionService 的接口视图，便于测试替换
type actionRecorder interface {
	Record(ctx context.Context, eventID, eventType, action string) (*model.EventAction, error)
	Latest(ctx context.Context, eventID, eventType string) (*model.EventAction, error)
}

// ActionHandler 事件操作记录接口
type ActionHandler struct {
	actions actionRecorder
	logger  *logrus.Logger
}

// NewActionHandler 创建 ActionHandler
func NewActionHandler(db *gorm.DB, logger *logrus.Logger) *ActionHandler {
	repo := repository.NewActionRepository(db)
	return &ActionHandler{
		actions: service.NewActionService(repo, logger),
		logger:  logger,
	}
}

// recordActionRequest 操作写入请求体
type recordActionRequest struct {
	EventID   string `json:"event_id" binding:"required"`
	EventType string `json:"event_type" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

// RecordAction 记录一次人工操作
// POST /api/actions  {"event_id": "...", "event_type": "hackathon", "action": "reached_out"}
func (h *ActionHandler) RecordAction(c *gin.Context) {
	var req recordActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.actions.Record(c.Request.Context(), req.EventID, req.EventType, req.Action)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("RecordAction failed")
		if errors.Is(err, service.ErrStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "action recorded",
		"action":    record.Action,
		"timestamp": record.Timestamp,
	})
}

// LatestAction 查询某事件的最新操作
// GET /api/actions/latest?event_id=...&event_type=hackathon
func (h *ActionHandler) LatestAction(c *gin.Context) {
	eventID := c.Query("event_id")
	eventType := c.Query("event_type")

	action, err := h.actions.Latest(c.Request.Context(), eventID, eventType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("LatestAction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if action == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no action found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"event_id":   action.EventID,
		"event_type": action.EventType,
		"action":     action.Action,
		"timestamp":  action.Timestamp,
	})
}
