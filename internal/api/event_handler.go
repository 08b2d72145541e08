package api

import (
	"errors"
	"net/http"
	"strconv"

	"EventBoard/internal/repository"
	"EventBoard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EventHandler 统一事件查询接口（给前端表格用）
type EventHandler struct {
	events service.EventLister
	logger *logrus.Logger
}

// NewEventHandler 创建 EventHandler。真实查询外面包一层降级装饰器：
// 存储不可达时仍返回示例数据，保持前端可用
func NewEventHandler(db *gorm.DB, logger *logrus.Logger) *EventHandler {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, logger)
	return &EventHandler{
		events: service.NewFallbackEventService(svc, logger),
		logger: logger,
	}
}

// ListEvents 统一事件列表
// GET /events?type_filter=hackathon&location_filter=new%20york&status_filter=validated&limit=100
func (h *EventHandler) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultLimit)))

	filter := service.EventFilter{
		Type:     c.Query("type_filter"),
		Location: c.Query("location_filter"),
		Status:   c.Query("status_filter"),
		Limit:    limit,
	}

	events, err := h.events.ListEvents(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("ListEvents failed")
		if errors.Is(err, service.ErrStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, events)
}
