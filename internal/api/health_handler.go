package api

import (
	"context"
	"errors"
	"net/http"

	"EventBoard/internal/repository"
	"EventBoard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type statsCollector interface {
	Collect(ctx context.Context) (*service.DashboardStats, error)
}

// HealthHandler 健康检查与运营统计接口
type HealthHandler struct {
	events repository.EventRepository
	stats  statsCollector
	logger *logrus.Logger
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(db *gorm.DB, logger *logrus.Logger) *HealthHandler {
	eventRepo := repository.NewEventRepository(db)
	actionRepo := repository.NewActionRepository(db)
	return &HealthHandler{
		events: eventRepo,
		stats:  service.NewStatsService(eventRepo, actionRepo, logger),
		logger: logger,
	}
}

// Root 存活探针
// GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Events API is running",
		"version": "1.0.0",
	})
}

// Health 健康检查：先做独立的连通性探测（不跑完整查询），
// 存储不可达时报告降级状态而不是直接报错
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.events.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("数据库连通性探测失败")
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "disconnected",
			"note":     "Using fallback data",
			"error":    err.Error(),
		})
		return
	}

	hackathons, conferences, err := h.events.CountEvents(ctx)
	if err != nil {
		h.logger.WithError(err).Error("统计事件数量失败")
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "disconnected",
			"note":     "Using fallback data",
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"database":    "connected",
		"hackathons":  hackathons,
		"conferences": conferences,
	})
}

// Stats 运营统计
// GET /api/stats
func (h *HealthHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Collect(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Stats failed")
		if errors.Is(err, service.ErrStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
