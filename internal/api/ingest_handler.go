package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"EventBoard/internal/repository"
	"EventBoard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type eventImporter interface {
	Import(ctx context.Context, table string, raw []service.RawEvent, update bool) (*service.ImportResult, error)
}

// IngestHandler 批量导入接口（爬虫管线的入库边界）
type IngestHandler struct {
	ingest eventImporter
	logger *logrus.Logger
}

// NewIngestHandler 创建 IngestHandler
func NewIngestHandler(db *gorm.DB, logger *logrus.Logger) *IngestHandler {
	repo := repository.NewIngestRepository(db)
	return &IngestHandler{
		ingest: service.NewIngestService(repo, logger),
		logger: logger,
	}
}

// importRequest 批量导入请求体
type importRequest struct {
	Events []service.RawEvent `json:"events" binding:"required"`
}

// ImportEvents 批量导入爬取到的事件
// POST /api/events/import?table=hackathons&update=false
func (h *IngestHandler) ImportEvents(c *gin.Context) {
	table := c.Query("table")
	update, _ := strconv.ParseBool(c.DefaultQuery("update", "false"))

	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.ingest.Import(c.Request.Context(), table, req.Events, update)
	if err != nil {
		if errors.Is(err, service.ErrUnknownTable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("ImportEvents failed")
		if errors.Is(err, service.ErrStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
