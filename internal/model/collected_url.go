package model

import (
	"time"

	"gorm.io/datatypes"
)

// CollectedURL 爬虫收集到的 URL 追踪表（记录是否已完成详情补全）
type CollectedURL struct {
	URL                string         `gorm:"primaryKey;column:url;type:varchar(512)"`
	SourceType         string         `gorm:"column:source_type;type:varchar(16);not null"` // hackathon / conference
	IsEnriched         bool           `gorm:"column:is_enriched;type:boolean;default:false;not null"`
	TimestampCollected time.Time      `gorm:"column:timestamp_collected;type:timestamp;not null"`
	URLMetadata        datatypes.JSON `gorm:"column:url_metadata;type:jsonb"` // 页面标题等原始抓取元数据
}

func (CollectedURL) TableName() string { return "collected_urls" }
