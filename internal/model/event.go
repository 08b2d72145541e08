package model

import (
	"time"

	"gorm.io/datatypes"
)

// EventType 事件来源类型枚举（合并时打上的变体标签，入库表中不冗余存储）
type EventType string

const (
	EventTypeHackathon  EventType = "hackathon"
	EventTypeConference EventType = "conference"
)

// ValidEventType 校验变体标签是否在封闭集合内
func ValidEventType(t string) bool {
	switch EventType(t) {
	case EventTypeHackathon, EventTypeConference:
		return true
	}
	return false
}

// Hackathon 黑客松事件表（爬虫入库，日期为原始字符串，可能缺失或无法解析）
type Hackathon struct {
	ID               string         `gorm:"primaryKey;column:id;type:uuid"`
	Name             string         `gorm:"column:name;type:varchar(256);not null"`
	URL              string         `gorm:"column:url;type:varchar(512);uniqueIndex;not null"`
	Date             *string        `gorm:"column:date;type:varchar(64)"` // 兼容字段：可能是开始日期或日期区间
	StartDate        *string        `gorm:"column:start_date;type:varchar(64)"`
	EndDate          *string        `gorm:"column:end_date;type:varchar(64)"`
	Location         *string        `gorm:"column:location;type:varchar(256)"`
	City             *string        `gorm:"column:city;type:varchar(128)"`
	Remote           bool           `gorm:"column:remote;type:boolean;default:false"`
	Description      *string        `gorm:"column:description;type:text"`
	ShortDescription *string        `gorm:"column:short_description;type:text"`
	Speakers         datatypes.JSON `gorm:"column:speakers;type:jsonb"`
	Sponsors         datatypes.JSON `gorm:"column:sponsors;type:jsonb"`
	TicketPrice      datatypes.JSON `gorm:"column:ticket_price;type:jsonb"`
	IsPaid           bool           `gorm:"column:is_paid;type:boolean;default:false"`
	Themes           datatypes.JSON `gorm:"column:themes;type:jsonb"`
	Source           *string        `gorm:"column:source;type:varchar(64)"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// Conference 行业会议事件表（结构与黑客松相近，另带报名信息）
type Conference struct {
	ID                   string         `gorm:"primaryKey;column:id;type:uuid"`
	Name                 string         `gorm:"column:name;type:varchar(256);not null"`
	URL                  string         `gorm:"column:url;type:varchar(512);uniqueIndex;not null"`
	Date                 *string        `gorm:"column:date;type:varchar(64)"`
	StartDate            *string        `gorm:"column:start_date;type:varchar(64)"`
	EndDate              *string        `gorm:"column:end_date;type:varchar(64)"`
	Location             *string        `gorm:"column:location;type:varchar(256)"`
	City                 *string        `gorm:"column:city;type:varchar(128)"`
	Remote               bool           `gorm:"column:remote;type:boolean;default:false"`
	Description          *string        `gorm:"column:description;type:text"`
	ShortDescription     *string        `gorm:"column:short_description;type:text"`
	Speakers             datatypes.JSON `gorm:"column:speakers;type:jsonb"`
	Sponsors             datatypes.JSON `gorm:"column:sponsors;type:jsonb"`
	TicketPrice          datatypes.JSON `gorm:"column:ticket_price;type:jsonb"`
	IsPaid               bool           `gorm:"column:is_paid;type:boolean;default:false"`
	Themes               datatypes.JSON `gorm:"column:themes;type:jsonb"`
	Source               *string        `gorm:"column:source;type:varchar(64)"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime"`
	RegistrationURL      *string        `gorm:"column:registration_url;type:varchar(512)"`
	RegistrationDeadline *string        `gorm:"column:registration_deadline;type:varchar(64)"`
}

func (Hackathon) TableName() string  { return "hackathons" }
func (Conference) TableName() string { return "conferences" }
