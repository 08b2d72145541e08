package model

import "time"

// ActionKind 人工操作类型枚举
type ActionKind string

const (
	ActionReachedOut ActionKind = "reached_out"
	ActionArchive    ActionKind = "archive"
)

// ValidActionKind 校验操作类型是否在封闭集合内
func ValidActionKind(a string) bool {
	switch ActionKind(a) {
	case ActionReachedOut, ActionArchive:
		return true
	}
	return false
}

// EventAction 事件操作流水表（只追加，读取时按 (event_id, event_type) 取时间戳最大的一条）
// 不校验 event_id 在事件表中是否存在：操作可以指向当前查询窗口之外的事件
type EventAction struct {
	ID        string    `gorm:"primaryKey;column:id;type:uuid"`
	EventID   string    `gorm:"column:event_id;type:uuid;not null;index:idx_event_actions_key,priority:1"`
	EventType string    `gorm:"column:event_type;type:varchar(16);not null;index:idx_event_actions_key,priority:2"`
	Action    string    `gorm:"column:action;type:varchar(32);not null"`
	Timestamp time.Time `gorm:"column:timestamp;type:timestamp;not null;index:idx_event_actions_key,priority:3"`
}

func (EventAction) TableName() string { return "event_actions" }
