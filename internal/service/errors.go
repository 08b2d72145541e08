package service

import "errors"

// 错误分类：handler 层用 errors.Is 映射到 HTTP 状态码。
// 存储层故障（StoreUnavailable）原样上抛，由调用方决定降级策略，核心不做重试
var (
	// ErrStoreUnavailable 后端存储不可达或查询/写入失败
	ErrStoreUnavailable = errors.New("event store unavailable")
	// ErrInvalidAction 操作写入参数不在封闭集合内（调用方错误）
	ErrInvalidAction = errors.New("invalid action")
	// ErrUnknownTable 批量导入指向未知事件表
	ErrUnknownTable = errors.New("unknown events table")
)
