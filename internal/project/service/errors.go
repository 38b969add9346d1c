package service

import "errors"

// 服务层错误哨兵，由 handler 层统一映射为 HTTP 状态码
var (
	// ErrNotFound 请求的实体不存在
	ErrNotFound = errors.New("not found")
	// ErrIllegalAttribute 请求属性非法（日期倒置、引用不存在、成员不满足约束等）
	ErrIllegalAttribute = errors.New("illegal attribute")
	// ErrConflict 唯一性冲突（重复成员、重复答案、表单仍被引用）
	ErrConflict = errors.New("conflict")
	// ErrUnexpectedOperator 成员操作符不是 ADD / REMOVE
	ErrUnexpectedOperator = errors.New("unexpected operator")
)
