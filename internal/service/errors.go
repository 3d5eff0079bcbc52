package service

import "errors"

var (
	// ErrValidation 请求参数缺失或非法
	ErrValidation = errors.New("validation failed")
	// ErrNotFound 文章不存在
	ErrNotFound = errors.New("post not found")
	// ErrSlugExists slug 已被占用
	ErrSlugExists = errors.New("slug already exists")
	// ErrStore 存储层错误
	ErrStore = errors.New("store error")
	// ErrPasswordRequired 缺少管理员口令
	ErrPasswordRequired = errors.New("password is required")
	// ErrInvalidCredentials 口令错误
	ErrInvalidCredentials = errors.New("invalid password")
	// ErrTokenInvalid 令牌无效或已过期
	ErrTokenInvalid = errors.New("invalid token")
)
