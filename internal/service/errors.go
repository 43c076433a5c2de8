package service

import "errors"

// 解析与授权失败的区分结果，由 HTTP 层翻译成对应状态码
var (
	// ErrDisabled 映射存在但已被停用
	ErrDisabled = errors.New("短链接已被停用")

	// ErrExpired 映射存在但已过期
	ErrExpired = errors.New("短链接已过期")

	// ErrUnauthorized 调用者不是映射的所有者
	ErrUnauthorized = errors.New("无权访问该短链接")
)
