package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNodeNotFound     = errors.New("curriculum node not found")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrRoleNotFound     = errors.New("market role not found")
)
