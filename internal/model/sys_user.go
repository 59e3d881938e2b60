package model

// 用户状态常量
const (
	UserStatusDisabled = 0 // 已停用
	UserStatusActive   = 1 // 正常
)

// SysUser 系统用户（已完成认证的经销商账号）
// 认证机制不在本服务范围内，中间件只负责把 token 还原成这里的一行
type SysUser struct {
	BaseModel
	Email  string `gorm:"size:120;uniqueIndex" json:"email"`
	Name   string `gorm:"size:60" json:"name"`
	Role   string `gorm:"size:20;default:'dealer'" json:"role"`
	Status int    `gorm:"default:1;comment:状态 0-已停用 1-正常" json:"status"`
}
