package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Store 店铺状态常量
const (
	StoreStatusPending  = 0 // 待配置
	StoreStatusActive   = 1 // 正常
	StoreStatusInactive = 2 // 已停用
)

// Token 状态常量
const (
	TokenStatusValid   = "valid"        // 有效
	TokenStatusExpired = "expired"      // 已过期
	TokenStatusInvalid = "auth_invalid" // 凭据无效，需重新配置
)

// Store 经销商店铺，对应外部 Stock API 的一个广告主账号
type Store struct {
	BaseModel
	// 1. 核心身份
	StoreName string `gorm:"size:100"`
	// 店主邮箱。令牌获取与缓存都按它作 key，必须与 SysUser.Email 对得上
	OwnerEmail string `gorm:"size:120;uniqueIndex"`

	// 2. 广告主配置
	// 历史遗留：早期后台存的是裸字符串 "10028"，后来改成了 JSON 数组 `["10028","10029"]`
	// 两种格式在线上同时存在，统一走 AdvertiserIDList 解析，不要直接读这个字段
	AdvertiserIDs string `gorm:"size:255;comment:广告主ID配置，裸字符串或JSON数组"`

	// 3. API 凭据
	APIKey    string `gorm:"size:255"`
	APISecret string `gorm:"size:255"`

	// 4. API Token
	// 周期检测 token 是否过期
	TokenStatus    string    `gorm:"index;size:20;default:'auth_invalid'"`
	AccessToken    string    `gorm:"size:1024"`
	TokenExpiresAt time.Time // Token 具体的过期时间点

	// 5. 店铺状态
	Status int `gorm:"default:1;comment:状态 0-待配置 1-正常 2-已停用"`

	// 6. 关联关系
	Images []DealerImage `gorm:"foreignKey:StoreID"`
}

// AdvertiserIDList 解析 AdvertiserIDs 配置，统一返回列表
// 兼容裸字符串与 JSON 数组两种历史格式；JSON 解析失败按无配置处理
func (s *Store) AdvertiserIDList() []string {
	raw := strings.TrimSpace(s.AdvertiserIDs)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil
		}
		out := make([]string, 0, len(list))
		for _, v := range list {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	}

	return []string{raw}
}
