package model

import (
	"gorm.io/datatypes"
)

// StockRecord 状态常量
const (
	StockRecordStatusCreated = "created" // 创建成功
	StockRecordStatusFailed  = "failed"  // 提交被拒或流程失败
)

// StockRecord 每次创建 stock 的审计记录
// 只做可观测用途，写入失败不影响主流程
type StockRecord struct {
	BaseModel
	StoreID   int64  `gorm:"index" json:"store_id"`
	RequestID string `gorm:"size:40;index" json:"request_id"`

	// 车辆摘要
	Flow         string `gorm:"size:30" json:"flow"`
	Registration string `gorm:"size:20" json:"registration"`
	Make         string `gorm:"size:60" json:"make"`
	Model        string `gorm:"size:60" json:"model"`
	Derivative   string `gorm:"size:120" json:"derivative"`

	// 外部返回的 stock 标识
	StockID string `gorm:"size:64;index" json:"stock_id"`

	// 各来源图片计数
	UserImageCount     int `gorm:"default:0" json:"user_image_count"`
	FallbackImageCount int `gorm:"default:0" json:"fallback_image_count"`
	DefaultImageCount  int `gorm:"default:0" json:"default_image_count"`
	FailedImageCount   int `gorm:"default:0" json:"failed_image_count"`

	Status       string `gorm:"size:20;index" json:"status"`
	ErrorMessage string `gorm:"type:text" json:"error_message"`

	// 提交的完整载荷，排障时可直接重放
	Payload datatypes.JSON `json:"payload"`
}
