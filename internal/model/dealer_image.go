package model

// 素材类型常量
const (
	ImageTypeDefault  = "default"  // 每条新 listing 都要带的固定图
	ImageTypeFallback = "fallback" // 用户一张不传时的垫底图
	ImageTypeOther    = "other"    // 其他素材，刊登流程不使用
)

// DealerImage 经销商素材图，独立于单条 listing 配置
type DealerImage struct {
	BaseModel
	StoreID   int64  `gorm:"index" json:"store_id"`
	Name      string `gorm:"size:120" json:"name"`
	PublicURL string `gorm:"size:512" json:"public_url"`
	ImageType string `gorm:"size:20;index;default:'other'" json:"image_type"`
	// SortOrder 决定同类型素材的刊登顺序
	SortOrder int `gorm:"default:0" json:"sort_order"`
}
