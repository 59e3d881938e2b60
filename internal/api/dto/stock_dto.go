package dto

// 两条互斥的车辆识别流程
const (
	FlowRegistrationLookup = "registration-lookup" // 按车牌查完整车辆数据
	FlowTaxonomyLookup     = "taxonomy-lookup"     // 按 taxonomy 派生 ID 查技术参数
)

// FeatureDTO 用户勾选的配置项
type FeatureDTO struct {
	Name string `json:"name" binding:"required"`
}

// CreateStockRequest 创建 stock 请求
// flow 决定识别字段：registration-lookup 用 registration，taxonomy-lookup 用 derivativeId
type CreateStockRequest struct {
	Flow string `json:"flow" binding:"required"`

	// --- registration-lookup 流程 ---
	Registration string `json:"registration"`

	// --- taxonomy-lookup 流程 ---
	DerivativeID string `json:"derivativeId"`
	Year         int    `json:"year"`
	Plate        string `json:"plate"`
	Colour       string `json:"colour"`

	// --- 公共字段 ---
	Mileage          int             `json:"mileage" binding:"required,gt=0"`
	ForecourtPrice   *float64        `json:"forecourtPrice"`
	VatStatus        string          `json:"vatStatus"`
	AttentionGrabber string          `json:"attentionGrabber"`
	Description      string          `json:"description"`
	LifecycleState   string          `json:"lifecycleState"`
	StockReference   string          `json:"stockReference"`
	SelectedFeatures []FeatureDTO    `json:"selectedFeatures"`
	UserImageIDs     []string        `json:"userImageIds"`
	ChannelStatus    map[string]bool `json:"channelStatus"`
}

// ImageCounts 各来源图片计数（可观测用途）
type ImageCounts struct {
	User     int `json:"user"`
	Fallback int `json:"fallback"`
	Default  int `json:"default"`
	Failed   int `json:"failed"`
}

// CreateStockResult 创建成功结果
type CreateStockResult struct {
	StockID      string      `json:"stockId"`
	Flow         string      `json:"flow"`
	Make         string      `json:"make"`
	Model        string      `json:"model"`
	Derivative   string      `json:"derivative,omitempty"`
	Registration string      `json:"registration,omitempty"`
	ImageCounts  ImageCounts `json:"imageCounts"`
	RequestID    string      `json:"requestId"`
}

// FlowInfo 单条流程说明
type FlowInfo struct {
	Flow        string                 `json:"flow"`
	Description string                 `json:"description"`
	Example     map[string]interface{} `json:"example"`
}

// FlowDocResponse GET /stock/create 的流程文档（诊断用）
type FlowDocResponse struct {
	Flows []FlowInfo `json:"flows"`
}

// StockRecordResp 创建记录列表项
type StockRecordResp struct {
	ID                 int64  `json:"id"`
	RequestID          string `json:"request_id"`
	Flow               string `json:"flow"`
	Registration       string `json:"registration"`
	Make               string `json:"make"`
	Model              string `json:"model"`
	Derivative         string `json:"derivative"`
	StockID            string `json:"stock_id"`
	Status             string `json:"status"`
	ErrorMessage       string `json:"error_message,omitempty"`
	UserImageCount     int    `json:"user_image_count"`
	FallbackImageCount int    `json:"fallback_image_count"`
	DefaultImageCount  int    `json:"default_image_count"`
	FailedImageCount   int    `json:"failed_image_count"`
	CreatedAt          string `json:"created_at"`
}
