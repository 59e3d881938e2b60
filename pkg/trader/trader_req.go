package trader

// 广告状态常量
const (
	AdvertPublished    = "PUBLISHED"
	AdvertNotPublished = "NOT_PUBLISHED"
)

// 五个广告渠道，提交 adverts 块时必须整组给全
const (
	ChannelAutotrader = "autotraderAdvert"
	ChannelAdvertiser = "advertiserAdvert"
	ChannelExport     = "exportAdvert"
	ChannelProfile    = "profileAdvert"
	ChannelLocator    = "locatorAdvert"
)

// Channels 渠道全集，顺序即载荷输出顺序
var Channels = []string{
	ChannelAutotrader,
	ChannelAdvertiser,
	ChannelExport,
	ChannelProfile,
	ChannelLocator,
}

// Vehicle 标准车辆记录
// 两条查询链路（车牌查询 / taxonomy 派生查询）归一后的统一形态，
// 同时也是提交载荷的 vehicle 块，解析完成后 Make/Model 保证非空
type Vehicle struct {
	// --- 身份 ---
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Generation   string `json:"generation,omitempty"`
	Derivative   string `json:"derivative,omitempty"`
	DerivativeID string `json:"derivativeId,omitempty"`
	Trim         string `json:"trim,omitempty"`
	VehicleType  string `json:"vehicleType,omitempty"`

	// --- 技术参数 ---
	BodyType              string  `json:"bodyType,omitempty"`
	FuelType              string  `json:"fuelType,omitempty"`
	TransmissionType      string  `json:"transmissionType,omitempty"`
	Doors                 int     `json:"doors,omitempty"`
	Seats                 int     `json:"seats,omitempty"`
	EngineCapacityCC      int     `json:"engineCapacityCC,omitempty"`
	EnginePowerBHP        int     `json:"enginePowerBHP,omitempty"`
	TopSpeedMPH           int     `json:"topSpeedMPH,omitempty"`
	ZeroToSixtyMPHSeconds float64 `json:"zeroToSixtyMPHSeconds,omitempty"`
	LengthMM              int     `json:"lengthMM,omitempty"`
	WidthMM               int     `json:"widthMM,omitempty"`
	HeightMM              int     `json:"heightMM,omitempty"`

	// --- 个体信息 ---
	Registration          string `json:"registration,omitempty"`
	Vin                   string `json:"vin,omitempty"`
	Colour                string `json:"colour,omitempty"`
	OdometerReadingMiles  int    `json:"odometerReadingMiles,omitempty"`
	OwnershipCondition    string `json:"ownershipCondition,omitempty"`
	YearOfManufacture     string `json:"yearOfManufacture,omitempty"`
	FirstRegistrationDate string `json:"firstRegistrationDate,omitempty"`
}

// Feature 车辆配置项
type Feature struct {
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	StandardName string `json:"standardName,omitempty"`
}

// StockPayload 创建 stock 的完整提交载荷
type StockPayload struct {
	Vehicle    *Vehicle    `json:"vehicle"`
	Metadata   *Metadata   `json:"metadata"`
	Features   []Feature   `json:"features"`
	Media      *Media      `json:"media"`
	Advertiser *Advertiser `json:"advertiser"`
	// Adverts 只在请求带展厅价时存在
	Adverts *Adverts `json:"adverts,omitempty"`
}

// Metadata 载荷元数据块
type Metadata struct {
	LifecycleState  string `json:"lifecycleState,omitempty"`
	StockReference  string `json:"stockReference,omitempty"`
	DateOnForecourt string `json:"dateOnForecourt,omitempty"`
}

// Media 媒体块，图片顺序即刊登展示顺序（首图是橱窗图）
type Media struct {
	Images []ImageRef `json:"images"`
}

// ImageRef 外部图片引用
type ImageRef struct {
	ImageID string `json:"imageId"`
}

// Advertiser 广告主块
type Advertiser struct {
	AdvertiserID string   `json:"advertiserId"`
	Location     []string `json:"location"`
}

// Price 金额
type Price struct {
	AmountGBP float64 `json:"amountGBP"`
}

// AdvertStatus 单渠道发布状态
type AdvertStatus struct {
	Status string `json:"status"`
}

// RetailAdverts 零售广告配置，五个渠道字段缺一不可
type RetailAdverts struct {
	VatStatus        string        `json:"vatStatus,omitempty"`
	AttentionGrabber string        `json:"attentionGrabber,omitempty"`
	Description      string        `json:"description,omitempty"`
	AutotraderAdvert *AdvertStatus `json:"autotraderAdvert"`
	AdvertiserAdvert *AdvertStatus `json:"advertiserAdvert"`
	ExportAdvert     *AdvertStatus `json:"exportAdvert"`
	ProfileAdvert    *AdvertStatus `json:"profileAdvert"`
	LocatorAdvert    *AdvertStatus `json:"locatorAdvert"`
}

// Adverts 广告块
type Adverts struct {
	ForecourtPrice *Price         `json:"forecourtPrice"`
	RetailAdverts  *RetailAdverts `json:"retailAdverts"`
}
