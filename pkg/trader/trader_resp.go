package trader

import (
	"encoding/json"
	"strings"
)

// VehicleLookupResp 车牌查询响应
// vehicle 之外的补全子资源（MOT 记录、估值等）原样透传，不做结构化
type VehicleLookupResp struct {
	Vehicle        *Vehicle        `json:"vehicle"`
	Features       []Feature       `json:"features,omitempty"`
	MotTests       json.RawMessage `json:"motTests,omitempty"`
	History        json.RawMessage `json:"history,omitempty"`
	Valuations     json.RawMessage `json:"valuations,omitempty"`
	Competitors    json.RawMessage `json:"competitors,omitempty"`
	VehicleMetrics json.RawMessage `json:"vehicleMetrics,omitempty"`
}

// DerivativeDetail taxonomy 派生详情响应
type DerivativeDetail struct {
	DerivativeID          string    `json:"derivativeId"`
	Make                  string    `json:"make"`
	Model                 string    `json:"model"`
	Generation            string    `json:"generation"`
	Name                  string    `json:"name"` // 派生命名，如 "SQ7 Vorsprung"
	Trim                  string    `json:"trim"`
	VehicleType           string    `json:"vehicleType"`
	BodyType              string    `json:"bodyType"`
	FuelType              string    `json:"fuelType"`
	TransmissionType      string    `json:"transmissionType"`
	Doors                 int       `json:"doors"`
	Seats                 int       `json:"seats"`
	BadgeEngineSizeCC     int       `json:"badgeEngineSizeCC"`
	EnginePowerBHP        int       `json:"enginePowerBHP"`
	TopSpeedMPH           int       `json:"topSpeedMPH"`
	ZeroToSixtyMPHSeconds float64   `json:"zeroToSixtyMPHSeconds"`
	Features              []Feature `json:"features,omitempty"`
}

// ImageUploadResp 图片上传响应
type ImageUploadResp struct {
	ImageID string `json:"imageId"`
}

// StockCreateResp 创建 stock 响应，不同环境返回的标识字段名不一致
type StockCreateResp struct {
	ID      string `json:"id"`
	StockID string `json:"stockId"`
}

// StockIdentifier 取出创建结果的标识
func (r *StockCreateResp) StockIdentifier() string {
	if r.ID != "" {
		return r.ID
	}
	return r.StockID
}

// APIError 上游结构化错误体
type APIError struct {
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

// DetailText 把 details 压成一行可读文本
func (e *APIError) DetailText() string {
	if len(e.Details) == 0 {
		return ""
	}
	return strings.TrimSpace(string(e.Details))
}
