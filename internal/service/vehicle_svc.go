package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dealer_stock_v1_202608/internal/api/dto"
	"dealer_stock_v1_202608/pkg/net"
	"dealer_stock_v1_202608/pkg/trader"
)

// model 兜底占位符，两条链路都可能缺 model（商用车/taxonomy 车常见）
const modelPlaceholder = "Unknown Model"

// 车牌查询要求附带的补全子资源
var lookupEnrichments = []string{
	"features", "motTests", "history", "valuations", "competitors", "vehicleMetrics",
}

// VehicleService 车辆数据解析服务
// 把两条异构查询链路归一成统一的 trader.Vehicle 记录
type VehicleService struct {
	dispatcher net.Dispatcher
	baseURL    string
}

// NewVehicleService 创建车辆解析服务
func NewVehicleService(dispatcher net.Dispatcher, baseURL string) *VehicleService {
	return &VehicleService{dispatcher: dispatcher, baseURL: baseURL}
}

// Resolve 按 flow 解析完整车辆数据
// 后置保证：返回的记录 Make/Model 均非空
func (s *VehicleService) Resolve(ctx context.Context, storeID int64, advertiserID, token string, req *dto.CreateStockRequest) (*trader.Vehicle, []trader.Feature, error) {
	var (
		vehicle  *trader.Vehicle
		features []trader.Feature
		err      error
	)

	switch req.Flow {
	case dto.FlowRegistrationLookup:
		vehicle, features, err = s.resolveByRegistration(ctx, storeID, advertiserID, token, req.Registration)
	case dto.FlowTaxonomyLookup:
		vehicle, features, err = s.resolveByDerivative(ctx, storeID, advertiserID, token, req)
	default:
		return nil, nil, NewValidationError("不支持的 flow", req.Flow)
	}
	if err != nil {
		return nil, nil, err
	}

	// 共同后置处理：model 兜底 + 完整性校验
	applyModelFallback(vehicle)
	if strings.TrimSpace(vehicle.Make) == "" || strings.TrimSpace(vehicle.Model) == "" {
		return nil, nil, NewValidationError("车辆数据不完整", "解析后 make/model 仍为空")
	}

	return vehicle, features, nil
}

// resolveByRegistration 车牌查询链路
func (s *VehicleService) resolveByRegistration(ctx context.Context, storeID int64, advertiserID, token, registration string) (*trader.Vehicle, []trader.Feature, error) {
	reg := strings.ToUpper(strings.TrimSpace(registration))

	q := url.Values{}
	q.Set("advertiserId", advertiserID)
	q.Set("registration", reg)
	for _, sub := range lookupEnrichments {
		q.Set(sub, "true")
	}
	apiURL := fmt.Sprintf("%s/vehicles?%s", s.baseURL, q.Encode())

	req, err := net.BuildTraderGetRequest(ctx, apiURL, token)
	if err != nil {
		return nil, nil, NewServerError("构建车辆查询请求失败", err.Error())
	}

	resp, err := s.dispatcher.Send(ctx, storeID, req)
	if err != nil {
		return nil, nil, NewServerError("车辆查询失败", err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, NewNotFoundError("未找到对应车辆", "registration: "+reg)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, NewServerError("车辆查询失败",
			fmt.Sprintf("status %d: %s", resp.StatusCode, body))
	}

	var lookup trader.VehicleLookupResp
	if err := json.Unmarshal(body, &lookup); err != nil {
		return nil, nil, NewServerError("解析车辆查询响应失败", err.Error())
	}
	if lookup.Vehicle == nil {
		return nil, nil, NewNotFoundError("未找到对应车辆", "上游未返回车辆数据")
	}

	vehicle := lookup.Vehicle
	if vehicle.Registration == "" {
		vehicle.Registration = reg
	}

	return vehicle, lookup.Features, nil
}

// resolveByDerivative taxonomy 派生查询链路
func (s *VehicleService) resolveByDerivative(ctx context.Context, storeID int64, advertiserID, token string, stockReq *dto.CreateStockRequest) (*trader.Vehicle, []trader.Feature, error) {
	apiURL := fmt.Sprintf("%s/taxonomy/derivatives/%s?advertiserId=%s&features=true",
		s.baseURL, url.PathEscape(stockReq.DerivativeID), url.QueryEscape(advertiserID))

	req, err := net.BuildTraderGetRequest(ctx, apiURL, token)
	if err != nil {
		return nil, nil, NewServerError("构建派生查询请求失败", err.Error())
	}

	resp, err := s.dispatcher.Send(ctx, storeID, req)
	if err != nil {
		return nil, nil, NewServerError("派生查询失败", err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, NewNotFoundError("未找到对应派生", "derivativeId: "+stockReq.DerivativeID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, NewServerError("派生查询失败",
			fmt.Sprintf("status %d: %s", resp.StatusCode, body))
	}

	var detail trader.DerivativeDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, nil, NewServerError("解析派生响应失败", err.Error())
	}

	vehicle := normalizeDerivative(&detail)

	// 请求侧覆盖：taxonomy 链路拿不到个体信息，全部从请求补
	vehicle.OdometerReadingMiles = stockReq.Mileage
	vehicle.OwnershipCondition = "Used" // taxonomy 链路固定按二手处理
	if stockReq.Year > 0 {
		vehicle.YearOfManufacture = strconv.Itoa(stockReq.Year)
	}
	if stockReq.Plate != "" {
		vehicle.Registration = strings.ToUpper(strings.TrimSpace(stockReq.Plate))
	}
	if stockReq.Colour != "" {
		vehicle.Colour = stockReq.Colour
	}

	return vehicle, detail.Features, nil
}

// normalizeDerivative 派生详情 → 标准车辆记录的穷举映射
func normalizeDerivative(d *trader.DerivativeDetail) *trader.Vehicle {
	return &trader.Vehicle{
		Make:                  d.Make,
		Model:                 d.Model,
		Generation:            d.Generation,
		Derivative:            d.Name,
		DerivativeID:          d.DerivativeID,
		Trim:                  d.Trim,
		VehicleType:           d.VehicleType,
		BodyType:              d.BodyType,
		FuelType:              d.FuelType,
		TransmissionType:      d.TransmissionType,
		Doors:                 d.Doors,
		Seats:                 d.Seats,
		EngineCapacityCC:      d.BadgeEngineSizeCC,
		EnginePowerBHP:        d.EnginePowerBHP,
		TopSpeedMPH:           d.TopSpeedMPH,
		ZeroToSixtyMPHSeconds: d.ZeroToSixtyMPHSeconds,
	}
}

// applyModelFallback model 缺失时依次按 derivative → trim → vehicleType → 占位符 兜底
func applyModelFallback(v *trader.Vehicle) {
	if strings.TrimSpace(v.Model) != "" {
		return
	}
	for _, candidate := range []string{v.Derivative, v.Trim, v.VehicleType} {
		if strings.TrimSpace(candidate) != "" {
			v.Model = candidate
			return
		}
	}
	v.Model = modelPlaceholder
}
