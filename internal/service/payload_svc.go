package service

import (
	"strings"

	"dealer_stock_v1_202608/internal/api/dto"
	"dealer_stock_v1_202608/pkg/trader"
)

// ==================== 刊登报文组装 ====================

// BuildStockPayload 把解析后的车辆数据、图片 ID 以及用户输入组装成刊登报文
// vehicle 是解析阶段产出的规范化记录，这里拷贝一份再覆盖，不改动原值
// dateOnForecourt 由编排方给定，组装是纯函数，同样的输入永远产出同样的报文
func BuildStockPayload(vehicle *trader.Vehicle, resolvedFeatures []trader.Feature, imageIDs []string, advertiserID, dateOnForecourt string, req *dto.CreateStockRequest) *trader.StockPayload {
	v := *vehicle

	// 里程与车况以用户输入为准
	v.OdometerReadingMiles = req.Mileage
	if v.OwnershipCondition == "" {
		v.OwnershipCondition = "Used"
	}

	// 配置项：用户勾选优先，否则沿用解析结果；字段恒为数组，不能缺省
	features := make([]trader.Feature, 0)
	if len(req.SelectedFeatures) > 0 {
		for _, f := range req.SelectedFeatures {
			features = append(features, trader.Feature{Name: f.Name})
		}
	} else {
		features = append(features, resolvedFeatures...)
	}

	stockRef := req.StockReference
	if stockRef == "" {
		stockRef = GenerateStockReference(v.Make, v.Model, v.Registration)
	}

	lifecycleState := req.LifecycleState
	if lifecycleState == "" {
		lifecycleState = "FORECOURT"
	}

	images := make([]trader.ImageRef, 0, len(imageIDs))
	for _, id := range imageIDs {
		images = append(images, trader.ImageRef{ImageID: id})
	}

	payload := &trader.StockPayload{
		Vehicle: &v,
		Metadata: &trader.Metadata{
			LifecycleState:  lifecycleState,
			StockReference:  stockRef,
			DateOnForecourt: dateOnForecourt,
		},
		Features: features,
		Media: &trader.Media{
			Images: images,
		},
		Advertiser: &trader.Advertiser{
			AdvertiserID: advertiserID,
			Location:     []string{},
		},
	}

	// 报价缺失时整个 adverts 块省略，上游会存成未定价库存
	if req.ForecourtPrice != nil {
		payload.Adverts = &trader.Adverts{
			ForecourtPrice: &trader.Price{AmountGBP: *req.ForecourtPrice},
			RetailAdverts: &trader.RetailAdverts{
				VatStatus:        req.VatStatus,
				AttentionGrabber: req.AttentionGrabber,
				Description:      req.Description,
				AutotraderAdvert: channelStatus(req.ChannelStatus, trader.ChannelAutotrader),
				AdvertiserAdvert: channelStatus(req.ChannelStatus, trader.ChannelAdvertiser),
				ExportAdvert:     channelStatus(req.ChannelStatus, trader.ChannelExport),
				ProfileAdvert:    channelStatus(req.ChannelStatus, trader.ChannelProfile),
				LocatorAdvert:    channelStatus(req.ChannelStatus, trader.ChannelLocator),
			},
		}
	}

	return payload
}

// channelStatus 渠道开关：请求里没提的渠道一律不发布
func channelStatus(m map[string]bool, channel string) *trader.AdvertStatus {
	status := trader.AdvertNotPublished
	if m != nil && m[channel] {
		status = trader.AdvertPublished
	}
	return &trader.AdvertStatus{Status: status}
}

// GenerateStockReference 生成库存参考号
// 格式：品牌前三位 + 车型前三位（大写）+ "-" + 牌照去符号后末四位
func GenerateStockReference(vehicleMake, vehicleModel, registration string) string {
	prefix := strings.ToUpper(firstN(vehicleMake, 3) + firstN(vehicleModel, 3))

	cleaned := make([]rune, 0, len(registration))
	for _, r := range registration {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			cleaned = append(cleaned, r)
		}
	}
	suffix := strings.ToUpper(string(cleaned))
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}

	if suffix == "" {
		return prefix
	}
	return prefix + "-" + suffix
}

// firstN 取前 n 个字符，按 rune 截断避免撕裂多字节
func firstN(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
