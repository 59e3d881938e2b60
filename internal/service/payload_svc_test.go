package service

import (
	"testing"

	"dealer_stock_v1_202608/internal/api/dto"
	"dealer_stock_v1_202608/pkg/trader"
)

func baseVehicle() *trader.Vehicle {
	return &trader.Vehicle{
		Make:         "Audi",
		Model:        "Q7",
		Derivative:   "SQ7 Vorsprung",
		Registration: "KY24TKT",
	}
}

func TestBuildStockPayload_AdvertsOnlyWithPrice(t *testing.T) {
	req := &dto.CreateStockRequest{Flow: dto.FlowRegistrationLookup, Mileage: 12000}

	payload := BuildStockPayload(baseVehicle(), nil, nil, "10028", "2026-08-30", req)
	if payload.Adverts != nil {
		t.Error("无报价时不应产出 adverts 块")
	}

	price := 49999.0
	req.ForecourtPrice = &price
	payload = BuildStockPayload(baseVehicle(), nil, nil, "10028", "2026-08-30", req)

	if payload.Adverts == nil {
		t.Fatal("带报价时必须有 adverts 块")
	}
	if payload.Adverts.ForecourtPrice.AmountGBP != 49999.0 {
		t.Errorf("amountGBP = %v", payload.Adverts.ForecourtPrice.AmountGBP)
	}
}

func TestBuildStockPayload_FiveChannelsAlwaysPresent(t *testing.T) {
	price := 100.0
	req := &dto.CreateStockRequest{
		Flow:           dto.FlowRegistrationLookup,
		Mileage:        500,
		ForecourtPrice: &price,
		ChannelStatus: map[string]bool{
			trader.ChannelAutotrader: true,
		},
	}

	payload := BuildStockPayload(baseVehicle(), nil, nil, "10028", "2026-08-30", req)
	ra := payload.Adverts.RetailAdverts

	// 五个渠道缺一不可，没提的按未发布
	channels := map[string]*trader.AdvertStatus{
		"autotrader": ra.AutotraderAdvert,
		"advertiser": ra.AdvertiserAdvert,
		"export":     ra.ExportAdvert,
		"profile":    ra.ProfileAdvert,
		"locator":    ra.LocatorAdvert,
	}
	for name, ch := range channels {
		if ch == nil {
			t.Fatalf("渠道 %s 缺失", name)
		}
	}
	if ra.AutotraderAdvert.Status != trader.AdvertPublished {
		t.Errorf("autotrader = %s, want %s", ra.AutotraderAdvert.Status, trader.AdvertPublished)
	}
	if ra.ExportAdvert.Status != trader.AdvertNotPublished {
		t.Errorf("export = %s, want %s", ra.ExportAdvert.Status, trader.AdvertNotPublished)
	}
}

func TestBuildStockPayload_Overrides(t *testing.T) {
	req := &dto.CreateStockRequest{Flow: dto.FlowRegistrationLookup, Mileage: 7777}
	vehicle := baseVehicle()
	vehicle.OdometerReadingMiles = 1 // 解析结果会被用户里程覆盖

	payload := BuildStockPayload(vehicle, nil, []string{"img-1", "img-2"}, "10028", "2026-08-30", req)

	if payload.Vehicle.OdometerReadingMiles != 7777 {
		t.Errorf("odometer = %d, want 7777", payload.Vehicle.OdometerReadingMiles)
	}
	if payload.Vehicle.OwnershipCondition != "Used" {
		t.Errorf("ownershipCondition = %s, want Used", payload.Vehicle.OwnershipCondition)
	}
	// 入参车辆不被改动
	if vehicle.OdometerReadingMiles != 1 {
		t.Errorf("入参车辆被改动: %d", vehicle.OdometerReadingMiles)
	}

	if len(payload.Media.Images) != 2 || payload.Media.Images[0].ImageID != "img-1" {
		t.Errorf("media = %+v", payload.Media)
	}
	if payload.Advertiser.AdvertiserID != "10028" {
		t.Errorf("advertiserId = %s", payload.Advertiser.AdvertiserID)
	}
	if payload.Advertiser.Location == nil {
		t.Error("location 必须是空数组而非 null")
	}
	if payload.Features == nil {
		t.Error("features 必须是数组而非 null")
	}
}

func TestBuildStockPayload_SelectedFeaturesWin(t *testing.T) {
	req := &dto.CreateStockRequest{
		Flow:             dto.FlowRegistrationLookup,
		Mileage:          100,
		SelectedFeatures: []dto.FeatureDTO{{Name: "Heated Seats"}},
	}
	resolved := []trader.Feature{{Name: "Panoramic Roof"}, {Name: "Tow Bar"}}

	payload := BuildStockPayload(baseVehicle(), resolved, nil, "10028", "2026-08-30", req)
	if len(payload.Features) != 1 || payload.Features[0].Name != "Heated Seats" {
		t.Errorf("features = %+v", payload.Features)
	}

	// 未勾选时沿用解析结果
	req.SelectedFeatures = nil
	payload = BuildStockPayload(baseVehicle(), resolved, nil, "10028", "2026-08-30", req)
	if len(payload.Features) != 2 {
		t.Errorf("features = %+v", payload.Features)
	}
}

func TestBuildStockPayload_Deterministic(t *testing.T) {
	req := &dto.CreateStockRequest{Flow: dto.FlowRegistrationLookup, Mileage: 100}

	// 上架日期原样进报文，组装不自己看表
	first := BuildStockPayload(baseVehicle(), nil, nil, "10028", "2026-08-30", req)
	if first.Metadata.DateOnForecourt != "2026-08-30" {
		t.Errorf("dateOnForecourt = %s, want 2026-08-30", first.Metadata.DateOnForecourt)
	}

	second := BuildStockPayload(baseVehicle(), nil, nil, "10028", "2026-08-30", req)
	if *first.Metadata != *second.Metadata {
		t.Errorf("相同输入产出了不同 metadata: %+v vs %+v", first.Metadata, second.Metadata)
	}
}

func TestGenerateStockReference(t *testing.T) {
	tests := []struct {
		name         string
		vehicleMake  string
		vehicleModel string
		registration string
		want         string
	}{
		{"常规", "Audi", "Q7", "KY24 TKT", "AUDQ7-4TKT"},
		{"短牌照", "Ford", "Transit", "AB1", "FORTRA-AB1"},
		{"无牌照", "Ford", "Transit", "", "FORTRA"},
		{"牌照全符号", "Ford", "Transit", "--- ", "FORTRA"},
		{"小写归一", "audi", "q7", "ky24tkt", "AUDQ7-4TKT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateStockReference(tt.vehicleMake, tt.vehicleModel, tt.registration)
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuildStockPayload_StockReferenceDefaulting(t *testing.T) {
	req := &dto.CreateStockRequest{Flow: dto.FlowRegistrationLookup, Mileage: 100}

	payload := BuildStockPayload(baseVehicle(), nil, nil, "10028", "2026-08-30", req)
	if payload.Metadata.StockReference != "AUDQ7-4TKT" {
		t.Errorf("stockReference = %s", payload.Metadata.StockReference)
	}

	req.StockReference = "MY-OWN-REF"
	payload = BuildStockPayload(baseVehicle(), nil, nil, "10028", "2026-08-30", req)
	if payload.Metadata.StockReference != "MY-OWN-REF" {
		t.Errorf("stockReference = %s, want MY-OWN-REF", payload.Metadata.StockReference)
	}

	if payload.Metadata.LifecycleState != "FORECOURT" {
		t.Errorf("lifecycleState = %s, want FORECOURT", payload.Metadata.LifecycleState)
	}
}
