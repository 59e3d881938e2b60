package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"dealer_stock_v1_202608/internal/api/dto"
	"dealer_stock_v1_202608/internal/model"
	"dealer_stock_v1_202608/internal/repository"
	"dealer_stock_v1_202608/pkg/trader"
)

// ==================== 协作方接口 ====================

// VehicleResolver 车辆数据解析
type VehicleResolver interface {
	Resolve(ctx context.Context, storeID int64, advertiserID, token string, req *dto.CreateStockRequest) (*trader.Vehicle, []trader.Feature, error)
}

// ImageUploader 素材上传
type ImageUploader interface {
	UploadAssets(ctx context.Context, storeID int64, advertiserID, token string, assets []model.DealerImage) []UploadOutcome
}

// TokenProvider 访问令牌获取
type TokenProvider interface {
	GetAccessToken(ctx context.Context, store *model.Store) (string, error)
}

// StockSubmitter 刊登提交
type StockSubmitter interface {
	Submit(ctx context.Context, storeID int64, advertiserID, token string, payload *trader.StockPayload) (string, error)
}

// ==================== 主流程 ====================

// StockService 创建 stock 的主流程编排
type StockService struct {
	storeRepo  repository.StoreRepository
	imageRepo  repository.DealerImageRepository
	recordRepo repository.StockRecordRepository

	resolver  VehicleResolver
	uploader  ImageUploader
	tokens    TokenProvider
	submitter StockSubmitter

	requestTimeout time.Duration
	assetLimit     int
}

// NewStockService 创建主流程服务
func NewStockService(
	storeRepo repository.StoreRepository,
	imageRepo repository.DealerImageRepository,
	recordRepo repository.StockRecordRepository,
	resolver VehicleResolver,
	uploader ImageUploader,
	tokens TokenProvider,
	submitter StockSubmitter,
) *StockService {
	return &StockService{
		storeRepo:      storeRepo,
		imageRepo:      imageRepo,
		recordRepo:     recordRepo,
		resolver:       resolver,
		uploader:       uploader,
		tokens:         tokens,
		submitter:      submitter,
		requestTimeout: 2 * time.Minute,
		assetLimit:     100,
	}
}

// SetBounds 调整整单超时与素材上限，零值保持默认
func (s *StockService) SetBounds(requestTimeout time.Duration, assetLimit int) {
	if requestTimeout > 0 {
		s.requestTimeout = requestTimeout
	}
	if assetLimit > 0 {
		s.assetLimit = assetLimit
	}
}

// CreateStock 创建一条 stock
// 主链路：鉴权定位店铺 -> 取令牌 -> 解析车辆 -> 挑图上传 -> 组装 -> 提交
// 任何环节失败都记一条 failed 审计记录后返回
func (s *StockService) CreateStock(ctx context.Context, user *model.SysUser, req *dto.CreateStockRequest) (result *dto.CreateStockResult, err error) {
	// 整单限时，超时后所有在途上传/提交一并取消
	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	requestID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[StockService] 请求 %s 发生 panic: %v", requestID, r)
			result = nil
			err = NewServerError("内部错误", fmt.Sprintf("%v", r))
		}
	}()

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	// 1. 鉴权上下文决定操作哪家店铺
	if user == nil || user.Email == "" {
		return nil, NewAuthError("未登录或账号缺少邮箱", "")
	}
	store, err := s.storeRepo.GetByOwnerEmail(ctx, user.Email)
	if err != nil || store == nil {
		return nil, NewAuthError("账号未关联任何店铺", user.Email)
	}

	// 广告主配置解析一次，后续全部环节用同一个 ID（首个生效）
	advertiserIDs := store.AdvertiserIDList()
	if len(advertiserIDs) == 0 {
		return nil, NewAuthError("店铺未配置广告主 ID", "请先在店铺配置中补全")
	}
	advertiserID := advertiserIDs[0]

	// 2. 访问令牌
	token, err := s.tokens.GetAccessToken(ctx, store)
	if err != nil {
		s.saveRecord(store.ID, requestID, req, nil, "", nil, dto.ImageCounts{}, err)
		return nil, err
	}

	// 3. 车辆数据解析
	vehicle, features, err := s.resolver.Resolve(ctx, store.ID, advertiserID, token, req)
	if err != nil {
		s.saveRecord(store.ID, requestID, req, nil, "", nil, dto.ImageCounts{}, err)
		return nil, err
	}

	// 4. 店铺素材：查不到只影响图片，不能挡整单
	assets, err := s.imageRepo.ListByStore(ctx, store.ID, s.assetLimit)
	if err != nil {
		log.Printf("[StockService] 请求 %s 查询店铺素材失败，按无素材继续: %v", requestID, err)
		assets = nil
	}

	selection := SelectImages(req.UserImageIDs, assets)

	var fallbackOutcomes, defaultOutcomes []UploadOutcome
	if len(selection.FallbackAssets) > 0 {
		fallbackOutcomes = s.uploader.UploadAssets(ctx, store.ID, advertiserID, token, selection.FallbackAssets)
	}
	if len(selection.DefaultAssets) > 0 {
		defaultOutcomes = s.uploader.UploadAssets(ctx, store.ID, advertiserID, token, selection.DefaultAssets)
	}

	imageIDs := MergeImageIDs(selection, fallbackOutcomes, defaultOutcomes)
	counts := countBySource(req.UserImageIDs, fallbackOutcomes, defaultOutcomes)

	// 5. 组装并提交，上架日期在编排层取定
	payload := BuildStockPayload(vehicle, features, imageIDs, advertiserID, time.Now().Format("2006-01-02"), req)

	stockID, err := s.submitter.Submit(ctx, store.ID, advertiserID, token, payload)
	if err != nil {
		s.saveRecord(store.ID, requestID, req, vehicle, "", payload, counts, err)
		return nil, err
	}

	s.saveRecord(store.ID, requestID, req, vehicle, stockID, payload, counts, nil)

	log.Printf("[StockService] 请求 %s 刊登成功 stockId=%s make=%s model=%s 图片 %d/%d/%d 失败 %d",
		requestID, stockID, vehicle.Make, vehicle.Model,
		counts.User, counts.Fallback, counts.Default, counts.Failed)

	return &dto.CreateStockResult{
		StockID:      stockID,
		Flow:         req.Flow,
		Make:         vehicle.Make,
		Model:        vehicle.Model,
		Derivative:   vehicle.Derivative,
		Registration: vehicle.Registration,
		ImageCounts:  counts,
		RequestID:    requestID,
	}, nil
}

// validateRequest 校验 flow 与识别字段的互斥关系
func (s *StockService) validateRequest(req *dto.CreateStockRequest) error {
	if req.Mileage <= 0 {
		return NewValidationError("里程必须为正数", "")
	}

	switch req.Flow {
	case dto.FlowRegistrationLookup:
		if req.Registration == "" {
			return NewValidationError("registration-lookup 流程必须提供 registration", "")
		}
		if req.DerivativeID != "" {
			return NewValidationError("registration-lookup 流程不接受 derivativeId", "")
		}
	case dto.FlowTaxonomyLookup:
		if req.DerivativeID == "" {
			return NewValidationError("taxonomy-lookup 流程必须提供 derivativeId", "")
		}
		if req.Registration != "" {
			return NewValidationError("taxonomy-lookup 流程不接受 registration", "")
		}
	default:
		return NewValidationError("不支持的 flow", req.Flow)
	}

	return nil
}

// countBySource 统计各来源的成功/失败图片数
func countBySource(userImageIDs []string, fallbackOutcomes, defaultOutcomes []UploadOutcome) dto.ImageCounts {
	counts := dto.ImageCounts{User: len(userImageIDs)}
	for _, o := range fallbackOutcomes {
		if o.OK() {
			counts.Fallback++
		} else {
			counts.Failed++
		}
	}
	for _, o := range defaultOutcomes {
		if o.OK() {
			counts.Default++
		} else {
			counts.Failed++
		}
	}
	return counts
}

// saveRecord 写审计记录，尽力而为：写失败只打日志
// 刻意不用请求 ctx，避免整单超时后连审计都写不进去
func (s *StockService) saveRecord(storeID int64, requestID string, req *dto.CreateStockRequest, vehicle *trader.Vehicle, stockID string, payload *trader.StockPayload, counts dto.ImageCounts, cause error) {
	record := &model.StockRecord{
		StoreID:   storeID,
		RequestID: requestID,
		Flow:      req.Flow,
		StockID:   stockID,
		Status:    model.StockRecordStatusCreated,

		UserImageCount:     counts.User,
		FallbackImageCount: counts.Fallback,
		DefaultImageCount:  counts.Default,
		FailedImageCount:   counts.Failed,
	}

	if vehicle != nil {
		record.Registration = vehicle.Registration
		record.Make = vehicle.Make
		record.Model = vehicle.Model
		record.Derivative = vehicle.Derivative
	} else {
		record.Registration = req.Registration
	}

	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			record.Payload = datatypes.JSON(data)
		}
	}

	if cause != nil {
		record.Status = model.StockRecordStatusFailed
		record.ErrorMessage = cause.Error()
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.recordRepo.Create(saveCtx, record); err != nil {
		log.Printf("[StockService] 请求 %s 审计记录写入失败: %v", requestID, err)
	}
}

// GetFlowDocs 返回两条流程的使用说明（前端表单与排障共用）
func (s *StockService) GetFlowDocs() *dto.FlowDocResponse {
	return &dto.FlowDocResponse{
		Flows: []dto.FlowInfo{
			{
				Flow:        dto.FlowRegistrationLookup,
				Description: "按英国车牌查询完整车辆档案，适合在册车辆",
				Example: map[string]interface{}{
					"flow":         dto.FlowRegistrationLookup,
					"registration": "KY24TKT",
					"mileage":      12000,
				},
			},
			{
				Flow:        dto.FlowTaxonomyLookup,
				Description: "按 taxonomy 派生 ID 查询技术参数，配合 year/plate/colour 使用，适合新到未上牌车辆",
				Example: map[string]interface{}{
					"flow":         dto.FlowTaxonomyLookup,
					"derivativeId": "8a2d4f6e9c1b",
					"year":         2024,
					"plate":        "KY24TKT",
					"colour":       "Mythos Black",
					"mileage":      50,
				},
			},
		},
	}
}

// ListRecords 分页查询当前账号店铺的创建记录
func (s *StockService) ListRecords(ctx context.Context, user *model.SysUser, page, pageSize int) ([]dto.StockRecordResp, int64, error) {
	if user == nil || user.Email == "" {
		return nil, 0, NewAuthError("未登录或账号缺少邮箱", "")
	}
	store, err := s.storeRepo.GetByOwnerEmail(ctx, user.Email)
	if err != nil || store == nil {
		return nil, 0, NewAuthError("账号未关联任何店铺", user.Email)
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	records, total, err := s.recordRepo.ListByStore(ctx, store.ID, page, pageSize)
	if err != nil {
		return nil, 0, NewServerError("查询创建记录失败", err.Error())
	}

	resp := make([]dto.StockRecordResp, 0, len(records))
	for _, r := range records {
		resp = append(resp, dto.StockRecordResp{
			ID:                 r.ID,
			RequestID:          r.RequestID,
			Flow:               r.Flow,
			Registration:       r.Registration,
			Make:               r.Make,
			Model:              r.Model,
			Derivative:         r.Derivative,
			StockID:            r.StockID,
			Status:             r.Status,
			ErrorMessage:       r.ErrorMessage,
			UserImageCount:     r.UserImageCount,
			FallbackImageCount: r.FallbackImageCount,
			DefaultImageCount:  r.DefaultImageCount,
			FailedImageCount:   r.FailedImageCount,
			CreatedAt:          r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return resp, total, nil
}
