package service

import (
	"context"

	"dealer_stock_v1_202608/internal/api/dto"
	"dealer_stock_v1_202608/internal/model"
	"dealer_stock_v1_202608/internal/repository"
)

// ==================== 店铺素材管理 ====================

// DealerImageService 店铺素材的增删查，按登录账号定位店铺
type DealerImageService struct {
	storeRepo repository.StoreRepository
	imageRepo repository.DealerImageRepository
}

// NewDealerImageService 创建素材管理服务
func NewDealerImageService(storeRepo repository.StoreRepository, imageRepo repository.DealerImageRepository) *DealerImageService {
	return &DealerImageService{storeRepo: storeRepo, imageRepo: imageRepo}
}

// storeOf 按账号邮箱定位店铺
func (s *DealerImageService) storeOf(ctx context.Context, user *model.SysUser) (*model.Store, error) {
	if user == nil || user.Email == "" {
		return nil, NewAuthError("未登录或账号缺少邮箱", "")
	}
	store, err := s.storeRepo.GetByOwnerEmail(ctx, user.Email)
	if err != nil || store == nil {
		return nil, NewAuthError("账号未关联任何店铺", user.Email)
	}
	return store, nil
}

// ListForUser 列出当前账号店铺的素材，imageType 非空时只返回该类型
func (s *DealerImageService) ListForUser(ctx context.Context, user *model.SysUser, imageType string) ([]dto.ImageResp, error) {
	store, err := s.storeOf(ctx, user)
	if err != nil {
		return nil, err
	}

	var images []model.DealerImage
	if imageType != "" {
		images, err = s.imageRepo.ListByStoreAndType(ctx, store.ID, imageType)
	} else {
		images, err = s.imageRepo.ListByStore(ctx, store.ID, 0)
	}
	if err != nil {
		return nil, NewServerError("查询素材失败", err.Error())
	}

	resp := make([]dto.ImageResp, 0, len(images))
	for _, img := range images {
		resp = append(resp, dto.ImageResp{
			ID:        img.ID,
			Name:      img.Name,
			PublicURL: img.PublicURL,
			ImageType: img.ImageType,
			SortOrder: img.SortOrder,
		})
	}
	return resp, nil
}

// CreateForUser 为当前账号店铺新增一条素材
func (s *DealerImageService) CreateForUser(ctx context.Context, user *model.SysUser, req *dto.CreateImageRequest) (*dto.ImageResp, error) {
	store, err := s.storeOf(ctx, user)
	if err != nil {
		return nil, err
	}

	image := &model.DealerImage{
		StoreID:   store.ID,
		Name:      req.Name,
		PublicURL: req.PublicURL,
		ImageType: req.ImageType,
		SortOrder: req.SortOrder,
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		return nil, NewServerError("保存素材失败", err.Error())
	}

	return &dto.ImageResp{
		ID:        image.ID,
		Name:      image.Name,
		PublicURL: image.PublicURL,
		ImageType: image.ImageType,
		SortOrder: image.SortOrder,
	}, nil
}

// DeleteForUser 删除当前账号店铺的一条素材，越权删除按 not_found 处理
func (s *DealerImageService) DeleteForUser(ctx context.Context, user *model.SysUser, imageID int64) error {
	store, err := s.storeOf(ctx, user)
	if err != nil {
		return err
	}

	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil || image == nil || image.StoreID != store.ID {
		return NewNotFoundError("素材不存在", "")
	}

	if err := s.imageRepo.Delete(ctx, imageID); err != nil {
		return NewServerError("删除素材失败", err.Error())
	}
	return nil
}
