package repository

import (
	"context"

	"gorm.io/gorm"

	"dealer_stock_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// DealerImageRepository 经销商素材仓储接口
type DealerImageRepository interface {
	Create(ctx context.Context, image *model.DealerImage) error
	GetByID(ctx context.Context, id int64) (*model.DealerImage, error)
	// ListByStore 按配置顺序返回店铺素材，limit <= 0 时不限量
	ListByStore(ctx context.Context, storeID int64, limit int) ([]model.DealerImage, error)
	ListByStoreAndType(ctx context.Context, storeID int64, imageType string) ([]model.DealerImage, error)
	Delete(ctx context.Context, id int64) error
}

// ==================== 仓储实现 ====================

type dealerImageRepo struct {
	db *gorm.DB
}

// NewDealerImageRepository 创建素材仓储
func NewDealerImageRepository(db *gorm.DB) DealerImageRepository {
	return &dealerImageRepo{db: db}
}

func (r *dealerImageRepo) Create(ctx context.Context, image *model.DealerImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *dealerImageRepo) GetByID(ctx context.Context, id int64) (*model.DealerImage, error) {
	var image model.DealerImage
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *dealerImageRepo) ListByStore(ctx context.Context, storeID int64, limit int) ([]model.DealerImage, error) {
	var images []model.DealerImage
	query := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("sort_order ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&images).Error
	return images, err
}

func (r *dealerImageRepo) ListByStoreAndType(ctx context.Context, storeID int64, imageType string) ([]model.DealerImage, error) {
	var images []model.DealerImage
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND image_type = ?", storeID, imageType).
		Order("sort_order ASC, id ASC").
		Find(&images).Error
	return images, err
}

func (r *dealerImageRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.DealerImage{}, id).Error
}
