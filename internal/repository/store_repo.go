package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"dealer_stock_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// StoreRepository 店铺仓储接口
type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	GetByID(ctx context.Context, id int64) (*model.Store, error)
	GetByOwnerEmail(ctx context.Context, email string) (*model.Store, error)
	Update(ctx context.Context, store *model.Store) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error

	// Token 相关
	UpdateToken(ctx context.Context, id int64, accessToken string, expiresAt time.Time) error
	UpdateTokenStatus(ctx context.Context, id int64, tokenStatus string) error
	FindExpiringStores(ctx context.Context, within time.Duration) ([]model.Store, error)
}

// ==================== 仓储实现 ====================

// storeRepo 店铺仓储实现
type storeRepo struct {
	db *gorm.DB
}

// NewStoreRepository 创建店铺仓储
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepo{db: db}
}

func (r *storeRepo) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepo) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) GetByOwnerEmail(ctx context.Context, email string) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).
		Where("owner_email = ? AND status = ?", email, model.StoreStatusActive).
		First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) Update(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *storeRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Store{}).Where("id = ?", id).Updates(fields).Error
}

func (r *storeRepo) UpdateToken(ctx context.Context, id int64, accessToken string, expiresAt time.Time) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"access_token":     accessToken,
		"token_expires_at": expiresAt,
		"token_status":     model.TokenStatusValid,
	})
}

func (r *storeRepo) UpdateTokenStatus(ctx context.Context, id int64, tokenStatus string) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"token_status": tokenStatus})
}

// FindExpiringStores 查出 token 即将在 within 内过期的正常店铺
func (r *storeRepo) FindExpiringStores(ctx context.Context, within time.Duration) ([]model.Store, error) {
	var stores []model.Store
	deadline := time.Now().Add(within)
	err := r.db.WithContext(ctx).
		Where("status = ? AND token_status = ? AND token_expires_at < ?",
			model.StoreStatusActive, model.TokenStatusValid, deadline).
		Find(&stores).Error
	return stores, err
}
