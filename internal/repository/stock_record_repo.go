package repository

import (
	"context"

	"gorm.io/gorm"

	"dealer_stock_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// StockRecordRepository 创建记录仓储接口
type StockRecordRepository interface {
	Create(ctx context.Context, record *model.StockRecord) error
	ListByStore(ctx context.Context, storeID int64, page, pageSize int) ([]model.StockRecord, int64, error)
}

// ==================== 仓储实现 ====================

type stockRecordRepo struct {
	db *gorm.DB
}

// NewStockRecordRepository 创建记录仓储
func NewStockRecordRepository(db *gorm.DB) StockRecordRepository {
	return &stockRecordRepo{db: db}
}

func (r *stockRecordRepo) Create(ctx context.Context, record *model.StockRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *stockRecordRepo) ListByStore(ctx context.Context, storeID int64, page, pageSize int) ([]model.StockRecord, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	query := r.db.WithContext(ctx).Model(&model.StockRecord{}).Where("store_id = ?", storeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.StockRecord
	err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	return records, total, err
}
