package repository

import (
	"context"

	"gorm.io/gorm"

	"dealer_stock_v1_202608/internal/model"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.SysUser, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.SysUser, error) {
	var user model.SysUser
	err := r.db.WithContext(ctx).
		Where("email = ? AND status = ?", email, model.UserStatusActive).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
