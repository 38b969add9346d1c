package repository

import (
	"context"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository 用户仓库
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID 根据ID查找用户
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindAllByIDs 批量查找用户，缺失的ID不会报错
func (r *UserRepository) FindAllByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	var users []entity.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).Error
	return users, err
}

// Ensure 按引用补建用户占位行（存在则不变）
func (r *UserRepository) Ensure(ctx context.Context, id string) (*entity.User, error) {
	user := entity.User{ID: id}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
