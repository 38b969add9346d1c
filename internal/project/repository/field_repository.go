package repository

import (
	"context"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"gorm.io/gorm"
)

// FieldRepository 表单字段仓库
type FieldRepository struct {
	db *gorm.DB
}

// NewFieldRepository 创建表单字段仓库
func NewFieldRepository(db *gorm.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

// FindByID 根据ID查找字段
func (r *FieldRepository) FindByID(ctx context.Context, id string) (*entity.Field, error) {
	var field entity.Field
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&field).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &field, nil
}

// ListByForm 查询表单的全部字段，number_order 升序
func (r *FieldRepository) ListByForm(ctx context.Context, formID string) ([]entity.Field, error) {
	var fields []entity.Field
	err := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("number_order ASC").
		Find(&fields).Error
	return fields, err
}

// Create 创建字段
func (r *FieldRepository) Create(ctx context.Context, field *entity.Field) error {
	return r.db.WithContext(ctx).Create(field).Error
}

// Save 更新字段
func (r *FieldRepository) Save(ctx context.Context, field *entity.Field) error {
	return r.db.WithContext(ctx).Save(field).Error
}

// DeleteCascade 删除字段及其全部答案
func (r *FieldRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", id).Delete(&entity.Answer{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Field{}).Error
	})
}
