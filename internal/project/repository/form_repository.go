package repository

import (
	"context"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"gorm.io/gorm"
)

// FormRepository 表单仓库
type FormRepository struct {
	db *gorm.DB
}

// NewFormRepository 创建表单仓库
func NewFormRepository(db *gorm.DB) *FormRepository {
	return &FormRepository{db: db}
}

// FindByID 根据ID查找表单（字段按 number_order 有序）
func (r *FormRepository) FindByID(ctx context.Context, id string) (*entity.Form, error) {
	var form entity.Form
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("number_order ASC")
		}).
		Where("id = ?", id).
		First(&form).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &form, nil
}

// ListByProject 按项目分页查询表单，created_at 倒序
func (r *FormRepository) ListByProject(ctx context.Context, projectID string, page, pageSize int) ([]entity.Form, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Form{}).Where("project_id = ?", projectID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var forms []entity.Form
	err := q.
		Order("created_at DESC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&forms).Error
	return forms, total, err
}

// Create 创建表单
func (r *FormRepository) Create(ctx context.Context, form *entity.Form) error {
	return r.db.WithContext(ctx).Omit("Fields").Create(form).Error
}

// Save 更新表单基础字段
func (r *FormRepository) Save(ctx context.Context, form *entity.Form) error {
	return r.db.WithContext(ctx).Omit("Fields").Save(form).Error
}

// DeleteCascade 删除表单及其全部字段
// 调用方须先确认没有阶段仍在使用该表单
func (r *FormRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fieldIDs := tx.Model(&entity.Field{}).Select("id").Where("form_id = ?", id)
		if err := tx.Where("field_id IN (?)", fieldIDs).Delete(&entity.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", id).Delete(&entity.Field{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Form{}).Error
	})
}
