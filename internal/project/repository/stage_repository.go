package repository

import (
	"context"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"gorm.io/gorm"
)

// StageRepository 阶段仓库
type StageRepository struct {
	db *gorm.DB
}

// NewStageRepository 创建阶段仓库
func NewStageRepository(db *gorm.DB) *StageRepository {
	return &StageRepository{db: db}
}

// FindByID 根据ID查找阶段（带成员）
func (r *StageRepository) FindByID(ctx context.Context, id string) (*entity.Stage, error) {
	var stage entity.Stage
	err := r.db.WithContext(ctx).
		Preload("Members").
		Where("id = ?", id).
		First(&stage).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &stage, nil
}

// ListByProject 按项目分页查询阶段，created_at 倒序
func (r *StageRepository) ListByProject(ctx context.Context, projectID string, page, pageSize int) ([]entity.Stage, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Stage{}).Where("project_id = ?", projectID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var stages []entity.Stage
	err := q.
		Preload("Members").
		Order("created_at DESC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&stages).Error
	return stages, total, err
}

// Create 创建阶段（成员关联一并写入）
func (r *StageRepository) Create(ctx context.Context, stage *entity.Stage) error {
	return r.db.WithContext(ctx).Create(stage).Error
}

// Save 更新阶段基础字段（不触碰成员关联）
func (r *StageRepository) Save(ctx context.Context, stage *entity.Stage) error {
	return r.db.WithContext(ctx).Omit("Members").Save(stage).Error
}

// HasMember 判断用户是否为阶段成员
func (r *StageRepository) HasMember(ctx context.Context, stageID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("stage_members").
		Where("stage_id = ? AND user_id = ?", stageID, userID).
		Count(&count).Error
	return count > 0, err
}

// HasMemberInProject 判断用户是否属于项目内任意阶段
func (r *StageRepository) HasMemberInProject(ctx context.Context, projectID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("stage_members").
		Joins("JOIN stages ON stages.id = stage_members.stage_id").
		Where("stages.project_id = ? AND stage_members.user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddMember 添加阶段成员关联
func (r *StageRepository) AddMember(ctx context.Context, stage *entity.Stage, user *entity.User) error {
	return r.db.WithContext(ctx).
		Model(stage).
		Omit("Members.*").
		Association("Members").
		Append(user)
}

// RemoveMember 移除阶段成员关联
func (r *StageRepository) RemoveMember(ctx context.Context, stage *entity.Stage, user *entity.User) error {
	return r.db.WithContext(ctx).
		Model(stage).
		Association("Members").
		Delete(user)
}

// IDsByForm 查询使用指定表单的阶段ID列表
func (r *StageRepository) IDsByForm(ctx context.Context, formID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&entity.Stage{}).
		Where("form_id = ?", formID).
		Pluck("id", &ids).Error
	return ids, err
}

// CountByForm 统计使用指定表单的阶段数量
func (r *StageRepository) CountByForm(ctx context.Context, formID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Stage{}).
		Where("form_id = ?", formID).
		Count(&count).Error
	return count, err
}

// DeleteCascade 级联删除阶段及其样本数据
func (r *StageRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sampleIDs := tx.Model(&entity.Sample{}).Select("id").Where("stage_id = ?", id)
		if err := tx.Where("sample_id IN (?)", sampleIDs).Delete(&entity.Answer{}).Error; err != nil {
			return err
		}
		sampleIDs = tx.Model(&entity.Sample{}).Select("id").Where("stage_id = ?", id)
		if err := tx.Where("sample_id IN (?)", sampleIDs).Delete(&entity.DynamicField{}).Error; err != nil {
			return err
		}
		if err := tx.Where("stage_id = ?", id).Delete(&entity.Sample{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM stage_members WHERE stage_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Stage{}).Error
	})
}
