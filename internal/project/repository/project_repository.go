package repository

import (
	"context"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"gorm.io/gorm"
)

// ProjectRepository 项目仓库
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建项目仓库
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindByID 根据ID查找项目（带 owner 和成员）
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members").
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &project, nil
}

// Create 创建项目（成员关联一并写入）
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Save 更新项目基础字段（不触碰成员关联）
func (r *ProjectRepository) Save(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).
		Omit("Members", "Owner").
		Save(project).Error
}

// ListByUser 按角色和状态分页查询项目，created_at 倒序
func (r *ProjectRepository) ListByUser(ctx context.Context, userID, query, status string, page, pageSize int) ([]entity.Project, int64, error) {
	memberOf := r.db.Table("project_members").
		Select("project_id").
		Where("user_id = ?", userID)

	q := r.db.WithContext(ctx).Model(&entity.Project{}).Where("status = ?", status)
	switch query {
	case entity.ProjectQueryOwn:
		q = q.Where("owner_id = ?", userID)
	case entity.ProjectQueryJoin:
		q = q.Where("id IN (?)", memberOf)
	default: // ALL
		q = q.Where("owner_id = ? OR id IN (?)", userID, memberOf)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []entity.Project
	err := q.
		Preload("Owner").
		Preload("Members").
		Order("created_at DESC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&projects).Error
	return projects, total, err
}

// HasMember 判断用户是否为项目成员
func (r *ProjectRepository) HasMember(ctx context.Context, projectID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("project_members").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddMember 添加项目成员关联
func (r *ProjectRepository) AddMember(ctx context.Context, project *entity.Project, user *entity.User) error {
	return r.db.WithContext(ctx).
		Model(project).
		Omit("Members.*").
		Association("Members").
		Append(user)
}

// RemoveMember 移除项目成员关联（用户行保留）
func (r *ProjectRepository) RemoveMember(ctx context.Context, project *entity.Project, user *entity.User) error {
	return r.db.WithContext(ctx).
		Model(project).
		Association("Members").
		Delete(user)
}

// DeleteCascade 级联删除项目及其全部下级实体
// 只做本地行删除，远端文件清理由调用方在事务提交后处理
func (r *ProjectRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sampleIDs := tx.Model(&entity.Sample{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("sample_id IN (?)", sampleIDs).Delete(&entity.Answer{}).Error; err != nil {
			return err
		}
		sampleIDs = tx.Model(&entity.Sample{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("sample_id IN (?)", sampleIDs).Delete(&entity.DynamicField{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&entity.Sample{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM stage_members WHERE stage_id IN (SELECT id FROM stages WHERE project_id = ?)", id).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&entity.Stage{}).Error; err != nil {
			return err
		}
		formIDs := tx.Model(&entity.Form{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("form_id IN (?)", formIDs).Delete(&entity.Field{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&entity.Form{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_members WHERE project_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Project{}).Error
	})
}
