package repository

import (
	"context"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"gorm.io/gorm"
)

// SampleRepository 样本仓库
type SampleRepository struct {
	db *gorm.DB
}

// NewSampleRepository 创建样本仓库
func NewSampleRepository(db *gorm.DB) *SampleRepository {
	return &SampleRepository{db: db}
}

// FindByID 根据ID查找样本（答案带字段定义，动态字段按 number_order 有序）
func (r *SampleRepository) FindByID(ctx context.Context, id string) (*entity.Sample, error) {
	var sample entity.Sample
	err := r.db.WithContext(ctx).
		Preload("Answers.Field").
		Preload("DynamicFields", func(db *gorm.DB) *gorm.DB {
			return db.Order("number_order ASC")
		}).
		Where("id = ?", id).
		First(&sample).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &sample, nil
}

// CreateWithChildren 在一个事务内创建样本、答案和动态字段
// 任何一行写入失败则整体回滚
func (r *SampleRepository) CreateWithChildren(ctx context.Context, sample *entity.Sample) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answers := sample.Answers
		dynamicFields := sample.DynamicFields
		sample.Answers = nil
		sample.DynamicFields = nil
		if err := tx.Create(sample).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].SampleID = sample.ID
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}
		for i := range dynamicFields {
			dynamicFields[i].SampleID = sample.ID
			if err := tx.Create(&dynamicFields[i]).Error; err != nil {
				return err
			}
		}
		sample.Answers = answers
		sample.DynamicFields = dynamicFields
		return nil
	})
	return translateError(err)
}

// ListByProject 按项目分页查询样本，created_at 升序
func (r *SampleRepository) ListByProject(ctx context.Context, projectID string, page, pageSize int) ([]entity.Sample, int64, error) {
	return r.list(ctx, "project_id = ?", projectID, page, pageSize)
}

// ListByStage 按阶段分页查询样本，created_at 升序
func (r *SampleRepository) ListByStage(ctx context.Context, stageID string, page, pageSize int) ([]entity.Sample, int64, error) {
	return r.list(ctx, "stage_id = ?", stageID, page, pageSize)
}

func (r *SampleRepository) list(ctx context.Context, cond, arg string, page, pageSize int) ([]entity.Sample, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Sample{}).Where(cond, arg)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var samples []entity.Sample
	err := q.
		Preload("Answers.Field").
		Preload("DynamicFields", func(db *gorm.DB) *gorm.DB {
			return db.Order("number_order ASC")
		}).
		Order("created_at ASC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&samples).Error
	return samples, total, err
}

// Save 更新样本基础字段
func (r *SampleRepository) Save(ctx context.Context, sample *entity.Sample) error {
	return r.db.WithContext(ctx).
		Omit("Answers", "DynamicFields").
		Save(sample).Error
}

// AttachmentIDsByProject 查询项目下全部样本的去重附件ID
func (r *SampleRepository) AttachmentIDsByProject(ctx context.Context, projectID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&entity.Sample{}).
		Distinct("attachment_id").
		Where("project_id = ?", projectID).
		Pluck("attachment_id", &ids).Error
	return ids, err
}

// AttachmentIDsByStage 查询阶段下全部样本的去重附件ID
func (r *SampleRepository) AttachmentIDsByStage(ctx context.Context, stageID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&entity.Sample{}).
		Distinct("attachment_id").
		Where("stage_id = ?", stageID).
		Pluck("attachment_id", &ids).Error
	return ids, err
}

// DeleteCascade 删除样本及其答案和动态字段
func (r *SampleRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sample_id = ?", id).Delete(&entity.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sample_id = ?", id).Delete(&entity.DynamicField{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Sample{}).Error
	})
}

// FindAnswer 根据复合主键查找答案
func (r *SampleRepository) FindAnswer(ctx context.Context, sampleID, fieldID string) (*entity.Answer, error) {
	var answer entity.Answer
	err := r.db.WithContext(ctx).
		Where("sample_id = ? AND field_id = ?", sampleID, fieldID).
		First(&answer).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &answer, nil
}

// SaveAnswer 更新答案
func (r *SampleRepository) SaveAnswer(ctx context.Context, answer *entity.Answer) error {
	return r.db.WithContext(ctx).Omit("Field").Save(answer).Error
}

// CreateDynamicField 创建动态字段
func (r *SampleRepository) CreateDynamicField(ctx context.Context, field *entity.DynamicField) error {
	return r.db.WithContext(ctx).Create(field).Error
}

// FindDynamicField 根据ID查找动态字段
func (r *SampleRepository) FindDynamicField(ctx context.Context, id string) (*entity.DynamicField, error) {
	var field entity.DynamicField
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&field).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &field, nil
}

// SaveDynamicField 更新动态字段
func (r *SampleRepository) SaveDynamicField(ctx context.Context, field *entity.DynamicField) error {
	return r.db.WithContext(ctx).Save(field).Error
}

// DeleteDynamicField 删除动态字段
func (r *SampleRepository) DeleteDynamicField(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DynamicField{}).Error
}
