package service

import (
	"context"
	"fmt"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"github.com/NhatBangLe/sc-project-service/internal/project/repository"
	"github.com/google/uuid"
)

// SampleService 样本服务
type SampleService struct {
	sampleRepo  *repository.SampleRepository
	stageRepo   *repository.StageRepository
	projectRepo *repository.ProjectRepository
	fieldRepo   *repository.FieldRepository
	files       FileClient
	cleaner     *FileCleaner
}

// NewSampleService 创建样本服务
func NewSampleService(repos *repository.Repositories, files FileClient, cleaner *FileCleaner) *SampleService {
	return &SampleService{
		sampleRepo:  repos.Sample,
		stageRepo:   repos.Stage,
		projectRepo: repos.Project,
		fieldRepo:   repos.Field,
		files:       files,
		cleaner:     cleaner,
	}
}

// AnswerUpsertRequest 答案写入请求
type AnswerUpsertRequest struct {
	Value   string `json:"value"`
	FieldID string `json:"fieldId" binding:"required"`
}

// CreateSampleRequest 创建样本请求
type CreateSampleRequest struct {
	AttachmentID  string                      `json:"attachmentId" binding:"required"`
	Position      string                      `json:"position"`
	StageID       string                      `json:"stageId" binding:"required"`
	Answers       []AnswerUpsertRequest       `json:"answers"`
	DynamicFields []CreateDynamicFieldRequest `json:"dynamicFields"`
}

// UpdateSampleRequest 更新样本请求
type UpdateSampleRequest struct {
	Position *string `json:"position"`
}

// UpdateAnswerRequest 更新答案请求
type UpdateAnswerRequest struct {
	Value *string `json:"value"`
}

// GetSample 获取样本详情（答案带字段定义，动态字段有序）
func (s *SampleService) GetSample(ctx context.Context, sampleID string) (*entity.Sample, error) {
	return s.findSample(ctx, sampleID)
}

// ListSamplesByProject 按项目分页查询样本，创建时间升序
func (s *SampleService) ListSamplesByProject(ctx context.Context, projectID string, page, pageSize int) (*Page[entity.Sample], error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: no project found with id %s", ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	samples, total, err := s.sampleRepo.ListByProject(ctx, projectID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	return NewPage(samples, total, page, pageSize), nil
}

// ListSamplesByStage 按阶段分页查询样本，创建时间升序
func (s *SampleService) ListSamplesByStage(ctx context.Context, stageID string, page, pageSize int) (*Page[entity.Sample], error) {
	if _, err := s.findStage(ctx, stageID); err != nil {
		return nil, err
	}
	samples, total, err := s.sampleRepo.ListByStage(ctx, stageID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	return NewPage(samples, total, page, pageSize), nil
}

// CreateSample 在一个事务内创建样本及其答案和动态字段，返回新样本ID
// 项目归属由阶段推导；重复的 (sampleId, fieldId) 导致整体失败
func (s *SampleService) CreateSample(ctx context.Context, req *CreateSampleRequest) (string, error) {
	stage, err := s.findStage(ctx, req.StageID)
	if err != nil {
		return "", err
	}

	exists, err := s.files.CheckFileExists(ctx, req.AttachmentID)
	if err != nil {
		return "", fmt.Errorf("%w: cannot check attachment existence: %v", ErrIllegalAttribute, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: attachment file does not exist", ErrIllegalAttribute)
	}

	sampleID := uuid.New().String()

	answers := make([]entity.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		if _, err := s.fieldRepo.FindByID(ctx, a.FieldID); err != nil {
			if err == repository.ErrNotFound {
				return "", fmt.Errorf("%w: no field found with id %s", ErrNotFound, a.FieldID)
			}
			return "", fmt.Errorf("find field: %w", err)
		}
		answers = append(answers, entity.Answer{
			SampleID: sampleID,
			FieldID:  a.FieldID,
			Value:    a.Value,
		})
	}

	dynamicFields := make([]entity.DynamicField, 0, len(req.DynamicFields))
	for _, d := range req.DynamicFields {
		numberOrder := 0
		if d.NumberOrder != nil {
			if *d.NumberOrder < 0 {
				return "", fmt.Errorf("%w: numberOrder cannot be less than 0", ErrIllegalAttribute)
			}
			numberOrder = *d.NumberOrder
		}
		dynamicFields = append(dynamicFields, entity.DynamicField{
			ID:          uuid.New().String(),
			Name:        d.Name,
			Value:       d.Value,
			NumberOrder: numberOrder,
			SampleID:    sampleID,
		})
	}

	sample := &entity.Sample{
		ID:            sampleID,
		AttachmentID:  req.AttachmentID,
		Position:      req.Position,
		ProjectID:     stage.ProjectID,
		StageID:       stage.ID,
		Answers:       answers,
		DynamicFields: dynamicFields,
	}
	if err := s.sampleRepo.CreateWithChildren(ctx, sample); err != nil {
		if err == repository.ErrDuplicateKey {
			return "", fmt.Errorf("%w: duplicate answer for one field", ErrConflict)
		}
		return "", fmt.Errorf("create sample: %w", err)
	}
	return sample.ID, nil
}

// UpdateSample 更新样本位置
func (s *SampleService) UpdateSample(ctx context.Context, sampleID string, req *UpdateSampleRequest) error {
	sample, err := s.findSample(ctx, sampleID)
	if err != nil {
		return err
	}
	if req.Position == nil {
		return nil
	}
	sample.Position = *req.Position
	if err := s.sampleRepo.Save(ctx, sample); err != nil {
		return fmt.Errorf("save sample: %w", err)
	}
	return nil
}

// UpdateAnswer 更新答案，只按复合主键查找，不存在不补建
func (s *SampleService) UpdateAnswer(ctx context.Context, sampleID, fieldID string, req *UpdateAnswerRequest) error {
	if req.Value == nil {
		return fmt.Errorf("%w: answer value cannot be null", ErrIllegalAttribute)
	}

	answer, err := s.sampleRepo.FindAnswer(ctx, sampleID, fieldID)
	if err != nil {
		if err == repository.ErrNotFound {
			return fmt.Errorf("%w: answer not found with sample id %s and field id %s", ErrNotFound, sampleID, fieldID)
		}
		return fmt.Errorf("find answer: %w", err)
	}

	answer.Value = *req.Value
	if err := s.sampleRepo.SaveAnswer(ctx, answer); err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}

// DeleteSample 删除样本及其子实体，并登记附件清理
func (s *SampleService) DeleteSample(ctx context.Context, sampleID string) error {
	sample, err := s.findSample(ctx, sampleID)
	if err != nil {
		return err
	}

	if err := s.sampleRepo.DeleteCascade(ctx, sampleID); err != nil {
		return fmt.Errorf("delete sample: %w", err)
	}

	s.cleaner.Enqueue(ctx, sample.AttachmentID)
	return nil
}

func (s *SampleService) findSample(ctx context.Context, sampleID string) (*entity.Sample, error) {
	sample, err := s.sampleRepo.FindByID(ctx, sampleID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: no sample found with id %s", ErrNotFound, sampleID)
		}
		return nil, fmt.Errorf("find sample: %w", err)
	}
	return sample, nil
}

func (s *SampleService) findStage(ctx context.Context, stageID string) (*entity.Stage, error) {
	stage, err := s.stageRepo.FindByID(ctx, stageID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: no stage found with id %s", ErrNotFound, stageID)
		}
		return nil, fmt.Errorf("find stage: %w", err)
	}
	return stage, nil
}
