package service

import (
	"context"
	"fmt"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"github.com/NhatBangLe/sc-project-service/internal/project/repository"
	"github.com/google/uuid"
)

// FieldService 表单字段与动态字段服务
type FieldService struct {
	fieldRepo  *repository.FieldRepository
	formRepo   *repository.FormRepository
	sampleRepo *repository.SampleRepository
}

// NewFieldService 创建字段服务
func NewFieldService(repos *repository.Repositories) *FieldService {
	return &FieldService{
		fieldRepo:  repos.Field,
		formRepo:   repos.Form,
		sampleRepo: repos.Sample,
	}
}

// CreateFieldRequest 创建字段请求
type CreateFieldRequest struct {
	FieldName   string `json:"fieldName" binding:"required"`
	NumberOrder *int   `json:"numberOrder"`
}

// UpdateFieldRequest 更新字段请求
type UpdateFieldRequest struct {
	FieldName   *string `json:"fieldName"`
	NumberOrder *int    `json:"numberOrder"`
}

// CreateDynamicFieldRequest 创建动态字段请求
type CreateDynamicFieldRequest struct {
	Name        string `json:"name" binding:"required"`
	Value       string `json:"value" binding:"required"`
	NumberOrder *int   `json:"numberOrder"`
}

// UpdateDynamicFieldRequest 更新动态字段请求
type UpdateDynamicFieldRequest struct {
	Name        *string `json:"name"`
	Value       *string `json:"value"`
	NumberOrder *int    `json:"numberOrder"`
}

// GetField 获取字段详情
func (s *FieldService) GetField(ctx context.Context, fieldID string) (*entity.Field, error) {
	return s.findField(ctx, fieldID)
}

// ListFields 查询表单的全部字段，number_order 升序
func (s *FieldService) ListFields(ctx context.Context, formID string) ([]entity.Field, error) {
	if _, err := s.formRepo.FindByID(ctx, formID); err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: no form found with id %s", ErrNotFound, formID)
		}
		return nil, fmt.Errorf("find form: %w", err)
	}
	fields, err := s.fieldRepo.ListByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	return fields, nil
}

// CreateField 在表单下创建字段，返回新字段ID
// numberOrder 缺省为 0，允许重复和空洞
func (s *FieldService) CreateField(ctx context.Context, formID string, req *CreateFieldRequest) (string, error) {
	if _, err := s.formRepo.FindByID(ctx, formID); err != nil {
		if err == repository.ErrNotFound {
			return "", fmt.Errorf("%w: no form found with id %s", ErrNotFound, formID)
		}
		return "", fmt.Errorf("find form: %w", err)
	}

	numberOrder := 0
	if req.NumberOrder != nil {
		if *req.NumberOrder < 0 {
			return "", fmt.Errorf("%w: numberOrder cannot be less than 0", ErrIllegalAttribute)
		}
		numberOrder = *req.NumberOrder
	}

	field := &entity.Field{
		ID:          uuid.New().String(),
		NumberOrder: numberOrder,
		Name:        req.FieldName,
		FormID:      formID,
	}
	if err := s.fieldRepo.Create(ctx, field); err != nil {
		return "", fmt.Errorf("create field: %w", err)
	}
	return field.ID, nil
}

// UpdateField 更新字段
func (s *FieldService) UpdateField(ctx context.Context, fieldID string, req *UpdateFieldRequest) error {
	field, err := s.findField(ctx, fieldID)
	if err != nil {
		return err
	}

	updated := false
	if req.FieldName != nil {
		if *req.FieldName == "" {
			return fmt.Errorf("%w: field name cannot be empty", ErrIllegalAttribute)
		}
		field.Name = *req.FieldName
		updated = true
	}
	if req.NumberOrder != nil {
		if *req.NumberOrder < 0 {
			return fmt.Errorf("%w: numberOrder cannot be less than 0", ErrIllegalAttribute)
		}
		field.NumberOrder = *req.NumberOrder
		updated = true
	}

	if !updated {
		return nil
	}
	if err := s.fieldRepo.Save(ctx, field); err != nil {
		return fmt.Errorf("save field: %w", err)
	}
	return nil
}

// DeleteField 删除字段及其全部答案
func (s *FieldService) DeleteField(ctx context.Context, fieldID string) error {
	if _, err := s.findField(ctx, fieldID); err != nil {
		return err
	}
	if err := s.fieldRepo.DeleteCascade(ctx, fieldID); err != nil {
		return fmt.Errorf("delete field: %w", err)
	}
	return nil
}

// CreateDynamicField 在样本下创建动态字段，返回新ID
func (s *FieldService) CreateDynamicField(ctx context.Context, sampleID string, req *CreateDynamicFieldRequest) (string, error) {
	if _, err := s.sampleRepo.FindByID(ctx, sampleID); err != nil {
		if err == repository.ErrNotFound {
			return "", fmt.Errorf("%w: no sample found with id %s", ErrNotFound, sampleID)
		}
		return "", fmt.Errorf("find sample: %w", err)
	}

	numberOrder := 0
	if req.NumberOrder != nil {
		if *req.NumberOrder < 0 {
			return "", fmt.Errorf("%w: numberOrder cannot be less than 0", ErrIllegalAttribute)
		}
		numberOrder = *req.NumberOrder
	}

	field := &entity.DynamicField{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Value:       req.Value,
		NumberOrder: numberOrder,
		SampleID:    sampleID,
	}
	if err := s.sampleRepo.CreateDynamicField(ctx, field); err != nil {
		return "", fmt.Errorf("create dynamic field: %w", err)
	}
	return field.ID, nil
}

// UpdateDynamicField 更新动态字段（部分更新）
func (s *FieldService) UpdateDynamicField(ctx context.Context, dynamicFieldID string, req *UpdateDynamicFieldRequest) error {
	field, err := s.findDynamicField(ctx, dynamicFieldID)
	if err != nil {
		return err
	}

	updated := false
	if req.Name != nil {
		if *req.Name == "" {
			return fmt.Errorf("%w: dynamic field name cannot be empty", ErrIllegalAttribute)
		}
		field.Name = *req.Name
		updated = true
	}
	if req.Value != nil {
		field.Value = *req.Value
		updated = true
	}
	if req.NumberOrder != nil {
		if *req.NumberOrder < 0 {
			return fmt.Errorf("%w: numberOrder cannot be less than 0", ErrIllegalAttribute)
		}
		field.NumberOrder = *req.NumberOrder
		updated = true
	}

	if !updated {
		return nil
	}
	if err := s.sampleRepo.SaveDynamicField(ctx, field); err != nil {
		return fmt.Errorf("save dynamic field: %w", err)
	}
	return nil
}

// DeleteDynamicField 删除动态字段
func (s *FieldService) DeleteDynamicField(ctx context.Context, dynamicFieldID string) error {
	if _, err := s.findDynamicField(ctx, dynamicFieldID); err != nil {
		return err
	}
	if err := s.sampleRepo.DeleteDynamicField(ctx, dynamicFieldID); err != nil {
		return fmt.Errorf("delete dynamic field: %w", err)
	}
	return nil
}

func (s *FieldService) findField(ctx context.Context, fieldID string) (*entity.Field, error) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: no field found with id %s", ErrNotFound, fieldID)
		}
		return nil, fmt.Errorf("find field: %w", err)
	}
	return field, nil
}

func (s *FieldService) findDynamicField(ctx context.Context, id string) (*entity.DynamicField, error) {
	field, err := s.sampleRepo.FindDynamicField(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: no dynamic field found with id %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("find dynamic field: %w", err)
	}
	return field, nil
}
