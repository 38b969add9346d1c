package service

import (
	"context"
	"fmt"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"github.com/NhatBangLe/sc-project-service/internal/project/repository"
	"github.com/google/uuid"
)

// FormService 表单服务
type FormService struct {
	formRepo    *repository.FormRepository
	projectRepo *repository.ProjectRepository
	stageRepo   *repository.StageRepository
}

// NewFormService 创建表单服务
func NewFormService(repos *repository.Repositories) *FormService {
	return &FormService{
		formRepo:    repos.Form,
		projectRepo: repos.Project,
		stageRepo:   repos.Stage,
	}
}

// CreateFormRequest 创建表单请求
type CreateFormRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	ProjectOwnerID string `json:"projectOwnerId" binding:"required"`
}

// UpdateFormRequest 更新表单请求
type UpdateFormRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// GetForm 获取表单详情（字段有序，并带引用该表单的阶段ID）
func (s *FormService) GetForm(ctx context.Context, formID string) (*entity.Form, error) {
	form, err := s.findForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	usage, err := s.stageRepo.IDsByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("find form usage: %w", err)
	}
	form.UsageStageIDs = usage
	return form, nil
}

// ListForms 按项目分页查询表单，创建时间倒序
func (s *FormService) ListForms(ctx context.Context, projectID string, page, pageSize int) (*Page[entity.Form], error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: no project found with id %s", ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	forms, total, err := s.formRepo.ListByProject(ctx, projectID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return NewPage(forms, total, page, pageSize), nil
}

// CreateForm 创建表单，返回新表单ID
func (s *FormService) CreateForm(ctx context.Context, req *CreateFormRequest) (string, error) {
	if _, err := s.projectRepo.FindByID(ctx, req.ProjectOwnerID); err != nil {
		if err == repository.ErrNotFound {
			return "", fmt.Errorf("%w: no project found with id %s", ErrNotFound, req.ProjectOwnerID)
		}
		return "", fmt.Errorf("find project: %w", err)
	}

	form := &entity.Form{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectOwnerID,
	}
	if err := s.formRepo.Create(ctx, form); err != nil {
		return "", fmt.Errorf("create form: %w", err)
	}
	return form.ID, nil
}

// UpdateForm 更新表单基础属性
func (s *FormService) UpdateForm(ctx context.Context, formID string, req *UpdateFormRequest) error {
	form, err := s.findForm(ctx, formID)
	if err != nil {
		return err
	}

	updated := false
	if req.Title != nil {
		if *req.Title == "" {
			return fmt.Errorf("%w: form title cannot be empty", ErrIllegalAttribute)
		}
		form.Title = *req.Title
		updated = true
	}
	if req.Description != nil {
		form.Description = *req.Description
		updated = true
	}

	if !updated {
		return nil
	}
	if err := s.formRepo.Save(ctx, form); err != nil {
		return fmt.Errorf("save form: %w", err)
	}
	return nil
}

// DeleteForm 删除表单及其字段
// 表单仍被任何阶段引用时拒绝删除
func (s *FormService) DeleteForm(ctx context.Context, formID string) error {
	if _, err := s.findForm(ctx, formID); err != nil {
		return err
	}

	inUse, err := s.stageRepo.CountByForm(ctx, formID)
	if err != nil {
		return fmt.Errorf("count form usage: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("%w: form %s is still used by %d stage(s)", ErrConflict, formID, inUse)
	}

	if err := s.formRepo.DeleteCascade(ctx, formID); err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	return nil
}

func (s *FormService) findForm(ctx context.Context, formID string) (*entity.Form, error) {
	form, err := s.formRepo.FindByID(ctx, formID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: no form found with id %s", ErrNotFound, formID)
		}
		return nil, fmt.Errorf("find form: %w", err)
	}
	return form, nil
}
