package service

import (
	"context"
	"fmt"
	"time"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"github.com/NhatBangLe/sc-project-service/internal/project/repository"
	"github.com/google/uuid"
)

// StageService 阶段服务
type StageService struct {
	stageRepo   *repository.StageRepository
	projectRepo *repository.ProjectRepository
	formRepo    *repository.FormRepository
	sampleRepo  *repository.SampleRepository
	cleaner     *FileCleaner
}

// NewStageService 创建阶段服务
func NewStageService(repos *repository.Repositories, cleaner *FileCleaner) *StageService {
	return &StageService{
		stageRepo:   repos.Stage,
		projectRepo: repos.Project,
		formRepo:    repos.Form,
		sampleRepo:  repos.Sample,
		cleaner:     cleaner,
	}
}

// CreateStageRequest 创建阶段请求
type CreateStageRequest struct {
	Name           string     `json:"name" binding:"required"`
	Description    string     `json:"description"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	FormID         string     `json:"formId"`
	ProjectOwnerID string     `json:"projectOwnerId" binding:"required"`
	MemberIDs      []string   `json:"memberIds"`
}

// UpdateStageRequest 更新阶段请求
type UpdateStageRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	FormID      string     `json:"formId"`
}

// GetStage 获取阶段详情
func (s *StageService) GetStage(ctx context.Context, stageID string) (*entity.Stage, error) {
	stage, err := s.stageRepo.FindByID(ctx, stageID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: no stage found with id %s", ErrNotFound, stageID)
		}
		return nil, fmt.Errorf("find stage: %w", err)
	}
	return stage, nil
}

// ListStages 按项目分页查询阶段，创建时间倒序
func (s *StageService) ListStages(ctx context.Context, projectID string, page, pageSize int) (*Page[entity.Stage], error) {
	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}
	stages, total, err := s.stageRepo.ListByProject(ctx, projectID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	return NewPage(stages, total, page, pageSize), nil
}

// CreateStage 创建阶段，返回新阶段ID
// 成员必须是所属项目成员的子集，任意一个不满足则整体失败
func (s *StageService) CreateStage(ctx context.Context, req *CreateStageRequest) (string, error) {
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return "", fmt.Errorf("%w: stage start date cannot be greater than end date", ErrIllegalAttribute)
	}

	project, err := s.findProject(ctx, req.ProjectOwnerID)
	if err != nil {
		return "", err
	}

	var formID *string
	if req.FormID != "" {
		form, err := s.formRepo.FindByID(ctx, req.FormID)
		if err != nil {
			if err == repository.ErrNotFound {
				return "", fmt.Errorf("%w: no form found with id %s", ErrNotFound, req.FormID)
			}
			return "", fmt.Errorf("find form: %w", err)
		}
		if form.ProjectID != project.ID {
			return "", fmt.Errorf("%w: form %s does not belong to project %s", ErrIllegalAttribute, req.FormID, project.ID)
		}
		formID = &form.ID
	}

	members, err := resolveStageMembers(project, req.MemberIDs)
	if err != nil {
		return "", err
	}

	stage := &entity.Stage{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		FormID:      formID,
		ProjectID:   project.ID,
		Members:     members,
	}
	if err := s.stageRepo.Create(ctx, stage); err != nil {
		return "", fmt.Errorf("create stage: %w", err)
	}
	return stage.ID, nil
}

// resolveStageMembers 校验成员ID都是项目成员（owner 视作项目成员）
func resolveStageMembers(project *entity.Project, memberIDs []string) ([]entity.User, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}

	inProject := make(map[string]bool, len(project.Members)+1)
	inProject[project.OwnerID] = true
	for _, m := range project.Members {
		inProject[m.ID] = true
	}

	members := make([]entity.User, 0, len(memberIDs))
	seen := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if !inProject[id] {
			return nil, fmt.Errorf("%w: user %s is not a member of project %s", ErrIllegalAttribute, id, project.ID)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, entity.User{ID: id})
	}
	return members, nil
}

// UpdateStage 更新阶段基础属性
func (s *StageService) UpdateStage(ctx context.Context, stageID string, req *UpdateStageRequest) error {
	stage, err := s.GetStage(ctx, stageID)
	if err != nil {
		return err
	}

	updated := false

	if req.Name != nil {
		if *req.Name == "" {
			return fmt.Errorf("%w: stage name cannot be empty", ErrIllegalAttribute)
		}
		stage.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		stage.Description = *req.Description
		updated = true
	}
	if req.StartDate != nil {
		stage.StartDate = req.StartDate
		updated = true
	}
	if req.EndDate != nil {
		stage.EndDate = req.EndDate
		updated = true
	}
	if stage.StartDate != nil && stage.EndDate != nil && stage.StartDate.After(*stage.EndDate) {
		return fmt.Errorf("%w: stage start date cannot be greater than end date", ErrIllegalAttribute)
	}

	if req.FormID != "" {
		form, err := s.formRepo.FindByID(ctx, req.FormID)
		if err != nil {
			if err == repository.ErrNotFound {
				return fmt.Errorf("%w: no form found with id %s", ErrNotFound, req.FormID)
			}
			return fmt.Errorf("find form: %w", err)
		}
		if form.ProjectID != stage.ProjectID {
			return fmt.Errorf("%w: form %s does not belong to project %s", ErrIllegalAttribute, req.FormID, stage.ProjectID)
		}
		stage.FormID = &form.ID
		updated = true
	}

	if !updated {
		return nil
	}
	if err := s.stageRepo.Save(ctx, stage); err != nil {
		return fmt.Errorf("save stage: %w", err)
	}
	return nil
}

// UpdateMember 添加或移除阶段成员
// ADD 只在所属项目成员内解析，不查远端用户服务
func (s *StageService) UpdateMember(ctx context.Context, stageID string, req *MemberRequest) error {
	stage, err := s.GetStage(ctx, stageID)
	if err != nil {
		return err
	}

	isMember := false
	for _, m := range stage.Members {
		if m.ID == req.MemberID {
			isMember = true
			break
		}
	}

	switch req.Operator {
	case entity.MemberOperatorAdd:
		if isMember {
			return fmt.Errorf("%w: member already exists", ErrConflict)
		}
		project, err := s.findProject(ctx, stage.ProjectID)
		if err != nil {
			return err
		}
		inProject := req.MemberID == project.OwnerID
		for _, m := range project.Members {
			if m.ID == req.MemberID {
				inProject = true
				break
			}
		}
		if !inProject {
			return fmt.Errorf("%w: member does not exist in the project", ErrConflict)
		}
		if err := s.stageRepo.AddMember(ctx, stage, &entity.User{ID: req.MemberID}); err != nil {
			return fmt.Errorf("add stage member: %w", err)
		}
	case entity.MemberOperatorRemove:
		if !isMember {
			return fmt.Errorf("%w: member does not exist", ErrConflict)
		}
		if err := s.stageRepo.RemoveMember(ctx, stage, &entity.User{ID: req.MemberID}); err != nil {
			return fmt.Errorf("remove stage member: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnexpectedOperator, req.Operator)
	}
	return nil
}

// CheckMember 判断用户是否为阶段成员
func (s *StageService) CheckMember(ctx context.Context, stageID, userID string) (bool, error) {
	if _, err := s.GetStage(ctx, stageID); err != nil {
		return false, err
	}
	in, err := s.stageRepo.HasMember(ctx, stageID, userID)
	if err != nil {
		return false, fmt.Errorf("check stage member: %w", err)
	}
	return in, nil
}

// DeleteStage 删除阶段及其样本，并登记样本附件清理
func (s *StageService) DeleteStage(ctx context.Context, stageID string) error {
	if _, err := s.GetStage(ctx, stageID); err != nil {
		return err
	}

	attachments, err := s.sampleRepo.AttachmentIDsByStage(ctx, stageID)
	if err != nil {
		return fmt.Errorf("collect sample attachments: %w", err)
	}

	if err := s.stageRepo.DeleteCascade(ctx, stageID); err != nil {
		return fmt.Errorf("delete stage: %w", err)
	}

	s.cleaner.Enqueue(ctx, attachments...)
	return nil
}

func (s *StageService) findProject(ctx context.Context, projectID string) (*entity.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: no project found with id %s", ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return project, nil
}
