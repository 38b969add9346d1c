package service

import (
	"context"
	"fmt"
	"time"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"github.com/NhatBangLe/sc-project-service/internal/project/repository"
	"github.com/google/uuid"
)

// ProjectService 项目服务
type ProjectService struct {
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
	stageRepo   *repository.StageRepository
	sampleRepo  *repository.SampleRepository
	users       UserClient
	files       FileClient
	cleaner     *FileCleaner
}

// NewProjectService 创建项目服务
func NewProjectService(repos *repository.Repositories, users UserClient, files FileClient, cleaner *FileCleaner) *ProjectService {
	return &ProjectService{
		projectRepo: repos.Project,
		userRepo:    repos.User,
		stageRepo:   repos.Stage,
		sampleRepo:  repos.Sample,
		users:       users,
		files:       files,
		cleaner:     cleaner,
	}
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	ThumbnailID string     `json:"thumbnailId"`
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	OwnerID     string     `json:"ownerId" binding:"required"`
	MemberIDs   []string   `json:"memberIds"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	ThumbnailID string     `json:"thumbnailId"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// MemberRequest 成员变更请求（项目和阶段共用）
type MemberRequest struct {
	MemberID string `json:"memberId" binding:"required"`
	Operator string `json:"operator" binding:"required"`
}

// GetProject 获取项目详情
func (s *ProjectService) GetProject(ctx context.Context, projectID string) (*entity.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: no project found with id %s", ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return project, nil
}

// ListProjects 按角色和状态分页查询项目，创建时间倒序
func (s *ProjectService) ListProjects(ctx context.Context, userID, query, status string, page, pageSize int) (*Page[entity.Project], error) {
	switch query {
	case entity.ProjectQueryAll, entity.ProjectQueryOwn, entity.ProjectQueryJoin:
	default:
		return nil, fmt.Errorf("%w: unknown query type %q", ErrIllegalAttribute, query)
	}
	switch status {
	case entity.ProjectStatusNormal, entity.ProjectStatusArchived:
	default:
		return nil, fmt.Errorf("%w: unknown project status %q", ErrIllegalAttribute, status)
	}

	projects, total, err := s.projectRepo.ListByUser(ctx, userID, query, status, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return NewPage(projects, total, page, pageSize), nil
}

// CreateProject 创建项目，返回新项目ID
func (s *ProjectService) CreateProject(ctx context.Context, req *CreateProjectRequest) (string, error) {
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return "", fmt.Errorf("%w: project start date cannot be greater than end date", ErrIllegalAttribute)
	}

	if err := s.requireUser(ctx, req.OwnerID); err != nil {
		return "", err
	}
	if _, err := s.userRepo.Ensure(ctx, req.OwnerID); err != nil {
		return "", fmt.Errorf("ensure owner row: %w", err)
	}

	var thumbnailID *string
	if req.ThumbnailID != "" {
		exists, err := s.files.CheckFileExists(ctx, req.ThumbnailID)
		if err != nil {
			return "", fmt.Errorf("%w: cannot check thumbnail existence: %v", ErrIllegalAttribute, err)
		}
		if !exists {
			return "", fmt.Errorf("%w: thumbnail file does not exist", ErrIllegalAttribute)
		}
		thumbnailID = &req.ThumbnailID
	}

	members, err := s.resolveMembers(ctx, req.OwnerID, req.MemberIDs)
	if err != nil {
		return "", err
	}

	project := &entity.Project{
		ID:          uuid.New().String(),
		ThumbnailID: thumbnailID,
		Name:        req.Name,
		Description: req.Description,
		Status:      entity.ProjectStatusNormal,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		OwnerID:     req.OwnerID,
		Members:     members,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return "", fmt.Errorf("create project: %w", err)
	}
	return project.ID, nil
}

// resolveMembers 解析成员ID列表（owner 本人被忽略，未知用户拒绝）
func (s *ProjectService) resolveMembers(ctx context.Context, ownerID string, memberIDs []string) ([]entity.User, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}

	filtered := make([]string, 0, len(memberIDs))
	seen := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if id == ownerID || seen[id] {
			continue
		}
		seen[id] = true
		filtered = append(filtered, id)
	}

	existing, err := s.userRepo.FindAllByIDs(ctx, filtered)
	if err != nil {
		return nil, fmt.Errorf("find member rows: %w", err)
	}
	local := make(map[string]bool, len(existing))
	for _, u := range existing {
		local[u.ID] = true
	}

	members := existing
	for _, id := range filtered {
		if local[id] {
			continue
		}
		if err := s.requireUser(ctx, id); err != nil {
			return nil, err
		}
		members = append(members, entity.User{ID: id})
	}
	return members, nil
}

// UpdateProject 更新项目基础属性
func (s *ProjectService) UpdateProject(ctx context.Context, projectID string, req *UpdateProjectRequest) error {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return err
	}

	updated := false
	replacedThumbnail := ""

	if req.ThumbnailID != "" &&
		(project.ThumbnailID == nil || *project.ThumbnailID != req.ThumbnailID) {
		exists, err := s.files.CheckFileExists(ctx, req.ThumbnailID)
		if err != nil {
			return fmt.Errorf("%w: cannot check thumbnail existence: %v", ErrIllegalAttribute, err)
		}
		if !exists {
			return fmt.Errorf("%w: thumbnail file does not exist", ErrIllegalAttribute)
		}
		if project.ThumbnailID != nil {
			replacedThumbnail = *project.ThumbnailID
		}
		thumbnailID := req.ThumbnailID
		project.ThumbnailID = &thumbnailID
		updated = true
	}

	if req.Name != nil {
		if *req.Name == "" {
			return fmt.Errorf("%w: project name cannot be empty", ErrIllegalAttribute)
		}
		project.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		project.Description = *req.Description
		updated = true
	}
	if req.Status != "" {
		switch req.Status {
		case entity.ProjectStatusNormal, entity.ProjectStatusArchived:
		default:
			return fmt.Errorf("%w: unknown project status %q", ErrIllegalAttribute, req.Status)
		}
		project.Status = req.Status
		updated = true
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
		updated = true
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
		updated = true
	}
	if project.StartDate != nil && project.EndDate != nil && project.StartDate.After(*project.EndDate) {
		return fmt.Errorf("%w: project start date cannot be greater than end date", ErrIllegalAttribute)
	}

	if !updated {
		return nil
	}
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	// 旧缩略图在更新落库后才能清理
	if replacedThumbnail != "" {
		s.cleaner.Enqueue(ctx, replacedThumbnail)
	}
	return nil
}

// UpdateMember 添加或移除项目成员
func (s *ProjectService) UpdateMember(ctx context.Context, projectID string, req *MemberRequest) error {
	if err := s.requireUser(ctx, req.MemberID); err != nil {
		return err
	}

	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return err
	}

	isMember := false
	for _, m := range project.Members {
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
		if _, err := s.userRepo.Ensure(ctx, req.MemberID); err != nil {
			return fmt.Errorf("ensure member row: %w", err)
		}
		if err := s.projectRepo.AddMember(ctx, project, &entity.User{ID: req.MemberID}); err != nil {
			return fmt.Errorf("add project member: %w", err)
		}
	case entity.MemberOperatorRemove:
		if !isMember {
			return fmt.Errorf("%w: member does not exist", ErrConflict)
		}
		if err := s.projectRepo.RemoveMember(ctx, project, &entity.User{ID: req.MemberID}); err != nil {
			return fmt.Errorf("remove project member: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnexpectedOperator, req.Operator)
	}
	return nil
}

// CheckUserInAnyStage 判断用户是否属于项目内任意阶段
func (s *ProjectService) CheckUserInAnyStage(ctx context.Context, projectID, userID string) (bool, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return false, err
	}
	in, err := s.stageRepo.HasMemberInProject(ctx, projectID, userID)
	if err != nil {
		return false, fmt.Errorf("check stage membership: %w", err)
	}
	return in, nil
}

// DeleteProject 删除项目及其全部下级实体，并登记远端文件清理
func (s *ProjectService) DeleteProject(ctx context.Context, projectID string) error {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return err
	}

	attachments, err := s.sampleRepo.AttachmentIDsByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("collect sample attachments: %w", err)
	}

	if err := s.projectRepo.DeleteCascade(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	// 本地删除提交后才清理远端文件
	fileIDs := attachments
	if project.ThumbnailID != nil {
		fileIDs = append(fileIDs, *project.ThumbnailID)
	}
	s.cleaner.Enqueue(ctx, fileIDs...)
	return nil
}

// requireUser 确认远端用户存在，检查失败按非法属性处理
func (s *ProjectService) requireUser(ctx context.Context, userID string) error {
	exists, err := s.users.CheckUserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: cannot check existence for user id %s: %v", ErrIllegalAttribute, userID, err)
	}
	if !exists {
		return fmt.Errorf("%w: user with id %s not found", ErrIllegalAttribute, userID)
	}
	return nil
}
