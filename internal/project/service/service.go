package service

import (
	"context"

	"github.com/NhatBangLe/sc-project-service/internal/project/repository"
)

// UserClient 用户服务客户端
type UserClient interface {
	// CheckUserExists 检查用户是否存在
	CheckUserExists(ctx context.Context, userID string) (bool, error)
}

// FileClient 文件服务客户端
type FileClient interface {
	// CheckFileExists 检查文件是否存在
	CheckFileExists(ctx context.Context, fileID string) (bool, error)
	// DeleteFile 删除远端文件
	DeleteFile(ctx context.Context, fileID string) error
}

// Services 服务集合
type Services struct {
	Project *ProjectService
	Stage   *StageService
	Form    *FormService
	Field   *FieldService
	Sample  *SampleService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, users UserClient, files FileClient, cleaner *FileCleaner) *Services {
	return &Services{
		Project: NewProjectService(repos, users, files, cleaner),
		Stage:   NewStageService(repos, cleaner),
		Form:    NewFormService(repos),
		Field:   NewFieldService(repos),
		Sample:  NewSampleService(repos, files, cleaner),
	}
}
