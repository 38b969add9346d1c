package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Repositories 仓库集合
type Repositories struct {
	User    *UserRepository
	Project *ProjectRepository
	Form    *FormRepository
	Field   *FieldRepository
	Stage   *StageRepository
	Sample  *SampleRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Project: NewProjectRepository(db),
		Form:    NewFormRepository(db),
		Field:   NewFieldRepository(db),
		Stage:   NewStageRepository(db),
		Sample:  NewSampleRepository(db),
	}
}

// translateError maps gorm sentinel errors to repository errors.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}
