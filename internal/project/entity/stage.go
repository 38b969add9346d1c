package entity

import (
	"time"
)

// Stage 阶段实体（项目内的时间段，可关联一个表单）
// 阶段成员必须是所属项目成员的子集
type Stage struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	Name        string     `json:"name" gorm:"size:256;not null"`
	Description string     `json:"description" gorm:"type:text"`
	StartDate   *time.Time `json:"start_date" gorm:"type:date"`
	EndDate     *time.Time `json:"end_date" gorm:"type:date"`
	FormID      *string    `json:"form_id" gorm:"size:36;index"`
	ProjectID   string     `json:"project_id" gorm:"size:36;not null;index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Members []User `json:"members,omitempty" gorm:"many2many:stage_members"`
}

func (Stage) TableName() string {
	return "stages"
}
