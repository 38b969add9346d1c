package entity

import (
	"time"
)

// Form 表单模板（可被同一项目的多个阶段使用）
type Form struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Title       string    `json:"title" gorm:"size:256;not null"`
	Description string    `json:"description" gorm:"type:text"`
	ProjectID   string    `json:"project_id" gorm:"size:36;not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Fields []Field `json:"fields,omitempty" gorm:"foreignKey:FormID"`

	// UsageStageIDs 当前引用该表单的阶段ID，按需加载，非数据库字段
	UsageStageIDs []string `json:"usage_stage_ids,omitempty" gorm:"-"`
}

func (Form) TableName() string {
	return "forms"
}

// Field 表单字段，按 NumberOrder 升序展示
// NumberOrder 不要求唯一或连续，重复和空洞都允许，并列时按插入顺序
type Field struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	NumberOrder int       `json:"number_order" gorm:"not null;default:0"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	FormID      string    `json:"form_id" gorm:"size:36;not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Field) TableName() string {
	return "fields"
}
