package entity

import (
	"time"
)

// Sample 样本实体（一次数据采集记录，归属一个阶段）
type Sample struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	AttachmentID string    `json:"attachment_id" gorm:"size:36;not null"`
	Position     string    `json:"position" gorm:"size:256"`
	ProjectID    string    `json:"project_id" gorm:"size:36;not null;index"`
	StageID      string    `json:"stage_id" gorm:"size:36;not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Answers       []Answer       `json:"answers,omitempty" gorm:"foreignKey:SampleID"`
	DynamicFields []DynamicField `json:"dynamic_fields,omitempty" gorm:"foreignKey:SampleID"`
}

func (Sample) TableName() string {
	return "samples"
}

// Answer 固定答案，复合主键 (SampleID, FieldID)
// 同一样本同一字段至多一条，由存储层主键保证，不做应用层查重
type Answer struct {
	SampleID  string    `json:"sample_id" gorm:"primaryKey;size:36"`
	FieldID   string    `json:"field_id" gorm:"primaryKey;size:36"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Field *Field `json:"field,omitempty" gorm:"foreignKey:FieldID"`
}

func (Answer) TableName() string {
	return "answers"
}

// DynamicField 动态字段（独立于表单的键值对），按 NumberOrder 升序展示
type DynamicField struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	Value       string    `json:"value" gorm:"type:text;not null"`
	NumberOrder int       `json:"number_order" gorm:"not null;default:0"`
	SampleID    string    `json:"sample_id" gorm:"size:36;not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DynamicField) TableName() string {
	return "dynamic_fields"
}
