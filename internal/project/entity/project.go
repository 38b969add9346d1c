package entity

import (
	"time"
)

// Project 项目实体（顶层容器，拥有表单、阶段和样本）
type Project struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	ThumbnailID *string    `json:"thumbnail_id" gorm:"size:36"`
	Name        string     `json:"name" gorm:"size:256;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Status      string     `json:"status" gorm:"size:16;not null;default:NORMAL"`
	StartDate   *time.Time `json:"start_date" gorm:"type:date"`
	EndDate     *time.Time `json:"end_date" gorm:"type:date"`
	OwnerID     string     `json:"owner_id" gorm:"size:36;not null"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Owner   *User  `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Members []User `json:"members,omitempty" gorm:"many2many:project_members"`
}

func (Project) TableName() string {
	return "projects"
}

// 项目状态
const (
	ProjectStatusNormal   = "NORMAL"
	ProjectStatusArchived = "ARCHIVED"
)

// 项目列表查询类型（按调用者角色过滤）
const (
	ProjectQueryAll  = "ALL"
	ProjectQueryOwn  = "OWN"
	ProjectQueryJoin = "JOIN"
)

// 成员变更操作符
const (
	MemberOperatorAdd    = "ADD"
	MemberOperatorRemove = "REMOVE"
)
