package entity

// User 用户引用（身份数据归属远端用户服务）
// 首次被引用为 owner/member 且本地不存在时，只写入一条仅含 id 的占位行
type User struct {
	ID string `json:"id" gorm:"primaryKey;size:36"`
}

func (User) TableName() string {
	return "users"
}
