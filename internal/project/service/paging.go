package service

// 分页默认值
const (
	DefaultPageNumber = 0
	DefaultPageSize   = 6
)

// Page 分页结果
type Page[T any] struct {
	TotalPages       int   `json:"totalPages"`
	TotalElements    int64 `json:"totalElements"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Content          []T   `json:"content"`
}

// NewPage 根据页内容和总数构造分页结果
func NewPage[T any](content []T, total int64, page, pageSize int) *Page[T] {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	if content == nil {
		content = []T{}
	}
	return &Page[T]{
		TotalPages:       totalPages,
		TotalElements:    total,
		Number:           page,
		Size:             pageSize,
		NumberOfElements: len(content),
		First:            page == 0,
		Last:             page >= totalPages-1,
		Content:          content,
	}
}
