package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/NhatBangLe/sc-project-service/internal/project/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers 处理器集合
type Handlers struct {
	Project *ProjectHandler
	Stage   *StageHandler
	Form    *FormHandler
	Field   *FieldHandler
	Sample  *SampleHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, logger *zap.Logger) *Handlers {
	return &Handlers{
		Project: NewProjectHandler(svc.Project, logger),
		Stage:   NewStageHandler(svc.Stage, logger),
		Form:    NewFormHandler(svc.Form, logger),
		Field:   NewFieldHandler(svc.Field, logger),
		Sample:  NewSampleHandler(svc.Sample, logger),
	}
}

// Created 创建成功响应，body 为新实体ID裸字符串
func Created(c *gin.Context, id string) {
	c.String(http.StatusCreated, id)
}

// NoContent 更新/删除成功响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest 参数错误响应，纯文本 body
func BadRequest(c *gin.Context, message string) {
	c.String(http.StatusBadRequest, message)
}

// RespondError 按错误类别映射 HTTP 状态码，body 为纯文本错误消息
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.String(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrIllegalAttribute),
		errors.Is(err, service.ErrUnexpectedOperator):
		c.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		c.String(http.StatusConflict, err.Error())
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.String(http.StatusInternalServerError, "internal server error")
	}
}

// GetPagination 获取分页参数，缺省 pageNumber=0 pageSize=6
func GetPagination(c *gin.Context) (page, pageSize int, ok bool) {
	page = service.DefaultPageNumber
	pageSize = service.DefaultPageSize

	if p := c.Query("pageNumber"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			BadRequest(c, "invalid page number (cannot be less than 0)")
			return 0, 0, false
		}
		page = v
	}
	if ps := c.Query("pageSize"); ps != "" {
		v, err := strconv.Atoi(ps)
		if err != nil || v < 1 {
			BadRequest(c, "invalid page size (must be greater than 0)")
			return 0, 0, false
		}
		pageSize = v
	}
	return page, pageSize, true
}
