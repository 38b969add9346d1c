package handler

import (
	"net/http"

	"github.com/NhatBangLe/sc-project-service/internal/project/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FormHandler 表单处理器
type FormHandler struct {
	svc    *service.FormService
	logger *zap.Logger
}

// NewFormHandler 创建表单处理器
func NewFormHandler(svc *service.FormService, logger *zap.Logger) *FormHandler {
	return &FormHandler{svc: svc, logger: logger}
}

// Get 获取表单详情（带有序字段和引用阶段ID）
// GET /api/v1/form/:id
func (h *FormHandler) Get(c *gin.Context) {
	form, err := h.svc.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// ListByProject 获取项目的表单分页
// GET /api/v1/form/:id/project
func (h *FormHandler) ListByProject(c *gin.Context) {
	page, pageSize, ok := GetPagination(c)
	if !ok {
		return
	}

	result, err := h.svc.ListForms(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create 创建表单
// POST /api/v1/form
func (h *FormHandler) Create(c *gin.Context) {
	var req service.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	id, err := h.svc.CreateForm(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, id)
}

// Update 更新表单
// PATCH /api/v1/form/:id
func (h *FormHandler) Update(c *gin.Context) {
	var req service.UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.svc.UpdateForm(c.Request.Context(), c.Param("id"), &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}

// Delete 删除表单（仍被阶段引用时拒绝）
// DELETE /api/v1/form/:id
func (h *FormHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteForm(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}
