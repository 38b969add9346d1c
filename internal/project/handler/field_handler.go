package handler

import (
	"net/http"

	"github.com/NhatBangLe/sc-project-service/internal/project/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FieldHandler 表单字段与动态字段处理器
type FieldHandler struct {
	svc    *service.FieldService
	logger *zap.Logger
}

// NewFieldHandler 创建字段处理器
func NewFieldHandler(svc *service.FieldService, logger *zap.Logger) *FieldHandler {
	return &FieldHandler{svc: svc, logger: logger}
}

// ListByForm 获取表单的全部字段，number_order 升序
// GET /api/v1/field/:id/form
func (h *FieldHandler) ListByForm(c *gin.Context) {
	fields, err := h.svc.ListFields(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

// Get 获取字段详情
// GET /api/v1/field/:id
func (h *FieldHandler) Get(c *gin.Context) {
	field, err := h.svc.GetField(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, field)
}

// Create 在表单下创建字段
// POST /api/v1/field/:id
func (h *FieldHandler) Create(c *gin.Context) {
	var req service.CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	id, err := h.svc.CreateField(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, id)
}

// Update 更新字段
// PATCH /api/v1/field/:id
func (h *FieldHandler) Update(c *gin.Context) {
	var req service.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.svc.UpdateField(c.Request.Context(), c.Param("id"), &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}

// Delete 删除字段及其答案
// DELETE /api/v1/field/:id
func (h *FieldHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteField(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}

// CreateDynamic 在样本下创建动态字段
// POST /api/v1/field/:id/dynamic
func (h *FieldHandler) CreateDynamic(c *gin.Context) {
	var req service.CreateDynamicFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	id, err := h.svc.CreateDynamicField(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, id)
}

// UpdateDynamic 更新动态字段
// PATCH /api/v1/field/:id/dynamic
func (h *FieldHandler) UpdateDynamic(c *gin.Context) {
	var req service.UpdateDynamicFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.svc.UpdateDynamicField(c.Request.Context(), c.Param("id"), &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}

// DeleteDynamic 删除动态字段
// DELETE /api/v1/field/:id/dynamic
func (h *FieldHandler) DeleteDynamic(c *gin.Context) {
	if err := h.svc.DeleteDynamicField(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}
