package handler

import (
	"net/http"

	"github.com/NhatBangLe/sc-project-service/internal/project/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SampleHandler 样本处理器
type SampleHandler struct {
	svc    *service.SampleService
	logger *zap.Logger
}

// NewSampleHandler 创建样本处理器
func NewSampleHandler(svc *service.SampleService, logger *zap.Logger) *SampleHandler {
	return &SampleHandler{svc: svc, logger: logger}
}

// updateAnswerRequest 更新答案请求（fieldId 定位，value 覆盖）
type updateAnswerRequest struct {
	Value   *string `json:"value"`
	FieldID string  `json:"fieldId" binding:"required"`
}

// ListByProject 获取项目的样本分页，创建时间升序
// GET /api/v1/sample/:id/project
func (h *SampleHandler) ListByProject(c *gin.Context) {
	page, pageSize, ok := GetPagination(c)
	if !ok {
		return
	}

	result, err := h.svc.ListSamplesByProject(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListByStage 获取阶段的样本分页，创建时间升序
// GET /api/v1/sample/:id/stage
func (h *SampleHandler) ListByStage(c *gin.Context) {
	page, pageSize, ok := GetPagination(c)
	if !ok {
		return
	}

	result, err := h.svc.ListSamplesByStage(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get 获取样本详情
// GET /api/v1/sample/:id
func (h *SampleHandler) Get(c *gin.Context) {
	sample, err := h.svc.GetSample(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sample)
}

// Create 创建样本（答案和动态字段一并写入，整体事务）
// POST /api/v1/sample
func (h *SampleHandler) Create(c *gin.Context) {
	var req service.CreateSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	id, err := h.svc.CreateSample(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, id)
}

// Update 更新样本位置
// PATCH /api/v1/sample/:id
func (h *SampleHandler) Update(c *gin.Context) {
	var req service.UpdateSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.svc.UpdateSample(c.Request.Context(), c.Param("id"), &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}

// UpdateAnswer 更新样本对某字段的答案
// PATCH /api/v1/sample/:id/answer
func (h *SampleHandler) UpdateAnswer(c *gin.Context) {
	var req updateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	err := h.svc.UpdateAnswer(c.Request.Context(), c.Param("id"), req.FieldID,
		&service.UpdateAnswerRequest{Value: req.Value})
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}

// Delete 删除样本
// DELETE /api/v1/sample/:id
func (h *SampleHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteSample(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}
