package handler

import (
	"net/http"

	"github.com/NhatBangLe/sc-project-service/internal/project/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StageHandler 阶段处理器
type StageHandler struct {
	svc    *service.StageService
	logger *zap.Logger
}

// NewStageHandler 创建阶段处理器
func NewStageHandler(svc *service.StageService, logger *zap.Logger) *StageHandler {
	return &StageHandler{svc: svc, logger: logger}
}

// Get 获取阶段详情
// GET /api/v1/stage/:id
func (h *StageHandler) Get(c *gin.Context) {
	stage, err := h.svc.GetStage(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stage)
}

// ListByProject 获取项目的阶段分页
// GET /api/v1/stage/:id/project
func (h *StageHandler) ListByProject(c *gin.Context) {
	page, pageSize, ok := GetPagination(c)
	if !ok {
		return
	}

	result, err := h.svc.ListStages(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create 创建阶段
// POST /api/v1/stage
func (h *StageHandler) Create(c *gin.Context) {
	var req service.CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	id, err := h.svc.CreateStage(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, id)
}

// Update 更新阶段
// PATCH /api/v1/stage/:id
func (h *StageHandler) Update(c *gin.Context) {
	var req service.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.svc.UpdateStage(c.Request.Context(), c.Param("id"), &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}

// UpdateMember 添加或移除阶段成员
// PATCH /api/v1/stage/:id/member
func (h *StageHandler) UpdateMember(c *gin.Context) {
	var req service.MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.svc.UpdateMember(c.Request.Context(), c.Param("id"), &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}

// CheckMember 判断用户是否为阶段成员
// GET /api/v1/stage/:id/member/:userId
func (h *StageHandler) CheckMember(c *gin.Context) {
	in, err := h.svc.CheckMember(c.Request.Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

// Delete 删除阶段
// DELETE /api/v1/stage/:id
func (h *StageHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteStage(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}
