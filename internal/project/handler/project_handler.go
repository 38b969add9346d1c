package handler

import (
	"net/http"

	"github.com/NhatBangLe/sc-project-service/internal/project/entity"
	"github.com/NhatBangLe/sc-project-service/internal/project/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProjectHandler 项目处理器
type ProjectHandler struct {
	svc    *service.ProjectService
	logger *zap.Logger
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(svc *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{svc: svc, logger: logger}
}

// List 获取用户可见的项目分页
// GET /api/v1/project/:id/user?query=ALL&status=NORMAL&pageNumber=0&pageSize=6
func (h *ProjectHandler) List(c *gin.Context) {
	userID := c.Param("id")
	query := c.DefaultQuery("query", entity.ProjectQueryAll)
	status := c.DefaultQuery("status", entity.ProjectStatusNormal)

	page, pageSize, ok := GetPagination(c)
	if !ok {
		return
	}

	result, err := h.svc.ListProjects(c.Request.Context(), userID, query, status, page, pageSize)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get 获取项目详情
// GET /api/v1/project/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.svc.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Create 创建项目
// POST /api/v1/project
func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	id, err := h.svc.CreateProject(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, id)
}

// CheckUserInAnyStage 判断用户是否属于项目内任意阶段
// GET /api/v1/project/:id/stage/:userId
func (h *ProjectHandler) CheckUserInAnyStage(c *gin.Context) {
	in, err := h.svc.CheckUserInAnyStage(c.Request.Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

// Update 更新项目
// PATCH /api/v1/project/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.svc.UpdateProject(c.Request.Context(), c.Param("id"), &req); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}

// UpdateMember 添加或移除项目成员
// PATCH /api/v1/project/:id/member
func (h *ProjectHandler) UpdateMember(c *gin.Context) {
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

// Delete 删除项目
// DELETE /api/v1/project/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	NoContent(c)
}
