package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes 注册全部业务路由，base path /api/v1
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	v1 := r.Group("/api/v1")

	project := v1.Group("/project")
	{
		project.POST("", h.Project.Create)
		project.GET("/:id", h.Project.Get)
		project.GET("/:id/user", h.Project.List)
		project.GET("/:id/stage/:userId", h.Project.CheckUserInAnyStage)
		project.PATCH("/:id", h.Project.Update)
		project.PATCH("/:id/member", h.Project.UpdateMember)
		project.DELETE("/:id", h.Project.Delete)
	}

	stage := v1.Group("/stage")
	{
		stage.POST("", h.Stage.Create)
		stage.GET("/:id", h.Stage.Get)
		stage.GET("/:id/project", h.Stage.ListByProject)
		stage.GET("/:id/member/:userId", h.Stage.CheckMember)
		stage.PATCH("/:id", h.Stage.Update)
		stage.PATCH("/:id/member", h.Stage.UpdateMember)
		stage.DELETE("/:id", h.Stage.Delete)
	}

	form := v1.Group("/form")
	{
		form.POST("", h.Form.Create)
		form.GET("/:id", h.Form.Get)
		form.GET("/:id/project", h.Form.ListByProject)
		form.PATCH("/:id", h.Form.Update)
		form.DELETE("/:id", h.Form.Delete)
	}

	field := v1.Group("/field")
	{
		// :id 是 form ID（创建、列表）、field ID（更新、删除）或 sample ID（创建动态字段）
		field.POST("/:id", h.Field.Create)
		field.GET("/:id", h.Field.Get)
		field.GET("/:id/form", h.Field.ListByForm)
		field.PATCH("/:id", h.Field.Update)
		field.DELETE("/:id", h.Field.Delete)
		field.POST("/:id/dynamic", h.Field.CreateDynamic)
		field.PATCH("/:id/dynamic", h.Field.UpdateDynamic)
		field.DELETE("/:id/dynamic", h.Field.DeleteDynamic)
	}

	sample := v1.Group("/sample")
	{
		sample.POST("", h.Sample.Create)
		sample.GET("/:id", h.Sample.Get)
		sample.GET("/:id/project", h.Sample.ListByProject)
		sample.GET("/:id/stage", h.Sample.ListByStage)
		sample.PATCH("/:id", h.Sample.Update)
		sample.PATCH("/:id/answer", h.Sample.UpdateAnswer)
		sample.DELETE("/:id", h.Sample.Delete)
	}
}
