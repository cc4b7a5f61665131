package routes

import (
	"github.com/gin-gonic/gin"

	"leadhub/internal/authz"
	"leadhub/internal/handlers"
	"leadhub/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	stageHandler *handlers.StageHandler,
	leadHandler *handlers.LeadHandler,
	transitionHandler *handlers.TransitionHandler,
	remarkHandler *handlers.RemarkHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.POST("/register", userHandler.Register)

	// ---- protected
	r.Use(middleware.AuthMiddleware())
	r.Use(middleware.ReadOnlyGuard())

	// STAGES (справочник воронки, читают все роли)
	stages := r.Group("/stages")
	{
		stages.GET("/", stageHandler.List)
	}

	// USERS
	users := r.Group("/users")
	{
		users.POST("/", userHandler.CreateUser)
		users.GET("/", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUserByID)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	// LEADS
	leads := r.Group("/leads")
	{
		leads.POST("/", leadHandler.Create)
		leads.GET("/", leadHandler.List)
		leads.GET("/:id", leadHandler.GetByID)
		leads.GET("/:id/activity", leadHandler.Activity)
		leads.PUT("/:id", leadHandler.Update)
		leads.DELETE("/:id", leadHandler.Delete)
		leads.POST("/:id/assign", leadHandler.Assign)
		leads.POST("/:id/lost", leadHandler.MarkLost)
		leads.POST("/:id/won", leadHandler.MarkWon)
		leads.POST("/:id/transitions", transitionHandler.Begin)
		leads.GET("/:id/remarks", remarkHandler.Timeline)
	}

	// TRANSITIONS (шаги незавершённого перехода по токену)
	transitions := r.Group("/transitions")
	{
		transitions.POST("/:token/demo-session", transitionHandler.SubmitDemoSession)
		transitions.POST("/:token/proposal", transitionHandler.SubmitProposal)
		transitions.POST("/:token/amount", transitionHandler.SubmitAmount)
		transitions.POST("/:token/remark", transitionHandler.SubmitRemark)
		transitions.DELETE("/:token", transitionHandler.Cancel)
	}

	// REMARKS
	remarks := r.Group("/remarks")
	{
		remarks.GET("/:remark_id", remarkHandler.GetByID)
	}

	// REPORTS (audit/ops/mgmt/admin)
	reports := r.Group("/reports",
		middleware.RequireRoles(authz.RoleAudit, authz.RoleOperations, authz.RoleManagement, authz.RoleAdmin),
	)
	{
		reports.GET("/pipeline", reportHandler.PipelineSummary)
		reports.GET("/pipeline/pdf", reportHandler.PipelinePDF)
		reports.GET("/leads/:id/trail/pdf", reportHandler.LeadTrailPDF)
	}

	return r
}
