package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/nedirbay/project-management-own-version/internal/auth"
	"github.com/nedirbay/project-management-own-version/internal/constants"
	"github.com/nedirbay/project-management-own-version/internal/middleware"
	"github.com/nedirbay/project-management-own-version/internal/services"
)

// RouterConfig carries what the HTTP layer needs besides the services
type RouterConfig struct {
	Tokens         *auth.TokenIssuer
	SessionStore   sessions.Store
	AllowedOrigins []string
}

// NewRouter registers every route on a new gin engine.
func NewRouter(svc *services.Services, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(sessions.Sessions(constants.SessionCookieName, cfg.SessionStore))

	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	workspaceHandler := NewWorkspaceHandler(svc.Workspaces)
	projectHandler := NewProjectHandler(svc.Projects, svc.Tasks)
	taskHandler := NewTaskHandler(svc.Tasks)
	reportHandler := NewReportHandler(svc.Reports)
	dashboardHandler := NewDashboardHandler(svc.Dashboard)

	requireAuth := middleware.RequireAuth(cfg.Tokens)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public except me)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.Me)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("", userHandler.List)
			users.POST("", userHandler.Create)
			users.GET("/me/settings", userHandler.GetSettings)
			users.PUT("/me/settings", userHandler.UpdateSettings)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
			users.PATCH("/:id/role", userHandler.ChangeRole)
			users.POST("/:id/change-password", userHandler.ChangePassword)
		}

		workspaces := api.Group("/workspaces", requireAuth)
		{
			workspaces.GET("", workspaceHandler.List)
			workspaces.POST("", workspaceHandler.Create)
			workspaces.GET("/:id", workspaceHandler.Get)
			workspaces.PUT("/:id", workspaceHandler.Update)
			workspaces.DELETE("/:id", workspaceHandler.Delete)
			workspaces.GET("/:id/members", workspaceHandler.ListMembers)
			workspaces.POST("/:id/members", workspaceHandler.AddMember)
			workspaces.DELETE("/:id/members/:userId", workspaceHandler.RemoveMember)
		}

		projects := api.Group("/projects", requireAuth)
		{
			projects.GET("", projectHandler.List)
			projects.POST("", projectHandler.Create)
			projects.GET("/:id", projectHandler.Get)
			projects.PUT("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)
			projects.PATCH("/:id/progress", projectHandler.UpdateProgress)
			projects.GET("/:id/members", projectHandler.ListMembers)
			projects.POST("/:id/members", projectHandler.AddMember)
			projects.DELETE("/:id/members/:userId", projectHandler.RemoveMember)
			projects.GET("/:id/tasks", projectHandler.ListTasks)
			projects.POST("/:id/tasks/suggest", projectHandler.SuggestTasks)
		}

		tasks := api.Group("/tasks", requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/my", taskHandler.ListMine)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
			tasks.PATCH("/:id/order", taskHandler.UpdateOrder)
			tasks.POST("/:id/assign", taskHandler.AssignTask)
			tasks.POST("/:id/unassign", taskHandler.UnassignTask)

			tasks.GET("/:id/subtasks", taskHandler.ListSubTasks)
			tasks.POST("/:id/subtasks", taskHandler.CreateSubTask)
			tasks.PUT("/:id/subtasks/:subtaskId", taskHandler.UpdateSubTask)
			tasks.DELETE("/:id/subtasks/:subtaskId", taskHandler.DeleteSubTask)
			tasks.PATCH("/:id/subtasks/:subtaskId/toggle", taskHandler.ToggleSubTask)

			tasks.GET("/:id/comments", taskHandler.ListComments)
			tasks.POST("/:id/comments", taskHandler.CreateComment)
			tasks.PUT("/:id/comments/:commentId", taskHandler.UpdateComment)
			tasks.DELETE("/:id/comments/:commentId", taskHandler.DeleteComment)

			tasks.GET("/:id/attachments", taskHandler.ListAttachments)
			tasks.POST("/:id/attachments", taskHandler.AddAttachment)
			tasks.DELETE("/:id/attachments/:attachmentId", taskHandler.DeleteAttachment)
		}

		reports := api.Group("/reports", requireAuth)
		{
			reports.GET("", reportHandler.List)
			reports.POST("", reportHandler.Create)
			reports.GET("/my", reportHandler.ListMine)
			reports.GET("/today", reportHandler.Today)
			reports.GET("/stats", reportHandler.Stats)
			reports.GET("/date/:date", reportHandler.ByDate)
			reports.GET("/user/:userId", reportHandler.ByUser)
			reports.GET("/workspace/:workspaceId", reportHandler.ByWorkspace)
			reports.GET("/:id", reportHandler.Get)
			reports.PUT("/:id", reportHandler.Update)
			reports.DELETE("/:id", reportHandler.Delete)
		}

		dashboard := api.Group("/dashboard", requireAuth)
		{
			dashboard.GET("", dashboardHandler.Summary)
			dashboard.GET("/stats", dashboardHandler.Stats)
			dashboard.GET("/recent-activities", dashboardHandler.RecentActivities)
			dashboard.GET("/upcoming-deadlines", dashboardHandler.UpcomingDeadlines)
		}
	}

	return r
}
