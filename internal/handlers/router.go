package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/xinwork/repair-order-api/internal/config"
	"github.com/xinwork/repair-order-api/internal/metrics"
	"github.com/xinwork/repair-order-api/internal/middleware"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRouter wires every HTTP route of the API. m may be nil to disable metrics.
func NewRouter(cfg *config.Config, svc *services.Services, db *gorm.DB, log *zap.Logger, m *metrics.Metrics, version string) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.Server.CORSOrigins),
	)
	if m != nil {
		r.Use(middleware.Metrics(m))
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	r.Static(cfg.Upload.URLPrefix, cfg.Upload.Dir)

	// Initialize handlers
	healthHandler := NewHealthHandler(db, log, version)
	authHandler := NewAuthHandler(svc.Auth, int64(cfg.JWT.Duration.Seconds()))
	projectHandler := NewProjectHandler(svc.Projects)
	taskHandler := NewTaskHandler(svc.Tasks)
	materialHandler := NewMaterialHandler(svc.Materials)
	workItemHandler := NewWorkItemHandler(svc.WorkItems)
	teamHandler := NewTeamHandler(svc.Teams)
	userHandler := NewUserHandler(svc.Users)
	importHandler := NewImportHandler(svc.Imports, cfg.Upload.MaxSizeMiB)
	uploadHandler := NewUploadHandler(svc.Uploads)
	statisticsHandler := NewStatisticsHandler(svc.Statistics)

	requireAuth := middleware.RequireAuth(svc.Auth)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	r.GET("/health", healthHandler.Health)

	api := r.Group(cfg.Server.APIPrefix)
	{
		api.GET("/health", healthHandler.Health)

		// Health check routes (public except the auth echo)
		healthCheck := api.Group("/health-check")
		{
			healthCheck.GET("/", healthHandler.Health)
			healthCheck.GET("/db", healthHandler.Database)
			healthCheck.GET("/auth", requireAuth, healthHandler.Auth)
		}

		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/token", authHandler.Token)
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Bare OPTIONS on import endpoints answers without a token
		for _, entity := range services.ImportEntities {
			api.OPTIONS("/"+string(entity)+"/import", importHandler.Options)
		}

		projects := api.Group("/projects", requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/teams", projectHandler.ListTeams)
			projects.POST("/:id/teams", projectHandler.AddTeam)
			projects.DELETE("/:id/teams/:team_id", projectHandler.RemoveTeam)
		}

		tasks := api.Group("/tasks", requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/my", taskHandler.ListMyTasks)
			tasks.POST("/import", importHandler.Import(services.ImportTasks))
			tasks.GET("/import/template", importHandler.Template(services.ImportTasks))
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
			tasks.POST("/:id/workers", taskHandler.AddWorker)
			tasks.DELETE("/:id/workers/:user_id", taskHandler.RemoveWorker)
		}

		materials := api.Group("/materials", requireAuth)
		{
			materials.GET("", materialHandler.ListMaterials)
			materials.POST("", materialHandler.CreateMaterial)
			materials.POST("/import", importHandler.Import(services.ImportMaterials))
			materials.GET("/import/template", importHandler.Template(services.ImportMaterials))
			materials.GET("/:id", materialHandler.GetMaterial)
			materials.PUT("/:id", materialHandler.UpdateMaterial)
			materials.DELETE("/:id", materialHandler.DeleteMaterial)
		}

		workItems := api.Group("/work-items", requireAuth)
		{
			workItems.GET("", workItemHandler.ListWorkItems)
			workItems.POST("", workItemHandler.CreateWorkItem)
			workItems.GET("/categories", workItemHandler.ListCategories)
			workItems.POST("/import", importHandler.Import(services.ImportWorkItems))
			workItems.GET("/import/template", importHandler.Template(services.ImportWorkItems))
			workItems.GET("/:id", workItemHandler.GetWorkItem)
			workItems.PUT("/:id", workItemHandler.UpdateWorkItem)
			workItems.DELETE("/:id", workItemHandler.DeleteWorkItem)
		}

		teams := api.Group("/teams", requireAuth)
		{
			teams.GET("", teamHandler.ListTeams)
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PUT("/:id", teamHandler.UpdateTeam)
			teams.DELETE("/:id", teamHandler.DeleteTeam)
			teams.GET("/:id/members", teamHandler.ListMembers)
			teams.POST("/:id/members", teamHandler.AddMember)
			teams.DELETE("/:id/members/:user_id", teamHandler.RemoveMember)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("", requireAdmin, userHandler.ListUsers)
			users.POST("", requireAdmin, userHandler.CreateUser)
			users.POST("/import", requireAdmin, importHandler.Import(services.ImportUsers))
			users.GET("/import/template", requireAdmin, importHandler.Template(services.ImportUsers))
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", requireAdmin, userHandler.DeleteUser)
		}

		upload := api.Group("/upload", requireAuth)
		{
			upload.POST("/", uploadHandler.UploadFile)
			upload.POST("/multiple", uploadHandler.UploadFiles)
		}

		statistics := api.Group("/statistics", requireAuth)
		{
			statistics.GET("/projects", statisticsHandler.Projects())
			statistics.GET("/tasks", statisticsHandler.Tasks())
			statistics.GET("/materials", statisticsHandler.Materials())
			statistics.GET("/work-items", statisticsHandler.WorkItems())
			statistics.GET("/teams", statisticsHandler.Teams())
		}
	}

	return r
}
