package services

import (
	"github.com/xinwork/repair-order-api/internal/auth"
	"github.com/xinwork/repair-order-api/internal/config"
	"github.com/xinwork/repair-order-api/internal/metrics"
	"github.com/xinwork/repair-order-api/internal/repository"
	"go.uber.org/zap"
)

// Services groups every service the HTTP layer and the CLI depend on
type Services struct {
	Auth       *AuthService
	Users      *UserService
	Projects   *ProjectService
	Tasks      *TaskService
	Materials  *MaterialService
	WorkItems  *WorkItemService
	Teams      *TeamService
	Imports    *ImportService
	Uploads    *UploadService
	Statistics *StatisticsService
}

// New builds the service set over repos. log and m may be nil.
func New(repos *repository.Repositories, tokens *auth.TokenService, uploads config.UploadConfig, log *zap.Logger, m *metrics.Metrics) *Services {
	return &Services{
		Auth:       NewAuthService(repos, tokens),
		Users:      NewUserService(repos),
		Projects:   NewProjectService(repos),
		Tasks:      NewTaskService(repos),
		Materials:  NewMaterialService(repos),
		WorkItems:  NewWorkItemService(repos),
		Teams:      NewTeamService(repos),
		Imports:    NewImportService(repos, log, m),
		Uploads:    NewUploadService(uploads, log),
		Statistics: NewStatisticsService(repos),
	}
}
