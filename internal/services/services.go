package services

import (
	"github.com/nedirbay/project-management-own-version/internal/auth"
	"github.com/nedirbay/project-management-own-version/internal/membership"
	"github.com/nedirbay/project-management-own-version/internal/repository"
	"gorm.io/gorm"
)

// Services bundles every service over one database handle.
type Services struct {
	Auth       *AuthService
	Users      *UserService
	Workspaces *WorkspaceService
	Projects   *ProjectService
	Tasks      *TaskService
	Reports    *ReportService
	Dashboard  *DashboardService
}

// New wires repositories, the membership resolver and the services.
// suggester may be nil, in which case task suggestions are unavailable.
func New(db *gorm.DB, tokens *auth.TokenIssuer, suggester TaskSuggester) *Services {
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	itemRepo := repository.NewTaskItemRepository(db)
	reportRepo := repository.NewReportRepository(db)
	resolver := membership.NewResolver(repository.NewMembershipStore(db))

	return &Services{
		Auth:       NewAuthService(userRepo, tokens),
		Users:      NewUserService(userRepo, resolver),
		Workspaces: NewWorkspaceService(workspaceRepo, userRepo, resolver),
		Projects:   NewProjectService(projectRepo, workspaceRepo, userRepo, resolver),
		Tasks:      NewTaskService(taskRepo, itemRepo, projectRepo, workspaceRepo, resolver, suggester),
		Reports:    NewReportService(reportRepo, workspaceRepo, projectRepo, taskRepo, userRepo, resolver),
		Dashboard:  NewDashboardService(workspaceRepo, projectRepo, taskRepo, reportRepo),
	}
}
