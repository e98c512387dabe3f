package repository

import (
	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"gorm.io/gorm"
)

// GormMembershipStore serves the membership resolver from the workspace,
// project, task and report repositories.
type GormMembershipStore struct {
	workspaces WorkspaceRepository
	projects   ProjectRepository
	tasks      TaskRepository
	reports    ReportRepository
}

// NewMembershipStore creates a GormMembershipStore over db.
func NewMembershipStore(db *gorm.DB) *GormMembershipStore {
	return &GormMembershipStore{
		workspaces: NewWorkspaceRepository(db),
		projects:   NewProjectRepository(db),
		tasks:      NewTaskRepository(db),
		reports:    NewReportRepository(db),
	}
}

func (s *GormMembershipStore) FindWorkspace(id uuid.UUID) (*models.Workspace, error) {
	return s.workspaces.FindByID(id)
}

func (s *GormMembershipStore) FindProject(id uuid.UUID) (*models.Project, error) {
	return s.projects.FindByID(id)
}

func (s *GormMembershipStore) FindTask(id uuid.UUID) (*models.Task, error) {
	return s.tasks.FindByID(id)
}

func (s *GormMembershipStore) FindReport(id uuid.UUID) (*models.DailyReport, error) {
	return s.reports.FindByID(id)
}

func (s *GormMembershipStore) IsWorkspaceMember(workspaceID, userID uuid.UUID) (bool, error) {
	return s.workspaces.IsMember(workspaceID, userID)
}

func (s *GormMembershipStore) IsProjectMember(projectID, userID uuid.UUID) (bool, error) {
	return s.projects.IsMember(projectID, userID)
}

func (s *GormMembershipStore) IsTaskAssignee(taskID, userID uuid.UUID) (bool, error) {
	return s.tasks.IsAssignee(taskID, userID)
}
