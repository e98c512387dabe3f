package services

import (
	"fmt"
	"math"
	"time"

	"github.com/nedirbay/project-management-own-version/internal/constants"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/repository"
	"github.com/nedirbay/project-management-own-version/internal/utils"
)

// DashboardService aggregates read-only counters over what the caller can see
type DashboardService struct {
	workspaceRepo repository.WorkspaceRepository
	projectRepo   repository.ProjectRepository
	taskRepo      repository.TaskRepository
	reportRepo    repository.ReportRepository
	scopes        scopes
	now           func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	workspaceRepo repository.WorkspaceRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	reportRepo repository.ReportRepository,
) *DashboardService {
	return &DashboardService{
		workspaceRepo: workspaceRepo,
		projectRepo:   projectRepo,
		taskRepo:      taskRepo,
		reportRepo:    reportRepo,
		scopes:        scopes{workspaces: workspaceRepo, projects: projectRepo},
		now:           time.Now,
	}
}

// DashboardCounts are the headline numbers of the dashboard
type DashboardCounts struct {
	WorkspaceCount      int64
	ProjectCount        int64
	TaskCount           int64
	CompletedTaskCount  int64
	InProgressTaskCount int64
	OverdueTaskCount    int64
	CompletionRate      float64
}

// DashboardSummary is the landing page payload
type DashboardSummary struct {
	Counts            DashboardCounts
	RecentReports     []models.DailyReport
	UpcomingDeadlines []models.Task
}

// DashboardStats breaks accessible work down by status and priority
type DashboardStats struct {
	Counts           DashboardCounts
	ProjectsByStatus map[models.ProjectStatus]int64
	TasksByStatus    map[string]int64
	TasksByPriority  map[string]int64
}

// RecentActivities lists the latest task updates and own reports
type RecentActivities struct {
	Tasks   []models.Task
	Reports []models.DailyReport
}

// Summary returns counters, recent own reports and upcoming deadlines
func (s *DashboardService) Summary(actor Actor) (*DashboardSummary, error) {
	counts, err := s.counts(actor)
	if err != nil {
		return nil, err
	}
	reports, err := s.recentReports(actor, constants.DashboardPreviewLimit)
	if err != nil {
		return nil, err
	}
	deadlines, err := s.upcoming(actor, constants.DashboardPreviewLimit)
	if err != nil {
		return nil, err
	}
	return &DashboardSummary{Counts: *counts, RecentReports: reports, UpcomingDeadlines: deadlines}, nil
}

// Stats returns counters plus status and priority breakdowns
func (s *DashboardService) Stats(actor Actor) (*DashboardStats, error) {
	counts, err := s.counts(actor)
	if err != nil {
		return nil, err
	}

	pv, err := s.scopes.projectVisibility(actor, true)
	if err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.CountByStatus(repository.ProjectFilter{Visibility: pv})
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	tv, err := s.scopes.taskVisibility(actor)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.taskRepo.CountBy(repository.TaskFilter{Visibility: tv}, "status")
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	byPriority, err := s.taskRepo.CountBy(repository.TaskFilter{Visibility: tv}, "priority")
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return &DashboardStats{
		Counts:           *counts,
		ProjectsByStatus: projects,
		TasksByStatus:    byStatus,
		TasksByPriority:  byPriority,
	}, nil
}

// RecentActivities returns recently updated accessible tasks and own reports
func (s *DashboardService) RecentActivities(actor Actor) (*RecentActivities, error) {
	tv, err := s.scopes.taskVisibility(actor)
	if err != nil {
		return nil, err
	}
	tasks, _, err := s.taskRepo.List(repository.TaskFilter{
		Visibility: tv,
		SortBy:     repository.SortRecentlyUpdated,
		Page:       utils.NewPaginationParams(1, constants.DashboardActivityLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	reports, err := s.recentReports(actor, constants.DashboardActivityLimit)
	if err != nil {
		return nil, err
	}
	return &RecentActivities{Tasks: tasks, Reports: reports}, nil
}

// UpcomingDeadlines returns accessible open tasks due from now on, soonest first
func (s *DashboardService) UpcomingDeadlines(actor Actor) ([]models.Task, error) {
	return s.upcoming(actor, constants.DashboardActivityLimit)
}

func (s *DashboardService) counts(actor Actor) (*DashboardCounts, error) {
	var counts DashboardCounts

	if actor.IsAdmin() {
		n, err := s.workspaceRepo.Count(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to count workspaces: %w", err)
		}
		counts.WorkspaceCount = n
	} else {
		ids, err := s.workspaceRepo.AccessibleIDs(actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to list workspaces: %w", err)
		}
		counts.WorkspaceCount = int64(len(ids))
	}

	pv, err := s.scopes.projectVisibility(actor, true)
	if err != nil {
		return nil, err
	}
	projectIDs, err := s.projectRepo.IDs(repository.ProjectFilter{Visibility: pv})
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	counts.ProjectCount = int64(len(projectIDs))

	tv, err := s.scopes.taskVisibility(actor)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.taskRepo.CountBy(repository.TaskFilter{Visibility: tv}, "status")
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	for _, n := range byStatus {
		counts.TaskCount += n
	}
	counts.CompletedTaskCount = byStatus[string(models.TaskStatusDone)]
	counts.InProgressTaskCount = byStatus[string(models.TaskStatusInProgress)]

	now := s.now()
	overdue, err := s.taskRepo.CountBy(repository.TaskFilter{Visibility: tv, DueBefore: &now, ExcludeDone: true}, "status")
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	for _, n := range overdue {
		counts.OverdueTaskCount += n
	}

	if counts.TaskCount > 0 {
		rate := float64(counts.CompletedTaskCount) / float64(counts.TaskCount) * 100
		counts.CompletionRate = math.Round(rate*100) / 100
	}
	return &counts, nil
}

func (s *DashboardService) recentReports(actor Actor, limit int) ([]models.DailyReport, error) {
	reports, _, err := s.reportRepo.List(repository.ReportFilter{
		UserID: &actor.UserID,
		Page:   utils.NewPaginationParams(1, limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (s *DashboardService) upcoming(actor Actor, limit int) ([]models.Task, error) {
	tv, err := s.scopes.taskVisibility(actor)
	if err != nil {
		return nil, err
	}
	now := s.now()
	tasks, _, err := s.taskRepo.List(repository.TaskFilter{
		Visibility:  tv,
		DueFrom:     &now,
		ExcludeDone: true,
		SortBy:      repository.SortDueDate,
		Page:        utils.NewPaginationParams(1, limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming tasks: %w", err)
	}
	return tasks, nil
}
