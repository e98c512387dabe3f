package dto

import (
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/services"
)

// DashboardCountsDTO holds the headline counters
type DashboardCountsDTO struct {
	WorkspaceCount      int64   `json:"workspace_count"`
	ProjectCount        int64   `json:"project_count"`
	TaskCount           int64   `json:"task_count"`
	CompletedTaskCount  int64   `json:"completed_task_count"`
	InProgressTaskCount int64   `json:"in_progress_task_count"`
	OverdueTaskCount    int64   `json:"overdue_task_count"`
	CompletionRate      float64 `json:"completion_rate"`
}

// DashboardDTO is the landing page payload
type DashboardDTO struct {
	DashboardCountsDTO
	RecentReports     []ReportDTO `json:"recent_reports"`
	UpcomingDeadlines []TaskDTO   `json:"upcoming_deadlines"`
}

// DashboardStatsDTO holds breakdowns by status and priority
type DashboardStatsDTO struct {
	DashboardCountsDTO
	ProjectsByStatus map[models.ProjectStatus]int64 `json:"projects_by_status"`
	TasksByStatus    map[string]int64               `json:"tasks_by_status"`
	TasksByPriority  map[string]int64               `json:"tasks_by_priority"`
}

// RecentActivitiesDTO lists recent task updates and reports
type RecentActivitiesDTO struct {
	Tasks   []TaskDTO   `json:"tasks"`
	Reports []ReportDTO `json:"reports"`
}

func toCountsDTO(c services.DashboardCounts) DashboardCountsDTO {
	return DashboardCountsDTO{
		WorkspaceCount:      c.WorkspaceCount,
		ProjectCount:        c.ProjectCount,
		TaskCount:           c.TaskCount,
		CompletedTaskCount:  c.CompletedTaskCount,
		InProgressTaskCount: c.InProgressTaskCount,
		OverdueTaskCount:    c.OverdueTaskCount,
		CompletionRate:      c.CompletionRate,
	}
}

// ToDashboardDTO converts a DashboardSummary
func ToDashboardDTO(s *services.DashboardSummary) DashboardDTO {
	return DashboardDTO{
		DashboardCountsDTO: toCountsDTO(s.Counts),
		RecentReports:      Map(s.RecentReports, ToReportDTO),
		UpcomingDeadlines:  Map(s.UpcomingDeadlines, ToTaskDTO),
	}
}

// ToDashboardStatsDTO converts DashboardStats. Every status and priority
// appears in the maps, with zero counts filled in.
func ToDashboardStatsDTO(s *services.DashboardStats) DashboardStatsDTO {
	projects := make(map[models.ProjectStatus]int64)
	for _, st := range models.ProjectStatuses() {
		projects[st] = s.ProjectsByStatus[st]
	}
	statuses := make(map[string]int64)
	for _, st := range models.TaskStatuses() {
		statuses[string(st)] = s.TasksByStatus[string(st)]
	}
	priorities := make(map[string]int64)
	for _, p := range models.Priorities() {
		priorities[string(p)] = s.TasksByPriority[string(p)]
	}

	return DashboardStatsDTO{
		DashboardCountsDTO: toCountsDTO(s.Counts),
		ProjectsByStatus:   projects,
		TasksByStatus:      statuses,
		TasksByPriority:    priorities,
	}
}

// ToRecentActivitiesDTO converts RecentActivities
func ToRecentActivitiesDTO(a *services.RecentActivities) RecentActivitiesDTO {
	return RecentActivitiesDTO{
		Tasks:   Map(a.Tasks, ToTaskDTO),
		Reports: Map(a.Reports, ToReportDTO),
	}
}
