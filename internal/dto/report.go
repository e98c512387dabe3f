package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/services"
)

// DateLayout is the wire format of report dates
const DateLayout = "2006-01-02"

// ReportDTO represents a daily report in API responses
type ReportDTO struct {
	ID              uuid.UUID   `json:"id"`
	UserID          uuid.UUID   `json:"user_id"`
	User            *UserRefDTO `json:"user,omitempty"`
	Date            string      `json:"date"`
	WorkspaceID     uuid.UUID   `json:"workspace_id"`
	WorkspaceName   string      `json:"workspace_name,omitempty"`
	ProjectID       *uuid.UUID  `json:"project_id"`
	ProjectName     string      `json:"project_name,omitempty"`
	WorkDescription string      `json:"work_description"`
	TasksCompleted  []uuid.UUID `json:"tasks_completed"`
	Notes           *string     `json:"notes"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// ReportStatsDTO represents report counters
type ReportStatsDTO struct {
	TotalReports      int64 `json:"total_reports"`
	ReportsLast7Days  int64 `json:"reports_last_7_days"`
	ReportsLast30Days int64 `json:"reports_last_30_days"`
}

// ToReportDTO converts a DailyReport model to ReportDTO
func ToReportDTO(r models.DailyReport) ReportDTO {
	tasks := []uuid.UUID(r.TasksCompleted)
	if tasks == nil {
		tasks = []uuid.UUID{}
	}

	dto := ReportDTO{
		ID:              r.ID,
		UserID:          r.UserID,
		User:            toUserRef(r.User),
		Date:            r.Date.UTC().Format(DateLayout),
		WorkspaceID:     r.WorkspaceID,
		WorkspaceName:   r.Workspace.Name,
		ProjectID:       r.ProjectID,
		WorkDescription: r.WorkDescription,
		TasksCompleted:  tasks,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.Project != nil {
		dto.ProjectName = r.Project.Name
	}
	return dto
}

// ToReportStatsDTO converts ReportStats
func ToReportStatsDTO(s *services.ReportStats) ReportStatsDTO {
	return ReportStatsDTO{
		TotalReports:      s.TotalReports,
		ReportsLast7Days:  s.ReportsLast7Days,
		ReportsLast30Days: s.ReportsLast30Days,
	}
}
