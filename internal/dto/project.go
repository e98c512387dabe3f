package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/services"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	WorkspaceID    uuid.UUID            `json:"workspace_id"`
	WorkspaceName  string               `json:"workspace_name,omitempty"`
	OwnerID        uuid.UUID            `json:"owner_id"`
	Owner          *UserRefDTO          `json:"owner,omitempty"`
	Status         models.ProjectStatus `json:"status"`
	Priority       models.Priority      `json:"priority"`
	StartDate      time.Time            `json:"start_date"`
	EndDate        *time.Time           `json:"end_date"`
	Progress       int                  `json:"progress"`
	Color          string               `json:"color"`
	Tags           []string             `json:"tags"`
	TaskCount      int64                `json:"task_count"`
	CompletedTasks int64                `json:"completed_tasks"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ProjectDetailDTO adds the member list to a project
type ProjectDetailDTO struct {
	ProjectDTO
	Members []MemberDTO `json:"members"`
}

// ToProjectDTO converts a ProjectSummary to ProjectDTO
func ToProjectDTO(s services.ProjectSummary) ProjectDTO {
	p := s.Project
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	return ProjectDTO{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		WorkspaceID:    p.WorkspaceID,
		WorkspaceName:  p.Workspace.Name,
		OwnerID:        p.OwnerID,
		Owner:          toUserRef(p.Owner),
		Status:         p.Status,
		Priority:       p.Priority,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Progress:       p.Progress,
		Color:          p.Color,
		Tags:           tags,
		TaskCount:      s.Tasks.Total,
		CompletedTasks: s.Tasks.Completed,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProjectDetailDTO converts a ProjectDetail
func ToProjectDetailDTO(d *services.ProjectDetail) ProjectDetailDTO {
	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(d.ProjectSummary),
		Members:    Map(d.Members, ToProjectMemberDTO),
	}
}
