package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/services"
)

// TaskAssignmentDTO represents a task assignment in API responses
type TaskAssignmentDTO struct {
	User       *UserRefDTO `json:"user"`
	AssignedAt time.Time   `json:"assigned_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uuid.UUID           `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	ProjectID      uuid.UUID           `json:"project_id"`
	ProjectName    string              `json:"project_name,omitempty"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.Priority     `json:"priority"`
	DueDate        *time.Time          `json:"due_date"`
	EstimatedHours *float64            `json:"estimated_hours"`
	ActualHours    *float64            `json:"actual_hours"`
	Tags           []string            `json:"tags"`
	Order          int                 `json:"order"`
	CreatedBy      uuid.UUID           `json:"created_by"`
	Creator        *UserRefDTO         `json:"creator,omitempty"`
	Assignments    []TaskAssignmentDTO `json:"assignments"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`

	// Set only by listings that count subtasks
	SubTaskCount          *int64 `json:"subtask_count,omitempty"`
	CompletedSubTaskCount *int64 `json:"completed_subtask_count,omitempty"`
}

// TaskDetailDTO adds subtasks, comments and attachments to a task
type TaskDetailDTO struct {
	TaskDTO
	SubTasks    []SubTaskDTO    `json:"subtasks"`
	Comments    []CommentDTO    `json:"comments"`
	Attachments []AttachmentDTO `json:"attachments"`
}

// SubTaskDTO represents a checklist item
type SubTaskDTO struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentDTO represents a task comment
type CommentDTO struct {
	ID        uuid.UUID   `json:"id"`
	TaskID    uuid.UUID   `json:"task_id"`
	UserID    uuid.UUID   `json:"user_id"`
	User      *UserRefDTO `json:"user,omitempty"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// AttachmentDTO represents attachment metadata
type AttachmentDTO struct {
	ID         uuid.UUID   `json:"id"`
	TaskID     uuid.UUID   `json:"task_id"`
	FileName   string      `json:"file_name"`
	FileURL    string      `json:"file_url"`
	FileSize   int64       `json:"file_size"`
	FileType   string      `json:"file_type"`
	UploadedBy uuid.UUID   `json:"uploaded_by"`
	Uploader   *UserRefDTO `json:"uploader,omitempty"`
	UploadedAt time.Time   `json:"uploaded_at"`
}

// TaskDraftDTO is an AI suggested task that has not been saved
type TaskDraftDTO struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Priority       models.Priority `json:"priority"`
	DueDate        *time.Time      `json:"due_date"`
	EstimatedHours *float64        `json:"estimated_hours"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	tags := []string(task.Tags)
	if tags == nil {
		tags = []string{}
	}

	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		ProjectID:      task.ProjectID,
		ProjectName:    task.Project.Name,
		Status:         task.Status,
		Priority:       task.Priority,
		DueDate:        task.DueDate,
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		Tags:           tags,
		Order:          task.Order,
		CreatedBy:      task.CreatedBy,
		Creator:        toUserRef(task.Creator),
		Assignments:    make([]TaskAssignmentDTO, len(task.Assignments)),
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	for i, assignment := range task.Assignments {
		dto.Assignments[i] = TaskAssignmentDTO{
			User:       toUserRef(assignment.User),
			AssignedAt: assignment.AssignedAt,
		}
	}

	return dto
}

// ToTaskSummaryDTO converts a task with its subtask counts
func ToTaskSummaryDTO(s services.TaskSummary) TaskDTO {
	dto := ToTaskDTO(s.Task)
	dto.SubTaskCount = &s.SubTaskCount
	dto.CompletedSubTaskCount = &s.CompletedSubTaskCount
	return dto
}

// ToTaskDetailDTO converts a TaskDetail
func ToTaskDetailDTO(d *services.TaskDetail) TaskDetailDTO {
	return TaskDetailDTO{
		TaskDTO:     ToTaskDTO(*d.Task),
		SubTasks:    Map(d.SubTasks, ToSubTaskDTO),
		Comments:    Map(d.Comments, ToCommentDTO),
		Attachments: Map(d.Attachments, ToAttachmentDTO),
	}
}

// ToSubTaskDTO converts a SubTask model
func ToSubTaskDTO(s models.SubTask) SubTaskDTO {
	return SubTaskDTO{
		ID:        s.ID,
		TaskID:    s.TaskID,
		Title:     s.Title,
		Completed: s.Completed,
		Order:     s.Order,
		CreatedAt: s.CreatedAt,
	}
}

// ToCommentDTO converts a TaskComment model
func ToCommentDTO(c models.TaskComment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		TaskID:    c.TaskID,
		UserID:    c.UserID,
		User:      toUserRef(c.User),
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToAttachmentDTO converts a TaskAttachment model
func ToAttachmentDTO(a models.TaskAttachment) AttachmentDTO {
	return AttachmentDTO{
		ID:         a.ID,
		TaskID:     a.TaskID,
		FileName:   a.FileName,
		FileURL:    a.FileURL,
		FileSize:   a.FileSize,
		FileType:   a.FileType,
		UploadedBy: a.UploadedBy,
		Uploader:   toUserRef(a.Uploader),
		UploadedAt: a.UploadedAt,
	}
}

// ToTaskDraftDTO converts an AI draft
func ToTaskDraftDTO(d services.TaskDraft) TaskDraftDTO {
	return TaskDraftDTO{
		Title:          d.Title,
		Description:    d.Description,
		Priority:       models.Priority(d.Priority),
		DueDate:        d.DueDate,
		EstimatedHours: d.EstimatedHours,
	}
}
