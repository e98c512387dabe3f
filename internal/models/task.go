package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Task is a Kanban card. Order positions it inside its (project, status) column.
type Task struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string                      `gorm:"type:varchar(200);not null" json:"title"`
	Description    string                      `gorm:"type:text" json:"description"`
	ProjectID      uuid.UUID                   `gorm:"type:uuid;not null;index:idx_tasks_bucket,priority:1" json:"project_id"`
	CreatedBy      uuid.UUID                   `gorm:"type:uuid;not null;index" json:"created_by"`
	Status         TaskStatus                  `gorm:"type:varchar(20);not null;default:'Todo';index:idx_tasks_bucket,priority:2" json:"status"`
	Priority       Priority                    `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	DueDate        *time.Time                  `gorm:"index" json:"due_date"`
	EstimatedHours *float64                    `json:"estimated_hours"`
	ActualHours    *float64                    `json:"actual_hours"`
	Tags           datatypes.JSONSlice[string] `json:"tags"`
	Order          int                         `gorm:"column:sort_order;not null;default:0" json:"order"`
	Active         bool                        `gorm:"not null;default:true;index" json:"active"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`

	// Relations
	Project     Project          `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Creator     User             `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
	SubTasks    []SubTask        `gorm:"foreignKey:TaskID" json:"subtasks,omitempty"`
	Comments    []TaskComment    `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
	Attachments []TaskAttachment `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}

type TaskAssignment struct {
	TaskID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"task_id"`
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	AssignedAt time.Time `json:"assigned_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type SubTask struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	Order     int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

type TaskComment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type TaskAttachment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID     uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	FileName   string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FileURL    string    `gorm:"type:text;not null" json:"file_url"`
	FileSize   int64     `gorm:"not null" json:"file_size"`
	FileType   string    `gorm:"type:varchar(100)" json:"file_type"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`

	Uploader User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}
