package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DailyReport records one user's work for one UTC day.
type DailyReport struct {
	ID              uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID                      `gorm:"type:uuid;not null;uniqueIndex:idx_reports_user_date,priority:1" json:"user_id"`
	Date            time.Time                      `gorm:"not null;uniqueIndex:idx_reports_user_date,priority:2;index" json:"date"`
	WorkspaceID     uuid.UUID                      `gorm:"type:uuid;not null;index" json:"workspace_id"`
	ProjectID       *uuid.UUID                     `gorm:"type:uuid;index" json:"project_id"`
	WorkDescription string                         `gorm:"type:text;not null" json:"work_description"`
	TasksCompleted  datatypes.JSONSlice[uuid.UUID] `json:"tasks_completed"`
	Notes           *string                        `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time                      `json:"created_at"`
	UpdatedAt       time.Time                      `json:"updated_at"`

	// Relations
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
