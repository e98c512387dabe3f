package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Project struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                      `gorm:"type:varchar(100);not null" json:"name"`
	Description string                      `gorm:"type:text" json:"description"`
	WorkspaceID uuid.UUID                   `gorm:"type:uuid;not null;index" json:"workspace_id"`
	OwnerID     uuid.UUID                   `gorm:"type:uuid;not null;index" json:"owner_id"`
	Status      ProjectStatus               `gorm:"type:varchar(20);not null;default:'Planning'" json:"status"`
	Priority    Priority                    `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	StartDate   time.Time                   `gorm:"not null" json:"start_date"`
	EndDate     *time.Time                  `json:"end_date"`
	Progress    int                         `gorm:"not null;default:0" json:"progress"`
	Color       string                      `gorm:"type:varchar(20);not null" json:"color"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Active      bool                        `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`

	// Relations
	Workspace Workspace       `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	Owner     User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members   []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
}

type ProjectMember struct {
	ProjectID uuid.UUID `gorm:"type:uuid;primaryKey" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
