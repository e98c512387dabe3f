package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string    `gorm:"type:varchar(100);not null" json:"full_name"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'Member'" json:"role"`
	Avatar       string    `gorm:"type:text" json:"avatar"`
	Phone        string    `gorm:"type:varchar(30)" json:"phone"`
	Bio          string    `gorm:"type:text" json:"bio"`
	Active       bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NotificationSettings toggles the notification channels a user receives.
type NotificationSettings struct {
	Email          bool `json:"email"`
	Push           bool `json:"push"`
	TaskAssigned   bool `json:"task_assigned"`
	TaskCompleted  bool `json:"task_completed"`
	ProjectUpdated bool `json:"project_updated"`
	ReportReminder bool `json:"report_reminder"`
}

type UserSettings struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Theme         string    `gorm:"type:varchar(20);not null" json:"theme"`
	Language      string    `gorm:"type:varchar(10);not null" json:"language"`
	Timezone      string    `gorm:"type:varchar(64);not null" json:"timezone"`
	DateFormat    string    `gorm:"type:varchar(20);not null" json:"date_format"`
	TimeFormat    string    `gorm:"type:varchar(10);not null" json:"time_format"`
	Notifications datatypes.JSONType[NotificationSettings] `json:"notifications"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultUserSettings returns the settings a user starts with.
func DefaultUserSettings(userID uuid.UUID) UserSettings {
	return UserSettings{
		UserID:     userID,
		Theme:      "light",
		Language:   "en",
		Timezone:   "UTC",
		DateFormat: "YYYY-MM-DD",
		TimeFormat: "24h",
		Notifications: datatypes.NewJSONType(NotificationSettings{
			Email:          true,
			Push:           true,
			TaskAssigned:   true,
			TaskCompleted:  true,
			ProjectUpdated: true,
			ReportReminder: true,
		}),
	}
}
