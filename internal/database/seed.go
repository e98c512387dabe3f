package database

import (
	"fmt"
	"log"
	"time"

	"github.com/nedirbay/project-management-own-version/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedUser struct {
	username string
	fullName string
	password string
	role     models.Role
}

var seedUsers = []seedUser{
	{"admin", "System Administrator", "Admin123!", models.RoleAdmin},
	{"workspaceadmin", "Workspace Administrator", "WorkspaceAdmin123!", models.RoleWorkspaceAdmin},
	{"user", "Regular User", "User123!", models.RoleMember},
}

// Seed creates the initial accounts and a shared workspace when the users
// table is empty. It reports whether anything was written.
func Seed(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		log.Println("Database already seeded")
		return false, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		users := make([]*models.User, len(seedUsers))
		for i, su := range seedUsers {
			hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			users[i] = &models.User{
				Username:     su.username,
				Email:        su.username + "@projectmanager.com",
				PasswordHash: string(hash),
				FullName:     su.fullName,
				Role:         su.role,
				Active:       true,
			}
			if err := tx.Create(users[i]).Error; err != nil {
				return fmt.Errorf("failed to create user %s: %w", su.username, err)
			}
		}

		ws := &models.Workspace{
			Name:        "Development Team",
			Description: "Main development workspace",
			Color:       "#409eff",
			OwnerID:     users[0].ID,
			AdminID:     users[1].ID,
			Active:      true,
		}
		if err := tx.Omit(clause.Associations).Create(ws).Error; err != nil {
			return fmt.Errorf("failed to create workspace: %w", err)
		}

		now := time.Now()
		for _, u := range users {
			member := &models.WorkspaceMember{WorkspaceID: ws.ID, UserID: u.ID, JoinedAt: now}
			if err := tx.Omit(clause.Associations).Create(member).Error; err != nil {
				return fmt.Errorf("failed to add workspace member: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Println("Database seeded successfully")
	return true, nil
}
