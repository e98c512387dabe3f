// Package testutil opens throwaway SQLite databases and seeds fixtures for
// package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/database"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewDB opens an in-memory database with every table migrated. The pool is
// pinned to one connection so all queries see the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDatabase(db))
	return db
}

// Password is the plain-text password of every user created by CreateUser.
const Password = "secret123"

var passwordHash string

func hash(t *testing.T) string {
	if passwordHash == "" {
		h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
		require.NoError(t, err)
		passwordHash = string(h)
	}
	return passwordHash
}

// CreateUser inserts an active user with the given role.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash(t),
		FullName:     username,
		Role:         role,
		Active:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateWorkspace inserts a workspace with owner and admin, both added as members.
func CreateWorkspace(t *testing.T, db *gorm.DB, name string, owner, admin *models.User) *models.Workspace {
	t.Helper()
	ws := &models.Workspace{
		Name:    name,
		Color:   "#336699",
		OwnerID: owner.ID,
		AdminID: admin.ID,
		Active:  true,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(ws).Error)
	AddWorkspaceMember(t, db, ws, owner)
	if admin.ID != owner.ID {
		AddWorkspaceMember(t, db, ws, admin)
	}
	return ws
}

// AddWorkspaceMember inserts a workspace membership edge.
func AddWorkspaceMember(t *testing.T, db *gorm.DB, ws *models.Workspace, user *models.User) {
	t.Helper()
	require.NoError(t, db.Omit(clause.Associations).Create(&models.WorkspaceMember{
		WorkspaceID: ws.ID,
		UserID:      user.ID,
		JoinedAt:    time.Now(),
	}).Error)
}

// CreateProject inserts an active project in ws owned by owner.
func CreateProject(t *testing.T, db *gorm.DB, name string, ws *models.Workspace, owner *models.User) *models.Project {
	t.Helper()
	p := &models.Project{
		Name:        name,
		WorkspaceID: ws.ID,
		OwnerID:     owner.ID,
		Status:      models.ProjectStatusActive,
		Priority:    models.PriorityMedium,
		StartDate:   time.Now().UTC(),
		Color:       "#112233",
		Active:      true,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(p).Error)
	return p
}

// AddProjectMember inserts a project membership edge.
func AddProjectMember(t *testing.T, db *gorm.DB, p *models.Project, user *models.User) {
	t.Helper()
	require.NoError(t, db.Omit(clause.Associations).Create(&models.ProjectMember{
		ProjectID: p.ID,
		UserID:    user.ID,
		JoinedAt:  time.Now(),
	}).Error)
}

// CreateTask inserts an active task at the given board position.
func CreateTask(t *testing.T, db *gorm.DB, title string, p *models.Project, creator *models.User, status models.TaskStatus, order int) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:     title,
		ProjectID: p.ID,
		CreatedBy: creator.ID,
		Status:    status,
		Priority:  models.PriorityMedium,
		Order:     order,
		Active:    true,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(task).Error)
	return task
}

// Assign inserts a task assignment edge.
func Assign(t *testing.T, db *gorm.DB, task *models.Task, user *models.User) {
	t.Helper()
	require.NoError(t, db.Omit(clause.Associations).Create(&models.TaskAssignment{
		TaskID:     task.ID,
		UserID:     user.ID,
		AssignedAt: time.Now(),
	}).Error)
}

// CreateReport inserts a daily report for user on date.
func CreateReport(t *testing.T, db *gorm.DB, user *models.User, ws *models.Workspace, date time.Time) *models.DailyReport {
	t.Helper()
	rep := &models.DailyReport{
		UserID:          user.ID,
		WorkspaceID:     ws.ID,
		Date:            models.DateOnly(date),
		WorkDescription: "Worked on the release checklist",
	}
	require.NoError(t, db.Omit(clause.Associations).Create(rep).Error)
	return rep
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// IDs collects the ids of users.
func IDs(users ...*models.User) []uuid.UUID {
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}
