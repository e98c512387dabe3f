package database_test

import (
	"testing"

	"github.com/nedirbay/project-management-own-version/internal/database"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeed(t *testing.T) {
	db := testutil.NewDB(t)

	seeded, err := database.Seed(db)
	require.NoError(t, err)
	assert.True(t, seeded)

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "admin@projectmanager.com", admin.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("Admin123!")))

	var ws models.Workspace
	require.NoError(t, db.Where("name = ?", "Development Team").First(&ws).Error)
	assert.Equal(t, admin.ID, ws.OwnerID)

	var members int64
	require.NoError(t, db.Model(&models.WorkspaceMember{}).Where("workspace_id = ?", ws.ID).Count(&members).Error)
	assert.Equal(t, int64(3), members)

	// a second run leaves existing data alone
	seeded, err = database.Seed(db)
	require.NoError(t, err)
	assert.False(t, seeded)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(3), users)
}
