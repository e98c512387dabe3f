package database_test

import (
	"testing"

	"github.com/nedirbay/project-management-own-version/internal/config"
	"github.com/nedirbay/project-management-own-version/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql", "sqlite"} {
		d, err := database.Dialector(&config.Config{DBDriver: driver, SQLitePath: "test.db"})
		require.NoError(t, err)
		assert.Equal(t, driver, d.Name())
	}

	_, err := database.Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
