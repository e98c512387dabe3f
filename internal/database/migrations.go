package database

import (
	"fmt"
	"log"

	"github.com/nedirbay/project-management-own-version/internal/models"
	"gorm.io/gorm"
)

type indexSpec struct {
	model   interface{}
	name    string
	columns string
}

// secondary indexes used by listing and dashboard queries
var indexes = []indexSpec{
	{&models.Task{}, "idx_tasks_project_active", "project_id, active"},
	{&models.Task{}, "idx_tasks_updated_at", "updated_at"},
	{&models.Project{}, "idx_projects_workspace_active", "workspace_id, active"},
	{&models.DailyReport{}, "idx_reports_workspace_date", "workspace_id, date"},
	{&models.SubTask{}, "idx_subtasks_task_order", "task_id, sort_order"},
}

// AddIndexes adds indexes that struct tags cannot express. Existing ones are skipped.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Printf("Created index %s on %s(%s)", idx.name, stmt.Schema.Table, idx.columns)
	}
	return nil
}

// MigrateDatabase runs AutoMigrate followed by the index pass.
func MigrateDatabase(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return err
	}
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}
