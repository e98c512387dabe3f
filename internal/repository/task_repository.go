package repository

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/database"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const boardOrder = "CASE tasks.status WHEN 'Todo' THEN 0 WHEN 'InProgress' THEN 1 WHEN 'Review' THEN 2 ELSE 3 END, tasks.sort_order ASC"

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create appends a task to the end of its board column and assigns assigneeIDs
func (r *GormTaskRepository) Create(task *models.Task, assigneeIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		n, err := columnSize(tx, task.ProjectID, task.Status, uuid.Nil)
		if err != nil {
			return err
		}
		task.Order = int(n)

		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		return assignUsers(tx, task.ID, assigneeIDs)
	})
}

// FindByID finds an active task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uuid.UUID, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.Scopes(database.Active("tasks"))

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("tasks.id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *GormTaskRepository) assignedTo(userID uuid.UUID) *gorm.DB {
	return r.db.Model(&models.TaskAssignment{}).
		Select("1").
		Where("task_assignments.task_id = tasks.id").
		Where("task_assignments.user_id = ?", userID)
}

func (r *GormTaskRepository) filtered(filter TaskFilter) *gorm.DB {
	query := r.db.Model(&models.Task{}).Scopes(database.Active("tasks"))

	if v := filter.Visibility; v != nil {
		visible := r.db.Where("tasks.created_by = ?", v.UserID).
			Or("EXISTS (?)", r.assignedTo(v.UserID))
		if len(v.ProjectIDs) > 0 {
			visible = visible.Or("tasks.project_id IN ?", v.ProjectIDs)
		}
		query = query.Where(visible)
	}
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssignedUserID != nil {
		query = query.Where("EXISTS (?)", r.assignedTo(*filter.AssignedUserID))
	}
	if filter.MineUserID != nil {
		query = query.Where(
			r.db.Where("tasks.created_by = ?", *filter.MineUserID).
				Or("EXISTS (?)", r.assignedTo(*filter.MineUserID)),
		)
	}
	if filter.DueFrom != nil {
		query = query.Where("tasks.due_date >= ?", *filter.DueFrom)
	}
	if filter.DueBefore != nil {
		query = query.Where("tasks.due_date < ?", *filter.DueBefore)
	}
	if filter.ExcludeDone {
		query = query.Where("tasks.status <> ?", models.TaskStatusDone)
	}
	return query
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task
	query := r.filtered(filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	switch filter.SortBy {
	case SortDueDate:
		listQuery = listQuery.Order("CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC")
	case SortRecentlyUpdated:
		listQuery = listQuery.Order("tasks.updated_at DESC")
	default:
		listQuery = listQuery.Order(boardOrder)
	}

	if err := listQuery.Scopes(database.Paginate(filter.Page)).
		Preload("Assignments").
		Preload("Assignments.User").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// CountBy counts tasks matching filter grouped by column ("status" or "priority")
func (r *GormTaskRepository) CountBy(filter TaskFilter, column string) (map[string]int64, error) {
	if column != "status" && column != "priority" {
		return nil, fmt.Errorf("task repository: cannot group by %q", column)
	}

	var rows []struct {
		Value string
		Count int64
	}
	if err := r.filtered(filter).
		Select(fmt.Sprintf("tasks.%s AS value, COUNT(*) AS count", column)).
		Group("tasks." + column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Value] = row.Count
	}
	return counts, nil
}

// Update saves a task's columns. When status differs from the task's
// current one the task moves to the end of that column in the same transaction.
func (r *GormTaskRepository) Update(task *models.Task, status models.TaskStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations, "status", "sort_order").Save(task).Error; err != nil {
			return err
		}
		if status == task.Status {
			return nil
		}
		return moveTask(tx, task, status, math.MaxInt32)
	})
}

// columnSize counts active tasks in a board column, excluding one task.
func columnSize(tx *gorm.DB, projectID uuid.UUID, status models.TaskStatus, exclude uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&models.Task{}).
		Where("project_id = ? AND status = ? AND active = ? AND id <> ?", projectID, status, true, exclude).
		Count(&n).Error
	return n, err
}

// shiftColumn moves every active task of a column at or after position from by delta.
func shiftColumn(tx *gorm.DB, projectID uuid.UUID, status models.TaskStatus, from, delta int, exclude uuid.UUID) error {
	return tx.Model(&models.Task{}).
		Where("project_id = ? AND status = ? AND active = ? AND sort_order >= ? AND id <> ?", projectID, status, true, from, exclude).
		UpdateColumn("sort_order", gorm.Expr("sort_order + ?", delta)).Error
}

// Move places a task at position order of the given status column
func (r *GormTaskRepository) Move(task *models.Task, status models.TaskStatus, order int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return moveTask(tx, task, status, order)
	})
}

func moveTask(tx *gorm.DB, task *models.Task, status models.TaskStatus, order int) error {
	// close the gap left in the old column
	if err := shiftColumn(tx, task.ProjectID, task.Status, task.Order+1, -1, task.ID); err != nil {
		return err
	}

	n, err := columnSize(tx, task.ProjectID, status, task.ID)
	if err != nil {
		return err
	}
	if order < 0 {
		order = 0
	}
	if order > int(n) {
		order = int(n)
	}

	if err := shiftColumn(tx, task.ProjectID, status, order, 1, task.ID); err != nil {
		return err
	}

	now := time.Now()
	if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Updates(map[string]interface{}{
		"status":     status,
		"sort_order": order,
		"updated_at": now,
	}).Error; err != nil {
		return err
	}

	task.Status = status
	task.Order = order
	task.UpdatedAt = now
	return nil
}

// Delete soft deletes a task, removes its children and closes the gap in its column
func (r *GormTaskRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ? AND active = ?", id, true).First(&task).Error; err != nil {
			return err
		}

		if err := removeTaskChildren(tx, []uuid.UUID{id}); err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("id = ?", id).Update("active", false).Error; err != nil {
			return err
		}

		return shiftColumn(tx, task.ProjectID, task.Status, task.Order+1, -1, task.ID)
	})
}

// removeTaskChildren hard deletes subtasks, comments, attachments and assignments.
func removeTaskChildren(tx *gorm.DB, taskIDs []uuid.UUID) error {
	if len(taskIDs) == 0 {
		return nil
	}
	for _, child := range []interface{}{
		&models.SubTask{},
		&models.TaskComment{},
		&models.TaskAttachment{},
		&models.TaskAssignment{},
	} {
		if err := tx.Where("task_id IN ?", taskIDs).Delete(child).Error; err != nil {
			return err
		}
	}
	return nil
}

func assignUsers(tx *gorm.DB, taskID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}

	now := time.Now()
	assignments := make([]models.TaskAssignment, len(userIDs))
	for i, userID := range userIDs {
		assignments[i] = models.TaskAssignment{
			TaskID:     taskID,
			UserID:     userID,
			AssignedAt: now,
		}
	}

	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&assignments).Error
}

// AssignUsers assigns multiple users to a task
func (r *GormTaskRepository) AssignUsers(taskID uuid.UUID, userIDs []uuid.UUID) error {
	return assignUsers(r.db, taskID, userIDs)
}

// UnassignUsers removes user assignments from a task
func (r *GormTaskRepository) UnassignUsers(taskID uuid.UUID, userIDs []uuid.UUID) error {
	return r.db.Where("task_id = ? AND user_id IN ?", taskID, userIDs).
		Delete(&models.TaskAssignment{}).Error
}

// IsAssignee reports whether userID is assigned to the task
func (r *GormTaskRepository) IsAssignee(taskID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.TaskAssignment{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Count(&count).Error
	return count > 0, err
}

// CountInWorkspace counts how many of taskIDs are active tasks of the workspace
func (r *GormTaskRepository) CountInWorkspace(workspaceID uuid.UUID, taskIDs []uuid.UUID) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.Task{}).
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.workspace_id = ? AND tasks.id IN ?", workspaceID, taskIDs).
		Where("tasks.active = ? AND projects.active = ?", true, true).
		Count(&count).Error
	return count, err
}
