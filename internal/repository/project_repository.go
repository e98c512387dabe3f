package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/database"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project and its initial members in one transaction
func (r *GormProjectRepository) Create(project *models.Project, memberIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		if len(memberIDs) == 0 {
			return nil
		}

		now := time.Now()
		members := make([]models.ProjectMember, len(memberIDs))
		for i, userID := range memberIDs {
			members[i] = models.ProjectMember{ProjectID: project.ID, UserID: userID, JoinedAt: now}
		}
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&members).Error
	})
}

// FindByID finds an active project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uuid.UUID, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db.Scopes(database.Active("projects"))
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.Where("projects.id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) filtered(filter ProjectFilter) *gorm.DB {
	query := r.db.Model(&models.Project{}).Scopes(database.Active("projects"))

	if v := filter.Visibility; v != nil {
		memberSubQuery := r.db.Model(&models.ProjectMember{}).
			Select("1").
			Where("project_members.project_id = projects.id").
			Where("project_members.user_id = ?", v.UserID)

		visible := r.db.Where("EXISTS (?)", memberSubQuery)
		if v.IncludeOwned {
			visible = visible.Or("projects.owner_id = ?", v.UserID)
		}
		if len(v.WorkspaceIDs) > 0 {
			visible = visible.Or("projects.workspace_id IN ?", v.WorkspaceIDs)
		}
		query = query.Where(visible)
	}
	if filter.WorkspaceID != nil {
		query = query.Where("projects.workspace_id = ?", *filter.WorkspaceID)
	}
	if filter.Status != nil {
		query = query.Where("projects.status = ?", *filter.Status)
	}
	return query
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project
	query := r.filtered(filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("projects.created_at DESC").
		Scopes(database.Paginate(filter.Page)).
		Preload("Owner").
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// IDs lists the IDs of every project matching filter, ignoring pagination
func (r *GormProjectRepository) IDs(filter ProjectFilter) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.filtered(filter).Pluck("projects.id", &ids).Error
	return ids, err
}

// CountByStatus counts projects matching filter grouped by status
func (r *GormProjectRepository) CountByStatus(filter ProjectFilter) (map[models.ProjectStatus]int64, error) {
	var rows []struct {
		Status models.ProjectStatus
		Count  int64
	}
	if err := r.filtered(filter).
		Select("projects.status AS status, COUNT(*) AS count").
		Group("projects.status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.ProjectStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Update saves a project's columns
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Omit(clause.Associations).Save(project).Error
}

// Delete soft deletes a project and cascades to its tasks and reports
func (r *GormProjectRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return deactivateProjects(tx, []uuid.UUID{id})
	})
}

// deactivateProjects soft deletes projects and their tasks, removes task
// children and detaches reports. It must run inside a transaction.
func deactivateProjects(tx *gorm.DB, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}

	var taskIDs []uuid.UUID
	if err := tx.Model(&models.Task{}).
		Where("project_id IN ? AND active = ?", projectIDs, true).
		Pluck("id", &taskIDs).Error; err != nil {
		return err
	}

	if err := removeTaskChildren(tx, taskIDs); err != nil {
		return err
	}
	if len(taskIDs) > 0 {
		if err := tx.Model(&models.Task{}).Where("id IN ?", taskIDs).Update("active", false).Error; err != nil {
			return err
		}
	}

	if err := tx.Model(&models.DailyReport{}).
		Where("project_id IN ?", projectIDs).
		Update("project_id", nil).Error; err != nil {
		return err
	}

	return tx.Model(&models.Project{}).Where("id IN ?", projectIDs).Update("active", false).Error
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Omit(clause.Associations).Create(member).Error
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(projectID, userID uuid.UUID) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// IsMember reports whether userID is a member of the project
func (r *GormProjectRepository) IsMember(projectID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListMembers lists all members of a project with their users
func (r *GormProjectRepository) ListMembers(projectID uuid.UUID) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	err := r.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

// TaskCounts returns total and completed active task counts per project
func (r *GormProjectRepository) TaskCounts(projectIDs []uuid.UUID) (map[uuid.UUID]TaskCount, error) {
	counts := make(map[uuid.UUID]TaskCount, len(projectIDs))
	if len(projectIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ProjectID uuid.UUID
		Status    models.TaskStatus
		Count     int64
	}
	if err := r.db.Model(&models.Task{}).
		Select("project_id, status, COUNT(*) AS count").
		Where("project_id IN ? AND active = ?", projectIDs, true).
		Group("project_id, status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		c := counts[row.ProjectID]
		c.Total += row.Count
		if row.Status == models.TaskStatusDone {
			c.Completed += row.Count
		}
		counts[row.ProjectID] = c
	}
	return counts, nil
}
