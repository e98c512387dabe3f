package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/database"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// Create creates a workspace and its initial members in one transaction
func (r *GormWorkspaceRepository) Create(ws *models.Workspace, memberIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(ws).Error; err != nil {
			return err
		}
		return addWorkspaceMembers(tx, ws.ID, memberIDs)
	})
}

func addWorkspaceMembers(tx *gorm.DB, workspaceID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now()
	members := make([]models.WorkspaceMember, len(userIDs))
	for i, userID := range userIDs {
		members[i] = models.WorkspaceMember{
			WorkspaceID: workspaceID,
			UserID:      userID,
			JoinedAt:    now,
		}
	}
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&members).Error
}

// FindByID finds an active workspace by ID with optional preloading
func (r *GormWorkspaceRepository) FindByID(id uuid.UUID, preload ...string) (*models.Workspace, error) {
	var ws models.Workspace
	query := r.db.Scopes(database.Active("workspaces"))
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.Where("workspaces.id = ?", id).First(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// visibleTo matches workspaces where userID is member, owner or admin
func (r *GormWorkspaceRepository) visibleTo(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		memberSubQuery := r.db.Model(&models.WorkspaceMember{}).
			Select("1").
			Where("workspace_members.workspace_id = workspaces.id").
			Where("workspace_members.user_id = ?", userID)
		return db.Where(
			r.db.Where("workspaces.owner_id = ?", userID).
				Or("workspaces.admin_id = ?", userID).
				Or("EXISTS (?)", memberSubQuery),
		)
	}
}

// List retrieves active workspaces visible to userID, or all when userID is nil
func (r *GormWorkspaceRepository) List(userID *uuid.UUID, page utils.PaginationParams) ([]models.Workspace, int64, error) {
	var workspaces []models.Workspace
	query := r.db.Model(&models.Workspace{}).Scopes(database.Active("workspaces"))
	if userID != nil {
		query = query.Scopes(r.visibleTo(*userID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("workspaces.created_at DESC").
		Scopes(database.Paginate(page)).
		Preload("Owner").
		Preload("Admin").
		Find(&workspaces).Error; err != nil {
		return nil, 0, err
	}
	return workspaces, total, nil
}

// AccessibleIDs lists active workspaces where userID is member, owner or admin
func (r *GormWorkspaceRepository) AccessibleIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Workspace{}).
		Scopes(database.Active("workspaces"), r.visibleTo(userID)).
		Pluck("workspaces.id", &ids).Error
	return ids, err
}

// MemberIDs lists active workspaces where userID holds a membership edge
func (r *GormWorkspaceRepository) MemberIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Workspace{}).
		Scopes(database.Active("workspaces")).
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ?", userID).
		Pluck("workspaces.id", &ids).Error
	return ids, err
}

// AdministeredIDs lists active workspaces whose designated admin is userID
func (r *GormWorkspaceRepository) AdministeredIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Workspace{}).
		Scopes(database.Active("workspaces")).
		Where("admin_id = ?", userID).
		Pluck("id", &ids).Error
	return ids, err
}

// Update saves a workspace's columns and makes a new admin a member
func (r *GormWorkspaceRepository) Update(ws *models.Workspace) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(ws).Error; err != nil {
			return err
		}
		return addWorkspaceMembers(tx, ws.ID, []uuid.UUID{ws.AdminID})
	})
}

// Delete soft deletes a workspace and cascades to its projects and tasks
func (r *GormWorkspaceRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var projectIDs []uuid.UUID
		if err := tx.Model(&models.Project{}).
			Where("workspace_id = ? AND active = ?", id, true).
			Pluck("id", &projectIDs).Error; err != nil {
			return err
		}

		if err := deactivateProjects(tx, projectIDs); err != nil {
			return err
		}

		return tx.Model(&models.Workspace{}).Where("id = ?", id).Update("active", false).Error
	})
}

// AddMember adds a member to a workspace
func (r *GormWorkspaceRepository) AddMember(member *models.WorkspaceMember) error {
	return r.db.Omit(clause.Associations).Create(member).Error
}

// RemoveMember removes a member from a workspace
func (r *GormWorkspaceRepository) RemoveMember(workspaceID, userID uuid.UUID) error {
	return r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&models.WorkspaceMember{}).Error
}

// IsMember reports whether userID is a member of the workspace
func (r *GormWorkspaceRepository) IsMember(workspaceID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListMembers lists all members of a workspace with their users
func (r *GormWorkspaceRepository) ListMembers(workspaceID uuid.UUID) ([]models.WorkspaceMember, error) {
	var members []models.WorkspaceMember
	err := r.db.Where("workspace_id = ?", workspaceID).
		Preload("User").
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

// CountMembersByIDs counts how many of userIDs are active members of the workspace
func (r *GormWorkspaceRepository) CountMembersByIDs(workspaceID uuid.UUID, userIDs []uuid.UUID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.User{}).
		Joins("JOIN workspace_members ON users.id = workspace_members.user_id").
		Where("workspace_members.workspace_id = ? AND users.id IN ?", workspaceID, userIDs).
		Where("users.active = ?", true).
		Count(&count).Error
	return count, err
}

// CountProjects counts active projects in a workspace
func (r *GormWorkspaceRepository) CountProjects(workspaceID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).
		Where("workspace_id = ? AND active = ?", workspaceID, true).
		Count(&count).Error
	return count, err
}

// Count counts active workspaces among ids, or all when ids is nil
func (r *GormWorkspaceRepository) Count(ids []uuid.UUID) (int64, error) {
	if ids != nil && len(ids) == 0 {
		return 0, nil
	}
	var count int64
	query := r.db.Model(&models.Workspace{}).Scopes(database.Active("workspaces"))
	if ids != nil {
		query = query.Where("id IN ?", ids)
	}
	err := query.Count(&count).Error
	return count, err
}
