package repository

import (
	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/database"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds an active user by ID
func (r *GormUserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Scopes(database.Active("users")).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameExists reports whether any user holds username
func (r *GormUserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// EmailExists reports whether a user other than excludeID holds email
func (r *GormUserRepository) EmailExists(email string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("email = ?", email)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// List retrieves active users ordered by username
func (r *GormUserRepository) List(page utils.PaginationParams) ([]models.User, int64, error) {
	var users []models.User
	query := r.db.Model(&models.User{}).Scopes(database.Active("users"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("username ASC").Scopes(database.Paginate(page)).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update saves a user's columns
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Omit(clause.Associations).Save(user).Error
}

// Deactivate soft deletes a user
func (r *GormUserRepository) Deactivate(id uuid.UUID) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("active", false).Error
}

// CountActiveByIDs counts how many of the given IDs are active users
func (r *GormUserRepository) CountActiveByIDs(ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.User{}).
		Scopes(database.Active("users")).
		Where("id IN ?", ids).
		Count(&count).Error
	return count, err
}

// Count counts all users
func (r *GormUserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// FindSettings finds the settings row of a user
func (r *GormUserRepository) FindSettings(userID uuid.UUID) (*models.UserSettings, error) {
	var settings models.UserSettings
	if err := r.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings inserts or replaces a user's settings
func (r *GormUserRepository) SaveSettings(settings *models.UserSettings) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(settings).Error
}
