package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/database"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReportRepository is a GORM implementation of ReportRepository
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// Create creates a report
func (r *GormReportRepository) Create(report *models.DailyReport) error {
	return r.db.Omit(clause.Associations).Create(report).Error
}

// FindByID finds a report by ID
func (r *GormReportRepository) FindByID(id uuid.UUID) (*models.DailyReport, error) {
	var report models.DailyReport
	if err := r.db.
		Preload("User").
		Preload("Workspace").
		Preload("Project").
		Where("daily_reports.id = ?", id).
		First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ExistsForDate reports whether userID already has a report on date
func (r *GormReportRepository) ExistsForDate(userID uuid.UUID, date time.Time, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.Model(&models.DailyReport{}).
		Where("user_id = ? AND date = ?", userID, models.DateOnly(date))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *GormReportRepository) filtered(filter ReportFilter) *gorm.DB {
	query := r.db.Model(&models.DailyReport{})

	if v := filter.Visibility; v != nil {
		visible := r.db.Where("daily_reports.user_id = ?", v.UserID)
		if len(v.WorkspaceIDs) > 0 {
			visible = visible.Or("daily_reports.workspace_id IN ?", v.WorkspaceIDs)
		}
		query = query.Where(visible)
	}
	if filter.UserID != nil {
		query = query.Where("daily_reports.user_id = ?", *filter.UserID)
	}
	if filter.WorkspaceID != nil {
		query = query.Where("daily_reports.workspace_id = ?", *filter.WorkspaceID)
	}
	if filter.Date != nil {
		query = query.Where("daily_reports.date = ?", models.DateOnly(*filter.Date))
	}
	if filter.DateFrom != nil {
		query = query.Where("daily_reports.date >= ?", models.DateOnly(*filter.DateFrom))
	}
	return query
}

// List retrieves reports with filtering and pagination, newest date first
func (r *GormReportRepository) List(filter ReportFilter) ([]models.DailyReport, int64, error) {
	var reports []models.DailyReport
	query := r.filtered(filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("daily_reports.date DESC, daily_reports.created_at DESC").
		Scopes(database.Paginate(filter.Page)).
		Preload("User").
		Preload("Workspace").
		Preload("Project").
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// Count counts reports matching filter
func (r *GormReportRepository) Count(filter ReportFilter) (int64, error) {
	var count int64
	err := r.filtered(filter).Count(&count).Error
	return count, err
}

// Update saves a report
func (r *GormReportRepository) Update(report *models.DailyReport) error {
	return r.db.Omit(clause.Associations).Save(report).Error
}

// Delete permanently deletes a report
func (r *GormReportRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.DailyReport{}).Error
}
