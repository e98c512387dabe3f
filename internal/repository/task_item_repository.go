package repository

import (
	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskItemRepository is a GORM implementation of TaskItemRepository
type GormTaskItemRepository struct {
	db *gorm.DB
}

// NewTaskItemRepository creates a new TaskItemRepository
func NewTaskItemRepository(db *gorm.DB) TaskItemRepository {
	return &GormTaskItemRepository{db: db}
}

func (r *GormTaskItemRepository) ListSubTasks(taskID uuid.UUID) ([]models.SubTask, error) {
	var subtasks []models.SubTask
	err := r.db.Where("task_id = ?", taskID).Order("sort_order ASC, created_at ASC").Find(&subtasks).Error
	return subtasks, err
}

func (r *GormTaskItemRepository) SubTaskCounts(taskIDs []uuid.UUID) (map[uuid.UUID]SubTaskCount, error) {
	counts := make(map[uuid.UUID]SubTaskCount, len(taskIDs))
	if len(taskIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TaskID    uuid.UUID
		Completed bool
		Count     int64
	}
	if err := r.db.Model(&models.SubTask{}).
		Select("task_id, completed, COUNT(*) AS count").
		Where("task_id IN ?", taskIDs).
		Group("task_id, completed").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		c := counts[row.TaskID]
		c.Total += row.Count
		if row.Completed {
			c.Completed += row.Count
		}
		counts[row.TaskID] = c
	}
	return counts, nil
}

func (r *GormTaskItemRepository) CreateSubTask(subtask *models.SubTask) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.SubTask{}).Where("task_id = ?", subtask.TaskID).Count(&n).Error; err != nil {
			return err
		}
		subtask.Order = int(n)
		return tx.Create(subtask).Error
	})
}

func (r *GormTaskItemRepository) FindSubTask(taskID, id uuid.UUID) (*models.SubTask, error) {
	var subtask models.SubTask
	if err := r.db.Where("id = ? AND task_id = ?", id, taskID).First(&subtask).Error; err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (r *GormTaskItemRepository) UpdateSubTask(subtask *models.SubTask) error {
	return r.db.Save(subtask).Error
}

func (r *GormTaskItemRepository) DeleteSubTask(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.SubTask{}).Error
}

func (r *GormTaskItemRepository) ListComments(taskID uuid.UUID) ([]models.TaskComment, error) {
	var comments []models.TaskComment
	err := r.db.Where("task_id = ?", taskID).Preload("User").Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *GormTaskItemRepository) CreateComment(comment *models.TaskComment) error {
	return r.db.Omit(clause.Associations).Create(comment).Error
}

func (r *GormTaskItemRepository) FindComment(taskID, id uuid.UUID) (*models.TaskComment, error) {
	var comment models.TaskComment
	if err := r.db.Where("id = ? AND task_id = ?", id, taskID).Preload("User").First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *GormTaskItemRepository) UpdateComment(comment *models.TaskComment) error {
	return r.db.Omit(clause.Associations).Save(comment).Error
}

func (r *GormTaskItemRepository) DeleteComment(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.TaskComment{}).Error
}

func (r *GormTaskItemRepository) ListAttachments(taskID uuid.UUID) ([]models.TaskAttachment, error) {
	var attachments []models.TaskAttachment
	err := r.db.Where("task_id = ?", taskID).Preload("Uploader").Order("uploaded_at DESC").Find(&attachments).Error
	return attachments, err
}

func (r *GormTaskItemRepository) CreateAttachment(attachment *models.TaskAttachment) error {
	return r.db.Omit(clause.Associations).Create(attachment).Error
}

func (r *GormTaskItemRepository) FindAttachment(taskID, id uuid.UUID) (*models.TaskAttachment, error) {
	var attachment models.TaskAttachment
	if err := r.db.Where("id = ? AND task_id = ?", id, taskID).First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *GormTaskItemRepository) DeleteAttachment(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.TaskAttachment{}).Error
}
