package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/constants"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/policy"
)

var (
	ErrSubTaskNotFound    = newError(ErrNotFound, "subtask not found")
	ErrCommentNotFound    = newError(ErrNotFound, "comment not found")
	ErrAttachmentNotFound = newError(ErrNotFound, "attachment not found")
	ErrNotCommentAuthor   = newError(ErrForbidden, "only the author can change this comment")
	ErrNotUploader        = newError(ErrForbidden, "only the uploader or a task manager can remove this attachment")
)

// UpdateSubTaskInput represents input for updating a subtask. Nil means unchanged.
type UpdateSubTaskInput struct {
	Title     *string
	Completed *bool
}

// AddAttachmentInput describes an already uploaded file
type AddAttachmentInput struct {
	FileName string
	FileURL  string
	FileSize int64
	FileType string
}

// ListSubTasks lists the subtasks of a task
func (s *TaskService) ListSubTasks(actor Actor, taskID uuid.UUID) ([]models.SubTask, error) {
	if _, _, err := s.loadAuthorized(actor, taskID, policy.ActionRead); err != nil {
		return nil, err
	}
	subtasks, err := s.itemRepo.ListSubTasks(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	return subtasks, nil
}

// CreateSubTask appends a subtask to a task
func (s *TaskService) CreateSubTask(actor Actor, taskID uuid.UUID, title string) (*models.SubTask, error) {
	if _, _, err := s.loadAuthorized(actor, taskID, policy.ActionWrite); err != nil {
		return nil, err
	}
	title, err := requiredText("title", title, constants.MaxTitleLength)
	if err != nil {
		return nil, err
	}

	subtask := &models.SubTask{TaskID: taskID, Title: title}
	if err := s.itemRepo.CreateSubTask(subtask); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}
	return subtask, nil
}

func (s *TaskService) findSubTask(taskID, id uuid.UUID) (*models.SubTask, error) {
	subtask, err := s.itemRepo.FindSubTask(taskID, id)
	if err != nil {
		return nil, lookupErr(err, ErrSubTaskNotFound, "find subtask")
	}
	return subtask, nil
}

// UpdateSubTask renames or completes a subtask
func (s *TaskService) UpdateSubTask(actor Actor, taskID, id uuid.UUID, input UpdateSubTaskInput) (*models.SubTask, error) {
	if _, _, err := s.loadAuthorized(actor, taskID, policy.ActionWrite); err != nil {
		return nil, err
	}
	subtask, err := s.findSubTask(taskID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, err := requiredText("title", *input.Title, constants.MaxTitleLength)
		if err != nil {
			return nil, err
		}
		subtask.Title = title
	}
	if input.Completed != nil {
		subtask.Completed = *input.Completed
	}

	if err := s.itemRepo.UpdateSubTask(subtask); err != nil {
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}
	return subtask, nil
}

// ToggleSubTask flips the completion flag of a subtask
func (s *TaskService) ToggleSubTask(actor Actor, taskID, id uuid.UUID) (*models.SubTask, error) {
	if _, _, err := s.loadAuthorized(actor, taskID, policy.ActionWrite); err != nil {
		return nil, err
	}
	subtask, err := s.findSubTask(taskID, id)
	if err != nil {
		return nil, err
	}

	subtask.Completed = !subtask.Completed
	if err := s.itemRepo.UpdateSubTask(subtask); err != nil {
		return nil, fmt.Errorf("failed to toggle subtask: %w", err)
	}
	return subtask, nil
}

// DeleteSubTask removes a subtask
func (s *TaskService) DeleteSubTask(actor Actor, taskID, id uuid.UUID) error {
	if _, _, err := s.loadAuthorized(actor, taskID, policy.ActionWrite); err != nil {
		return err
	}
	if _, err := s.findSubTask(taskID, id); err != nil {
		return err
	}
	if err := s.itemRepo.DeleteSubTask(id); err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}
	return nil
}

// ListComments lists the comments of a task, oldest first
func (s *TaskService) ListComments(actor Actor, taskID uuid.UUID) ([]models.TaskComment, error) {
	if _, _, err := s.loadAuthorized(actor, taskID, policy.ActionRead); err != nil {
		return nil, err
	}
	comments, err := s.itemRepo.ListComments(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// CreateComment adds a comment by actor. Anyone who can read the task may comment.
func (s *TaskService) CreateComment(actor Actor, taskID uuid.UUID, text string) (*models.TaskComment, error) {
	if _, _, err := s.loadAuthorized(actor, taskID, policy.ActionRead); err != nil {
		return nil, err
	}
	text, err := requiredText("text", text, constants.MaxCommentLength)
	if err != nil {
		return nil, err
	}

	comment := &models.TaskComment{TaskID: taskID, UserID: actor.UserID, Text: text}
	if err := s.itemRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return s.findComment(taskID, comment.ID)
}

func (s *TaskService) findComment(taskID, id uuid.UUID) (*models.TaskComment, error) {
	comment, err := s.itemRepo.FindComment(taskID, id)
	if err != nil {
		return nil, lookupErr(err, ErrCommentNotFound, "find comment")
	}
	return comment, nil
}

// ownComment loads a comment that actor may change: its author or a global admin.
func (s *TaskService) ownComment(actor Actor, taskID, id uuid.UUID) (*models.TaskComment, error) {
	if _, _, err := s.loadAuthorized(actor, taskID, policy.ActionRead); err != nil {
		return nil, err
	}
	comment, err := s.findComment(taskID, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrNotCommentAuthor
	}
	return comment, nil
}

// UpdateComment edits the text of a comment
func (s *TaskService) UpdateComment(actor Actor, taskID, id uuid.UUID, text string) (*models.TaskComment, error) {
	comment, err := s.ownComment(actor, taskID, id)
	if err != nil {
		return nil, err
	}
	text, err = requiredText("text", text, constants.MaxCommentLength)
	if err != nil {
		return nil, err
	}

	comment.Text = text
	if err := s.itemRepo.UpdateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment
func (s *TaskService) DeleteComment(actor Actor, taskID, id uuid.UUID) error {
	if _, err := s.ownComment(actor, taskID, id); err != nil {
		return err
	}
	if err := s.itemRepo.DeleteComment(id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// ListAttachments lists the attachments of a task, newest first
func (s *TaskService) ListAttachments(actor Actor, taskID uuid.UUID) ([]models.TaskAttachment, error) {
	if _, _, err := s.loadAuthorized(actor, taskID, policy.ActionRead); err != nil {
		return nil, err
	}
	attachments, err := s.itemRepo.ListAttachments(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// AddAttachment records the metadata of an uploaded file
func (s *TaskService) AddAttachment(actor Actor, taskID uuid.UUID, input AddAttachmentInput) (*models.TaskAttachment, error) {
	if _, _, err := s.loadAuthorized(actor, taskID, policy.ActionWrite); err != nil {
		return nil, err
	}

	name, err := requiredText("file name", input.FileName, 255)
	if err != nil {
		return nil, err
	}
	url := strings.TrimSpace(input.FileURL)
	if url == "" {
		return nil, validationf("file url is required")
	}
	if input.FileSize < 0 {
		return nil, validationf("file size cannot be negative")
	}

	attachment := &models.TaskAttachment{
		TaskID:     taskID,
		FileName:   name,
		FileURL:    url,
		FileSize:   input.FileSize,
		FileType:   strings.TrimSpace(input.FileType),
		UploadedBy: actor.UserID,
		UploadedAt: time.Now(),
	}
	if err := s.itemRepo.CreateAttachment(attachment); err != nil {
		return nil, fmt.Errorf("failed to add attachment: %w", err)
	}
	return attachment, nil
}

// DeleteAttachment removes attachment metadata. The uploader may always
// remove it; anyone else needs the right to delete the task.
func (s *TaskService) DeleteAttachment(actor Actor, taskID, id uuid.UUID) error {
	_, rels, err := s.loadAuthorized(actor, taskID, policy.ActionRead)
	if err != nil {
		return err
	}
	attachment, err := s.itemRepo.FindAttachment(taskID, id)
	if err != nil {
		return lookupErr(err, ErrAttachmentNotFound, "find attachment")
	}
	if attachment.UploadedBy != actor.UserID && !policy.Allowed(actor.Role, rels, policy.ResourceTask, policy.ActionDelete) {
		return ErrNotUploader
	}

	if err := s.itemRepo.DeleteAttachment(id); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}
