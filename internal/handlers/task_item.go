package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/dto"
	apierrors "github.com/nedirbay/project-management-own-version/internal/errors"
	"github.com/nedirbay/project-management-own-version/internal/middleware"
	"github.com/nedirbay/project-management-own-version/internal/services"
)

// taskItemParams parses the task id and the id of one of its items
func taskItemParams(c *gin.Context, item string) (services.Actor, uuid.UUID, uuid.UUID, bool) {
	actor, ok := currentActor(c)
	if !ok {
		return actor, uuid.Nil, uuid.Nil, false
	}
	taskID, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return actor, uuid.Nil, uuid.Nil, false
	}
	itemID, ok := middleware.UUIDParam(c, item)
	if !ok {
		return actor, uuid.Nil, uuid.Nil, false
	}
	return actor, taskID, itemID, true
}

// ListSubTasks lists a task's checklist.
func (h *TaskHandler) ListSubTasks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	subtasks, err := h.taskService.ListSubTasks(actor, taskID)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Map(subtasks, dto.ToSubTaskDTO))
}

// CreateSubTask appends a checklist item.
func (h *TaskHandler) CreateSubTask(c *gin.Context) {
	type CreateSubTaskRequest struct {
		Title string `json:"title" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req CreateSubTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	subtask, err := h.taskService.CreateSubTask(actor, taskID, req.Title)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToSubTaskDTO(*subtask))
}

// UpdateSubTask renames or completes a checklist item.
func (h *TaskHandler) UpdateSubTask(c *gin.Context) {
	type UpdateSubTaskRequest struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}

	actor, taskID, id, ok := taskItemParams(c, "subtaskId")
	if !ok {
		return
	}
	var req UpdateSubTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	subtask, err := h.taskService.UpdateSubTask(actor, taskID, id, services.UpdateSubTaskInput{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSubTaskDTO(*subtask))
}

// ToggleSubTask flips a checklist item.
func (h *TaskHandler) ToggleSubTask(c *gin.Context) {
	actor, taskID, id, ok := taskItemParams(c, "subtaskId")
	if !ok {
		return
	}

	subtask, err := h.taskService.ToggleSubTask(actor, taskID, id)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSubTaskDTO(*subtask))
}

// DeleteSubTask removes a checklist item.
func (h *TaskHandler) DeleteSubTask(c *gin.Context) {
	actor, taskID, id, ok := taskItemParams(c, "subtaskId")
	if !ok {
		return
	}

	if err := h.taskService.DeleteSubTask(actor, taskID, id); err != nil {
		apierrors.FromError(c, err)
		return
	}
	noContent(c)
}

// ListComments lists a task's comments.
func (h *TaskHandler) ListComments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.taskService.ListComments(actor, taskID)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Map(comments, dto.ToCommentDTO))
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateComment adds a comment by the caller.
func (h *TaskHandler) CreateComment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.taskService.CreateComment(actor, taskID, req.Text)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// UpdateComment edits a comment's text.
func (h *TaskHandler) UpdateComment(c *gin.Context) {
	actor, taskID, id, ok := taskItemParams(c, "commentId")
	if !ok {
		return
	}
	var req commentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.taskService.UpdateComment(actor, taskID, id, req.Text)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment.
func (h *TaskHandler) DeleteComment(c *gin.Context) {
	actor, taskID, id, ok := taskItemParams(c, "commentId")
	if !ok {
		return
	}

	if err := h.taskService.DeleteComment(actor, taskID, id); err != nil {
		apierrors.FromError(c, err)
		return
	}
	noContent(c)
}

// ListAttachments lists a task's attachments.
func (h *TaskHandler) ListAttachments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	attachments, err := h.taskService.ListAttachments(actor, taskID)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Map(attachments, dto.ToAttachmentDTO))
}

// AddAttachment records the metadata of an uploaded file.
func (h *TaskHandler) AddAttachment(c *gin.Context) {
	type AddAttachmentRequest struct {
		FileName string `json:"file_name" binding:"required"`
		FileURL  string `json:"file_url" binding:"required"`
		FileSize int64  `json:"file_size"`
		FileType string `json:"file_type"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req AddAttachmentRequest
	if !bindJSON(c, &req) {
		return
	}

	attachment, err := h.taskService.AddAttachment(actor, taskID, services.AddAttachmentInput{
		FileName: req.FileName,
		FileURL:  req.FileURL,
		FileSize: req.FileSize,
		FileType: req.FileType,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToAttachmentDTO(*attachment))
}

// DeleteAttachment removes attachment metadata.
func (h *TaskHandler) DeleteAttachment(c *gin.Context) {
	actor, taskID, id, ok := taskItemParams(c, "attachmentId")
	if !ok {
		return
	}

	if err := h.taskService.DeleteAttachment(actor, taskID, id); err != nil {
		apierrors.FromError(c, err)
		return
	}
	noContent(c)
}
