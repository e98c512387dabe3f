package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/dto"
	apierrors "github.com/nedirbay/project-management-own-version/internal/errors"
	"github.com/nedirbay/project-management-own-version/internal/middleware"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/services"
	"github.com/nedirbay/project-management-own-version/internal/utils"
)

// ReportHandler serves daily reports.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) respondList(c *gin.Context, params utils.PaginationParams, list func() ([]models.DailyReport, int64, error)) {
	reports, total, err := list()
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(reports, params, total, dto.ToReportDTO))
}

// List returns the reports in the caller's scope.
func (h *ReportHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)
	h.respondList(c, params, func() ([]models.DailyReport, int64, error) {
		return h.reportService.List(actor, params)
	})
}

// ListMine returns the caller's own reports.
func (h *ReportHandler) ListMine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)
	h.respondList(c, params, func() ([]models.DailyReport, int64, error) {
		return h.reportService.ListMine(actor, params)
	})
}

// Today returns the caller's report for the current day.
func (h *ReportHandler) Today(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	report, err := h.reportService.Today(actor)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReportDTO(*report))
}

// ByDate returns the caller's reports for a YYYY-MM-DD date.
func (h *ReportHandler) ByDate(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	date, err := time.Parse(dto.DateLayout, c.Param("date"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	reports, err := h.reportService.ByDate(actor, date)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Map(reports, dto.ToReportDTO))
}

// ByUser returns another user's reports.
func (h *ReportHandler) ByUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	userID, ok := middleware.UUIDParam(c, "userId")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)
	h.respondList(c, params, func() ([]models.DailyReport, int64, error) {
		return h.reportService.ByUser(actor, userID, params)
	})
}

// ByWorkspace returns the reports filed in a workspace.
func (h *ReportHandler) ByWorkspace(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	workspaceID, ok := middleware.UUIDParam(c, "workspaceId")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)
	h.respondList(c, params, func() ([]models.DailyReport, int64, error) {
		return h.reportService.ByWorkspace(actor, workspaceID, params)
	})
}

// Get returns one report.
func (h *ReportHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.reportService.Get(actor, id)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReportDTO(*report))
}

// Create files the caller's report. The date defaults to today.
func (h *ReportHandler) Create(c *gin.Context) {
	type CreateReportRequest struct {
		Date            string      `json:"date"`
		WorkspaceID     uuid.UUID   `json:"workspace_id" binding:"required"`
		ProjectID       *uuid.UUID  `json:"project_id"`
		WorkDescription string      `json:"work_description" binding:"required"`
		TasksCompleted  []uuid.UUID `json:"tasks_completed"`
		Notes           *string     `json:"notes"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req CreateReportRequest
	if !bindJSON(c, &req) {
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	report, err := h.reportService.Create(actor, services.CreateReportInput{
		Date:            date,
		WorkspaceID:     req.WorkspaceID,
		ProjectID:       req.ProjectID,
		WorkDescription: req.WorkDescription,
		TasksCompleted:  req.TasksCompleted,
		Notes:           req.Notes,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToReportDTO(*report))
}

// Update edits a report inside its edit window.
func (h *ReportHandler) Update(c *gin.Context) {
	type UpdateReportRequest struct {
		Date            *string      `json:"date"`
		ProjectID       *uuid.UUID   `json:"project_id"`
		ClearProject    bool         `json:"clear_project"`
		WorkDescription *string      `json:"work_description"`
		TasksCompleted  *[]uuid.UUID `json:"tasks_completed"`
		Notes           *string      `json:"notes"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateReportRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateReportInput{
		ProjectID:       req.ProjectID,
		ClearProject:    req.ClearProject,
		WorkDescription: req.WorkDescription,
		TasksCompleted:  req.TasksCompleted,
		Notes:           req.Notes,
	}
	if req.Date != nil {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		input.Date = &parsed
	}

	report, err := h.reportService.Update(actor, id, input)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReportDTO(*report))
}

// Delete removes a report.
func (h *ReportHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reportService.Delete(actor, id); err != nil {
		apierrors.FromError(c, err)
		return
	}
	noContent(c)
}

// Stats counts the reports in the caller's scope.
func (h *ReportHandler) Stats(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	stats, err := h.reportService.Stats(actor)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReportStatsDTO(stats))
}
