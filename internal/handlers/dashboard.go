package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nedirbay/project-management-own-version/internal/dto"
	apierrors "github.com/nedirbay/project-management-own-version/internal/errors"
	"github.com/nedirbay/project-management-own-version/internal/services"
)

// DashboardHandler serves read-only aggregates.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary returns the landing page counters and previews.
func (h *DashboardHandler) Summary(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	summary, err := h.dashboardService.Summary(actor)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardDTO(summary))
}

// Stats returns status and priority breakdowns.
func (h *DashboardHandler) Stats(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	stats, err := h.dashboardService.Stats(actor)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardStatsDTO(stats))
}

// RecentActivities returns recently updated tasks and recent reports.
func (h *DashboardHandler) RecentActivities(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	activities, err := h.dashboardService.RecentActivities(actor)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRecentActivitiesDTO(activities))
}

// UpcomingDeadlines returns open tasks due soonest.
func (h *DashboardHandler) UpcomingDeadlines(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	tasks, err := h.dashboardService.UpcomingDeadlines(actor)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Map(tasks, dto.ToTaskDTO))
}
