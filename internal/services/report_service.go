package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/constants"
	"github.com/nedirbay/project-management-own-version/internal/membership"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/policy"
	"github.com/nedirbay/project-management-own-version/internal/repository"
	"github.com/nedirbay/project-management-own-version/internal/utils"
)

var (
	ErrReportNotFound          = newError(ErrNotFound, "report not found")
	ErrNoReportToday           = newError(ErrNotFound, "no report found for today")
	ErrReportExists            = newError(ErrConflict, "a report already exists for this date")
	ErrReportDateInFuture      = newError(ErrValidation, "cannot create report for future dates")
	ErrReportDateTooOld        = newError(ErrValidation, fmt.Sprintf("cannot create report for dates older than %d days", constants.ReportBackfillDays))
	ErrReportWorkspaceGone     = newError(ErrValidation, "workspace not found")
	ErrReportProjectMismatch   = newError(ErrValidation, "project does not belong to the report's workspace")
	ErrReportTasksMismatch     = newError(ErrValidation, "completed tasks must be active tasks of the report's workspace")
	ErrWorkDescriptionTooShort = newError(ErrValidation, fmt.Sprintf("work description must be at least %d characters", constants.MinWorkDescriptionLength))
)

// ReportService handles daily report business logic
type ReportService struct {
	reportRepo    repository.ReportRepository
	workspaceRepo repository.WorkspaceRepository
	projectRepo   repository.ProjectRepository
	taskRepo      repository.TaskRepository
	userRepo      repository.UserRepository
	resolver      *membership.Resolver
	now           func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo repository.ReportRepository,
	workspaceRepo repository.WorkspaceRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	resolver *membership.Resolver,
) *ReportService {
	return &ReportService{
		reportRepo:    reportRepo,
		workspaceRepo: workspaceRepo,
		projectRepo:   projectRepo,
		taskRepo:      taskRepo,
		userRepo:      userRepo,
		resolver:      resolver,
		now:           time.Now,
	}
}

// CreateReportInput represents input for filing a daily report
type CreateReportInput struct {
	Date            time.Time
	WorkspaceID     uuid.UUID
	ProjectID       *uuid.UUID
	WorkDescription string
	TasksCompleted  []uuid.UUID
	Notes           *string
}

// UpdateReportInput represents input for editing a report. Nil means unchanged.
type UpdateReportInput struct {
	Date            *time.Time
	ProjectID       *uuid.UUID
	ClearProject    bool
	WorkDescription *string
	TasksCompleted  *[]uuid.UUID
	Notes           *string
}

// ReportStats counts reports in the caller's list scope
type ReportStats struct {
	TotalReports      int64
	ReportsLast7Days  int64
	ReportsLast30Days int64
}

func (s *ReportService) today() time.Time {
	return models.DateOnly(s.now())
}

// checkDate enforces today-30 <= date <= today on UTC days
func (s *ReportService) checkDate(date time.Time) (time.Time, error) {
	day := models.DateOnly(date)
	today := s.today()
	if day.After(today) {
		return time.Time{}, ErrReportDateInFuture
	}
	if day.Before(today.AddDate(0, 0, -constants.ReportBackfillDays)) {
		return time.Time{}, ErrReportDateTooOld
	}
	return day, nil
}

func checkWorkDescription(s string) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < constants.MinWorkDescriptionLength {
		return "", ErrWorkDescriptionTooShort
	}
	return s, nil
}

func (s *ReportService) loadAuthorized(actor Actor, id uuid.UUID, action policy.Action) (*models.DailyReport, policy.RelationSet, error) {
	report, err := s.reportRepo.FindByID(id)
	if err != nil {
		return nil, 0, lookupErr(err, ErrReportNotFound, "find report")
	}
	rels, err := s.resolver.ForReport(actor, report)
	if err != nil {
		return nil, 0, resolveErr(err, ErrReportNotFound)
	}
	if err := authorize(actor, rels, policy.ResourceReport, action); err != nil {
		return nil, 0, err
	}
	return report, rels, nil
}

// visibility is the list scope of actor: everything for global admins, own
// reports plus administered workspaces for workspace admins, own otherwise.
func (s *ReportService) visibility(actor Actor) (*repository.ReportVisibility, error) {
	if actor.IsAdmin() {
		return nil, nil
	}
	v := &repository.ReportVisibility{UserID: actor.UserID}
	if actor.Role == models.RoleWorkspaceAdmin {
		ids, err := s.workspaceRepo.AdministeredIDs(actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to list administered workspaces: %w", err)
		}
		v.WorkspaceIDs = ids
	}
	return v, nil
}

func (s *ReportService) list(filter repository.ReportFilter) ([]models.DailyReport, int64, error) {
	reports, total, err := s.reportRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

// List returns the reports actor may read
func (s *ReportService) List(actor Actor, page utils.PaginationParams) ([]models.DailyReport, int64, error) {
	visibility, err := s.visibility(actor)
	if err != nil {
		return nil, 0, err
	}
	return s.list(repository.ReportFilter{Visibility: visibility, Page: page})
}

// ListMine returns actor's own reports, newest first
func (s *ReportService) ListMine(actor Actor, page utils.PaginationParams) ([]models.DailyReport, int64, error) {
	return s.list(repository.ReportFilter{UserID: &actor.UserID, Page: page})
}

// Today returns actor's report for the current UTC day
func (s *ReportService) Today(actor Actor) (*models.DailyReport, error) {
	today := s.today()
	reports, _, err := s.list(repository.ReportFilter{UserID: &actor.UserID, Date: &today})
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrNoReportToday
	}
	return &reports[0], nil
}

// ByDate returns actor's own reports for a day
func (s *ReportService) ByDate(actor Actor, date time.Time) ([]models.DailyReport, error) {
	day := models.DateOnly(date)
	reports, _, err := s.list(repository.ReportFilter{UserID: &actor.UserID, Date: &day})
	return reports, err
}

// ByUser returns the reports of any user. Global admins only.
func (s *ReportService) ByUser(actor Actor, userID uuid.UUID, page utils.PaginationParams) ([]models.DailyReport, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, newError(ErrForbidden, "only administrators can list another user's reports")
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, 0, lookupErr(err, ErrUserNotFound, "find user")
	}
	return s.list(repository.ReportFilter{UserID: &userID, Page: page})
}

// ByWorkspace returns the reports filed in a workspace. Global admins and
// the workspace's designated admin see all of them; other readers see
// their own.
func (s *ReportService) ByWorkspace(actor Actor, workspaceID uuid.UUID, page utils.PaginationParams) ([]models.DailyReport, int64, error) {
	ws, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		return nil, 0, lookupErr(err, ErrWorkspaceNotFound, "find workspace")
	}
	rels, err := s.resolver.ForWorkspace(actor, ws)
	if err != nil {
		return nil, 0, resolveErr(err, ErrWorkspaceNotFound)
	}
	if err := authorize(actor, rels, policy.ResourceWorkspace, policy.ActionRead); err != nil {
		return nil, 0, err
	}

	filter := repository.ReportFilter{WorkspaceID: &workspaceID, Page: page}
	seesAll := actor.IsAdmin() || (actor.Role == models.RoleWorkspaceAdmin && rels.Has(policy.IsWorkspaceAdmin))
	if !seesAll {
		filter.UserID = &actor.UserID
	}
	return s.list(filter)
}

// Get returns one report
func (s *ReportService) Get(actor Actor, id uuid.UUID) (*models.DailyReport, error) {
	report, _, err := s.loadAuthorized(actor, id, policy.ActionRead)
	return report, err
}

// Create files actor's report for a day
func (s *ReportService) Create(actor Actor, input CreateReportInput) (*models.DailyReport, error) {
	description, err := checkWorkDescription(input.WorkDescription)
	if err != nil {
		return nil, err
	}
	date, err := s.checkDate(input.Date)
	if err != nil {
		return nil, err
	}

	ws, err := s.workspaceRepo.FindByID(input.WorkspaceID)
	if err != nil {
		return nil, lookupErr(err, ErrReportWorkspaceGone, "find workspace")
	}
	rels, err := s.resolver.ForWorkspace(actor, ws)
	if err != nil {
		return nil, resolveErr(err, ErrReportWorkspaceGone)
	}
	if err := authorize(actor, rels, policy.ResourceReport, policy.ActionCreate); err != nil {
		return nil, err
	}

	if err := s.checkProject(ws.ID, input.ProjectID); err != nil {
		return nil, err
	}
	tasks := uniqueIDs(input.TasksCompleted)
	if err := s.checkTasks(ws.ID, tasks); err != nil {
		return nil, err
	}

	exists, err := s.reportRepo.ExistsForDate(actor.UserID, date, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing report: %w", err)
	}
	if exists {
		return nil, ErrReportExists
	}

	report := &models.DailyReport{
		UserID:          actor.UserID,
		Date:            date,
		WorkspaceID:     ws.ID,
		ProjectID:       input.ProjectID,
		WorkDescription: description,
		TasksCompleted:  tasks,
		Notes:           trimmedOrNil(input.Notes),
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, storeErr(err, ErrReportExists, "create report")
	}

	return s.reload(report.ID)
}

// Update edits a report. Owners are limited to the edit window; global
// admins are not.
func (s *ReportService) Update(actor Actor, id uuid.UUID, input UpdateReportInput) (*models.DailyReport, error) {
	report, rels, err := s.loadAuthorized(actor, id, policy.ActionWrite)
	if err != nil {
		return nil, err
	}
	if d := policy.CheckReportEditWindow(rels, report.CreatedAt, s.now()); !d.Allowed {
		return nil, newError(ErrForbidden, d.Reason)
	}

	if input.WorkDescription != nil {
		description, err := checkWorkDescription(*input.WorkDescription)
		if err != nil {
			return nil, err
		}
		report.WorkDescription = description
	}
	if input.Date != nil {
		date, err := s.checkDate(*input.Date)
		if err != nil {
			return nil, err
		}
		if !date.Equal(report.Date) {
			exists, err := s.reportRepo.ExistsForDate(report.UserID, date, &report.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check existing report: %w", err)
			}
			if exists {
				return nil, ErrReportExists
			}
		}
		report.Date = date
	}
	if input.ClearProject {
		report.ProjectID = nil
	} else if input.ProjectID != nil {
		if err := s.checkProject(report.WorkspaceID, input.ProjectID); err != nil {
			return nil, err
		}
		report.ProjectID = input.ProjectID
	}
	if input.TasksCompleted != nil {
		tasks := uniqueIDs(*input.TasksCompleted)
		if err := s.checkTasks(report.WorkspaceID, tasks); err != nil {
			return nil, err
		}
		report.TasksCompleted = tasks
	}
	if input.Notes != nil {
		report.Notes = trimmedOrNil(input.Notes)
	}

	if err := s.reportRepo.Update(report); err != nil {
		return nil, storeErr(err, ErrReportExists, "update report")
	}
	return s.reload(report.ID)
}

// Delete permanently removes a report
func (s *ReportService) Delete(actor Actor, id uuid.UUID) error {
	if _, _, err := s.loadAuthorized(actor, id, policy.ActionDelete); err != nil {
		return err
	}
	if err := s.reportRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// Stats counts the reports in actor's list scope by report date
func (s *ReportService) Stats(actor Actor) (*ReportStats, error) {
	visibility, err := s.visibility(actor)
	if err != nil {
		return nil, err
	}

	today := s.today()
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, 0, -30)

	var stats ReportStats
	for _, c := range []struct {
		from *time.Time
		dst  *int64
	}{
		{nil, &stats.TotalReports},
		{&weekAgo, &stats.ReportsLast7Days},
		{&monthAgo, &stats.ReportsLast30Days},
	} {
		n, err := s.reportRepo.Count(repository.ReportFilter{Visibility: visibility, DateFrom: c.from})
		if err != nil {
			return nil, fmt.Errorf("failed to count reports: %w", err)
		}
		*c.dst = n
	}
	return &stats, nil
}

func (s *ReportService) reload(id uuid.UUID) (*models.DailyReport, error) {
	report, err := s.reportRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, ErrReportNotFound, "find report")
	}
	return report, nil
}

func (s *ReportService) checkProject(workspaceID uuid.UUID, projectID *uuid.UUID) error {
	if projectID == nil {
		return nil
	}
	p, err := s.projectRepo.FindByID(*projectID)
	if err != nil {
		return lookupErr(err, ErrReportProjectMismatch, "find project")
	}
	if p.WorkspaceID != workspaceID {
		return ErrReportProjectMismatch
	}
	return nil
}

func (s *ReportService) checkTasks(workspaceID uuid.UUID, taskIDs []uuid.UUID) error {
	if len(taskIDs) == 0 {
		return nil
	}
	count, err := s.taskRepo.CountInWorkspace(workspaceID, taskIDs)
	if err != nil {
		return fmt.Errorf("failed to verify tasks: %w", err)
	}
	if int(count) != len(taskIDs) {
		return ErrReportTasksMismatch
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
