package services

import (
	"context"
	"fmt"
	"math"
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
	ErrTaskNotFound           = newError(ErrNotFound, "task not found")
	ErrTaskProjectGone        = newError(ErrValidation, "project not found")
	ErrNoUserIDsProvided      = newError(ErrValidation, "at least one user ID is required")
	ErrInvalidTaskAssignee    = newError(ErrValidation, "one or more users are not members of the project's workspace")
	ErrNegativeHours          = newError(ErrValidation, "hours cannot be negative")
	ErrNegativeOrder          = newError(ErrValidation, "order cannot be negative")
	ErrAIServiceNotConfigured = newError(ErrUnavailable, "AI service is not configured")
	ErrAINoValidTasks         = newError(ErrValidation, "no valid tasks could be suggested from the text")
)

var taskPreloads = []string{"Project", "Creator", "Assignments", "Assignments.User"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo      repository.TaskRepository
	itemRepo      repository.TaskItemRepository
	projectRepo   repository.ProjectRepository
	workspaceRepo repository.WorkspaceRepository
	resolver      *membership.Resolver
	scopes        scopes
	suggester     TaskSuggester
}

// NewTaskService creates a new TaskService. suggester may be nil when no
// AI backend is configured.
func NewTaskService(
	taskRepo repository.TaskRepository,
	itemRepo repository.TaskItemRepository,
	projectRepo repository.ProjectRepository,
	workspaceRepo repository.WorkspaceRepository,
	resolver *membership.Resolver,
	suggester TaskSuggester,
) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		itemRepo:      itemRepo,
		projectRepo:   projectRepo,
		workspaceRepo: workspaceRepo,
		resolver:      resolver,
		scopes:        scopes{workspaces: workspaceRepo, projects: projectRepo},
		suggester:     suggester,
	}
}

// TaskDetail is a task with its subtasks, comments and attachments
type TaskDetail struct {
	Task        *models.Task
	SubTasks    []models.SubTask
	Comments    []models.TaskComment
	Attachments []models.TaskAttachment
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status     string
	Priority   string
	AssigneeID *uuid.UUID
	Page       utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID      uuid.UUID
	Title          string
	Description    string
	Status         string
	Priority       string
	DueDate        *time.Time
	EstimatedHours *float64
	Tags           []string
	AssigneeIDs    []uuid.UUID
}

// UpdateTaskInput represents input for updating a task. Nil means unchanged.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	DueDate        *time.Time
	ClearDueDate   bool
	EstimatedHours *float64
	ActualHours    *float64
	Tags           *[]string
}

func (s *TaskService) load(id uuid.UUID, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, preload...)
	if err != nil {
		return nil, lookupErr(err, ErrTaskNotFound, "find task")
	}
	return task, nil
}

// loadAuthorized loads a task, resolves actor against it and checks action.
// The relation set is returned for rules that combine it with ownership.
func (s *TaskService) loadAuthorized(actor Actor, id uuid.UUID, action policy.Action) (*models.Task, policy.RelationSet, error) {
	task, err := s.load(id)
	if err != nil {
		return nil, 0, err
	}
	rels, err := s.resolver.ForTask(actor, task)
	if err != nil {
		return nil, 0, resolveErr(err, ErrTaskNotFound)
	}
	if err := authorize(actor, rels, policy.ResourceTask, action); err != nil {
		return nil, 0, err
	}
	return task, rels, nil
}

func (s *TaskService) reload(id uuid.UUID) (*models.Task, error) {
	return s.load(id, taskPreloads...)
}

// ListByProject lists the tasks of a project in board order
func (s *TaskService) ListByProject(actor Actor, projectID uuid.UUID, input ListTasksInput) ([]models.Task, int64, error) {
	p, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return nil, 0, lookupErr(err, ErrProjectNotFound, "find project")
	}
	rels, err := s.resolver.ForProject(actor, p)
	if err != nil {
		return nil, 0, resolveErr(err, ErrProjectNotFound)
	}
	if err := authorize(actor, rels, policy.ResourceProject, policy.ActionRead); err != nil {
		return nil, 0, err
	}

	filter := repository.TaskFilter{
		ProjectID:      &projectID,
		AssignedUserID: input.AssigneeID,
		SortBy:         repository.SortBoard,
		Page:           input.Page,
	}
	if err := applyTaskFilters(&filter, input); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// TaskSummary is a task with its checklist progress
type TaskSummary struct {
	Task                  models.Task
	SubTaskCount          int64
	CompletedSubTaskCount int64
}

// List lists every task actor can see across workspaces in board order,
// with subtask counts
func (s *TaskService) List(actor Actor, input ListTasksInput) ([]TaskSummary, int64, error) {
	tv, err := s.scopes.taskVisibility(actor)
	if err != nil {
		return nil, 0, err
	}
	filter := repository.TaskFilter{
		Visibility:     tv,
		AssignedUserID: input.AssigneeID,
		SortBy:         repository.SortBoard,
		Page:           input.Page,
	}
	if err := applyTaskFilters(&filter, input); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	ids := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	counts, err := s.itemRepo.SubTaskCounts(ids)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count subtasks: %w", err)
	}

	summaries := make([]TaskSummary, len(tasks))
	for i, t := range tasks {
		c := counts[t.ID]
		summaries[i] = TaskSummary{Task: t, SubTaskCount: c.Total, CompletedSubTaskCount: c.Completed}
	}
	return summaries, total, nil
}

// ListMine lists the active tasks actor created or is assigned to, by due date
func (s *TaskService) ListMine(actor Actor, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		MineUserID: &actor.UserID,
		SortBy:     repository.SortDueDate,
		Page:       input.Page,
	}
	if err := applyTaskFilters(&filter, input); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

func applyTaskFilters(filter *repository.TaskFilter, input ListTasksInput) error {
	if input.Status != "" {
		status, err := parseTaskStatus(input.Status, "")
		if err != nil {
			return err
		}
		filter.Status = &status
	}
	if input.Priority != "" {
		priority, err := parsePriority(input.Priority, "")
		if err != nil {
			return err
		}
		filter.Priority = &priority
	}
	return nil
}

// Get returns a task with its children
func (s *TaskService) Get(actor Actor, id uuid.UUID) (*TaskDetail, error) {
	if _, _, err := s.loadAuthorized(actor, id, policy.ActionRead); err != nil {
		return nil, err
	}
	task, err := s.reload(id)
	if err != nil {
		return nil, err
	}
	return s.detail(task)
}

func (s *TaskService) detail(task *models.Task) (*TaskDetail, error) {
	subtasks, err := s.itemRepo.ListSubTasks(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	comments, err := s.itemRepo.ListComments(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	attachments, err := s.itemRepo.ListAttachments(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return &TaskDetail{Task: task, SubTasks: subtasks, Comments: comments, Attachments: attachments}, nil
}

// Create creates a task at the end of its board column
func (s *TaskService) Create(actor Actor, input CreateTaskInput) (*models.Task, error) {
	p, err := s.projectRepo.FindByID(input.ProjectID)
	if err != nil {
		return nil, lookupErr(err, ErrTaskProjectGone, "find project")
	}
	rels, err := s.resolver.ForProject(actor, p)
	if err != nil {
		return nil, resolveErr(err, ErrTaskProjectGone)
	}
	if err := authorize(actor, rels, policy.ResourceTask, policy.ActionCreate); err != nil {
		return nil, err
	}

	title, err := requiredText("title", input.Title, constants.MaxTitleLength)
	if err != nil {
		return nil, err
	}
	status, err := parseTaskStatus(input.Status, models.TaskStatusTodo)
	if err != nil {
		return nil, err
	}
	priority, err := parsePriority(input.Priority, models.PriorityMedium)
	if err != nil {
		return nil, err
	}
	if err := checkHours(input.EstimatedHours); err != nil {
		return nil, err
	}

	assigneeIDs := uniqueIDs(input.AssigneeIDs)
	if err := s.ensureAssignable(p.WorkspaceID, assigneeIDs); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		ProjectID:      p.ID,
		CreatedBy:      actor.UserID,
		Status:         status,
		Priority:       priority,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		Tags:           cleanTags(input.Tags),
		Active:         true,
	}
	if err := s.taskRepo.Create(task, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.reload(task.ID)
}

// Update applies a partial update. A changed status moves the task to the
// end of its new column. Nothing is saved when any field is invalid.
func (s *TaskService) Update(actor Actor, id uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	task, _, err := s.loadAuthorized(actor, id, policy.ActionWrite)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, err := requiredText("title", *input.Title, constants.MaxTitleLength)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	newStatus := task.Status
	if input.Status != nil {
		if newStatus, err = parseTaskStatus(*input.Status, task.Status); err != nil {
			return nil, err
		}
	}
	if input.Priority != nil {
		priority, err := parsePriority(*input.Priority, task.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.EstimatedHours != nil {
		if err := checkHours(input.EstimatedHours); err != nil {
			return nil, err
		}
		task.EstimatedHours = input.EstimatedHours
	}
	if input.ActualHours != nil {
		if err := checkHours(input.ActualHours); err != nil {
			return nil, err
		}
		task.ActualHours = input.ActualHours
	}
	if input.Tags != nil {
		task.Tags = cleanTags(*input.Tags)
	}

	if err := s.taskRepo.Update(task, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.reload(task.ID)
}

// UpdateStatus moves a task to the end of another status column
func (s *TaskService) UpdateStatus(actor Actor, id uuid.UUID, status string) (*models.Task, error) {
	task, _, err := s.loadAuthorized(actor, id, policy.ActionStatusChange)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(status) == "" {
		return nil, validationf("status is required")
	}
	next, err := parseTaskStatus(status, task.Status)
	if err != nil {
		return nil, err
	}

	if next != task.Status {
		if err := s.taskRepo.Move(task, next, math.MaxInt32); err != nil {
			return nil, fmt.Errorf("failed to update status: %w", err)
		}
	}
	return s.reload(task.ID)
}

// UpdateOrder places a task at a position of a status column. An empty
// status keeps the current column; positions past the end append.
func (s *TaskService) UpdateOrder(actor Actor, id uuid.UUID, status string, order int) (*models.Task, error) {
	task, _, err := s.loadAuthorized(actor, id, policy.ActionOrderChange)
	if err != nil {
		return nil, err
	}

	next, err := parseTaskStatus(status, task.Status)
	if err != nil {
		return nil, err
	}
	if order < 0 {
		return nil, ErrNegativeOrder
	}

	if err := s.taskRepo.Move(task, next, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return s.reload(task.ID)
}

// Delete soft deletes a task and removes its children
func (s *TaskService) Delete(actor Actor, id uuid.UUID) error {
	if _, _, err := s.loadAuthorized(actor, id, policy.ActionDelete); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AssignUsers assigns workspace members to a task
func (s *TaskService) AssignUsers(actor Actor, id uuid.UUID, userIDs []uuid.UUID) (*models.Task, error) {
	if len(userIDs) == 0 {
		return nil, ErrNoUserIDsProvided
	}
	task, _, err := s.loadAuthorized(actor, id, policy.ActionWrite)
	if err != nil {
		return nil, err
	}

	p, err := s.projectRepo.FindByID(task.ProjectID)
	if err != nil {
		return nil, lookupErr(err, ErrTaskNotFound, "find project")
	}
	ids := uniqueIDs(userIDs)
	if err := s.ensureAssignable(p.WorkspaceID, ids); err != nil {
		return nil, err
	}

	if err := s.taskRepo.AssignUsers(task.ID, ids); err != nil {
		return nil, fmt.Errorf("failed to assign users: %w", err)
	}
	return s.reload(task.ID)
}

// UnassignUsers removes user assignments from a task
func (s *TaskService) UnassignUsers(actor Actor, id uuid.UUID, userIDs []uuid.UUID) (*models.Task, error) {
	if len(userIDs) == 0 {
		return nil, ErrNoUserIDsProvided
	}
	task, _, err := s.loadAuthorized(actor, id, policy.ActionWrite)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.UnassignUsers(task.ID, uniqueIDs(userIDs)); err != nil {
		return nil, fmt.Errorf("failed to unassign users: %w", err)
	}
	return s.reload(task.ID)
}

// Suggest drafts tasks for a project from free text. Drafts are returned,
// not saved.
func (s *TaskService) Suggest(ctx context.Context, actor Actor, projectID uuid.UUID, text string) ([]TaskDraft, error) {
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}

	p, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return nil, lookupErr(err, ErrProjectNotFound, "find project")
	}
	rels, err := s.resolver.ForProject(actor, p)
	if err != nil {
		return nil, resolveErr(err, ErrProjectNotFound)
	}
	if err := authorize(actor, rels, policy.ResourceTask, policy.ActionCreate); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationf("text is required")
	}
	if utf8.RuneCountInString(text) > constants.MaxAIInputLength {
		return nil, validationf("text must be at most %d characters", constants.MaxAIInputLength)
	}

	drafts, err := s.suggester.SuggestTasks(ctx, p.Name, text)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}

	valid := make([]TaskDraft, 0, len(drafts))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, d := range drafts {
		if len(valid) == constants.MaxAIGeneratedTasks {
			break
		}
		d.Title = strings.TrimSpace(d.Title)
		if d.Title == "" || utf8.RuneCountInString(d.Title) > constants.MaxTitleLength {
			continue
		}
		if d.DueDate != nil && d.DueDate.Before(cutoff) {
			d.DueDate = nil
		}
		if priority, err := parsePriority(d.Priority, models.PriorityMedium); err == nil {
			d.Priority = string(priority)
		} else {
			d.Priority = string(models.PriorityMedium)
		}
		if d.EstimatedHours != nil && *d.EstimatedHours < 0 {
			d.EstimatedHours = nil
		}
		valid = append(valid, d)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}
	return valid, nil
}

// ensureAssignable verifies every user is an active member of the workspace
func (s *TaskService) ensureAssignable(workspaceID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	count, err := s.workspaceRepo.CountMembersByIDs(workspaceID, userIDs)
	if err != nil {
		return fmt.Errorf("failed to verify users: %w", err)
	}
	if int(count) != len(userIDs) {
		return ErrInvalidTaskAssignee
	}
	return nil
}

func checkHours(h *float64) error {
	if h != nil && *h < 0 {
		return ErrNegativeHours
	}
	return nil
}
