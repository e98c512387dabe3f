package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds an active user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByUsername finds a user by username, active or not
	FindByUsername(username string) (*models.User, error)

	// UsernameExists reports whether any user holds username
	UsernameExists(username string) (bool, error)

	// EmailExists reports whether a user other than excludeID holds email
	EmailExists(email string, excludeID *uuid.UUID) (bool, error)

	// List retrieves active users ordered by username
	List(page utils.PaginationParams) ([]models.User, int64, error)

	// Update saves a user's columns
	Update(user *models.User) error

	// Deactivate soft deletes a user
	Deactivate(id uuid.UUID) error

	// CountActiveByIDs counts how many of the given IDs are active users
	CountActiveByIDs(ids []uuid.UUID) (int64, error)

	// Count counts all users, active or not
	Count() (int64, error)

	// FindSettings finds the settings row of a user
	FindSettings(userID uuid.UUID) (*models.UserSettings, error)

	// SaveSettings inserts or replaces a user's settings
	SaveSettings(settings *models.UserSettings) error
}

// WorkspaceRepository defines the interface for workspace data access
type WorkspaceRepository interface {
	// Create creates a workspace and its initial members in one transaction
	Create(ws *models.Workspace, memberIDs []uuid.UUID) error

	// FindByID finds an active workspace by ID with optional preloading
	FindByID(id uuid.UUID, preload ...string) (*models.Workspace, error)

	// List retrieves active workspaces visible to userID, or all when userID is nil
	List(userID *uuid.UUID, page utils.PaginationParams) ([]models.Workspace, int64, error)

	// AccessibleIDs lists active workspaces where userID is member, owner or admin
	AccessibleIDs(userID uuid.UUID) ([]uuid.UUID, error)

	// MemberIDs lists active workspaces where userID holds a membership edge
	MemberIDs(userID uuid.UUID) ([]uuid.UUID, error)

	// AdministeredIDs lists active workspaces whose designated admin is userID
	AdministeredIDs(userID uuid.UUID) ([]uuid.UUID, error)

	// Update saves a workspace's columns and makes a new admin a member
	Update(ws *models.Workspace) error

	// Delete soft deletes a workspace and cascades to its projects and tasks
	Delete(id uuid.UUID) error

	// AddMember adds a member to a workspace
	AddMember(member *models.WorkspaceMember) error

	// RemoveMember removes a member from a workspace
	RemoveMember(workspaceID, userID uuid.UUID) error

	// IsMember reports whether userID is a member of the workspace
	IsMember(workspaceID, userID uuid.UUID) (bool, error)

	// ListMembers lists all members of a workspace with their users
	ListMembers(workspaceID uuid.UUID) ([]models.WorkspaceMember, error)

	// CountMembersByIDs counts how many of userIDs are active members of the workspace
	CountMembersByIDs(workspaceID uuid.UUID, userIDs []uuid.UUID) (int64, error)

	// CountProjects counts active projects in a workspace
	CountProjects(workspaceID uuid.UUID) (int64, error)

	// Count counts active workspaces among ids, or all when ids is nil
	Count(ids []uuid.UUID) (int64, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	// Visibility restricts results to projects the user can see. Nil means no restriction.
	Visibility  *ProjectVisibility
	WorkspaceID *uuid.UUID
	Status      *models.ProjectStatus
	Page        utils.PaginationParams
}

// ProjectVisibility matches projects in WorkspaceIDs or with UserID as a
// project member, plus projects owned by UserID when IncludeOwned is set.
type ProjectVisibility struct {
	UserID       uuid.UUID
	WorkspaceIDs []uuid.UUID
	IncludeOwned bool
}

// TaskCount holds per-project task totals
type TaskCount struct {
	Total     int64
	Completed int64
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project and its initial members in one transaction
	Create(project *models.Project, memberIDs []uuid.UUID) error

	// FindByID finds an active project by ID with optional preloading
	FindByID(id uuid.UUID, preload ...string) (*models.Project, error)

	// List retrieves projects with filtering and pagination
	List(filter ProjectFilter) ([]models.Project, int64, error)

	// IDs lists the IDs of every project matching filter, ignoring pagination
	IDs(filter ProjectFilter) ([]uuid.UUID, error)

	// CountByStatus counts projects matching filter grouped by status
	CountByStatus(filter ProjectFilter) (map[models.ProjectStatus]int64, error)

	// Update saves a project's columns
	Update(project *models.Project) error

	// Delete soft deletes a project and cascades to its tasks and reports
	Delete(id uuid.UUID) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project
	RemoveMember(projectID, userID uuid.UUID) error

	// IsMember reports whether userID is a member of the project
	IsMember(projectID, userID uuid.UUID) (bool, error)

	// ListMembers lists all members of a project with their users
	ListMembers(projectID uuid.UUID) ([]models.ProjectMember, error)

	// TaskCounts returns total and completed active task counts per project
	TaskCounts(projectIDs []uuid.UUID) (map[uuid.UUID]TaskCount, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// Visibility restricts results to tasks the user can see. Nil means no restriction.
	Visibility     *TaskVisibility
	ProjectID      *uuid.UUID
	Status         *models.TaskStatus
	Priority       *models.Priority
	AssignedUserID *uuid.UUID
	// MineUserID matches tasks assigned to or created by the user.
	MineUserID    *uuid.UUID
	DueFrom       *time.Time
	DueBefore     *time.Time
	ExcludeDone   bool
	SortBy        TaskSort
	Page          utils.PaginationParams
}

// TaskVisibility matches tasks in ProjectIDs or assigned to or created by UserID.
type TaskVisibility struct {
	UserID     uuid.UUID
	ProjectIDs []uuid.UUID
}

// TaskSort selects the ordering of task lists
type TaskSort int

const (
	// SortBoard orders by status column then position
	SortBoard TaskSort = iota
	// SortDueDate orders by due date, undated last
	SortDueDate
	// SortRecentlyUpdated orders by last update, newest first
	SortRecentlyUpdated
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create appends a task to the end of its board column and assigns assigneeIDs
	Create(task *models.Task, assigneeIDs []uuid.UUID) error

	// FindByID finds an active task by ID with optional preloading
	FindByID(id uuid.UUID, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// CountBy counts tasks matching filter grouped by column ("status" or "priority")
	CountBy(filter TaskFilter, column string) (map[string]int64, error)

	// Update saves a task's columns and, when status differs from the
	// task's current one, moves it to the end of that column atomically
	Update(task *models.Task, status models.TaskStatus) error

	// Move places a task at position order of the given status column,
	// shifting neighbours so positions stay dense and unique per column
	Move(task *models.Task, status models.TaskStatus, order int) error

	// Delete soft deletes a task, removes its children and closes the gap in its column
	Delete(id uuid.UUID) error

	// AssignUsers assigns multiple users to a task
	AssignUsers(taskID uuid.UUID, userIDs []uuid.UUID) error

	// UnassignUsers removes user assignments from a task
	UnassignUsers(taskID uuid.UUID, userIDs []uuid.UUID) error

	// IsAssignee reports whether userID is assigned to the task
	IsAssignee(taskID, userID uuid.UUID) (bool, error)

	// CountInWorkspace counts how many of taskIDs are active tasks of the workspace
	CountInWorkspace(workspaceID uuid.UUID, taskIDs []uuid.UUID) (int64, error)
}

// SubTaskCount holds per-task checklist totals
type SubTaskCount struct {
	Total     int64
	Completed int64
}

// TaskItemRepository defines the interface for subtasks, comments and attachments
type TaskItemRepository interface {
	// ListSubTasks lists the subtasks of a task in order
	ListSubTasks(taskID uuid.UUID) ([]models.SubTask, error)

	// SubTaskCounts returns total and completed subtask counts per task
	SubTaskCounts(taskIDs []uuid.UUID) (map[uuid.UUID]SubTaskCount, error)

	// CreateSubTask appends a subtask to its task
	CreateSubTask(subtask *models.SubTask) error

	// FindSubTask finds a subtask of a task
	FindSubTask(taskID, id uuid.UUID) (*models.SubTask, error)

	// UpdateSubTask saves a subtask
	UpdateSubTask(subtask *models.SubTask) error

	// DeleteSubTask deletes a subtask
	DeleteSubTask(id uuid.UUID) error

	// ListComments lists the comments of a task, oldest first
	ListComments(taskID uuid.UUID) ([]models.TaskComment, error)

	// CreateComment creates a comment
	CreateComment(comment *models.TaskComment) error

	// FindComment finds a comment of a task
	FindComment(taskID, id uuid.UUID) (*models.TaskComment, error)

	// UpdateComment saves a comment
	UpdateComment(comment *models.TaskComment) error

	// DeleteComment deletes a comment
	DeleteComment(id uuid.UUID) error

	// ListAttachments lists the attachments of a task, newest first
	ListAttachments(taskID uuid.UUID) ([]models.TaskAttachment, error)

	// CreateAttachment records attachment metadata
	CreateAttachment(attachment *models.TaskAttachment) error

	// FindAttachment finds an attachment of a task
	FindAttachment(taskID, id uuid.UUID) (*models.TaskAttachment, error)

	// DeleteAttachment deletes attachment metadata
	DeleteAttachment(id uuid.UUID) error
}

// ReportFilter holds filtering options for listing daily reports
type ReportFilter struct {
	// Visibility restricts results to reports the user can see. Nil means no restriction.
	Visibility  *ReportVisibility
	UserID      *uuid.UUID
	WorkspaceID *uuid.UUID
	Date        *time.Time
	DateFrom    *time.Time
	Page        utils.PaginationParams
}

// ReportVisibility matches reports written by UserID or filed in WorkspaceIDs.
type ReportVisibility struct {
	UserID       uuid.UUID
	WorkspaceIDs []uuid.UUID
}

// ReportRepository defines the interface for daily report data access
type ReportRepository interface {
	// Create creates a report; a second report for the same user and day fails with gorm.ErrDuplicatedKey
	Create(report *models.DailyReport) error

	// FindByID finds a report by ID with user, workspace and project preloaded
	FindByID(id uuid.UUID) (*models.DailyReport, error)

	// ExistsForDate reports whether userID already has a report on date, ignoring excludeID
	ExistsForDate(userID uuid.UUID, date time.Time, excludeID *uuid.UUID) (bool, error)

	// List retrieves reports with filtering and pagination, newest date first
	List(filter ReportFilter) ([]models.DailyReport, int64, error)

	// Count counts reports matching filter
	Count(filter ReportFilter) (int64, error)

	// Update saves a report
	Update(report *models.DailyReport) error

	// Delete permanently deletes a report
	Delete(id uuid.UUID) error
}
