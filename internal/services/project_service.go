package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/constants"
	"github.com/nedirbay/project-management-own-version/internal/membership"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/policy"
	"github.com/nedirbay/project-management-own-version/internal/repository"
	"github.com/nedirbay/project-management-own-version/internal/utils"
)

var (
	ErrProjectNotFound       = newError(ErrNotFound, "project not found")
	ErrProjectWorkspaceGone  = newError(ErrValidation, "workspace not found")
	ErrInvalidProgress       = newError(ErrValidation, "progress must be a number between 0 and 100")
	ErrEndBeforeStart        = newError(ErrValidation, "end date cannot be before start date")
	ErrInvalidProjectMembers = newError(ErrValidation, "one or more users are not members of the workspace")
	ErrAlreadyProjectMember  = newError(ErrConflict, "user is already a member of the project")
	ErrNotProjectMember      = newError(ErrNotFound, "user is not a member of the project")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo   repository.ProjectRepository
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
	resolver      *membership.Resolver
	scopes        scopes
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo repository.ProjectRepository,
	workspaceRepo repository.WorkspaceRepository,
	userRepo repository.UserRepository,
	resolver *membership.Resolver,
) *ProjectService {
	return &ProjectService{
		projectRepo:   projectRepo,
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		resolver:      resolver,
		scopes:        scopes{workspaces: workspaceRepo, projects: projectRepo},
	}
}

// ProjectSummary is a project with its task counters
type ProjectSummary struct {
	Project *models.Project
	Tasks   repository.TaskCount
}

// ProjectDetail is a project with members and task counters
type ProjectDetail struct {
	ProjectSummary
	Members []models.ProjectMember
}

// ListProjectsInput represents filters for listing projects
type ListProjectsInput struct {
	WorkspaceID *uuid.UUID
	Status      string
	Page        utils.PaginationParams
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	WorkspaceID uuid.UUID
	Name        string
	Description string
	Status      string
	Priority    string
	StartDate   *time.Time
	EndDate     *time.Time
	Color       string
	Tags        []string
	MemberIDs   []uuid.UUID
}

// UpdateProjectInput represents input for updating a project. Nil means unchanged.
type UpdateProjectInput struct {
	Name         *string
	Description  *string
	Status       *string
	Priority     *string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Progress     *int
	Color        *string
	Tags         *[]string
}

func (s *ProjectService) load(id uuid.UUID) (*models.Project, error) {
	p, err := s.projectRepo.FindByID(id, "Workspace", "Owner")
	if err != nil {
		return nil, lookupErr(err, ErrProjectNotFound, "find project")
	}
	return p, nil
}

func (s *ProjectService) loadAuthorized(actor Actor, id uuid.UUID, action policy.Action) (*models.Project, error) {
	p, err := s.load(id)
	if err != nil {
		return nil, err
	}
	rels, err := s.resolver.ForProject(actor, p)
	if err != nil {
		return nil, resolveErr(err, ErrProjectNotFound)
	}
	if err := authorize(actor, rels, policy.ResourceProject, action); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) summarize(projects []models.Project) ([]ProjectSummary, error) {
	ids := make([]uuid.UUID, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}
	counts, err := s.projectRepo.TaskCounts(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	result := make([]ProjectSummary, len(projects))
	for i := range projects {
		result[i] = ProjectSummary{Project: &projects[i], Tasks: counts[projects[i].ID]}
	}
	return result, nil
}

func (s *ProjectService) detail(p *models.Project) (*ProjectDetail, error) {
	summaries, err := s.summarize([]models.Project{*p})
	if err != nil {
		return nil, err
	}
	members, err := s.projectRepo.ListMembers(p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return &ProjectDetail{ProjectSummary: summaries[0], Members: members}, nil
}

// List returns the projects visible to actor
func (s *ProjectService) List(actor Actor, input ListProjectsInput) ([]ProjectSummary, int64, error) {
	visibility, err := s.scopes.projectVisibility(actor, true)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.ProjectFilter{
		Visibility:  visibility,
		WorkspaceID: input.WorkspaceID,
		Page:        input.Page,
	}
	if input.Status != "" {
		status, err := parseProjectStatus(input.Status, "")
		if err != nil {
			return nil, 0, err
		}
		filter.Status = &status
	}

	projects, total, err := s.projectRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	summaries, err := s.summarize(projects)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// Get returns a project with members and task counters
func (s *ProjectService) Get(actor Actor, id uuid.UUID) (*ProjectDetail, error) {
	p, err := s.loadAuthorized(actor, id, policy.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.detail(p)
}

// Create creates a project in an active workspace, owned by actor
func (s *ProjectService) Create(actor Actor, input CreateProjectInput) (*ProjectDetail, error) {
	ws, err := s.workspaceRepo.FindByID(input.WorkspaceID)
	if err != nil {
		return nil, lookupErr(err, ErrProjectWorkspaceGone, "find workspace")
	}
	rels, err := s.resolver.ForWorkspace(actor, ws)
	if err != nil {
		return nil, resolveErr(err, ErrProjectWorkspaceGone)
	}
	if err := authorize(actor, rels, policy.ResourceProject, policy.ActionCreate); err != nil {
		return nil, err
	}

	name, err := requiredText("name", input.Name, constants.MaxNameLength)
	if err != nil {
		return nil, err
	}
	status, err := parseProjectStatus(input.Status, models.ProjectStatusPlanning)
	if err != nil {
		return nil, err
	}
	priority, err := parsePriority(input.Priority, models.PriorityMedium)
	if err != nil {
		return nil, err
	}
	startDate := time.Now().UTC()
	if input.StartDate != nil {
		startDate = *input.StartDate
	}
	if input.EndDate != nil && input.EndDate.Before(startDate) {
		return nil, ErrEndBeforeStart
	}
	color, err := colorOrGenerate(input.Color)
	if err != nil {
		return nil, err
	}

	memberIDs := uniqueIDs(input.MemberIDs)
	if err := s.ensureWorkspaceMembers(ws.ID, memberIDs); err != nil {
		return nil, err
	}

	p := &models.Project{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		WorkspaceID: ws.ID,
		OwnerID:     actor.UserID,
		Status:      status,
		Priority:    priority,
		StartDate:   startDate,
		EndDate:     input.EndDate,
		Color:       color,
		Tags:        cleanTags(input.Tags),
		Active:      true,
	}
	if err := s.projectRepo.Create(p, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	created, err := s.load(p.ID)
	if err != nil {
		return nil, err
	}
	return s.detail(created)
}

// Update applies a partial update. Enum fields are parsed strictly and
// nothing is saved when any field is invalid.
func (s *ProjectService) Update(actor Actor, id uuid.UUID, input UpdateProjectInput) (*ProjectDetail, error) {
	p, err := s.loadAuthorized(actor, id, policy.ActionWrite)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := requiredText("name", *input.Name, constants.MaxNameLength)
		if err != nil {
			return nil, err
		}
		p.Name = name
	}
	if input.Description != nil {
		p.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		status, err := parseProjectStatus(*input.Status, p.Status)
		if err != nil {
			return nil, err
		}
		p.Status = status
	}
	if input.Priority != nil {
		priority, err := parsePriority(*input.Priority, p.Priority)
		if err != nil {
			return nil, err
		}
		p.Priority = priority
	}
	if input.StartDate != nil {
		p.StartDate = *input.StartDate
	}
	if input.ClearEndDate {
		p.EndDate = nil
	} else if input.EndDate != nil {
		p.EndDate = input.EndDate
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return nil, ErrEndBeforeStart
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, ErrInvalidProgress
		}
		p.Progress = *input.Progress
	}
	if input.Color != nil {
		if !utils.IsHexColor(*input.Color) {
			return nil, ErrInvalidColor
		}
		p.Color = *input.Color
	}
	if input.Tags != nil {
		p.Tags = cleanTags(*input.Tags)
	}

	if err := s.projectRepo.Update(p); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	updated, err := s.load(p.ID)
	if err != nil {
		return nil, err
	}
	return s.detail(updated)
}

// UpdateProgress sets the progress percentage of a project
func (s *ProjectService) UpdateProgress(actor Actor, id uuid.UUID, progress int) (*ProjectDetail, error) {
	return s.Update(actor, id, UpdateProjectInput{Progress: &progress})
}

// Delete soft deletes a project and its tasks
func (s *ProjectService) Delete(actor Actor, id uuid.UUID) error {
	if _, err := s.loadAuthorized(actor, id, policy.ActionDelete); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ListMembers lists the members of a project
func (s *ProjectService) ListMembers(actor Actor, id uuid.UUID) ([]models.ProjectMember, error) {
	if _, err := s.loadAuthorized(actor, id, policy.ActionRead); err != nil {
		return nil, err
	}
	members, err := s.projectRepo.ListMembers(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddMember adds a member of the project's workspace to the project
func (s *ProjectService) AddMember(actor Actor, id, userID uuid.UUID) (*models.ProjectMember, error) {
	p, err := s.loadAuthorized(actor, id, policy.ActionManageMembers)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, lookupErr(err, ErrUserNotFound, "find user")
	}
	if err := s.ensureWorkspaceMembers(p.WorkspaceID, []uuid.UUID{userID}); err != nil {
		return nil, err
	}

	isMember, err := s.projectRepo.IsMember(id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if isMember {
		return nil, ErrAlreadyProjectMember
	}

	member := &models.ProjectMember{ProjectID: id, UserID: userID, JoinedAt: time.Now()}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, storeErr(err, ErrAlreadyProjectMember, "add member")
	}
	member.User = *user
	return member, nil
}

// RemoveMember removes a member from a project
func (s *ProjectService) RemoveMember(actor Actor, id, userID uuid.UUID) error {
	if _, err := s.loadAuthorized(actor, id, policy.ActionManageMembers); err != nil {
		return err
	}

	isMember, err := s.projectRepo.IsMember(id, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return ErrNotProjectMember
	}

	if err := s.projectRepo.RemoveMember(id, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// ensureWorkspaceMembers verifies every user is an active member of the workspace
func (s *ProjectService) ensureWorkspaceMembers(workspaceID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	count, err := s.workspaceRepo.CountMembersByIDs(workspaceID, userIDs)
	if err != nil {
		return fmt.Errorf("failed to verify members: %w", err)
	}
	if int(count) != len(userIDs) {
		return ErrInvalidProjectMembers
	}
	return nil
}
