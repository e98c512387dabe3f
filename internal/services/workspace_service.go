package services

import (
	"errors"
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
	"gorm.io/gorm"
)

var (
	ErrWorkspaceNotFound       = newError(ErrNotFound, "workspace not found")
	ErrAlreadyWorkspaceMember  = newError(ErrConflict, "user is already a member of the workspace")
	ErrNotWorkspaceMember      = newError(ErrNotFound, "user is not a member of the workspace")
	ErrCannotRemoveAdmin       = newError(ErrValidation, "the workspace admin cannot be removed from its members")
	ErrInvalidWorkspaceMembers = newError(ErrValidation, "one or more users do not exist or are inactive")
	ErrInvalidColor            = newError(ErrValidation, "color must be a hex value like #1A2B3C")
)

// WorkspaceService handles workspace business logic
type WorkspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
	resolver      *membership.Resolver
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository, resolver *membership.Resolver) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		resolver:      resolver,
	}
}

// WorkspaceDetail is a workspace with its member list and counts
type WorkspaceDetail struct {
	Workspace    *models.Workspace
	Members      []models.WorkspaceMember
	ProjectCount int64
}

// CreateWorkspaceInput represents input for creating a workspace
type CreateWorkspaceInput struct {
	Name        string
	Description string
	Color       string
	Icon        string
	MemberIDs   []uuid.UUID
}

// UpdateWorkspaceInput represents input for updating a workspace. Nil means unchanged.
type UpdateWorkspaceInput struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
	AdminID     *uuid.UUID
}

func (s *WorkspaceService) load(id uuid.UUID) (*models.Workspace, error) {
	ws, err := s.workspaceRepo.FindByID(id, "Owner", "Admin")
	if err != nil {
		return nil, lookupErr(err, ErrWorkspaceNotFound, "find workspace")
	}
	return ws, nil
}

// loadAuthorized loads a workspace and checks action against it
func (s *WorkspaceService) loadAuthorized(actor Actor, id uuid.UUID, action policy.Action) (*models.Workspace, error) {
	ws, err := s.load(id)
	if err != nil {
		return nil, err
	}
	rels, err := s.resolver.ForWorkspace(actor, ws)
	if err != nil {
		return nil, resolveErr(err, ErrWorkspaceNotFound)
	}
	if err := authorize(actor, rels, policy.ResourceWorkspace, action); err != nil {
		return nil, err
	}
	return ws, nil
}

func (s *WorkspaceService) detail(ws *models.Workspace) (*WorkspaceDetail, error) {
	members, err := s.workspaceRepo.ListMembers(ws.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	projects, err := s.workspaceRepo.CountProjects(ws.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	return &WorkspaceDetail{Workspace: ws, Members: members, ProjectCount: projects}, nil
}

// List returns the workspaces visible to actor
func (s *WorkspaceService) List(actor Actor, page utils.PaginationParams) ([]models.Workspace, int64, error) {
	var userID *uuid.UUID
	if !actor.IsAdmin() {
		userID = &actor.UserID
	}
	workspaces, total, err := s.workspaceRepo.List(userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, total, nil
}

// Get returns a workspace with members and project count
func (s *WorkspaceService) Get(actor Actor, id uuid.UUID) (*WorkspaceDetail, error) {
	ws, err := s.loadAuthorized(actor, id, policy.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.detail(ws)
}

// Create creates a workspace owned and administered by actor, who becomes
// its first member together with input.MemberIDs.
func (s *WorkspaceService) Create(actor Actor, input CreateWorkspaceInput) (*WorkspaceDetail, error) {
	if err := authorize(actor, globalRelations(actor), policy.ResourceWorkspace, policy.ActionCreate); err != nil {
		return nil, err
	}

	name, err := requiredText("name", input.Name, constants.MaxNameLength)
	if err != nil {
		return nil, err
	}
	color, err := colorOrGenerate(input.Color)
	if err != nil {
		return nil, err
	}

	memberIDs := uniqueIDs(input.MemberIDs)
	if len(memberIDs) > 0 {
		count, err := s.userRepo.CountActiveByIDs(memberIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to verify users: %w", err)
		}
		if int(count) != len(memberIDs) {
			return nil, ErrInvalidWorkspaceMembers
		}
	}

	ws := &models.Workspace{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Color:       color,
		Icon:        strings.TrimSpace(input.Icon),
		OwnerID:     actor.UserID,
		AdminID:     actor.UserID,
		Active:      true,
	}
	if err := s.workspaceRepo.Create(ws, uniqueIDs(append([]uuid.UUID{actor.UserID}, memberIDs...))); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	created, err := s.load(ws.ID)
	if err != nil {
		return nil, err
	}
	return s.detail(created)
}

// Update applies a partial update. A new admin must be an active user and
// is added to the members.
func (s *WorkspaceService) Update(actor Actor, id uuid.UUID, input UpdateWorkspaceInput) (*WorkspaceDetail, error) {
	ws, err := s.loadAuthorized(actor, id, policy.ActionWrite)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := requiredText("name", *input.Name, constants.MaxNameLength)
		if err != nil {
			return nil, err
		}
		ws.Name = name
	}
	if input.Description != nil {
		ws.Description = strings.TrimSpace(*input.Description)
	}
	if input.Color != nil {
		if !utils.IsHexColor(*input.Color) {
			return nil, ErrInvalidColor
		}
		ws.Color = *input.Color
	}
	if input.Icon != nil {
		ws.Icon = strings.TrimSpace(*input.Icon)
	}
	if input.AdminID != nil && *input.AdminID != ws.AdminID {
		if _, err := s.userRepo.FindByID(*input.AdminID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, validationf("admin user does not exist or is inactive")
			}
			return nil, fmt.Errorf("failed to find admin user: %w", err)
		}
		ws.AdminID = *input.AdminID
	}

	if err := s.workspaceRepo.Update(ws); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	updated, err := s.load(ws.ID)
	if err != nil {
		return nil, err
	}
	return s.detail(updated)
}

// Delete soft deletes a workspace with its projects and tasks
func (s *WorkspaceService) Delete(actor Actor, id uuid.UUID) error {
	if _, err := s.loadAuthorized(actor, id, policy.ActionDelete); err != nil {
		return err
	}
	if err := s.workspaceRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

// ListMembers lists the members of a workspace
func (s *WorkspaceService) ListMembers(actor Actor, id uuid.UUID) ([]models.WorkspaceMember, error) {
	if _, err := s.loadAuthorized(actor, id, policy.ActionRead); err != nil {
		return nil, err
	}
	members, err := s.workspaceRepo.ListMembers(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddMember adds an active user to a workspace
func (s *WorkspaceService) AddMember(actor Actor, id, userID uuid.UUID) (*models.WorkspaceMember, error) {
	if _, err := s.loadAuthorized(actor, id, policy.ActionManageMembers); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, lookupErr(err, ErrUserNotFound, "find user")
	}

	isMember, err := s.workspaceRepo.IsMember(id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if isMember {
		return nil, ErrAlreadyWorkspaceMember
	}

	member := &models.WorkspaceMember{
		WorkspaceID: id,
		UserID:      userID,
		JoinedAt:    time.Now(),
	}
	if err := s.workspaceRepo.AddMember(member); err != nil {
		return nil, storeErr(err, ErrAlreadyWorkspaceMember, "add member")
	}
	member.User = *user
	return member, nil
}

// RemoveMember removes a user from a workspace. The designated admin
// cannot be removed.
func (s *WorkspaceService) RemoveMember(actor Actor, id, userID uuid.UUID) error {
	ws, err := s.loadAuthorized(actor, id, policy.ActionManageMembers)
	if err != nil {
		return err
	}
	if ws.AdminID == userID {
		return ErrCannotRemoveAdmin
	}

	isMember, err := s.workspaceRepo.IsMember(id, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return ErrNotWorkspaceMember
	}

	if err := s.workspaceRepo.RemoveMember(id, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}
