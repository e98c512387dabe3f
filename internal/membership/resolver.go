// Package membership computes the relation set that connects a user to a
// workspace, project, task, report or user account.
package membership

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/policy"
	"gorm.io/gorm"
)

// ErrParentNotFound is returned when a resource's parent workspace or project
// is missing or soft deleted.
var ErrParentNotFound = errors.New("membership: parent resource not found")

// Subject is the authenticated caller as decoded from its token.
type Subject struct {
	UserID uuid.UUID
	Role   models.Role
}

// IsAdmin reports whether the subject holds the global Admin role.
func (s Subject) IsAdmin() bool { return s.Role == models.RoleAdmin }

// Store is the read side of persistence the resolver needs. Find* methods
// return gorm.ErrRecordNotFound for missing or inactive rows.
type Store interface {
	FindWorkspace(id uuid.UUID) (*models.Workspace, error)
	FindProject(id uuid.UUID) (*models.Project, error)
	FindTask(id uuid.UUID) (*models.Task, error)
	FindReport(id uuid.UUID) (*models.DailyReport, error)
	IsWorkspaceMember(workspaceID, userID uuid.UUID) (bool, error)
	IsProjectMember(projectID, userID uuid.UUID) (bool, error)
	IsTaskAssignee(taskID, userID uuid.UUID) (bool, error)
}

// Resolver answers relation queries against the current state of the store.
// It keeps no cache.
type Resolver struct {
	store Store
}

// NewResolver creates a Resolver.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

func base(sub Subject) policy.RelationSet {
	return policy.NewRelationSet().WithIf(policy.IsGlobalAdmin, sub.IsAdmin())
}

// ForWorkspace resolves sub against ws.
func (r *Resolver) ForWorkspace(sub Subject, ws *models.Workspace) (policy.RelationSet, error) {
	rels := base(sub).
		WithIf(policy.IsWorkspaceOwner, ws.OwnerID == sub.UserID).
		WithIf(policy.IsWorkspaceAdmin, ws.AdminID == sub.UserID)

	member, err := r.store.IsWorkspaceMember(ws.ID, sub.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to check workspace membership: %w", err)
	}
	return rels.WithIf(policy.IsWorkspaceMember, member), nil
}

// ForProject resolves sub against p, inheriting relations from the parent workspace.
func (r *Resolver) ForProject(sub Subject, p *models.Project) (policy.RelationSet, error) {
	ws, err := r.parentWorkspace(p.WorkspaceID)
	if err != nil {
		return 0, err
	}

	rels, err := r.ForWorkspace(sub, ws)
	if err != nil {
		return 0, err
	}
	rels = rels.WithIf(policy.IsProjectOwner, p.OwnerID == sub.UserID)

	member, err := r.store.IsProjectMember(p.ID, sub.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to check project membership: %w", err)
	}
	return rels.WithIf(policy.IsProjectMember, member), nil
}

// ForTask resolves sub against t through its project and workspace.
func (r *Resolver) ForTask(sub Subject, t *models.Task) (policy.RelationSet, error) {
	p, err := r.store.FindProject(t.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrParentNotFound
		}
		return 0, fmt.Errorf("failed to load project: %w", err)
	}

	rels, err := r.ForProject(sub, p)
	if err != nil {
		return 0, err
	}
	rels = rels.WithIf(policy.IsTaskCreator, t.CreatedBy == sub.UserID)

	assigned, err := r.store.IsTaskAssignee(t.ID, sub.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to check task assignment: %w", err)
	}
	return rels.WithIf(policy.IsTaskAssignee, assigned), nil
}

// ForReport resolves sub against a daily report. A report whose workspace is
// gone still resolves for its owner and for global admins.
func (r *Resolver) ForReport(sub Subject, rep *models.DailyReport) (policy.RelationSet, error) {
	rels := base(sub).WithIf(policy.IsReportOwner, rep.UserID == sub.UserID)

	ws, err := r.store.FindWorkspace(rep.WorkspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rels, nil
		}
		return 0, fmt.Errorf("failed to load workspace: %w", err)
	}

	wsRels, err := r.ForWorkspace(sub, ws)
	if err != nil {
		return 0, err
	}
	return rels | wsRels, nil
}

// ForUser resolves sub against another user account.
func (r *Resolver) ForUser(sub Subject, userID uuid.UUID) policy.RelationSet {
	return base(sub).WithIf(policy.IsSelf, sub.UserID == userID)
}

// Ref names a resource by kind and id.
type Ref struct {
	Kind policy.Resource
	ID   uuid.UUID
}

// Resolve loads the referenced resource and resolves sub against it. A
// missing resource yields gorm.ErrRecordNotFound.
func (r *Resolver) Resolve(sub Subject, ref Ref) (policy.RelationSet, error) {
	switch ref.Kind {
	case policy.ResourceWorkspace:
		ws, err := r.store.FindWorkspace(ref.ID)
		if err != nil {
			return 0, err
		}
		return r.ForWorkspace(sub, ws)
	case policy.ResourceProject:
		p, err := r.store.FindProject(ref.ID)
		if err != nil {
			return 0, err
		}
		return r.ForProject(sub, p)
	case policy.ResourceTask:
		t, err := r.store.FindTask(ref.ID)
		if err != nil {
			return 0, err
		}
		return r.ForTask(sub, t)
	case policy.ResourceReport:
		rep, err := r.store.FindReport(ref.ID)
		if err != nil {
			return 0, err
		}
		return r.ForReport(sub, rep)
	case policy.ResourceUser:
		return r.ForUser(sub, ref.ID), nil
	default:
		return 0, fmt.Errorf("membership: unknown resource kind %q", ref.Kind)
	}
}

func (r *Resolver) parentWorkspace(id uuid.UUID) (*models.Workspace, error) {
	ws, err := r.store.FindWorkspace(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	return ws, nil
}
