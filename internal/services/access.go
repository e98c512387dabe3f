package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/membership"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/policy"
	"github.com/nedirbay/project-management-own-version/internal/repository"
)

// Actor is the authenticated caller every service method acts on behalf of.
type Actor = membership.Subject

// scopes computes the visibility filters used by list and dashboard queries.
// They mirror the Read rules of the policy table so lists never show what
// a direct read would refuse.
type scopes struct {
	workspaces repository.WorkspaceRepository
	projects   repository.ProjectRepository
}

// workspaceIDs returns the workspaces whose projects actor reads through
// workspace membership or as their WorkspaceAdmin.
func (s scopes) workspaceIDs(actor Actor) ([]uuid.UUID, error) {
	ids, err := s.workspaces.MemberIDs(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace memberships: %w", err)
	}
	if actor.Role != models.RoleWorkspaceAdmin {
		return ids, nil
	}

	administered, err := s.workspaces.AdministeredIDs(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list administered workspaces: %w", err)
	}
	return uniqueIDs(append(ids, administered...)), nil
}

// projectVisibility returns nil for global admins.
func (s scopes) projectVisibility(actor Actor, includeOwned bool) (*repository.ProjectVisibility, error) {
	if actor.IsAdmin() {
		return nil, nil
	}
	ids, err := s.workspaceIDs(actor)
	if err != nil {
		return nil, err
	}
	return &repository.ProjectVisibility{
		UserID:       actor.UserID,
		WorkspaceIDs: ids,
		IncludeOwned: includeOwned,
	}, nil
}

// taskVisibility returns nil for global admins.
func (s scopes) taskVisibility(actor Actor) (*repository.TaskVisibility, error) {
	if actor.IsAdmin() {
		return nil, nil
	}
	pv, err := s.projectVisibility(actor, false)
	if err != nil {
		return nil, err
	}
	projectIDs, err := s.projects.IDs(repository.ProjectFilter{Visibility: pv})
	if err != nil {
		return nil, fmt.Errorf("failed to list accessible projects: %w", err)
	}
	return &repository.TaskVisibility{UserID: actor.UserID, ProjectIDs: projectIDs}, nil
}

// uniqueIDs removes duplicate values from a slice of ids
func uniqueIDs(values []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(values))
	result := make([]uuid.UUID, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

// globalRelations is the relation set of actor before any resource is involved.
func globalRelations(actor Actor) policy.RelationSet {
	return policy.NewRelationSet().WithIf(policy.IsGlobalAdmin, actor.IsAdmin())
}
