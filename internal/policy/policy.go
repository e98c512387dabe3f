// Package policy decides whether an actor may perform an action on a
// resource, given the actor's global role and the relations that connect
// the actor to that resource.
package policy

import (
	"fmt"

	"github.com/nedirbay/project-management-own-version/internal/models"
)

type Resource string

const (
	ResourceWorkspace Resource = "Workspace"
	ResourceProject   Resource = "Project"
	ResourceTask      Resource = "Task"
	ResourceReport    Resource = "Report"
	ResourceUser      Resource = "User"
)

type Action string

const (
	ActionRead          Action = "Read"
	ActionCreate        Action = "Create"
	ActionWrite         Action = "Write"
	ActionDelete        Action = "Delete"
	ActionManageMembers Action = "ManageMembers"
	ActionStatusChange  Action = "StatusChange"
	ActionOrderChange   Action = "OrderChange"
	ActionRoleChange    Action = "RoleChange"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(format string, args ...interface{}) Decision {
	return Decision{Reason: fmt.Sprintf(format, args...)}
}

type condition func(role models.Role, rels RelationSet) bool

func has(r Relation) condition {
	return func(_ models.Role, rels RelationSet) bool { return rels.Has(r) }
}

func roleIs(want models.Role) condition {
	return func(role models.Role, _ RelationSet) bool { return role == want }
}

// scopedWorkspaceAdmin holds only for a WorkspaceAdmin who is the designated
// admin of the workspace the resource lives in.
func scopedWorkspaceAdmin(role models.Role, rels RelationSet) bool {
	return role == models.RoleWorkspaceAdmin && rels.Has(IsWorkspaceAdmin)
}

func anyOf(conds ...condition) condition {
	return func(role models.Role, rels RelationSet) bool {
		for _, c := range conds {
			if c(role, rels) {
				return true
			}
		}
		return false
	}
}

type rule struct {
	resource Resource
	action   Action
}

var (
	globalAdmin = has(IsGlobalAdmin)

	workspaceReader = anyOf(has(IsWorkspaceMember), has(IsWorkspaceOwner), has(IsWorkspaceAdmin), globalAdmin)
	workspaceWriter = anyOf(has(IsWorkspaceOwner), has(IsWorkspaceAdmin), globalAdmin)

	projectCreator = anyOf(has(IsWorkspaceMember), globalAdmin, scopedWorkspaceAdmin)
	projectReader  = anyOf(has(IsProjectMember), has(IsWorkspaceMember), has(IsProjectOwner), globalAdmin, scopedWorkspaceAdmin)
	projectWriter  = anyOf(projectCreator, has(IsProjectOwner))

	taskCreator = anyOf(has(IsProjectMember), has(IsWorkspaceMember), globalAdmin, scopedWorkspaceAdmin)
	taskAccess  = anyOf(has(IsProjectMember), has(IsWorkspaceMember), has(IsTaskAssignee), has(IsTaskCreator), globalAdmin, scopedWorkspaceAdmin)

	reportReader = anyOf(has(IsReportOwner), globalAdmin, scopedWorkspaceAdmin)
	reportWriter = anyOf(has(IsReportOwner), globalAdmin)

	selfOrAdmin = anyOf(has(IsSelf), globalAdmin)
)

var table = map[rule]condition{
	{ResourceWorkspace, ActionRead}:          workspaceReader,
	{ResourceWorkspace, ActionCreate}:        anyOf(globalAdmin, roleIs(models.RoleWorkspaceAdmin)),
	{ResourceWorkspace, ActionWrite}:         workspaceWriter,
	{ResourceWorkspace, ActionDelete}:        globalAdmin,
	{ResourceWorkspace, ActionManageMembers}: workspaceWriter,

	{ResourceProject, ActionRead}:          projectReader,
	{ResourceProject, ActionCreate}:        projectCreator,
	{ResourceProject, ActionWrite}:         projectWriter,
	{ResourceProject, ActionDelete}:        projectWriter,
	{ResourceProject, ActionManageMembers}: anyOf(has(IsProjectOwner), globalAdmin, scopedWorkspaceAdmin),

	{ResourceTask, ActionCreate}:       taskCreator,
	{ResourceTask, ActionRead}:         taskAccess,
	{ResourceTask, ActionWrite}:        taskAccess,
	{ResourceTask, ActionStatusChange}: taskAccess,
	{ResourceTask, ActionOrderChange}:  taskAccess,
	{ResourceTask, ActionDelete}:       anyOf(has(IsTaskCreator), globalAdmin, scopedWorkspaceAdmin),

	{ResourceReport, ActionRead}:   reportReader,
	{ResourceReport, ActionCreate}: workspaceReader,
	{ResourceReport, ActionWrite}:  reportWriter,
	{ResourceReport, ActionDelete}: reportWriter,

	{ResourceUser, ActionRead}:       selfOrAdmin,
	{ResourceUser, ActionWrite}:      selfOrAdmin,
	{ResourceUser, ActionCreate}:     globalAdmin,
	{ResourceUser, ActionDelete}:     globalAdmin,
	{ResourceUser, ActionRoleChange}: globalAdmin,
}

// Authorize renders the decision for (resource, action). Pairs without a
// rule are denied.
func Authorize(role models.Role, rels RelationSet, resource Resource, action Action) Decision {
	cond, ok := table[rule{resource, action}]
	if !ok {
		return deny("no policy for %s.%s", resource, action)
	}
	if cond(role, rels) {
		return allow()
	}
	return deny("%s.%s denied for role %s with relations %s", resource, action, role, rels)
}

// Allowed is Authorize reduced to a bool.
func Allowed(role models.Role, rels RelationSet, resource Resource, action Action) bool {
	return Authorize(role, rels, resource, action).Allowed
}
