package policy

import (
	"testing"
	"time"

	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	none := NewRelationSet()
	wsMember := NewRelationSet(IsWorkspaceMember)
	wsAdmin := NewRelationSet(IsWorkspaceAdmin)
	admin := NewRelationSet(IsGlobalAdmin)

	cases := []struct {
		name     string
		role     models.Role
		rels     RelationSet
		resource Resource
		action   Action
		want     bool
	}{
		{"workspace member reads workspace", models.RoleMember, wsMember, ResourceWorkspace, ActionRead, true},
		{"workspace owner reads workspace", models.RoleMember, NewRelationSet(IsWorkspaceOwner), ResourceWorkspace, ActionRead, true},
		{"stranger cannot read workspace", models.RoleMember, none, ResourceWorkspace, ActionRead, false},
		{"member cannot write workspace", models.RoleMember, wsMember, ResourceWorkspace, ActionWrite, false},
		{"designated admin writes workspace", models.RoleMember, wsAdmin, ResourceWorkspace, ActionWrite, true},
		{"owner cannot delete workspace", models.RoleWorkspaceAdmin, NewRelationSet(IsWorkspaceOwner, IsWorkspaceAdmin), ResourceWorkspace, ActionDelete, false},
		{"global admin deletes workspace", models.RoleAdmin, admin, ResourceWorkspace, ActionDelete, true},
		{"owner manages members", models.RoleMember, NewRelationSet(IsWorkspaceOwner), ResourceWorkspace, ActionManageMembers, true},
		{"member cannot manage members", models.RoleMember, wsMember, ResourceWorkspace, ActionManageMembers, false},
		{"member cannot create workspace", models.RoleMember, none, ResourceWorkspace, ActionCreate, false},
		{"workspace admin role creates workspace", models.RoleWorkspaceAdmin, none, ResourceWorkspace, ActionCreate, true},

		{"workspace member creates project", models.RoleMember, wsMember, ResourceProject, ActionCreate, true},
		{"stranger cannot create project", models.RoleMember, none, ResourceProject, ActionCreate, false},
		{"project member reads project", models.RoleMember, NewRelationSet(IsProjectMember), ResourceProject, ActionRead, true},
		{"project member cannot write project", models.RoleMember, NewRelationSet(IsProjectMember), ResourceProject, ActionWrite, false},
		{"project owner writes project", models.RoleMember, NewRelationSet(IsProjectOwner), ResourceProject, ActionWrite, true},
		{"project owner deletes project", models.RoleMember, NewRelationSet(IsProjectOwner), ResourceProject, ActionDelete, true},
		{"scoped workspace admin writes project", models.RoleWorkspaceAdmin, wsAdmin, ResourceProject, ActionWrite, true},
		{"workspace admin of another workspace cannot write project", models.RoleWorkspaceAdmin, none, ResourceProject, ActionWrite, false},
		{"designated admin with member role gets no project rights", models.RoleMember, wsAdmin, ResourceProject, ActionRead, false},
		{"global admin reads project", models.RoleAdmin, admin, ResourceProject, ActionRead, true},
		{"project member cannot manage project members", models.RoleMember, NewRelationSet(IsProjectMember, IsWorkspaceMember), ResourceProject, ActionManageMembers, false},

		{"assignee reads task", models.RoleMember, NewRelationSet(IsTaskAssignee), ResourceTask, ActionRead, true},
		{"creator writes task", models.RoleMember, NewRelationSet(IsTaskCreator), ResourceTask, ActionWrite, true},
		{"assignee changes status", models.RoleMember, NewRelationSet(IsTaskAssignee), ResourceTask, ActionStatusChange, true},
		{"workspace member reorders", models.RoleMember, wsMember, ResourceTask, ActionOrderChange, true},
		{"stranger cannot read task", models.RoleMember, none, ResourceTask, ActionRead, false},
		{"assignee cannot delete task", models.RoleMember, NewRelationSet(IsTaskAssignee, IsWorkspaceMember), ResourceTask, ActionDelete, false},
		{"creator deletes task", models.RoleMember, NewRelationSet(IsTaskCreator), ResourceTask, ActionDelete, true},
		{"scoped workspace admin deletes task", models.RoleWorkspaceAdmin, wsAdmin, ResourceTask, ActionDelete, true},
		{"project member creates task", models.RoleMember, NewRelationSet(IsProjectMember), ResourceTask, ActionCreate, true},

		{"owner reads report", models.RoleMember, NewRelationSet(IsReportOwner), ResourceReport, ActionRead, true},
		{"stranger cannot read report", models.RoleMember, none, ResourceReport, ActionRead, false},
		{"scoped workspace admin reads report", models.RoleWorkspaceAdmin, wsAdmin, ResourceReport, ActionRead, true},
		{"workspace admin of another workspace cannot read report", models.RoleWorkspaceAdmin, wsMember, ResourceReport, ActionRead, false},
		{"scoped workspace admin cannot write report", models.RoleWorkspaceAdmin, wsAdmin, ResourceReport, ActionWrite, false},
		{"global admin deletes report", models.RoleAdmin, admin, ResourceReport, ActionDelete, true},
		{"workspace member files report", models.RoleMember, wsMember, ResourceReport, ActionCreate, true},

		{"self reads user", models.RoleMember, NewRelationSet(IsSelf), ResourceUser, ActionRead, true},
		{"member cannot read other user", models.RoleMember, none, ResourceUser, ActionRead, false},
		{"self cannot change role", models.RoleMember, NewRelationSet(IsSelf), ResourceUser, ActionRoleChange, false},
		{"global admin changes role", models.RoleAdmin, admin, ResourceUser, ActionRoleChange, true},
		{"workspace admin cannot create users", models.RoleWorkspaceAdmin, wsAdmin, ResourceUser, ActionCreate, false},

		{"unknown pair is denied", models.RoleAdmin, admin, ResourceUser, ActionOrderChange, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Authorize(tc.role, tc.rels, tc.resource, tc.action)
			assert.Equal(t, tc.want, d.Allowed, d.Reason)
			if !tc.want {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestCheckReportEditWindow(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	owner := NewRelationSet(IsReportOwner)
	assert.True(t, CheckReportEditWindow(owner, created, created.Add(24*time.Hour)).Allowed)
	assert.True(t, CheckReportEditWindow(owner, created, created.Add(7*24*time.Hour)).Allowed)
	assert.False(t, CheckReportEditWindow(owner, created, created.Add(8*24*time.Hour)).Allowed)

	admin := NewRelationSet(IsGlobalAdmin)
	assert.True(t, CheckReportEditWindow(admin, created, created.Add(8*24*time.Hour)).Allowed)

	assert.False(t, CheckReportEditWindow(NewRelationSet(IsWorkspaceAdmin), created, created).Allowed)
}

func TestRelationSetNames(t *testing.T) {
	s := NewRelationSet(IsProjectOwner, IsGlobalAdmin)
	assert.Equal(t, []string{"GlobalAdmin", "ProjectOwner"}, s.Names())
	assert.Equal(t, "{GlobalAdmin,ProjectOwner}", s.String())
	assert.True(t, s.HasAny(IsTaskCreator, IsProjectOwner))
	assert.False(t, NewRelationSet().HasAny(IsSelf))
	assert.True(t, NewRelationSet().Empty())
	assert.Equal(t, "Self", IsSelf.String())
}
