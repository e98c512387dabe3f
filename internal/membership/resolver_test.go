package membership

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type edge struct{ parent, user uuid.UUID }

type fakeStore struct {
	workspaces map[uuid.UUID]*models.Workspace
	projects   map[uuid.UUID]*models.Project
	tasks      map[uuid.UUID]*models.Task
	reports    map[uuid.UUID]*models.DailyReport
	wsMembers  map[edge]bool
	pMembers   map[edge]bool
	assignees  map[edge]bool
	failWith   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		workspaces: map[uuid.UUID]*models.Workspace{},
		projects:   map[uuid.UUID]*models.Project{},
		tasks:      map[uuid.UUID]*models.Task{},
		reports:    map[uuid.UUID]*models.DailyReport{},
		wsMembers:  map[edge]bool{},
		pMembers:   map[edge]bool{},
		assignees:  map[edge]bool{},
	}
}

func find[T any](m map[uuid.UUID]*T, id uuid.UUID) (*T, error) {
	if v, ok := m[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) FindWorkspace(id uuid.UUID) (*models.Workspace, error) {
	return find(f.workspaces, id)
}
func (f *fakeStore) FindProject(id uuid.UUID) (*models.Project, error) { return find(f.projects, id) }
func (f *fakeStore) FindTask(id uuid.UUID) (*models.Task, error)       { return find(f.tasks, id) }
func (f *fakeStore) FindReport(id uuid.UUID) (*models.DailyReport, error) {
	return find(f.reports, id)
}
func (f *fakeStore) IsWorkspaceMember(wsID, userID uuid.UUID) (bool, error) {
	return f.wsMembers[edge{wsID, userID}], f.failWith
}
func (f *fakeStore) IsProjectMember(pID, userID uuid.UUID) (bool, error) {
	return f.pMembers[edge{pID, userID}], f.failWith
}
func (f *fakeStore) IsTaskAssignee(tID, userID uuid.UUID) (bool, error) {
	return f.assignees[edge{tID, userID}], f.failWith
}

type fixture struct {
	store                          *fakeStore
	owner, admin, member, stranger uuid.UUID
	ws                             *models.Workspace
	project                        *models.Project
	task                           *models.Task
}

func newFixture() fixture {
	f := fixture{
		store:    newFakeStore(),
		owner:    uuid.New(),
		admin:    uuid.New(),
		member:   uuid.New(),
		stranger: uuid.New(),
	}
	f.ws = &models.Workspace{ID: uuid.New(), OwnerID: f.owner, AdminID: f.admin, Active: true}
	f.project = &models.Project{ID: uuid.New(), WorkspaceID: f.ws.ID, OwnerID: f.member, Active: true}
	f.task = &models.Task{ID: uuid.New(), ProjectID: f.project.ID, CreatedBy: f.owner, Active: true}

	f.store.workspaces[f.ws.ID] = f.ws
	f.store.projects[f.project.ID] = f.project
	f.store.tasks[f.task.ID] = f.task
	f.store.wsMembers[edge{f.ws.ID, f.member}] = true
	return f
}

func TestResolver_WorkspaceRelations(t *testing.T) {
	f := newFixture()
	r := NewResolver(f.store)

	cases := []struct {
		name string
		sub  Subject
		want policy.RelationSet
	}{
		{"owner", Subject{f.owner, models.RoleMember}, policy.NewRelationSet(policy.IsWorkspaceOwner)},
		{"admin", Subject{f.admin, models.RoleWorkspaceAdmin}, policy.NewRelationSet(policy.IsWorkspaceAdmin)},
		{"member", Subject{f.member, models.RoleMember}, policy.NewRelationSet(policy.IsWorkspaceMember)},
		{"stranger", Subject{f.stranger, models.RoleMember}, policy.NewRelationSet()},
		{"global admin", Subject{f.stranger, models.RoleAdmin}, policy.NewRelationSet(policy.IsGlobalAdmin)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.ForWorkspace(tc.sub, f.ws)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got, got.String())
		})
	}
}

func TestResolver_WorkspaceMemberIffEdgeExists(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store)

	users := make([]uuid.UUID, 6)
	for i := range users {
		users[i] = uuid.New()
	}
	workspaces := make([]*models.Workspace, 3)
	for i := range workspaces {
		workspaces[i] = &models.Workspace{ID: uuid.New(), OwnerID: users[0], AdminID: users[1]}
		store.workspaces[workspaces[i].ID] = workspaces[i]
	}
	for i, u := range users {
		for j, ws := range workspaces {
			if (i+j)%2 == 0 {
				store.wsMembers[edge{ws.ID, u}] = true
			}
		}
	}

	for _, u := range users {
		for _, ws := range workspaces {
			rels, err := r.ForWorkspace(Subject{UserID: u, Role: models.RoleMember}, ws)
			require.NoError(t, err)
			assert.Equal(t, store.wsMembers[edge{ws.ID, u}], rels.Has(policy.IsWorkspaceMember))
		}
	}
}

func TestResolver_ProjectInheritsWorkspace(t *testing.T) {
	f := newFixture()
	r := NewResolver(f.store)

	rels, err := r.ForProject(Subject{f.member, models.RoleMember}, f.project)
	require.NoError(t, err)
	assert.True(t, rels.Has(policy.IsWorkspaceMember))
	assert.True(t, rels.Has(policy.IsProjectOwner))
	assert.False(t, rels.Has(policy.IsProjectMember))

	f.store.pMembers[edge{f.project.ID, f.stranger}] = true
	rels, err = r.ForProject(Subject{f.stranger, models.RoleMember}, f.project)
	require.NoError(t, err)
	assert.Equal(t, policy.NewRelationSet(policy.IsProjectMember), rels)
}

func TestResolver_TaskRelations(t *testing.T) {
	f := newFixture()
	r := NewResolver(f.store)
	f.store.assignees[edge{f.task.ID, f.stranger}] = true

	rels, err := r.ForTask(Subject{f.owner, models.RoleMember}, f.task)
	require.NoError(t, err)
	assert.True(t, rels.Has(policy.IsTaskCreator))
	assert.True(t, rels.Has(policy.IsWorkspaceOwner))

	rels, err = r.ForTask(Subject{f.stranger, models.RoleMember}, f.task)
	require.NoError(t, err)
	assert.Equal(t, policy.NewRelationSet(policy.IsTaskAssignee), rels)

	rels, err = r.ForTask(Subject{f.member, models.RoleMember}, f.task)
	require.NoError(t, err)
	assert.True(t, rels.Has(policy.IsWorkspaceMember), "workspace membership reaches task level")
}

func TestResolver_MissingParent(t *testing.T) {
	f := newFixture()
	r := NewResolver(f.store)
	delete(f.store.workspaces, f.ws.ID)

	_, err := r.ForProject(Subject{f.member, models.RoleMember}, f.project)
	assert.ErrorIs(t, err, ErrParentNotFound)

	_, err = r.ForTask(Subject{f.member, models.RoleMember}, f.task)
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestResolver_Report(t *testing.T) {
	f := newFixture()
	r := NewResolver(f.store)
	rep := &models.DailyReport{ID: uuid.New(), UserID: f.member, WorkspaceID: f.ws.ID}
	f.store.reports[rep.ID] = rep

	rels, err := r.Resolve(Subject{f.member, models.RoleMember}, Ref{policy.ResourceReport, rep.ID})
	require.NoError(t, err)
	assert.True(t, rels.Has(policy.IsReportOwner))

	rels, err = r.Resolve(Subject{f.admin, models.RoleWorkspaceAdmin}, Ref{policy.ResourceReport, rep.ID})
	require.NoError(t, err)
	assert.Equal(t, policy.NewRelationSet(policy.IsWorkspaceAdmin), rels)

	delete(f.store.workspaces, f.ws.ID)
	rels, err = r.ForReport(Subject{f.member, models.RoleMember}, rep)
	require.NoError(t, err)
	assert.Equal(t, policy.NewRelationSet(policy.IsReportOwner), rels)
}

func TestResolver_ResolveByRef(t *testing.T) {
	f := newFixture()
	r := NewResolver(f.store)
	sub := Subject{f.member, models.RoleMember}

	rels, err := r.Resolve(sub, Ref{policy.ResourceProject, f.project.ID})
	require.NoError(t, err)
	assert.True(t, rels.Has(policy.IsProjectOwner))

	_, err = r.Resolve(sub, Ref{policy.ResourceTask, uuid.New()})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	rels, err = r.Resolve(sub, Ref{policy.ResourceUser, f.member})
	require.NoError(t, err)
	assert.Equal(t, policy.NewRelationSet(policy.IsSelf), rels)

	_, err = r.Resolve(sub, Ref{policy.Resource("Galaxy"), uuid.New()})
	assert.Error(t, err)
}

func TestResolver_StoreFailurePropagates(t *testing.T) {
	f := newFixture()
	boom := errors.New("connection reset")
	f.store.failWith = boom
	r := NewResolver(f.store)

	_, err := r.ForWorkspace(Subject{f.member, models.RoleMember}, f.ws)
	assert.ErrorIs(t, err, boom)
}
