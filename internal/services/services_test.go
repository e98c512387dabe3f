package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nedirbay/project-management-own-version/internal/auth"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/testutil"
	"github.com/nedirbay/project-management-own-version/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

func actorOf(u *models.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

// ServicesTestSuite exercises the services against an in-memory database
type ServicesTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *Services

	admin   *models.User
	owner   *models.User
	wsAdmin *models.User
	member  *models.User
	nobody  *models.User

	workspace *models.Workspace
}

func (suite *ServicesTestSuite) SetupTest() {
	suite.db = testutil.NewDB(suite.T())
	tokens := auth.NewTokenIssuer(strings.Repeat("s", 32), "test", "test", time.Hour)
	suite.svc = New(suite.db, tokens, nil)

	suite.admin = testutil.CreateUser(suite.T(), suite.db, "root", models.RoleAdmin)
	suite.owner = testutil.CreateUser(suite.T(), suite.db, "u1", models.RoleMember)
	suite.wsAdmin = testutil.CreateUser(suite.T(), suite.db, "u2", models.RoleWorkspaceAdmin)
	suite.member = testutil.CreateUser(suite.T(), suite.db, "u3", models.RoleMember)
	suite.nobody = testutil.CreateUser(suite.T(), suite.db, "u4", models.RoleMember)

	suite.workspace = testutil.CreateWorkspace(suite.T(), suite.db, "W", suite.owner, suite.wsAdmin)
	testutil.AddWorkspaceMember(suite.T(), suite.db, suite.workspace, suite.member)
}

func (suite *ServicesTestSuite) today() time.Time {
	return models.DateOnly(time.Now())
}

func (suite *ServicesTestSuite) newReport(user *models.User, date time.Time) (*models.DailyReport, error) {
	return suite.svc.Reports.Create(actorOf(user), CreateReportInput{
		Date:            date,
		WorkspaceID:     suite.workspace.ID,
		WorkDescription: "Worked on the release checklist",
	})
}

func (suite *ServicesTestSuite) TestEndToEndProjectAccess() {
	detail, err := suite.svc.Projects.Create(actorOf(suite.member), CreateProjectInput{
		WorkspaceID: suite.workspace.ID,
		Name:        "P",
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.member.ID, detail.Project.OwnerID)

	_, err = suite.svc.Projects.Get(actorOf(suite.nobody), detail.Project.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	got, err := suite.svc.Projects.Get(actorOf(suite.admin), detail.Project.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "P", got.Project.Name)
}

func (suite *ServicesTestSuite) TestWorkspaceAdminScopedToAdministeredWorkspace() {
	other := testutil.CreateUser(suite.T(), suite.db, "other", models.RoleMember)
	foreign := testutil.CreateWorkspace(suite.T(), suite.db, "B", other, other)
	foreignProject := testutil.CreateProject(suite.T(), suite.db, "Foreign", foreign, other)
	ownProject := testutil.CreateProject(suite.T(), suite.db, "Home", suite.workspace, suite.member)

	name := "Renamed"
	_, err := suite.svc.Projects.Update(actorOf(suite.wsAdmin), foreignProject.ID, UpdateProjectInput{Name: &name})
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	updated, err := suite.svc.Projects.Update(actorOf(suite.wsAdmin), ownProject.ID, UpdateProjectInput{Name: &name})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), name, updated.Project.Name)
}

func (suite *ServicesTestSuite) TestReportDateWindow() {
	today := suite.today()

	_, err := suite.newReport(suite.member, today.AddDate(0, 0, 1))
	assert.ErrorIs(suite.T(), err, ErrValidation)

	_, err = suite.newReport(suite.member, today.AddDate(0, 0, -31))
	assert.ErrorIs(suite.T(), err, ErrValidation)

	report, err := suite.newReport(suite.member, today.AddDate(0, 0, -30))
	suite.Require().NoError(err)
	assert.True(suite.T(), report.Date.Equal(today.AddDate(0, 0, -30)))
}

func (suite *ServicesTestSuite) TestReportDuplicateDay() {
	_, err := suite.newReport(suite.member, suite.today())
	suite.Require().NoError(err)

	_, err = suite.newReport(suite.member, suite.today())
	assert.ErrorIs(suite.T(), err, ErrConflict)

	// other users keep their own day
	_, err = suite.newReport(suite.owner, suite.today())
	assert.NoError(suite.T(), err)
}

func (suite *ServicesTestSuite) TestReportEditWindow() {
	report, err := suite.newReport(suite.member, suite.today())
	suite.Require().NoError(err)

	suite.svc.Reports.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	notes := "late addition"
	_, err = suite.svc.Reports.Update(actorOf(suite.member), report.ID, UpdateReportInput{Notes: &notes})
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	updated, err := suite.svc.Reports.Update(actorOf(suite.admin), report.ID, UpdateReportInput{Notes: &notes})
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.Notes)
	assert.Equal(suite.T(), notes, *updated.Notes)
}

func (suite *ServicesTestSuite) TestReportSurvivesWorkspaceDeletion() {
	report, err := suite.newReport(suite.member, suite.today())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.svc.Workspaces.Delete(actorOf(suite.admin), suite.workspace.ID))

	_, err = suite.svc.Reports.Get(actorOf(suite.member), report.ID)
	assert.NoError(suite.T(), err)
	_, err = suite.svc.Reports.Get(actorOf(suite.admin), report.ID)
	assert.NoError(suite.T(), err)
	_, err = suite.svc.Reports.Get(actorOf(suite.wsAdmin), report.ID)
	assert.Error(suite.T(), err)
}

func (suite *ServicesTestSuite) TestReportListScopes() {
	_, err := suite.newReport(suite.member, suite.today())
	suite.Require().NoError(err)
	_, err = suite.newReport(suite.owner, suite.today())
	suite.Require().NoError(err)

	page := utils.NewPaginationParams(1, 20)
	cases := []struct {
		user *models.User
		want int64
	}{
		{suite.admin, 2},
		{suite.wsAdmin, 2},
		{suite.member, 1},
		{suite.nobody, 0},
	}
	for _, tc := range cases {
		_, total, err := suite.svc.Reports.List(actorOf(tc.user), page)
		suite.Require().NoError(err)
		assert.Equal(suite.T(), tc.want, total, tc.user.Username)

		stats, err := suite.svc.Reports.Stats(actorOf(tc.user))
		suite.Require().NoError(err)
		assert.Equal(suite.T(), tc.want, stats.TotalReports, tc.user.Username)
	}
}

func (suite *ServicesTestSuite) TestInvalidStatusLeavesTaskUnchanged() {
	p := testutil.CreateProject(suite.T(), suite.db, "Board", suite.workspace, suite.owner)
	task := testutil.CreateTask(suite.T(), suite.db, "Original", p, suite.member, models.TaskStatusTodo, 0)

	_, err := suite.svc.Tasks.UpdateStatus(actorOf(suite.member), task.ID, "Archived")
	assert.ErrorIs(suite.T(), err, ErrValidation)

	title, status := "Changed", "Blocked"
	_, err = suite.svc.Tasks.Update(actorOf(suite.member), task.ID, UpdateTaskInput{Title: &title, Status: &status})
	assert.ErrorIs(suite.T(), err, ErrValidation)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, "id = ?", task.ID).Error)
	assert.Equal(suite.T(), "Original", stored.Title)
	assert.Equal(suite.T(), models.TaskStatusTodo, stored.Status)
}

func (suite *ServicesTestSuite) TestRemovingWorkspaceAdminRejected() {
	err := suite.svc.Workspaces.RemoveMember(actorOf(suite.owner), suite.workspace.ID, suite.wsAdmin.ID)
	assert.ErrorIs(suite.T(), err, ErrValidation)

	isMember, err := suite.svc.Workspaces.workspaceRepo.IsMember(suite.workspace.ID, suite.wsAdmin.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), isMember)

	suite.Require().NoError(suite.svc.Workspaces.RemoveMember(actorOf(suite.owner), suite.workspace.ID, suite.member.ID))
	err = suite.svc.Workspaces.RemoveMember(actorOf(suite.owner), suite.workspace.ID, suite.member.ID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ServicesTestSuite) TestWorkspaceCreateRequiresRole() {
	_, err := suite.svc.Workspaces.Create(actorOf(suite.member), CreateWorkspaceInput{Name: "Mine"})
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	detail, err := suite.svc.Workspaces.Create(actorOf(suite.wsAdmin), CreateWorkspaceInput{
		Name:      "Design",
		MemberIDs: testutil.IDs(suite.member),
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.wsAdmin.ID, detail.Workspace.AdminID)
	assert.Len(suite.T(), detail.Members, 2)
	assert.True(suite.T(), utils.IsHexColor(detail.Workspace.Color))
}

func (suite *ServicesTestSuite) columnOrders(p *models.Project, status models.TaskStatus) []int {
	var orders []int
	suite.Require().NoError(suite.db.Model(&models.Task{}).
		Where("project_id = ? AND status = ? AND active = ?", p.ID, status, true).
		Order("sort_order").Pluck("sort_order", &orders).Error)
	return orders
}

func (suite *ServicesTestSuite) TestKanbanOrderStaysDense() {
	p := testutil.CreateProject(suite.T(), suite.db, "Board", suite.workspace, suite.owner)
	actor := actorOf(suite.member)

	var ids []*models.Task
	for _, title := range []string{"a", "b", "c", "d"} {
		task, err := suite.svc.Tasks.Create(actor, CreateTaskInput{ProjectID: p.ID, Title: title})
		suite.Require().NoError(err)
		ids = append(ids, task)
	}
	assert.Equal(suite.T(), []int{0, 1, 2, 3}, suite.columnOrders(p, models.TaskStatusTodo))

	moved, err := suite.svc.Tasks.UpdateOrder(actor, ids[3].ID, "", 0)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, moved.Order)
	assert.Equal(suite.T(), []int{0, 1, 2, 3}, suite.columnOrders(p, models.TaskStatusTodo))

	done, err := suite.svc.Tasks.UpdateStatus(actor, ids[1].ID, "Done")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, done.Order)
	assert.Equal(suite.T(), []int{0, 1, 2}, suite.columnOrders(p, models.TaskStatusTodo))

	_, err = suite.svc.Tasks.UpdateOrder(actor, ids[0].ID, "Done", 99)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []int{0, 1}, suite.columnOrders(p, models.TaskStatusDone))

	suite.Require().NoError(suite.svc.Tasks.Delete(actor, ids[3].ID))
	assert.Equal(suite.T(), []int{0}, suite.columnOrders(p, models.TaskStatusTodo))

	_, err = suite.svc.Tasks.UpdateOrder(actor, ids[2].ID, "", -1)
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *ServicesTestSuite) TestProjectDeleteCascades() {
	p := testutil.CreateProject(suite.T(), suite.db, "Doomed", suite.workspace, suite.owner)
	task := testutil.CreateTask(suite.T(), suite.db, "Child", p, suite.owner, models.TaskStatusTodo, 0)
	_, err := suite.svc.Tasks.CreateComment(actorOf(suite.owner), task.ID, "first")
	suite.Require().NoError(err)

	report, err := suite.svc.Reports.Create(actorOf(suite.owner), CreateReportInput{
		Date:            suite.today(),
		WorkspaceID:     suite.workspace.ID,
		ProjectID:       &p.ID,
		WorkDescription: "Planned the doomed project",
	})
	suite.Require().NoError(err)

	err = suite.svc.Projects.Delete(actorOf(suite.member), p.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)
	suite.Require().NoError(suite.svc.Projects.Delete(actorOf(suite.owner), p.ID))

	_, err = suite.svc.Tasks.Get(actorOf(suite.owner), task.ID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)

	var comments int64
	suite.Require().NoError(suite.db.Model(&models.TaskComment{}).Where("task_id = ?", task.ID).Count(&comments).Error)
	assert.Zero(suite.T(), comments)

	reloaded, err := suite.svc.Reports.Get(actorOf(suite.owner), report.ID)
	suite.Require().NoError(err)
	assert.Nil(suite.T(), reloaded.ProjectID)
}

func (suite *ServicesTestSuite) TestTaskAccessForAssignee() {
	p := testutil.CreateProject(suite.T(), suite.db, "Board", suite.workspace, suite.owner)
	task := testutil.CreateTask(suite.T(), suite.db, "Shared", p, suite.owner, models.TaskStatusTodo, 0)

	outsider := testutil.CreateUser(suite.T(), suite.db, "contractor", models.RoleMember)
	_, err := suite.svc.Tasks.AssignUsers(actorOf(suite.owner), task.ID, testutil.IDs(outsider))
	assert.ErrorIs(suite.T(), err, ErrValidation)

	_, err = suite.svc.Tasks.Get(actorOf(suite.nobody), task.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	assigned, err := suite.svc.Tasks.AssignUsers(actorOf(suite.owner), task.ID, testutil.IDs(suite.member))
	suite.Require().NoError(err)
	assert.Len(suite.T(), assigned.Assignments, 1)

	mine, total, err := suite.svc.Tasks.ListMine(actorOf(suite.member), ListTasksInput{Page: utils.NewPaginationParams(1, 20)})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	assert.Equal(suite.T(), task.ID, mine[0].ID)

	err = suite.svc.Tasks.Delete(actorOf(suite.member), task.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func (suite *ServicesTestSuite) TestDashboardCounts() {
	p := testutil.CreateProject(suite.T(), suite.db, "Board", suite.workspace, suite.owner)
	yesterday := time.Now().Add(-24 * time.Hour)
	nextWeek := time.Now().Add(7 * 24 * time.Hour)

	late := testutil.CreateTask(suite.T(), suite.db, "Late", p, suite.owner, models.TaskStatusInProgress, 0)
	suite.Require().NoError(suite.db.Model(late).Update("due_date", yesterday).Error)
	soon := testutil.CreateTask(suite.T(), suite.db, "Soon", p, suite.owner, models.TaskStatusTodo, 0)
	suite.Require().NoError(suite.db.Model(soon).Update("due_date", nextWeek).Error)
	testutil.CreateTask(suite.T(), suite.db, "Finished", p, suite.owner, models.TaskStatusDone, 0)
	testutil.CreateTask(suite.T(), suite.db, "Finished too", p, suite.owner, models.TaskStatusDone, 1)

	summary, err := suite.svc.Dashboard.Summary(actorOf(suite.member))
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), summary.Counts.WorkspaceCount)
	assert.Equal(suite.T(), int64(1), summary.Counts.ProjectCount)
	assert.Equal(suite.T(), int64(4), summary.Counts.TaskCount)
	assert.Equal(suite.T(), int64(2), summary.Counts.CompletedTaskCount)
	assert.Equal(suite.T(), int64(1), summary.Counts.InProgressTaskCount)
	assert.Equal(suite.T(), int64(1), summary.Counts.OverdueTaskCount)
	assert.Equal(suite.T(), 50.0, summary.Counts.CompletionRate)
	suite.Require().Len(summary.UpcomingDeadlines, 1)
	assert.Equal(suite.T(), soon.ID, summary.UpcomingDeadlines[0].ID)

	empty, err := suite.svc.Dashboard.Summary(actorOf(suite.nobody))
	suite.Require().NoError(err)
	assert.Zero(suite.T(), empty.Counts.TaskCount)
	assert.Zero(suite.T(), empty.Counts.CompletionRate)

	stats, err := suite.svc.Dashboard.Stats(actorOf(suite.admin))
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(2), stats.TasksByStatus[string(models.TaskStatusDone)])
	assert.Equal(suite.T(), int64(1), stats.ProjectsByStatus[models.ProjectStatusActive])
}

func (suite *ServicesTestSuite) TestUserAdministration() {
	_, err := suite.svc.Users.ChangeRole(actorOf(suite.member), suite.nobody.ID, "Admin")
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	_, err = suite.svc.Users.ChangeRole(actorOf(suite.admin), suite.nobody.ID, "Owner")
	assert.ErrorIs(suite.T(), err, ErrValidation)

	promoted, err := suite.svc.Users.ChangeRole(actorOf(suite.admin), suite.nobody.ID, "WorkspaceAdmin")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.RoleWorkspaceAdmin, promoted.Role)

	err = suite.svc.Users.Delete(actorOf(suite.admin), suite.admin.ID)
	assert.ErrorIs(suite.T(), err, ErrValidation)
	suite.Require().NoError(suite.svc.Users.Delete(actorOf(suite.admin), suite.nobody.ID))

	_, err = suite.svc.Auth.Login(LoginInput{Username: "u4", Password: testutil.Password})
	assert.ErrorIs(suite.T(), err, ErrUnauthorized)
}

func (suite *ServicesTestSuite) TestChangePassword() {
	err := suite.svc.Users.ChangePassword(actorOf(suite.member), suite.member.ID, "wrong-password", "brandnew1")
	assert.ErrorIs(suite.T(), err, ErrValidation)

	suite.Require().NoError(suite.svc.Users.ChangePassword(actorOf(suite.member), suite.member.ID, testutil.Password, "brandnew1"))
	_, err = suite.svc.Auth.Login(LoginInput{Username: "u3", Password: "brandnew1"})
	assert.NoError(suite.T(), err)

	// admins reset other accounts without the current password
	suite.Require().NoError(suite.svc.Users.ChangePassword(actorOf(suite.admin), suite.member.ID, "", "resetpass1"))
	_, err = suite.svc.Auth.Login(LoginInput{Username: "u3", Password: "resetpass1"})
	assert.NoError(suite.T(), err)
}

func (suite *ServicesTestSuite) TestPasswordLengthBounds() {
	_, err := suite.svc.Auth.Register(RegisterInput{
		Username: "longpass",
		Email:    "longpass@example.com",
		Password: strings.Repeat("p", 80),
		FullName: "Long Pass",
	})
	assert.ErrorIs(suite.T(), err, ErrPasswordTooLong)
	assert.ErrorIs(suite.T(), err, ErrValidation)

	session, err := suite.svc.Auth.Register(RegisterInput{
		Username: "maxpass",
		Email:    "maxpass@example.com",
		Password: strings.Repeat("p", 72),
		FullName: "Max Pass",
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "maxpass", session.User.Username)

	err = suite.svc.Users.ChangePassword(actorOf(suite.member), suite.member.ID, testutil.Password, strings.Repeat("p", 80))
	assert.ErrorIs(suite.T(), err, ErrValidation)
	_, err = suite.svc.Auth.Login(LoginInput{Username: "u3", Password: testutil.Password})
	assert.NoError(suite.T(), err)
}

func (suite *ServicesTestSuite) TestNameLimitsCountCharacters() {
	session, err := suite.svc.Auth.Register(RegisterInput{
		Username: strings.Repeat("ä", 50),
		Email:    "umlaut@example.com",
		Password: "secret123",
		FullName: strings.Repeat("é", 100),
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), strings.Repeat("é", 100), session.User.FullName)

	_, err = suite.svc.Auth.Register(RegisterInput{
		Username: strings.Repeat("ä", 51),
		Email:    "umlaut2@example.com",
		Password: "secret123",
		FullName: "Too Long",
	})
	assert.ErrorIs(suite.T(), err, ErrValidation)

	name := strings.Repeat("ж", 100)
	updated, err := suite.svc.Users.Update(actorOf(suite.member), suite.member.ID, UpdateUserInput{FullName: &name})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), name, updated.FullName)
}

func (suite *ServicesTestSuite) TestListAllTasksScopesAndCounts() {
	home := testutil.CreateProject(suite.T(), suite.db, "Home", suite.workspace, suite.owner)
	first := testutil.CreateTask(suite.T(), suite.db, "First", home, suite.owner, models.TaskStatusTodo, 0)
	testutil.CreateTask(suite.T(), suite.db, "Second", home, suite.owner, models.TaskStatusDone, 0)
	for i, done := range []bool{true, false} {
		suite.Require().NoError(suite.db.Create(&models.SubTask{TaskID: first.ID, Title: "step", Completed: done, Order: i}).Error)
	}

	other := testutil.CreateUser(suite.T(), suite.db, "other", models.RoleMember)
	foreign := testutil.CreateWorkspace(suite.T(), suite.db, "B", other, other)
	foreignProject := testutil.CreateProject(suite.T(), suite.db, "Foreign", foreign, other)
	testutil.CreateTask(suite.T(), suite.db, "Elsewhere", foreignProject, other, models.TaskStatusTodo, 0)

	page := utils.NewPaginationParams(1, 20)

	tasks, total, err := suite.svc.Tasks.List(actorOf(suite.member), ListTasksInput{Page: page})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(2), total)
	suite.Require().Len(tasks, 2)
	assert.Equal(suite.T(), first.ID, tasks[0].Task.ID)
	assert.Equal(suite.T(), int64(2), tasks[0].SubTaskCount)
	assert.Equal(suite.T(), int64(1), tasks[0].CompletedSubTaskCount)
	assert.Equal(suite.T(), int64(0), tasks[1].SubTaskCount)

	done, total, err := suite.svc.Tasks.List(actorOf(suite.member), ListTasksInput{Status: "done", Page: page})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	assert.Equal(suite.T(), "Second", done[0].Task.Title)

	_, total, err = suite.svc.Tasks.List(actorOf(suite.nobody), ListTasksInput{Page: page})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(0), total)

	_, total, err = suite.svc.Tasks.List(actorOf(suite.admin), ListTasksInput{Page: page})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(3), total)
}

func (suite *ServicesTestSuite) TestUpdateWithStatusSavesFieldsAndAppends() {
	p := testutil.CreateProject(suite.T(), suite.db, "Board", suite.workspace, suite.owner)
	task := testutil.CreateTask(suite.T(), suite.db, "Draft", p, suite.owner, models.TaskStatusTodo, 0)
	testutil.CreateTask(suite.T(), suite.db, "Shipped", p, suite.owner, models.TaskStatusDone, 0)

	title := "Final"
	status := "Done"
	updated, err := suite.svc.Tasks.Update(actorOf(suite.owner), task.ID, UpdateTaskInput{Title: &title, Status: &status})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Final", updated.Title)
	assert.Equal(suite.T(), models.TaskStatusDone, updated.Status)
	assert.Equal(suite.T(), 1, updated.Order)
}

func TestServicesTestSuite(t *testing.T) {
	suite.Run(t, new(ServicesTestSuite))
}

func TestServiceErrorKinds(t *testing.T) {
	err := validationf("bad %s", "input")
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, "bad input", err.Error())
	require.False(t, errors.Is(err, ErrConflict))

	require.ErrorIs(t, storeErr(gorm.ErrDuplicatedKey, ErrReportExists, "create"), ErrConflict)
	require.ErrorIs(t, lookupErr(gorm.ErrRecordNotFound, ErrTaskNotFound, "find"), ErrNotFound)

	wrapped := lookupErr(errors.New("disk full"), ErrTaskNotFound, "find task")
	require.False(t, errors.Is(wrapped, ErrNotFound))
	require.Contains(t, wrapped.Error(), "failed to find task")
}
