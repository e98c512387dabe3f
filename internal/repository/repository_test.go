package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/testutil"
	"github.com/nedirbay/project-management-own-version/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepository_FindByIDPropagatesStorageErrors(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("connection reset by peer")

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(boom)

	_, err := NewUserRepository(db).FindByID(uuid.New())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIDNoRows(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewUserRepository(db).FindByID(uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceRepository_DeleteRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("deadlock detected")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "projects"`).WillReturnError(boom)
	mock.ExpectRollback()

	err := NewWorkspaceRepository(db).Delete(uuid.New())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdateRollsBackWhenMoveFails(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("could not serialize access")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "tasks" SET "sort_order"=sort_order`).WillReturnError(boom)
	mock.ExpectRollback()

	task := &models.Task{ID: uuid.New(), ProjectID: uuid.New(), Title: "Edited", Status: models.TaskStatusTodo}
	err := NewTaskRepository(db).Update(task, models.TaskStatusDone)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdateMovesToColumnEnd(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)

	owner := testutil.CreateUser(t, db, "owner", models.RoleMember)
	ws := testutil.CreateWorkspace(t, db, "Team", owner, owner)
	p := testutil.CreateProject(t, db, "Board", ws, owner)
	moving := testutil.CreateTask(t, db, "Moving", p, owner, models.TaskStatusTodo, 0)
	staying := testutil.CreateTask(t, db, "Staying", p, owner, models.TaskStatusTodo, 1)
	testutil.CreateTask(t, db, "Shipped", p, owner, models.TaskStatusDone, 0)

	moving.Title = "Moved"
	require.NoError(t, repo.Update(moving, models.TaskStatusDone))
	assert.Equal(t, 1, moving.Order)

	reloaded, err := repo.FindByID(moving.ID)
	require.NoError(t, err)
	assert.Equal(t, "Moved", reloaded.Title)
	assert.Equal(t, models.TaskStatusDone, reloaded.Status)
	assert.Equal(t, 1, reloaded.Order)

	left, err := repo.FindByID(staying.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, left.Order)
}

func TestTaskItemRepository_SubTaskCounts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskItemRepository(db)

	owner := testutil.CreateUser(t, db, "owner", models.RoleMember)
	ws := testutil.CreateWorkspace(t, db, "Team", owner, owner)
	p := testutil.CreateProject(t, db, "Board", ws, owner)
	busy := testutil.CreateTask(t, db, "Busy", p, owner, models.TaskStatusTodo, 0)
	empty := testutil.CreateTask(t, db, "Empty", p, owner, models.TaskStatusTodo, 1)

	for _, done := range []bool{true, true, false} {
		require.NoError(t, db.Create(&models.SubTask{TaskID: busy.ID, Title: "step", Completed: done}).Error)
	}

	counts, err := repo.SubTaskCounts([]uuid.UUID{busy.ID, empty.ID})
	require.NoError(t, err)
	assert.Equal(t, SubTaskCount{Total: 3, Completed: 2}, counts[busy.ID])
	assert.Equal(t, SubTaskCount{}, counts[empty.ID])

	none, err := repo.SubTaskCounts(nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWorkspaceRepository_Visibility(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewWorkspaceRepository(db)

	owner := testutil.CreateUser(t, db, "owner", models.RoleMember)
	admin := testutil.CreateUser(t, db, "admin", models.RoleWorkspaceAdmin)
	member := testutil.CreateUser(t, db, "member", models.RoleMember)

	first := testutil.CreateWorkspace(t, db, "First", owner, admin)
	second := testutil.CreateWorkspace(t, db, "Second", owner, owner)
	testutil.AddWorkspaceMember(t, db, second, member)

	ids, err := repo.AccessibleIDs(owner.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids)

	ids, err = repo.AdministeredIDs(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, ids)

	workspaces, total, err := repo.List(&member.ID, utils.NewPaginationParams(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, second.ID, workspaces[0].ID)

	require.NoError(t, repo.Delete(second.ID))
	ids, err = repo.AccessibleIDs(member.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = repo.FindByID(second.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWorkspaceRepository_CountMembersByIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewWorkspaceRepository(db)

	owner := testutil.CreateUser(t, db, "owner", models.RoleMember)
	member := testutil.CreateUser(t, db, "member", models.RoleMember)
	stranger := testutil.CreateUser(t, db, "stranger", models.RoleMember)
	ws := testutil.CreateWorkspace(t, db, "Team", owner, owner)
	testutil.AddWorkspaceMember(t, db, ws, member)

	n, err := repo.CountMembersByIDs(ws.ID, testutil.IDs(owner, member, stranger))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, db.Model(member).Update("active", false).Error)
	n, err = repo.CountMembersByIDs(ws.ID, testutil.IDs(owner, member))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTaskRepository_ListAndCount(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)

	owner := testutil.CreateUser(t, db, "owner", models.RoleMember)
	helper := testutil.CreateUser(t, db, "helper", models.RoleMember)
	ws := testutil.CreateWorkspace(t, db, "Team", owner, owner)
	p := testutil.CreateProject(t, db, "Board", ws, owner)

	todo := testutil.CreateTask(t, db, "Todo", p, owner, models.TaskStatusTodo, 0)
	testutil.CreateTask(t, db, "Review", p, owner, models.TaskStatusReview, 0)
	done := testutil.CreateTask(t, db, "Done", p, helper, models.TaskStatusDone, 0)
	testutil.Assign(t, db, todo, helper)

	counts, err := repo.CountBy(TaskFilter{ProjectID: &p.ID}, "status")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Todo": 1, "Review": 1, "Done": 1}, counts)

	mine, total, err := repo.List(TaskFilter{MineUserID: &helper.ID, Page: utils.NewPaginationParams(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []uuid.UUID{todo.ID, done.ID}, []uuid.UUID{mine[0].ID, mine[1].ID})

	visible, total, err := repo.List(TaskFilter{
		Visibility:  &TaskVisibility{UserID: helper.ID},
		ExcludeDone: true,
		Page:        utils.NewPaginationParams(1, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, todo.ID, visible[0].ID)

	assigned, err := repo.IsAssignee(todo.ID, helper.ID)
	require.NoError(t, err)
	assert.True(t, assigned)

	require.NoError(t, repo.UnassignUsers(todo.ID, testutil.IDs(helper)))
	assigned, err = repo.IsAssignee(todo.ID, helper.ID)
	require.NoError(t, err)
	assert.False(t, assigned)
}

func TestProjectRepository_TaskCounts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)

	owner := testutil.CreateUser(t, db, "owner", models.RoleMember)
	ws := testutil.CreateWorkspace(t, db, "Team", owner, owner)
	busy := testutil.CreateProject(t, db, "Busy", ws, owner)
	idle := testutil.CreateProject(t, db, "Idle", ws, owner)

	testutil.CreateTask(t, db, "a", busy, owner, models.TaskStatusTodo, 0)
	testutil.CreateTask(t, db, "b", busy, owner, models.TaskStatusDone, 0)
	testutil.CreateTask(t, db, "c", busy, owner, models.TaskStatusDone, 1)

	counts, err := repo.TaskCounts([]uuid.UUID{busy.ID, idle.ID})
	require.NoError(t, err)
	assert.Equal(t, TaskCount{Total: 3, Completed: 2}, counts[busy.ID])
	assert.Equal(t, TaskCount{}, counts[idle.ID])
}

func TestReportRepository_UniqueDay(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReportRepository(db)

	user := testutil.CreateUser(t, db, "writer", models.RoleMember)
	ws := testutil.CreateWorkspace(t, db, "Team", user, user)
	day := models.DateOnly(time.Now())
	first := testutil.CreateReport(t, db, user, ws, day)

	exists, err := repo.ExistsForDate(user.ID, day.Add(15*time.Hour), nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForDate(user.ID, day, &first.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.Create(&models.DailyReport{
		UserID:          user.ID,
		Date:            day,
		WorkspaceID:     ws.ID,
		WorkDescription: "A second report for the same day",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	n, err := repo.Count(ReportFilter{UserID: &user.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMembershipStore(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewMembershipStore(db)

	owner := testutil.CreateUser(t, db, "owner", models.RoleMember)
	guest := testutil.CreateUser(t, db, "guest", models.RoleMember)
	ws := testutil.CreateWorkspace(t, db, "Team", owner, owner)
	p := testutil.CreateProject(t, db, "Board", ws, owner)
	testutil.AddProjectMember(t, db, p, guest)

	isMember, err := store.IsWorkspaceMember(ws.ID, guest.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	isMember, err = store.IsProjectMember(p.ID, guest.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	found, err := store.FindProject(p.ID)
	require.NoError(t, err)
	assert.Equal(t, ws.ID, found.WorkspaceID)

	_, err = store.FindTask(uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
