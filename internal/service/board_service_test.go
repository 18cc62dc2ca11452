package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
)

func TestBoardLoadFetchesSchedulesAndFaculty(t *testing.T) {
	fx := newConsoleFixture(t)
	ctx := context.Background()

	notices, err := fx.board.Load(ctx, testSession)
	require.NoError(t, err)
	assert.Empty(t, notices)

	snap, err := fx.board.Snapshot(ctx, testSession)
	require.NoError(t, err)
	assert.Len(t, snap.Schedules, 5)
	require.Len(t, snap.Faculties, 3)
	assert.NotNil(t, snap.SchedulesFetchedAt)
	assert.NotNil(t, snap.FacultiesFetchedAt)

	load := map[int64]int{}
	for _, f := range snap.Faculties {
		load[f.FacultyID] = f.Count.Schedules
	}
	assert.Equal(t, map[int64]int{2: 1, 3: 2, 4: 1}, load)
	assert.Empty(t, fx.board.Flags(testSession))
}

func TestBoardFetchFailureKeepsPreviousSchedules(t *testing.T) {
	fx := newConsoleFixture(t)
	ctx := context.Background()

	_, err := fx.board.Load(ctx, testSession)
	require.NoError(t, err)

	fx.hrms.respond("GET /api/schedules/fetch-from-sis", http.StatusInternalServerError, `{"error":"SIS timeout"}`)
	notices, err := fx.board.Load(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeError, notices[0].Level)
	assert.Contains(t, notices[0].Message, "SIS timeout")

	snap, err := fx.board.Snapshot(ctx, testSession)
	require.NoError(t, err)
	assert.Len(t, snap.Schedules, 5)
	assert.Len(t, snap.Faculties, 3)
}

func TestBoardFacultyFailureDoesNotBlockSchedules(t *testing.T) {
	fx := newConsoleFixture(t)
	fx.hrms.respond("GET /api/schedules", http.StatusBadGateway, ``)

	notices := fx.board.RefreshAll(context.Background(), testSession)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0].Message, "Failed to fetch faculty")

	snap, err := fx.board.Snapshot(context.Background(), testSession)
	require.NoError(t, err)
	assert.Len(t, snap.Schedules, 5)
	assert.Empty(t, snap.Faculties)
}

func TestBoardLoadRejectsConcurrentLoad(t *testing.T) {
	fx := newConsoleFixture(t)
	release, err := fx.busy.Begin(testSession, models.OpLoading)
	require.NoError(t, err)
	defer release()

	_, err = fx.board.Load(context.Background(), testSession)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBusy.Code, appErrors.FromError(err).Code)
	assert.Zero(t, fx.hrms.count("GET /api/schedules/fetch-from-sis"))

	// other sessions are independent
	_, err = fx.board.Load(context.Background(), "s2")
	require.NoError(t, err)
}

func TestBoardListRowsFiltersAndPaginates(t *testing.T) {
	fx := newConsoleFixture(t)
	ctx := context.Background()
	_, err := fx.board.Load(ctx, testSession)
	require.NoError(t, err)

	rows, page, err := fx.board.ListRows(ctx, testSession, models.ScheduleListFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, 2, page.PageSize)

	rows, page, err = fx.board.ListRows(ctx, testSession, models.ScheduleListFilter{Page: 3})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.SISID("48"), rows[0].SISID)
	assert.False(t, rows[0].Action.Enabled)
	assert.Equal(t, 3, page.Page)

	rows, _, err = fx.board.ListRows(ctx, testSession, models.ScheduleListFilter{Search: "ben ortiz", PageSize: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.RowActionAssignSubstitute, rows[0].Action.Kind)

	rows, _, err = fx.board.ListRows(ctx, testSession, models.ScheduleListFilter{Status: "synced", Action: "restore-original"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.SISID("47"), rows[0].SISID)

	rows, page, err = fx.board.ListRows(ctx, testSession, models.ScheduleListFilter{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 5, page.TotalCount)
}

func TestBoardListRowsRejectsUnknownFilters(t *testing.T) {
	fx := newConsoleFixture(t)
	_, _, err := fx.board.ListRows(context.Background(), testSession, models.ScheduleListFilter{Status: "pending"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, _, err = fx.board.ListRows(context.Background(), testSession, models.ScheduleListFilter{Action: "delete"})
	require.Error(t, err)
}

func TestBoardListRowsEmptySession(t *testing.T) {
	fx := newConsoleFixture(t)
	rows, page, err := fx.board.ListRows(context.Background(), "fresh", models.ScheduleListFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 0, page.TotalCount)
}

func TestBoardParallelFetchesKeepBothHalves(t *testing.T) {
	fx := newConsoleFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _ = fx.board.FetchSISSchedules(ctx, testSession) }()
		go func() { defer wg.Done(); _ = fx.board.FetchFaculties(ctx, testSession) }()
	}
	wg.Wait()

	snap, err := fx.board.Snapshot(ctx, testSession)
	require.NoError(t, err)
	assert.Len(t, snap.Schedules, 5)
	assert.Len(t, snap.Faculties, 3)
}

func TestTallyFacultyLoad(t *testing.T) {
	faculties := []models.Faculty{{FacultyID: 1, Count: models.FacultyCount{Schedules: 99}}, {FacultyID: 2}}
	schedules := []models.HRMSSchedule{{FacultyID: int64Ptr(2)}, {FacultyID: int64Ptr(2)}, {FacultyID: nil}, {FacultyID: int64Ptr(7)}}

	out := TallyFacultyLoad(faculties, schedules)
	assert.Equal(t, 0, out[0].Count.Schedules)
	assert.Equal(t, 2, out[1].Count.Schedules)
	assert.Equal(t, 99, faculties[0].Count.Schedules)
}

func TestFetchSISSchedulesDiscardsSessionDrafts(t *testing.T) {
	fx := loadedFixture(t)
	ctx := context.Background()

	stale, err := fx.drafts.Open(ctx, testSession, OpenDraftRequest{SISID: "44"})
	require.NoError(t, err)

	_, err = fx.board.Load(ctx, "s2")
	require.NoError(t, err)
	other, err := fx.drafts.Open(ctx, "s2", OpenDraftRequest{SISID: "45"})
	require.NoError(t, err)

	require.NoError(t, fx.board.FetchSISSchedules(ctx, testSession))

	_, err = fx.drafts.Get(ctx, testSession, stale.ID)
	assert.Equal(t, appErrors.ErrDraftNotFound.Code, appErrors.FromError(err).Code)
	_, err = fx.drafts.Get(ctx, "s2", other.ID)
	assert.NoError(t, err)
}

func TestFailedFetchKeepsSessionDrafts(t *testing.T) {
	fx := loadedFixture(t)
	ctx := context.Background()

	view, err := fx.drafts.Open(ctx, testSession, OpenDraftRequest{SISID: "44"})
	require.NoError(t, err)

	fx.hrms.respond(fetchSISPath, http.StatusBadGateway, `{"message":"down"}`)
	require.Error(t, fx.board.FetchSISSchedules(ctx, testSession))

	_, err = fx.drafts.Get(ctx, testSession, view.ID)
	assert.NoError(t, err)
}
