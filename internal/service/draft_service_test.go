package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
)

const conflictPath = "POST /api/schedules/check-conflicts"

func loadedFixture(t *testing.T) *consoleFixture {
	t.Helper()
	fx := newConsoleFixture(t)
	_, err := fx.board.Load(context.Background(), testSession)
	require.NoError(t, err)
	fx.hrms.reset()
	return fx
}

func TestDraftOpenDerivesAction(t *testing.T) {
	fx := loadedFixture(t)
	ctx := context.Background()

	cases := map[string]models.RowActionKind{
		"44": models.RowActionAssign,
		"45": models.RowActionEdit,
		"46": models.RowActionAssignSubstitute,
		"47": models.RowActionRestoreOriginal,
	}
	for sisID, want := range cases {
		view, err := fx.drafts.Open(ctx, testSession, OpenDraftRequest{SISID: sisID})
		require.NoError(t, err, sisID)
		assert.Equal(t, want, view.Action, sisID)
		assert.NotEmpty(t, view.ID)
	}
}

func TestDraftOpenRejectsDisabledRow(t *testing.T) {
	fx := loadedFixture(t)
	_, err := fx.drafts.Open(context.Background(), testSession, OpenDraftRequest{SISID: "48"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrActionDisabled.Code, appErrors.FromError(err).Code)
}

func TestDraftOpenValidation(t *testing.T) {
	fx := loadedFixture(t)
	ctx := context.Background()

	_, err := fx.drafts.Open(ctx, testSession, OpenDraftRequest{})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = fx.drafts.Open(ctx, testSession, OpenDraftRequest{SISID: "999"})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = fx.drafts.Open(ctx, testSession, OpenDraftRequest{SISID: "44", Action: "edit"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDraftEditSameFacultyCannotSubmit(t *testing.T) {
	fx := loadedFixture(t)
	ctx := context.Background()

	view, err := fx.drafts.Open(ctx, testSession, OpenDraftRequest{SISID: "45"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), view.SelectedFacultyID)
	assert.False(t, view.Submit.CanSubmit)

	view, err = fx.drafts.SelectFaculty(ctx, testSession, view.ID, SelectFacultyRequest{FacultyID: 3})
	require.NoError(t, err)
	assert.False(t, view.Submit.CanSubmit)
	assert.Zero(t, fx.hrms.count(conflictPath))
}

func TestDraftSelectFacultyChecksConflicts(t *testing.T) {
	fx := loadedFixture(t)
	ctx := context.Background()

	view, err := fx.drafts.Open(ctx, testSession, OpenDraftRequest{SISID: "45"})
	require.NoError(t, err)

	fx.hrms.respond(conflictPath, http.StatusOK, `{"hasConflicts":true,"conflicts":[{"type":"teacher","message":"Cy Lim teaches 10-B at this time"}]}`)
	view, err = fx.drafts.SelectFaculty(ctx, testSession, view.ID, SelectFacultyRequest{FacultyID: 2})
	require.NoError(t, err)
	require.Len(t, view.Conflicts, 1)
	assert.Equal(t, models.ConflictTeacher, view.Conflicts[0].Type)
	assert.False(t, view.CheckingConflicts)
	assert.False(t, view.Submit.CanSubmit)

	body := fx.hrms.jsonBody(t, conflictPath)
	assert.EqualValues(t, 2, body["facultyId"])
	assert.EqualValues(t, 6, body["subjectId"])
	assert.EqualValues(t, 9, body["classSectionId"])
	assert.EqualValues(t, 17, body["scheduleId"])
	assert.Equal(t, "Monday", body["day"])

	fx.hrms.respond(conflictPath, http.StatusOK, `{"hasConflicts":false,"conflicts":[]}`)
	view, err = fx.drafts.SelectFaculty(ctx, testSession, view.ID, SelectFacultyRequest{FacultyID: 4})
	require.NoError(t, err)
	assert.Empty(t, view.Conflicts)
	assert.True(t, view.Submit.CanSubmit)

	stored, err := fx.drafts.Get(ctx, testSession, view.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stored.SelectedFacultyID)
}

func TestDraftConflictCheckFailure(t *testing.T) {
	fx := loadedFixture(t)
	ctx := context.Background()

	view, err := fx.drafts.Open(ctx, testSession, OpenDraftRequest{SISID: "44"})
	require.NoError(t, err)

	fx.hrms.respond(conflictPath, http.StatusInternalServerError, `{"message":"conflict service down"}`)
	view, err = fx.drafts.SelectFaculty(ctx, testSession, view.ID, SelectFacultyRequest{FacultyID: 2})
	require.Error(t, err)
	assert.Equal(t, "conflict service down", appErrors.FromError(err).Message)
	require.NotNil(t, view)
	assert.False(t, view.CheckingConflicts)

	stored, err := fx.drafts.Get(ctx, testSession, view.ID)
	require.NoError(t, err)
	assert.False(t, stored.CheckingConflicts)
	assert.True(t, stored.ConflictCheckFailed)
	assert.Equal(t, int64(2), stored.SelectedFacultyID)
	assert.False(t, stored.Submit.CanSubmit)

	fx.hrms.reset()
	_, err = fx.assignments.Submit(ctx, testSession, view.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSubmitBlocked.Code, appErrors.FromError(err).Code)
	assert.Zero(t, fx.hrms.count("POST /api/schedules/fetch-from-sis/assign-teacher"))

	fx.hrms.respond(conflictPath, http.StatusOK, `{"hasConflicts":false,"conflicts":[]}`)
	stored, err = fx.drafts.SelectFaculty(ctx, testSession, view.ID, SelectFacultyRequest{FacultyID: 2})
	require.NoError(t, err)
	assert.False(t, stored.ConflictCheckFailed)
	assert.True(t, stored.Submit.CanSubmit)
}

func TestDraftRestoreTakesNoSelection(t *testing.T) {
	fx := loadedFixture(t)
	ctx := context.Background()

	view, err := fx.drafts.Open(ctx, testSession, OpenDraftRequest{SISID: "47"})
	require.NoError(t, err)
	assert.True(t, view.Submit.CanSubmit)

	_, err = fx.drafts.SelectFaculty(ctx, testSession, view.ID, SelectFacultyRequest{FacultyID: 2})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDraftAvailableTeachersExcludesCurrent(t *testing.T) {
	fx := loadedFixture(t)
	ctx := context.Background()

	view, err := fx.drafts.Open(ctx, testSession, OpenDraftRequest{SISID: "46"})
	require.NoError(t, err)

	fx.hrms.respond("GET /api/schedules/fetch-from-sis/available-teachers", http.StatusOK,
		`{"availableTeachers":[{"FacultyID":4,"FirstName":"Ben","LastName":"Ortiz"},{"FacultyID":2,"FirstName":"Cy","LastName":"Lim"}]}`)
	teachers, err := fx.drafts.AvailableTeachers(ctx, testSession, view.ID)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, int64(2), teachers[0].FacultyID)
	assert.Contains(t, fx.hrms.queries["GET /api/schedules/fetch-from-sis/available-teachers"], "excludeFacultyId=4")
}

func TestDraftCloseAndMissing(t *testing.T) {
	fx := loadedFixture(t)
	ctx := context.Background()

	view, err := fx.drafts.Open(ctx, testSession, OpenDraftRequest{SISID: "44"})
	require.NoError(t, err)
	require.NoError(t, fx.drafts.Close(ctx, testSession, view.ID))

	_, err = fx.drafts.Get(ctx, testSession, view.ID)
	assert.Equal(t, appErrors.ErrDraftNotFound.Code, appErrors.FromError(err).Code)

	_, err = fx.drafts.Get(ctx, "other", view.ID)
	assert.Error(t, err)
}
