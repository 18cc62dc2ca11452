package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	"github.com/noah-isme/sis-schedule-console/internal/service"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
)

type boardStub struct {
	session string
	filter  models.ScheduleListFilter
	loadErr error
	notices []models.Notice
	rows    []models.ScheduleRow
}

func (s *boardStub) Load(ctx context.Context, session string) ([]models.Notice, error) {
	s.session = session
	return s.notices, s.loadErr
}

func (s *boardStub) ListRows(ctx context.Context, session string, filter models.ScheduleListFilter) ([]models.ScheduleRow, *models.Pagination, error) {
	s.session = session
	s.filter = filter
	return s.rows, &models.Pagination{Page: 1, PageSize: 10, TotalCount: len(s.rows)}, nil
}

func (s *boardStub) Faculties(ctx context.Context, session string) ([]models.Faculty, error) {
	return nil, nil
}

func (s *boardStub) Flags(session string) map[models.Operation]bool {
	return map[models.Operation]bool{models.OpSyncing: true}
}

type syncStub struct {
	clear bool
	err   error
}

func (s *syncStub) SyncSubjectsSections(ctx context.Context, session string, req service.SyncSubjectsSectionsRequest) (*models.SubjectSectionSyncResult, []models.Notice, error) {
	s.clear = req.ClearExisting
	if s.err != nil {
		return nil, nil, s.err
	}
	return &models.SubjectSectionSyncResult{}, []models.Notice{models.NewNotice(models.NoticeSuccess, "done")}, nil
}

func (s *syncStub) SyncExistingAssignments(ctx context.Context, session string) (*models.ExistingAssignmentSyncResult, []models.Notice, error) {
	return nil, nil, s.err
}

type exportStub struct{ format string }

func (s *exportStub) Export(ctx context.Context, session, format string, filter models.ScheduleListFilter) (*service.ExportFile, error) {
	s.format = format
	return &service.ExportFile{Filename: "sis_schedules.csv", ContentType: "text/csv; charset=utf-8", Payload: []byte("SIS ID\n44\n")}, nil
}

type envelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *appErrors.Error       `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env))
	return env
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, recorder
}

func TestConsoleListSchedulesParsesFilter(t *testing.T) {
	board := &boardStub{rows: []models.ScheduleRow{{ScheduleRecord: models.ScheduleRecord{SISID: "44"}}}}
	h := NewConsoleHandler(board, &syncStub{}, &exportStub{})

	c, recorder := newTestContext(http.MethodGet, "/console/schedules?search=%20alg%20&status=synced&action=edit&page=2&limit=5", "")
	c.Request.Header.Set(SessionHeader, "room-7")
	h.ListSchedules(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "room-7", board.session)
	assert.Equal(t, models.ScheduleListFilter{Search: "alg", Status: "synced", Action: "edit", Page: 2, PageSize: 5}, board.filter)

	env := decodeEnvelope(t, recorder)
	assert.Equal(t, 1, env.Pagination.TotalCount)
	assert.Equal(t, map[string]interface{}{"syncing": true}, env.Meta["busy"])
}

func TestConsoleRejectsBadSession(t *testing.T) {
	h := NewConsoleHandler(&boardStub{}, &syncStub{}, &exportStub{})

	c, recorder := newTestContext(http.MethodGet, "/console/schedules", "")
	c.Request.Header.Set(SessionHeader, "../etc")
	h.ListSchedules(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestConsoleRefreshReturnsNotices(t *testing.T) {
	board := &boardStub{notices: []models.Notice{models.NewNotice(models.NoticeError, "Failed to fetch faculty: boom")}}
	h := NewConsoleHandler(board, &syncStub{}, &exportStub{})

	c, recorder := newTestContext(http.MethodPost, "/console/schedules/refresh", "")
	h.Refresh(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "default", board.session)
	env := decodeEnvelope(t, recorder)
	notices, ok := env.Meta["notices"].([]interface{})
	require.True(t, ok)
	require.Len(t, notices, 1)
}

func TestConsoleRefreshBusy(t *testing.T) {
	board := &boardStub{loadErr: appErrors.Clone(appErrors.ErrBusy, "loading already in progress")}
	h := NewConsoleHandler(board, &syncStub{}, &exportStub{})

	c, recorder := newTestContext(http.MethodPost, "/console/schedules/refresh", "")
	h.Refresh(c)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	env := decodeEnvelope(t, recorder)
	assert.Equal(t, "BUSY", env.Error.Code)
}

func TestConsoleSyncSubjectsSections(t *testing.T) {
	sync := &syncStub{}
	h := NewConsoleHandler(&boardStub{}, sync, &exportStub{})

	c, recorder := newTestContext(http.MethodPost, "/console/sync/subjects-sections", `{"clearExisting":true}`)
	h.SyncSubjectsSections(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, sync.clear)

	c, recorder = newTestContext(http.MethodPost, "/console/sync/subjects-sections", "")
	h.SyncSubjectsSections(c)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, sync.clear)
}

func TestConsoleSyncUpstreamError(t *testing.T) {
	sync := &syncStub{err: appErrors.New(appErrors.ErrUpstream.Code, http.StatusBadGateway, "SIS auth failed")}
	h := NewConsoleHandler(&boardStub{}, sync, &exportStub{})

	c, recorder := newTestContext(http.MethodPost, "/console/sync/existing-assignments", "")
	h.SyncExistingAssignments(c)

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	env := decodeEnvelope(t, recorder)
	assert.Equal(t, "SIS auth failed", env.Error.Message)
	require.Contains(t, env.Meta, "notices")
}

func TestConsoleExport(t *testing.T) {
	exports := &exportStub{}
	h := NewConsoleHandler(&boardStub{}, &syncStub{}, exports)

	c, recorder := newTestContext(http.MethodGet, "/console/schedules/export?format=csv", "")
	h.Export(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "csv", exports.format)
	assert.Equal(t, `attachment; filename="sis_schedules.csv"`, recorder.Header().Get("Content-Disposition"))
	assert.Equal(t, "SIS ID\n44\n", recorder.Body.String())
}
