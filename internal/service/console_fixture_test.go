package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-schedule-console/internal/repository"
	"github.com/noah-isme/sis-schedule-console/pkg/hrms"
)

const testSession = "s1"

const sisSchedulesJSON = `{"schedules":[
 {"sisId":"44","hrmsScheduleId":null,"subjectId":5,"subjectName":"Algebra","subjectCode":"MATH101","classSectionId":9,"sectionName":"10-A","day":"Monday","time":"08:00-09:00","room":"R1","duration":"1h","facultyId":null,"isAssigned":false,"syncStatus":"sis-only"},
 {"sisId":45,"hrmsScheduleId":17,"subjectId":6,"subjectName":"Biology","classSectionId":9,"sectionName":"10-A","day":"Monday","time":"09:00-10:00","room":"Lab","duration":60,"facultyId":3,"facultyName":"Ana Cruz","isAssigned":true,"syncStatus":"synced"},
 {"sisId":"46","hrmsScheduleId":18,"subjectId":7,"subjectName":"Chemistry","classSectionId":10,"sectionName":"10-B","day":"Tuesday","time":"10:00-11:00","facultyId":4,"facultyName":"Ben Ortiz","isAssigned":true,"syncStatus":"synced","facultyLeaveStatus":{"isOnLeave":true,"leave":{"LeaveID":1,"LeaveType":"Sick","StartDate":"2026-10-01","EndDate":"2026-10-20","Reason":"flu"}}},
 {"sisId":"47","hrmsScheduleId":19,"subjectId":8,"subjectName":"Physics","classSectionId":10,"sectionName":"10-B","day":"Wednesday","time":"08:00-09:00","facultyId":2,"facultyName":"Cy Lim","isAssigned":true,"syncStatus":"synced","originalFacultyId":4,"originalFacultyName":"Ben Ortiz","shouldRestoreOriginal":true},
 {"sisId":"48","subjectId":null,"subjectName":"History","classSectionId":11,"sectionName":"11-A","day":"Friday","time":"13:00-14:00","isAssigned":false,"syncStatus":"unassigned"}
]}`

const facultyJSON = `[
 {"FacultyID":2,"FirstName":"Cy","LastName":"Lim"},
 {"FacultyID":3,"FirstName":"Ana","LastName":"Cruz"},
 {"FacultyID":4,"FirstName":"Ben","LastName":"Ortiz"}
]`

const hrmsSchedulesJSON = `[{"id":17,"facultyId":3},{"id":18,"facultyId":4},{"id":19,"facultyId":2},{"id":20,"facultyId":3},{"id":21,"facultyId":null}]`

type fakeResponse struct {
	status int
	body   string
}

// fakeHRMS is an in-process HRMS backend that counts hits per "METHOD path".
type fakeHRMS struct {
	mu        sync.Mutex
	hits      map[string]int
	bodies    map[string][]byte
	queries   map[string]string
	responses map[string]fakeResponse
	server    *httptest.Server
}

func newFakeHRMS(t *testing.T) *fakeHRMS {
	t.Helper()
	f := &fakeHRMS{
		hits:    map[string]int{},
		bodies:  map[string][]byte{},
		queries: map[string]string{},
		responses: map[string]fakeResponse{
			"GET /api/schedules/fetch-from-sis": {http.StatusOK, sisSchedulesJSON},
			"GET /api/faculty":                  {http.StatusOK, facultyJSON},
			"GET /api/schedules":                {http.StatusOK, hrmsSchedulesJSON},
		},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeHRMS) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.hits[key]++
	f.bodies[key] = body
	f.queries[key] = r.URL.RawQuery
	resp, ok := f.responses[key]
	f.mu.Unlock()

	if !ok {
		resp = fakeResponse{http.StatusOK, `{"message":"ok"}`}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func (f *fakeHRMS) respond(key string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[key] = fakeResponse{status, body}
}

func (f *fakeHRMS) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeHRMS) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits = map[string]int{}
	f.bodies = map[string][]byte{}
}

func (f *fakeHRMS) jsonBody(t *testing.T, key string) map[string]interface{} {
	t.Helper()
	f.mu.Lock()
	raw := f.bodies[key]
	f.mu.Unlock()
	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %s body: %v", key, err)
	}
	return out
}

type consoleFixture struct {
	hrms        *fakeHRMS
	busy        *BusyTracker
	board       *BoardService
	drafts      *DraftService
	assignments *AssignmentService
	sync        *SyncService
	exports     *ExportService
}

func newConsoleFixture(t *testing.T) *consoleFixture {
	t.Helper()
	fake := newFakeHRMS(t)
	client := hrms.NewClient(hrms.Options{BaseURL: fake.server.URL})
	cache := NewCacheService(repository.NewMemoryCacheRepository(), nil, time.Hour, zap.NewNop())
	busy := NewBusyTracker()

	board := NewBoardService(client, cache, busy, time.Hour, 2, zap.NewNop())
	drafts := NewDraftService(client, board, cache, validator.New(), time.Hour, zap.NewNop())
	return &consoleFixture{
		hrms:        fake,
		busy:        busy,
		board:       board,
		drafts:      drafts,
		assignments: NewAssignmentService(client, drafts, board, busy, nil, zap.NewNop()),
		sync:        NewSyncService(client, board, busy, nil, zap.NewNop()),
		exports:     NewExportService(board, zap.NewNop()),
	}
}

func int64Ptr(v int64) *int64 { return &v }
