package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
)

func newHRMSStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/schedules/fetch-from-sis":
			_, _ = w.Write([]byte(`{"schedules":[
				{"sisId":1,"subjectId":5,"classSectionId":9,"subjectName":"Algebra","isAssigned":false,"syncStatus":"sis-only"},
				{"sisId":"2","subjectId":6,"classSectionId":9,"subjectName":"Biology","isAssigned":true,"syncStatus":"synced","hrmsScheduleId":11,"facultyId":3}
			]}`))
		case "/api/faculty":
			_, _ = w.Write([]byte(`[{"FacultyID":3,"FirstName":"Ana","LastName":"Cruz"}]`))
		case "/api/schedules":
			_, _ = w.Write([]byte(`[{"id":11,"facultyId":3}]`))
		case "/api/sync/subjects-sections-from-sis":
			_, _ = w.Write([]byte(`{"results":{"subjects":{"created":2,"deleted":0},"sections":{"created":1,"deleted":0}}}`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"message":"down"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return out, cmd.Execute()
}

func TestSchedulesListFiltersByAction(t *testing.T) {
	srv := newHRMSStub(t)

	out, err := runCLI(t, "schedules", "list", "--hrms-url", srv.URL, "--action", "assign")
	require.NoError(t, err)

	var payload struct {
		Total int `json:"total"`
		Rows  []struct {
			SISID  string `json:"sisId"`
			Action struct {
				Kind string `json:"kind"`
			} `json:"action"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, 1, payload.Total)
	require.Len(t, payload.Rows, 1)
	assert.Equal(t, "1", payload.Rows[0].SISID)
	assert.Equal(t, "assign", payload.Rows[0].Action.Kind)
}

func TestSchedulesListRejectsUnknownStatus(t *testing.T) {
	_, err := runCLI(t, "schedules", "list", "--hrms-url", "http://127.0.0.1:1", "--status", "pending")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestFacultyListTalliesLoad(t *testing.T) {
	srv := newHRMSStub(t)

	out, err := runCLI(t, "faculty", "list", "--hrms-url", srv.URL)
	require.NoError(t, err)

	var faculties []struct {
		FacultyID int64 `json:"FacultyID"`
		Count     struct {
			Schedules int `json:"Schedules"`
		} `json:"_count"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &faculties))
	require.Len(t, faculties, 1)
	assert.Equal(t, 1, faculties[0].Count.Schedules)
}

func TestSyncSubjectsSectionsPrintsNotice(t *testing.T) {
	srv := newHRMSStub(t)

	out, err := runCLI(t, "sync", "subjects-sections", "--hrms-url", srv.URL, "--clear")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Sync complete: subjects 2 created, 0 deleted; sections 1 created, 0 deleted")
}

func TestSyncExistingUpstreamFailureExitCode(t *testing.T) {
	srv := newHRMSStub(t)

	_, err := runCLI(t, "sync", "existing-assignments", "--hrms-url", srv.URL)
	require.Error(t, err)
	assert.Equal(t, exitUpstream, exitCode(err))
}

func TestExitCodeClassification(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, exitBusy, exitCode(upstreamErr(appErrors.ErrBusy)))
	assert.Equal(t, exitUsage, exitCode(upstreamErr(appErrors.ErrValidation)))
}
