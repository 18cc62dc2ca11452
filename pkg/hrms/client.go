package hrms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
)

const (
	pathFetchFromSIS       = "/api/schedules/fetch-from-sis"
	pathSyncExisting       = "/api/schedules/fetch-from-sis/sync-existing"
	pathAvailableTeachers  = "/api/schedules/fetch-from-sis/available-teachers"
	pathAssignTeacher      = "/api/schedules/fetch-from-sis/assign-teacher"
	pathAssignSubstitute   = "/api/schedules/fetch-from-sis/assign-substitute"
	pathRestoreOriginal    = "/api/schedules/fetch-from-sis/restore-original-teacher"
	pathSchedules          = "/api/schedules"
	pathCheckConflicts     = "/api/schedules/check-conflicts"
	routeScheduleByID      = "/api/schedules/:id"
	pathFaculty            = "/api/faculty"
	pathSyncSubjectSection = "/api/sync/subjects-sections-from-sis"

	genericFailure = "request to HRMS backend failed"
)

// Observer receives timing for each upstream call.
type Observer interface {
	ObserveUpstream(endpoint string, status int, duration time.Duration)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout of zero leaves the HTTP client without a deadline.
	Timeout    time.Duration
	HTTPClient *http.Client
	Observer   Observer
	Logger     *zap.Logger
}

// Client is a typed wrapper over the HRMS REST endpoints used by the schedule console.
type Client struct {
	baseURL  string
	http     *http.Client
	observer Observer
	logger   *zap.Logger
}

// NewClient constructs a Client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     httpClient,
		observer: opts.Observer,
		logger:   logger,
	}
}

// AssignRequest is the tuple posted for fresh and substitute assignments.
type AssignRequest struct {
	SISScheduleID  models.SISID            `json:"sisScheduleId"`
	FacultyID      int64                   `json:"facultyId"`
	SubjectID      int64                   `json:"subjectId"`
	ClassSectionID int64                   `json:"classSectionId"`
	Day            string                  `json:"day"`
	Time           string                  `json:"time"`
	Duration       models.ScheduleDuration `json:"duration"`
}

// UpdateScheduleRequest edits a schedule already mirrored in HRMS.
type UpdateScheduleRequest struct {
	FacultyID      int64                   `json:"facultyId"`
	SubjectID      int64                   `json:"subjectId"`
	ClassSectionID int64                   `json:"classSectionId"`
	Day            string                  `json:"day"`
	Time           string                  `json:"time"`
	Duration       models.ScheduleDuration `json:"duration"`
	SISScheduleID  models.SISID            `json:"sisScheduleId,omitempty"`
}

// RestoreRequest reverts a substituted slot to its original teacher.
type RestoreRequest struct {
	HRMSScheduleID    *int64       `json:"hrmsScheduleId"`
	OriginalFacultyID int64        `json:"originalFacultyId"`
	SISScheduleID     models.SISID `json:"sisScheduleId"`
}

// ConflictQuery describes a candidate assignment.
type ConflictQuery struct {
	FacultyID      int64  `json:"facultyId"`
	SubjectID      int64  `json:"subjectId"`
	ClassSectionID int64  `json:"classSectionId"`
	Day            string `json:"day"`
	Time           string `json:"time"`
	ScheduleID     *int64 `json:"scheduleId,omitempty"`
}

// MessageResponse carries the backend acknowledgement text.
type MessageResponse struct {
	Message string `json:"message"`
}

// SISPushResult reports whether an edit was pushed back to SIS.
type SISPushResult struct {
	Synced  bool   `json:"synced"`
	Message string `json:"message"`
}

// UpdateScheduleResponse is returned by PUT /api/schedules/:id.
type UpdateScheduleResponse struct {
	Message string         `json:"message,omitempty"`
	Sync    *SISPushResult `json:"sync,omitempty"`
}

type fetchSchedulesResponse struct {
	Schedules []models.ScheduleRecord `json:"schedules"`
}

type availableTeachersResponse struct {
	AvailableTeachers []models.Faculty `json:"availableTeachers"`
}

// FetchSISSchedules returns the merged SIS/HRMS schedule view.
func (c *Client) FetchSISSchedules(ctx context.Context) ([]models.ScheduleRecord, error) {
	var out fetchSchedulesResponse
	if err := c.do(ctx, http.MethodGet, pathFetchFromSIS, pathFetchFromSIS, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Schedules, nil
}

// ListFaculty returns the faculty roster.
func (c *Client) ListFaculty(ctx context.Context) ([]models.Faculty, error) {
	var out []models.Faculty
	if err := c.do(ctx, http.MethodGet, pathFaculty, pathFaculty, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSchedules returns every HRMS schedule; used to tally teaching load.
func (c *Client) ListSchedules(ctx context.Context) ([]models.HRMSSchedule, error) {
	var out []models.HRMSSchedule
	if err := c.do(ctx, http.MethodGet, pathSchedules, pathSchedules, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SyncSubjectsSections mirrors SIS subjects and sections into HRMS.
func (c *Client) SyncSubjectsSections(ctx context.Context, clearExisting bool) (*models.SubjectSectionSyncResult, error) {
	body := map[string]bool{"clearExisting": clearExisting}
	var out models.SubjectSectionSyncResult
	if err := c.do(ctx, http.MethodPost, pathSyncSubjectSection, pathSyncSubjectSection, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SyncExistingAssignments pushes existing HRMS assignments to SIS.
func (c *Client) SyncExistingAssignments(ctx context.Context) (*models.ExistingAssignmentSyncResult, error) {
	var out models.ExistingAssignmentSyncResult
	if err := c.do(ctx, http.MethodPost, pathSyncExisting, pathSyncExisting, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AvailableTeachers lists faculty free for the given slot.
func (c *Client) AvailableTeachers(ctx context.Context, day, slot string, excludeFacultyID int64) ([]models.Faculty, error) {
	query := url.Values{}
	query.Set("day", day)
	query.Set("time", slot)
	if excludeFacultyID > 0 {
		query.Set("excludeFacultyId", strconv.FormatInt(excludeFacultyID, 10))
	}
	var out availableTeachersResponse
	if err := c.do(ctx, http.MethodGet, pathAvailableTeachers, pathAvailableTeachers, query, nil, &out); err != nil {
		return nil, err
	}
	return out.AvailableTeachers, nil
}

// AssignTeacher seats a teacher on an SIS schedule.
func (c *Client) AssignTeacher(ctx context.Context, req AssignRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, pathAssignTeacher, pathAssignTeacher, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignSubstitute seats a substitute while the regular teacher is on leave.
func (c *Client) AssignSubstitute(ctx context.Context, req AssignRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, pathAssignSubstitute, pathAssignSubstitute, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSchedule edits an HRMS schedule; the backend forwards the change to SIS.
func (c *Client) UpdateSchedule(ctx context.Context, hrmsScheduleID int64, req UpdateScheduleRequest) (*UpdateScheduleResponse, error) {
	var out UpdateScheduleResponse
	path := pathSchedules + "/" + strconv.FormatInt(hrmsScheduleID, 10)
	if err := c.do(ctx, http.MethodPut, routeScheduleByID, path, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RestoreOriginalTeacher reverts a substitution.
func (c *Client) RestoreOriginalTeacher(ctx context.Context, req RestoreRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, pathRestoreOriginal, pathRestoreOriginal, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckConflicts asks the backend whether the candidate collides with existing schedules.
func (c *Client) CheckConflicts(ctx context.Context, query ConflictQuery) (*models.ConflictCheck, error) {
	var out models.ConflictCheck
	if err := c.do(ctx, http.MethodPost, pathCheckConflicts, pathCheckConflicts, nil, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one request against path. route is its template and labels the upstream metric.
func (c *Client) do(ctx context.Context, method, route, path string, query url.Values, body, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode HRMS request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build HRMS request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.observe(route, http.StatusServiceUnavailable, duration)
		c.logger.Warn("hrms request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
	}
	defer resp.Body.Close()
	c.observe(route, resp.StatusCode, duration)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "failed to read HRMS response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstreamErr := decodeError(resp.StatusCode, raw)
		c.logger.Warn("hrms request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", upstreamErr.Message),
		)
		return upstreamErr
	}

	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "unexpected HRMS response payload")
	}
	return nil
}

func (c *Client) observe(route string, status int, duration time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(route, status, duration)
	}
}

// StatusError carries the backend's HTTP status for a rejected call.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hrms responded %d: %s", e.StatusCode, e.Message)
}

// decodeError maps a non-2xx response onto the console error taxonomy: a JSON `{error}` body
// surfaces its text, anything else falls back to a generic message.
func decodeError(status int, raw []byte) *appErrors.Error {
	message := genericFailure
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case strings.TrimSpace(body.Error) != "":
			message = strings.TrimSpace(body.Error)
		case strings.TrimSpace(body.Message) != "":
			message = strings.TrimSpace(body.Message)
		}
	}

	respStatus := appErrors.ErrUpstream.Status
	if status >= 400 && status < 500 {
		respStatus = status
	}
	return appErrors.Wrap(&StatusError{StatusCode: status, Message: message}, appErrors.ErrUpstream.Code, respStatus, message)
}

// UpstreamStatus extracts the backend status code from an error returned by Client.
func UpstreamStatus(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}
