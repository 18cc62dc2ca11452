package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-schedule-console/internal/middleware"
	"github.com/noah-isme/sis-schedule-console/internal/models"
	"github.com/noah-isme/sis-schedule-console/internal/service"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
	"github.com/noah-isme/sis-schedule-console/pkg/response"
)

type boardService interface {
	Load(ctx context.Context, session string) ([]models.Notice, error)
	ListRows(ctx context.Context, session string, filter models.ScheduleListFilter) ([]models.ScheduleRow, *models.Pagination, error)
	Faculties(ctx context.Context, session string) ([]models.Faculty, error)
	Flags(session string) map[models.Operation]bool
}

type syncService interface {
	SyncSubjectsSections(ctx context.Context, session string, req service.SyncSubjectsSectionsRequest) (*models.SubjectSectionSyncResult, []models.Notice, error)
	SyncExistingAssignments(ctx context.Context, session string) (*models.ExistingAssignmentSyncResult, []models.Notice, error)
}

type exportService interface {
	Export(ctx context.Context, session, format string, filter models.ScheduleListFilter) (*service.ExportFile, error)
}

// ConsoleHandler serves the schedule board, bulk sync and export routes.
type ConsoleHandler struct {
	board   boardService
	sync    syncService
	exports exportService
}

// NewConsoleHandler constructs a ConsoleHandler.
func NewConsoleHandler(board boardService, sync syncService, exports exportService) *ConsoleHandler {
	return &ConsoleHandler{board: board, sync: sync, exports: exports}
}

// ListSchedules godoc
// @Summary List SIS schedules with their row action
// @Tags Console
// @Produce json
// @Param X-Console-Session header string false "Console session"
// @Param search query string false "Search subject, section, faculty, room or day"
// @Param status query string false "synced, hrms-only, sis-only, unassigned or all"
// @Param action query string false "assign, edit, assign-substitute, restore-original or all"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /console/schedules [get]
func (h *ConsoleHandler) ListSchedules(c *gin.Context) {
	session, ok := resolveSession(c)
	if !ok {
		return
	}
	rows, pagination, err := h.board.ListRows(c.Request.Context(), session, listFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination, map[string]interface{}{
		"busy": h.board.Flags(session),
	})
}

// Refresh godoc
// @Summary Fetch schedules and faculty from HRMS
// @Description Runs the schedule and faculty fetches in parallel. Either may fail independently; failures are reported as notices.
// @Tags Console
// @Produce json
// @Param X-Console-Session header string false "Console session"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /console/schedules/refresh [post]
func (h *ConsoleHandler) Refresh(c *gin.Context) {
	session, ok := resolveSession(c)
	if !ok {
		return
	}
	notices, err := h.board.Load(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, pagination, err := h.board.ListRows(c.Request.Context(), session, listFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.WithNotices(c, http.StatusOK, rows, pagination, notices)
}

// ListFaculty godoc
// @Summary List faculty with teaching load
// @Tags Console
// @Produce json
// @Param X-Console-Session header string false "Console session"
// @Success 200 {object} response.Envelope
// @Router /console/faculty [get]
func (h *ConsoleHandler) ListFaculty(c *gin.Context) {
	session, ok := resolveSession(c)
	if !ok {
		return
	}
	faculties, err := h.board.Faculties(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	if faculties == nil {
		faculties = []models.Faculty{}
	}
	response.JSON(c, http.StatusOK, faculties, nil)
}

// Export godoc
// @Summary Download the filtered schedule board
// @Tags Console
// @Produce octet-stream
// @Param X-Console-Session header string false "Console session"
// @Param format query string false "csv, pdf or xlsx"
// @Param search query string false "Search"
// @Param status query string false "Sync status"
// @Param action query string false "Row action"
// @Success 200 {file} file
// @Router /console/schedules/export [get]
func (h *ConsoleHandler) Export(c *gin.Context) {
	session, ok := resolveSession(c)
	if !ok {
		return
	}
	file, err := h.exports.Export(c.Request.Context(), session, c.DefaultQuery("format", "csv"), listFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Payload)
}

// SyncSubjectsSections godoc
// @Summary Import subjects and sections from SIS
// @Tags Console
// @Accept json
// @Produce json
// @Param X-Console-Session header string false "Console session"
// @Param payload body service.SyncSubjectsSectionsRequest false "Sync options"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /console/sync/subjects-sections [post]
func (h *ConsoleHandler) SyncSubjectsSections(c *gin.Context) {
	session, ok := resolveSession(c)
	if !ok {
		return
	}
	var req service.SyncSubjectsSectionsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sync payload"))
			return
		}
	}
	result, notices, err := h.sync.SyncSubjectsSections(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.WithNotices(c, http.StatusOK, result, nil, notices)
}

// SyncExistingAssignments godoc
// @Summary Replay existing SIS teacher assignments into HRMS
// @Tags Console
// @Produce json
// @Param X-Console-Session header string false "Console session"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /console/sync/existing-assignments [post]
func (h *ConsoleHandler) SyncExistingAssignments(c *gin.Context) {
	session, ok := resolveSession(c)
	if !ok {
		return
	}
	result, notices, err := h.sync.SyncExistingAssignments(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.WithNotices(c, http.StatusOK, result, nil, notices)
}

func resolveSession(c *gin.Context) (string, bool) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return "", false
	}
	c.Set(middleware.ContextSession, session)
	return session, true
}
