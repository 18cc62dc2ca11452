package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-schedule-console/internal/middleware"
	"github.com/noah-isme/sis-schedule-console/internal/models"
	"github.com/noah-isme/sis-schedule-console/internal/service"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
	"github.com/noah-isme/sis-schedule-console/pkg/response"
)

type draftService interface {
	Open(ctx context.Context, session string, req service.OpenDraftRequest) (*models.DraftView, error)
	Get(ctx context.Context, session, id string) (*models.DraftView, error)
	SelectFaculty(ctx context.Context, session, id string, req service.SelectFacultyRequest) (*models.DraftView, error)
	AvailableTeachers(ctx context.Context, session, id string) ([]models.Faculty, error)
	Close(ctx context.Context, session, id string) error
}

type assignmentService interface {
	Submit(ctx context.Context, session, draftID string) (*service.SubmitResult, error)
}

var auditActionByKind = map[models.RowActionKind]string{
	models.RowActionAssign:           models.AuditActionAssign,
	models.RowActionEdit:             models.AuditActionEdit,
	models.RowActionAssignSubstitute: models.AuditActionSubstitute,
	models.RowActionRestoreOriginal:  models.AuditActionRestore,
}

// DraftHandler serves the action modal lifecycle.
type DraftHandler struct {
	drafts      draftService
	assignments assignmentService
}

// NewDraftHandler constructs a DraftHandler.
func NewDraftHandler(drafts draftService, assignments assignmentService) *DraftHandler {
	return &DraftHandler{drafts: drafts, assignments: assignments}
}

// Open godoc
// @Summary Open the action modal for a schedule row
// @Tags Drafts
// @Accept json
// @Produce json
// @Param X-Console-Session header string false "Console session"
// @Param payload body service.OpenDraftRequest true "Row to act on"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /console/drafts [post]
func (h *DraftHandler) Open(c *gin.Context) {
	session, ok := resolveSession(c)
	if !ok {
		return
	}
	var req service.OpenDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}
	view, err := h.drafts.Open(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// Get godoc
// @Summary Get an open draft with its submit state
// @Tags Drafts
// @Produce json
// @Param X-Console-Session header string false "Console session"
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /console/drafts/{id} [get]
func (h *DraftHandler) Get(c *gin.Context) {
	session, ok := resolveSession(c)
	if !ok {
		return
	}
	view, err := h.drafts.Get(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// SelectFaculty godoc
// @Summary Change the selected faculty and re-check conflicts
// @Tags Drafts
// @Accept json
// @Produce json
// @Param X-Console-Session header string false "Console session"
// @Param id path string true "Draft ID"
// @Param payload body service.SelectFacultyRequest true "Faculty selection"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /console/drafts/{id}/faculty [put]
func (h *DraftHandler) SelectFaculty(c *gin.Context) {
	session, ok := resolveSession(c)
	if !ok {
		return
	}
	var req service.SelectFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid faculty selection"))
		return
	}
	view, err := h.drafts.SelectFaculty(c.Request.Context(), session, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// AvailableTeachers godoc
// @Summary List substitute candidates for the draft's slot
// @Tags Drafts
// @Produce json
// @Param X-Console-Session header string false "Console session"
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /console/drafts/{id}/available-teachers [get]
func (h *DraftHandler) AvailableTeachers(c *gin.Context) {
	session, ok := resolveSession(c)
	if !ok {
		return
	}
	teachers, err := h.drafts.AvailableTeachers(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if teachers == nil {
		teachers = []models.Faculty{}
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// Submit godoc
// @Summary Submit the draft to HRMS
// @Description Dispatches assign, edit, substitute or restore, then refreshes schedules and faculty. The draft stays open on failure.
// @Tags Drafts
// @Produce json
// @Param X-Console-Session header string false "Console session"
// @Param X-Actor header string false "Operator recorded in the audit trail"
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /console/drafts/{id}/submit [post]
func (h *DraftHandler) Submit(c *gin.Context) {
	session, ok := resolveSession(c)
	if !ok {
		return
	}
	result, err := h.assignments.Submit(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.ContextAuditResourceID, result.SISID.String())
	if action, ok := auditActionByKind[result.Action]; ok {
		c.Set(middleware.ContextAuditAction, action)
	}
	response.WithNotices(c, http.StatusOK, result, nil, result.Notices)
}

// Close godoc
// @Summary Discard a draft
// @Tags Drafts
// @Param X-Console-Session header string false "Console session"
// @Param id path string true "Draft ID"
// @Success 204
// @Router /console/drafts/{id} [delete]
func (h *DraftHandler) Close(c *gin.Context) {
	session, ok := resolveSession(c)
	if !ok {
		return
	}
	if err := h.drafts.Close(c.Request.Context(), session, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
