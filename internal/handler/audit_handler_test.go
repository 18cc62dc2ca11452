package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
)

type auditServiceStub struct {
	filter models.AuditFilter
	err    error
}

func (s *auditServiceStub) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, *models.Pagination, error) {
	s.filter = filter
	if s.err != nil {
		return nil, nil, s.err
	}
	return []models.AuditLog{{ID: "a1", Action: models.AuditActionAssign, NewValues: json.RawMessage(`{"status":200}`)}},
		&models.Pagination{Page: filter.Page, PageSize: 20, TotalCount: 1}, nil
}

func TestAuditHandlerList(t *testing.T) {
	svc := &auditServiceStub{}
	h := NewAuditHandler(svc)

	c, recorder := newTestContext(http.MethodGet, "/api/v1/console/audit?action=SCHEDULE_ASSIGN&session=desk-1&page=2&limit=5", "")
	h.List(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, models.AuditFilter{Action: models.AuditActionAssign, Session: "desk-1", Page: 2, PageSize: 5}, svc.filter)

	env := decodeEnvelope(t, recorder)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Page)
	var logs []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, map[string]interface{}{"status": float64(200)}, logs[0]["new_values"])
}

func TestAuditHandlerListValidationError(t *testing.T) {
	h := NewAuditHandler(&auditServiceStub{err: appErrors.Clone(appErrors.ErrValidation, "unknown audit action X")})

	c, recorder := newTestContext(http.MethodGet, "/api/v1/console/audit?action=X", "")
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, recorder).Error.Code)
}
