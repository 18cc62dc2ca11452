package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
)

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 100
)

var knownAuditActions = map[string]struct{}{
	models.AuditActionAssign:          {},
	models.AuditActionEdit:            {},
	models.AuditActionSubstitute:      {},
	models.AuditActionRestore:         {},
	models.AuditActionSubmitDraft:     {},
	models.AuditActionSyncSubjects:    {},
	models.AuditActionSyncAssignments: {},
}

type auditLister interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error)
}

// AuditService reads the console audit trail.
type AuditService struct {
	repo   auditLister
	logger *zap.Logger
}

// NewAuditService constructs the audit reader.
func NewAuditService(repo auditLister, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// List returns audit entries newest first with pagination.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, *models.Pagination, error) {
	filter.Action = strings.ToUpper(strings.TrimSpace(filter.Action))
	filter.Session = strings.TrimSpace(filter.Session)
	if filter.Action != "" {
		if _, ok := knownAuditActions[filter.Action]; !ok {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown audit action "+filter.Action)
		}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultAuditPageSize
	}
	if filter.PageSize > maxAuditPageSize {
		filter.PageSize = maxAuditPageSize
	}

	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list audit logs failed", zap.Error(err))
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return logs, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}
