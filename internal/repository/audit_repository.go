package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-schedule-console/internal/models"
)

const auditSchema = `CREATE TABLE IF NOT EXISTS console_audit_logs (
	id          UUID PRIMARY KEY,
	actor       TEXT NULL,
	session     TEXT NOT NULL,
	action      TEXT NOT NULL,
	resource    TEXT NOT NULL,
	resource_id TEXT NULL,
	new_values  JSONB NULL,
	ip_address  TEXT NOT NULL DEFAULT '',
	user_agent  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_console_audit_logs_created_at ON console_audit_logs (created_at DESC)`

// QueryObserver receives query timings.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// AuditRepository persists console audit entries.
type AuditRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewAuditRepository constructs the repository. observer may be nil.
func NewAuditRepository(db *sqlx.DB, observer QueryObserver) *AuditRepository {
	return &AuditRepository{db: db, observer: observer}
}

// EnsureSchema creates the audit table when missing.
func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	defer r.observe("audit_ensure_schema", time.Now())
	if _, err := r.db.ExecContext(ctx, auditSchema); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

// Ping checks database connectivity for readiness probes.
func (r *AuditRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateAuditLog stores an audit log entry.
func (r *AuditRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	defer r.observe("audit_create", time.Now())
	const query = `INSERT INTO console_audit_logs (id, actor, session, action, resource, resource_id, new_values, ip_address, user_agent, created_at) VALUES (:id, :actor, :session, :action, :resource, :resource_id, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// List returns audit entries newest first.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error) {
	defer r.observe("audit_list", time.Now())
	base := "FROM console_audit_logs WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Action != "" {
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)+1))
		args = append(args, filter.Action)
	}
	if filter.Session != "" {
		conditions = append(conditions, fmt.Sprintf("session = $%d", len(args)+1))
		args = append(args, filter.Session)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, actor, session, action, resource, resource_id, new_values, ip_address, user_agent, created_at %s ORDER BY created_at DESC LIMIT %d OFFSET %d", base, size, offset)
	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	return logs, total, nil
}

func (r *AuditRepository) observe(label string, start time.Time) {
	if r.observer != nil {
		r.observer.ObserveDBQuery(label, time.Since(start))
	}
}
