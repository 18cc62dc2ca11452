package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
	"github.com/noah-isme/sis-schedule-console/pkg/export"
)

var scheduleExportHeaders = []string{"SIS ID", "Subject", "Section", "Day", "Time", "Room", "Faculty", "Sync Status", "Action"}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
	Rows        int
}

// ExportService renders the filtered schedule board for download.
type ExportService struct {
	board     snapshotReader
	renderers map[string]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with CSV, PDF and XLSX renderers.
func NewExportService(board snapshotReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		board: board,
		renderers: map[string]renderer{
			"csv":  export.NewCSVExporter(),
			"pdf":  export.NewPDFExporter(),
			"xlsx": export.NewXLSXExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Export renders every row matching the filter; pagination is ignored.
func (s *ExportService) Export(ctx context.Context, session, format string, filter models.ScheduleListFilter) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err := validateListFilter(filter); err != nil {
		return nil, err
	}

	snap, err := s.board.Snapshot(ctx, session)
	if err != nil {
		return nil, err
	}
	rows := FilterRows(snap.Schedules, filter)

	now := s.now().UTC()
	dataset := buildScheduleDataset(rows, now)
	payload, err := r.Render(dataset)
	if err != nil {
		s.logger.Error("render schedule export failed", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("sis_schedules_%s.%s", now.Format("20060102_150405"), r.Extension()),
		ContentType: r.ContentType(),
		Payload:     payload,
		Rows:        len(rows),
	}, nil
}

func buildScheduleDataset(rows []models.ScheduleRow, generatedAt time.Time) export.Dataset {
	data := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		action := string(row.Action.Kind)
		if !row.Action.Enabled {
			action += " (disabled)"
		}
		data = append(data, map[string]string{
			"SIS ID":      row.SISID.String(),
			"Subject":     subjectLabel(row.ScheduleRecord),
			"Section":     row.SectionName,
			"Day":         row.Day,
			"Time":        row.Time,
			"Room":        row.Room,
			"Faculty":     row.DisplayFaculty(),
			"Sync Status": string(row.SyncStatus),
			"Action":      action,
		})
	}
	return export.Dataset{
		Title:   "SIS Schedules " + generatedAt.Format("2006-01-02 15:04") + " UTC",
		Headers: scheduleExportHeaders,
		Rows:    data,
	}
}

func subjectLabel(rec models.ScheduleRecord) string {
	if rec.SubjectCode == "" {
		return rec.SubjectName
	}
	if rec.SubjectName == "" {
		return rec.SubjectCode
	}
	return rec.SubjectCode + " " + rec.SubjectName
}
