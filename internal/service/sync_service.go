package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
	"github.com/noah-isme/sis-schedule-console/pkg/jobs"
)

// JobTypeSyncExisting is the background job that replays SIS assignments into HRMS.
const JobTypeSyncExisting = "sync-existing"

type syncClient interface {
	SyncSubjectsSections(ctx context.Context, clearExisting bool) (*models.SubjectSectionSyncResult, error)
	SyncExistingAssignments(ctx context.Context) (*models.ExistingAssignmentSyncResult, error)
}

type scheduleFetcher interface {
	FetchSISSchedules(ctx context.Context, session string) error
}

// SyncSubjectsSectionsRequest is the payload of the subjects/sections sync.
type SyncSubjectsSectionsRequest struct {
	ClearExisting bool `json:"clearExisting"`
}

// SyncService runs the bulk SIS sync actions.
type SyncService struct {
	client  syncClient
	board   scheduleFetcher
	busy    *BusyTracker
	metrics *MetricsService
	logger  *zap.Logger
}

// NewSyncService constructs the sync service.
func NewSyncService(client syncClient, board scheduleFetcher, busy *BusyTracker, metrics *MetricsService, logger *zap.Logger) *SyncService {
	if busy == nil {
		busy = NewBusyTracker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{client: client, board: board, busy: busy, metrics: metrics, logger: logger}
}

// SyncSubjectsSections imports subjects and sections from SIS and refreshes the schedule list.
func (s *SyncService) SyncSubjectsSections(ctx context.Context, session string, req SyncSubjectsSectionsRequest) (*models.SubjectSectionSyncResult, []models.Notice, error) {
	release, err := s.busy.Begin(session, models.OpSyncing)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	result, err := s.client.SyncSubjectsSections(ctx, req.ClearExisting)
	s.metrics.RecordAction(string(models.OpSyncing), err)
	if err != nil {
		s.logger.Warn("subjects/sections sync failed", zap.String("session", session), zap.Error(err))
		return nil, nil, err
	}

	r := result.Results
	notices := []models.Notice{models.NewNotice(models.NoticeSuccess, fmt.Sprintf(
		"Sync complete: subjects %d created, %d deleted; sections %d created, %d deleted",
		r.Subjects.Created, r.Subjects.Deleted, r.Sections.Created, r.Sections.Deleted,
	))}
	notices = append(notices, s.refresh(ctx, session)...)
	return result, notices, nil
}

// SyncExistingAssignments replays SIS teacher assignments into HRMS and refreshes the schedule list.
func (s *SyncService) SyncExistingAssignments(ctx context.Context, session string) (*models.ExistingAssignmentSyncResult, []models.Notice, error) {
	release, err := s.busy.Begin(session, models.OpSyncingExisting)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	result, err := s.client.SyncExistingAssignments(ctx)
	s.metrics.RecordAction(string(models.OpSyncingExisting), err)
	if err != nil {
		s.logger.Warn("existing assignment sync failed", zap.String("session", session), zap.Error(err))
		return nil, nil, err
	}

	level := models.NoticeSuccess
	if !result.Success || result.Summary.Errors > 0 {
		level = models.NoticeWarning
	}
	sum := result.Summary
	notices := []models.Notice{models.NewNotice(level, fmt.Sprintf(
		"Synced %d assignments, %d skipped, %d errors", sum.Synced, sum.Skipped, sum.Errors,
	))}
	notices = append(notices, s.refresh(ctx, session)...)
	return result, notices, nil
}

// HandleJob is the queue handler for scheduled syncs. Errors are retried by the queue.
func (s *SyncService) HandleJob(ctx context.Context, job jobs.Job) error {
	switch job.Type {
	case JobTypeSyncExisting:
		result, notices, err := s.SyncExistingAssignments(ctx, job.Session)
		if err != nil {
			return err
		}
		s.logger.Info("scheduled sync finished",
			zap.String("job_id", job.ID),
			zap.Int("synced", result.Summary.Synced),
			zap.Int("skipped", result.Summary.Skipped),
			zap.Int("errors", result.Summary.Errors),
			zap.Int("notices", len(notices)))
		return nil
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown job type "+job.Type)
	}
}

func (s *SyncService) refresh(ctx context.Context, session string) []models.Notice {
	if err := s.board.FetchSISSchedules(ctx, session); err != nil {
		return []models.Notice{models.NewNotice(models.NoticeError, "Failed to fetch SIS schedules: "+appErrors.FromError(err).Message)}
	}
	return nil
}
