package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
	"github.com/noah-isme/sis-schedule-console/pkg/hrms"
)

type assignmentClient interface {
	AssignTeacher(ctx context.Context, req hrms.AssignRequest) (*hrms.MessageResponse, error)
	AssignSubstitute(ctx context.Context, req hrms.AssignRequest) (*hrms.MessageResponse, error)
	UpdateSchedule(ctx context.Context, hrmsScheduleID int64, req hrms.UpdateScheduleRequest) (*hrms.UpdateScheduleResponse, error)
	RestoreOriginalTeacher(ctx context.Context, req hrms.RestoreRequest) (*hrms.MessageResponse, error)
}

type boardRefresher interface {
	RefreshAll(ctx context.Context, session string) []models.Notice
}

// SubmitResult describes a completed mutation.
type SubmitResult struct {
	DraftID string               `json:"draftId"`
	SISID   models.SISID         `json:"sisId"`
	Action  models.RowActionKind `json:"action"`
	Message string               `json:"message"`
	Notices []models.Notice      `json:"-"`
}

// AssignmentService dispatches submitted drafts to the matching HRMS mutation.
type AssignmentService struct {
	client  assignmentClient
	drafts  *DraftService
	board   boardRefresher
	busy    *BusyTracker
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAssignmentService constructs the assignment dispatcher.
func NewAssignmentService(client assignmentClient, drafts *DraftService, board boardRefresher, busy *BusyTracker, metrics *MetricsService, logger *zap.Logger) *AssignmentService {
	if busy == nil {
		busy = NewBusyTracker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		client:  client,
		drafts:  drafts,
		board:   board,
		busy:    busy,
		metrics: metrics,
		logger:  logger,
	}
}

// Submit re-evaluates the draft gate, performs the mutation and refreshes schedules and faculty.
// A failed mutation leaves the draft open.
func (s *AssignmentService) Submit(ctx context.Context, session, draftID string) (*SubmitResult, error) {
	draft, err := s.drafts.load(ctx, session, draftID)
	if err != nil {
		return nil, err
	}
	if gate := draft.Evaluate(); !gate.CanSubmit {
		return nil, appErrors.Clone(appErrors.ErrSubmitBlocked, gate.Reason)
	}

	release, err := s.busy.Begin(session, models.OperationFor(draft.Action))
	if err != nil {
		return nil, err
	}
	defer release()

	message, notices, err := s.dispatch(ctx, draft)
	s.metrics.RecordAction(string(draft.Action), err)
	if err != nil {
		s.logger.Warn("schedule mutation failed",
			zap.String("session", session),
			zap.String("action", string(draft.Action)),
			zap.String("sis_id", draft.Row.SISID.String()),
			zap.Error(err))
		return nil, err
	}

	if closeErr := s.drafts.Close(ctx, session, draftID); closeErr != nil {
		s.logger.Warn("close draft after submit failed", zap.String("draft_id", draftID), zap.Error(closeErr))
	}

	notices = append([]models.Notice{models.NewNotice(models.NoticeSuccess, message)}, notices...)
	notices = append(notices, s.board.RefreshAll(ctx, session)...)

	return &SubmitResult{
		DraftID: draftID,
		SISID:   draft.Row.SISID,
		Action:  draft.Action,
		Message: message,
		Notices: notices,
	}, nil
}

func (s *AssignmentService) dispatch(ctx context.Context, draft *models.ActionDraft) (string, []models.Notice, error) {
	row := draft.Row
	switch draft.Action {
	case models.RowActionAssign:
		resp, err := s.client.AssignTeacher(ctx, assignRequest(row, draft.SelectedFacultyID))
		if err != nil {
			return "", nil, err
		}
		return messageOr(resp, "Teacher assigned successfully"), nil, nil

	case models.RowActionEdit:
		if row.HRMSScheduleID == nil {
			resp, err := s.client.AssignTeacher(ctx, assignRequest(row, draft.SelectedFacultyID))
			if err != nil {
				return "", nil, err
			}
			return messageOr(resp, "Teacher updated successfully"), nil, nil
		}
		resp, err := s.client.UpdateSchedule(ctx, *row.HRMSScheduleID, updateRequest(row, draft.SelectedFacultyID))
		if err != nil {
			return "", nil, err
		}
		message := "Teacher updated successfully"
		if resp != nil && strings.TrimSpace(resp.Message) != "" {
			message = resp.Message
		}
		var notices []models.Notice
		if resp != nil && resp.Sync != nil && !resp.Sync.Synced {
			warning := "Updated in HRMS but not pushed to SIS"
			if resp.Sync.Message != "" {
				warning += ": " + resp.Sync.Message
			}
			notices = append(notices, models.NewNotice(models.NoticeWarning, warning))
		}
		return message, notices, nil

	case models.RowActionAssignSubstitute:
		resp, err := s.client.AssignSubstitute(ctx, assignRequest(row, draft.SelectedFacultyID))
		if err != nil {
			return "", nil, err
		}
		return messageOr(resp, "Substitute teacher assigned successfully"), nil, nil

	case models.RowActionRestoreOriginal:
		resp, err := s.client.RestoreOriginalTeacher(ctx, hrms.RestoreRequest{
			HRMSScheduleID:    row.HRMSScheduleID,
			OriginalFacultyID: *row.OriginalFacultyID,
			SISScheduleID:     row.SISID,
		})
		if err != nil {
			return "", nil, err
		}
		return messageOr(resp, "Original teacher restored successfully"), nil, nil
	}
	return "", nil, appErrors.Clone(appErrors.ErrValidation, "unsupported action "+string(draft.Action))
}

func assignRequest(row models.ScheduleRecord, facultyID int64) hrms.AssignRequest {
	return hrms.AssignRequest{
		SISScheduleID:  row.SISID,
		FacultyID:      facultyID,
		SubjectID:      *row.SubjectID,
		ClassSectionID: *row.ClassSectionID,
		Day:            row.Day,
		Time:           row.Time,
		Duration:       row.Duration,
	}
}

func updateRequest(row models.ScheduleRecord, facultyID int64) hrms.UpdateScheduleRequest {
	return hrms.UpdateScheduleRequest{
		FacultyID:      facultyID,
		SubjectID:      *row.SubjectID,
		ClassSectionID: *row.ClassSectionID,
		Day:            row.Day,
		Time:           row.Time,
		Duration:       row.Duration,
		SISScheduleID:  row.SISID,
	}
}

func messageOr(resp *hrms.MessageResponse, fallback string) string {
	if resp == nil || strings.TrimSpace(resp.Message) == "" {
		return fallback
	}
	return resp.Message
}
