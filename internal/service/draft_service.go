package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
	"github.com/noah-isme/sis-schedule-console/pkg/hrms"
)

const draftKeyPrefix = "console:draft:"

type draftClient interface {
	CheckConflicts(ctx context.Context, query hrms.ConflictQuery) (*models.ConflictCheck, error)
	AvailableTeachers(ctx context.Context, day, slot string, excludeFacultyID int64) ([]models.Faculty, error)
}

type snapshotReader interface {
	Snapshot(ctx context.Context, session string) (*models.BoardSnapshot, error)
}

// OpenDraftRequest opens the action modal for one row.
type OpenDraftRequest struct {
	SISID  string `json:"sisId" validate:"required"`
	Action string `json:"action" validate:"omitempty,oneof=assign edit assign-substitute restore-original"`
}

// SelectFacultyRequest changes the faculty picked in an open draft.
type SelectFacultyRequest struct {
	FacultyID int64 `json:"facultyId" validate:"required,gt=0"`
}

// DraftService manages open action modals and their conflict checks.
type DraftService struct {
	client    draftClient
	board     snapshotReader
	cache     *CacheService
	validator *validator.Validate
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewDraftService constructs the draft service.
func NewDraftService(client draftClient, board snapshotReader, cache *CacheService, validate *validator.Validate, ttl time.Duration, logger *zap.Logger) *DraftService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{
		client:    client,
		board:     board,
		cache:     cache,
		validator: validate,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Open locates the row in the session's last fetch and stores a draft for its derived action.
func (s *DraftService) Open(ctx context.Context, session string, req OpenDraftRequest) (*models.DraftView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft payload")
	}

	snap, err := s.board.Snapshot(ctx, session)
	if err != nil {
		return nil, err
	}
	row, ok := snap.FindSchedule(models.SISID(req.SISID))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found; refresh the list")
	}

	action := models.DeriveRowAction(row)
	if !action.Enabled {
		return nil, appErrors.Clone(appErrors.ErrActionDisabled, action.Reason)
	}
	if req.Action != "" && models.RowActionKind(req.Action) != action.Kind {
		return nil, appErrors.Clone(appErrors.ErrValidation, "row currently offers "+string(action.Kind))
	}

	now := s.now().UTC()
	draft := &models.ActionDraft{
		ID:        uuid.NewString(),
		Session:   session,
		Action:    action.Kind,
		Row:       row,
		Conflicts: []models.ConflictResult{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	// edit starts from the seated teacher so an untouched modal cannot submit
	if action.Kind == models.RowActionEdit {
		draft.SelectedFacultyID = row.CurrentFacultyID()
	}

	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return viewOf(draft), nil
}

// Get returns the draft with its current submit gate.
func (s *DraftService) Get(ctx context.Context, session, id string) (*models.DraftView, error) {
	draft, err := s.load(ctx, session, id)
	if err != nil {
		return nil, err
	}
	return viewOf(draft), nil
}

// SelectFaculty records the selection and, when it differs from the seated teacher, asks the
// backend for conflicts. Whichever check response is stored last wins. A failed check keeps
// submission closed until the faculty is selected again and the check succeeds.
func (s *DraftService) SelectFaculty(ctx context.Context, session, id string, req SelectFacultyRequest) (*models.DraftView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty selection")
	}
	draft, err := s.load(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if !draft.Action.NeedsFaculty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "restore does not take a faculty selection")
	}

	draft.SelectedFacultyID = req.FacultyID
	if req.FacultyID == draft.Row.CurrentFacultyID() {
		draft.CheckingConflicts = false
		draft.ConflictCheckFailed = false
		draft.Conflicts = []models.ConflictResult{}
		if err := s.save(ctx, draft); err != nil {
			return nil, err
		}
		return viewOf(draft), nil
	}

	draft.CheckingConflicts = true
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}

	check, checkErr := s.client.CheckConflicts(ctx, conflictQuery(draft.Row, req.FacultyID))

	draft.CheckingConflicts = false
	draft.ConflictCheckFailed = checkErr != nil
	draft.Conflicts = []models.ConflictResult{}
	if checkErr != nil {
		s.logger.Warn("conflict check failed",
			zap.String("session", session),
			zap.String("draft_id", id),
			zap.Int64("faculty_id", req.FacultyID),
			zap.Error(checkErr))
	} else if check.Blocking() {
		draft.Conflicts = check.Conflicts
		if len(draft.Conflicts) == 0 {
			draft.Conflicts = []models.ConflictResult{{Message: "schedule conflict reported"}}
		}
	}

	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	if checkErr != nil {
		return viewOf(draft), checkErr
	}
	return viewOf(draft), nil
}

// AvailableTeachers lists substitutes free in the row's slot, excluding the seated teacher.
func (s *DraftService) AvailableTeachers(ctx context.Context, session, id string) ([]models.Faculty, error) {
	draft, err := s.load(ctx, session, id)
	if err != nil {
		return nil, err
	}
	teachers, err := s.client.AvailableTeachers(ctx, draft.Row.Day, draft.Row.Time, draft.Row.CurrentFacultyID())
	if err != nil {
		return nil, err
	}
	current := draft.Row.CurrentFacultyID()
	out := make([]models.Faculty, 0, len(teachers))
	for _, t := range teachers {
		if current != 0 && t.FacultyID == current {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Close discards the draft. Closing an unknown draft is not an error.
func (s *DraftService) Close(ctx context.Context, session, id string) error {
	if err := s.cache.Delete(ctx, draftKey(session, id)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close draft")
	}
	return nil
}

func (s *DraftService) load(ctx context.Context, session, id string) (*models.ActionDraft, error) {
	var draft models.ActionDraft
	hit, err := s.cache.Get(ctx, draftKey(session, id), &draft)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}
	if !hit {
		return nil, appErrors.ErrDraftNotFound
	}
	return &draft, nil
}

func (s *DraftService) save(ctx context.Context, draft *models.ActionDraft) error {
	draft.UpdatedAt = s.now().UTC()
	if err := s.cache.Set(ctx, draftKey(draft.Session, draft.ID), draft, s.ttl); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store draft")
	}
	return nil
}

func conflictQuery(row models.ScheduleRecord, facultyID int64) hrms.ConflictQuery {
	query := hrms.ConflictQuery{
		FacultyID:  facultyID,
		Day:        row.Day,
		Time:       row.Time,
		ScheduleID: row.HRMSScheduleID,
	}
	if row.SubjectID != nil {
		query.SubjectID = *row.SubjectID
	}
	if row.ClassSectionID != nil {
		query.ClassSectionID = *row.ClassSectionID
	}
	return query
}

func viewOf(draft *models.ActionDraft) *models.DraftView {
	return &models.DraftView{ActionDraft: *draft, Submit: draft.Evaluate()}
}

func draftKey(session, id string) string {
	return draftKeyPrefix + session + ":" + id
}
