package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
)

const (
	boardKeyPrefix = "console:board:"
	maxPageSize    = 100
)

type boardClient interface {
	FetchSISSchedules(ctx context.Context) ([]models.ScheduleRecord, error)
	ListFaculty(ctx context.Context) ([]models.Faculty, error)
	ListSchedules(ctx context.Context) ([]models.HRMSSchedule, error)
}

// BoardService owns the per-session schedule list and faculty roster.
type BoardService struct {
	client     boardClient
	cache      *CacheService
	busy       *BusyTracker
	sessionTTL time.Duration
	pageSize   int
	logger     *zap.Logger
	now        func() time.Time

	// serialises read-modify-write of snapshots within this process
	mu sync.Mutex
}

// NewBoardService instantiates BoardService.
func NewBoardService(client boardClient, cache *CacheService, busy *BusyTracker, sessionTTL time.Duration, pageSize int, logger *zap.Logger) *BoardService {
	if busy == nil {
		busy = NewBusyTracker()
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardService{
		client:     client,
		cache:      cache,
		busy:       busy,
		sessionTTL: sessionTTL,
		pageSize:   pageSize,
		logger:     logger,
		now:        time.Now,
	}
}

// Snapshot returns the session state, empty when nothing was fetched yet.
func (s *BoardService) Snapshot(ctx context.Context, session string) (*models.BoardSnapshot, error) {
	snap := &models.BoardSnapshot{Session: session}
	if _, err := s.cache.Get(ctx, boardKey(session), snap); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load console state")
	}
	return snap, nil
}

// Load is the mount and refresh entry point: schedules and faculty are fetched in parallel
// under the session's loading flag. Each half updates state independently of the other.
func (s *BoardService) Load(ctx context.Context, session string) ([]models.Notice, error) {
	release, err := s.busy.Begin(session, models.OpLoading)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.RefreshAll(ctx, session), nil
}

// RefreshAll re-fetches both the schedule list and faculty roster and reports failures as notices.
func (s *BoardService) RefreshAll(ctx context.Context, session string) []models.Notice {
	var (
		g         errgroup.Group
		schedErr  error
		facultyEr error
	)
	g.Go(func() error {
		schedErr = s.FetchSISSchedules(ctx, session)
		return nil
	})
	g.Go(func() error {
		facultyEr = s.FetchFaculties(ctx, session)
		return nil
	})
	_ = g.Wait()

	var notices []models.Notice
	if schedErr != nil {
		notices = append(notices, models.NewNotice(models.NoticeError, "Failed to fetch SIS schedules: "+appErrors.FromError(schedErr).Message))
	}
	if facultyEr != nil {
		notices = append(notices, models.NewNotice(models.NoticeError, "Failed to fetch faculty: "+appErrors.FromError(facultyEr).Message))
	}
	return notices
}

// FetchSISSchedules replaces the whole schedule list on success and discards the session's
// open drafts, whose row copies now describe the previous list. On failure the previous list
// and drafts are left untouched and the error is returned.
func (s *BoardService) FetchSISSchedules(ctx context.Context, session string) error {
	schedules, err := s.client.FetchSISSchedules(ctx)
	if err != nil {
		s.logger.Warn("fetch sis schedules failed", zap.String("session", session), zap.Error(err))
		return err
	}
	if schedules == nil {
		schedules = []models.ScheduleRecord{}
	}
	fetchedAt := s.now().UTC()
	if err := s.update(ctx, session, func(snap *models.BoardSnapshot) {
		snap.Schedules = schedules
		snap.SchedulesFetchedAt = &fetchedAt
	}); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, draftKeyPrefix+session+":*"); err != nil {
		s.logger.Warn("discard stale drafts failed", zap.String("session", session), zap.Error(err))
	}
	return nil
}

// FetchFaculties loads the roster and HRMS schedules in parallel and attaches the teaching
// load of each faculty member.
func (s *BoardService) FetchFaculties(ctx context.Context, session string) error {
	var (
		faculties []models.Faculty
		schedules []models.HRMSSchedule
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		faculties, err = s.client.ListFaculty(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		schedules, err = s.client.ListSchedules(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("fetch faculties failed", zap.String("session", session), zap.Error(err))
		return err
	}

	faculties = TallyFacultyLoad(faculties, schedules)
	fetchedAt := s.now().UTC()
	return s.update(ctx, session, func(snap *models.BoardSnapshot) {
		snap.Faculties = faculties
		snap.FacultiesFetchedAt = &fetchedAt
	})
}

// TallyFacultyLoad sets Count.Schedules on each faculty to the number of schedules seated on them.
func TallyFacultyLoad(faculties []models.Faculty, schedules []models.HRMSSchedule) []models.Faculty {
	counts := make(map[int64]int, len(faculties))
	for _, sched := range schedules {
		if sched.FacultyID != nil {
			counts[*sched.FacultyID]++
		}
	}
	out := make([]models.Faculty, len(faculties))
	for i, f := range faculties {
		f.Count.Schedules = counts[f.FacultyID]
		out[i] = f
	}
	return out
}

// ListRows filters and paginates the session's schedule list, deriving each row's action.
func (s *BoardService) ListRows(ctx context.Context, session string, filter models.ScheduleListFilter) ([]models.ScheduleRow, *models.Pagination, error) {
	if err := validateListFilter(filter); err != nil {
		return nil, nil, err
	}
	snap, err := s.Snapshot(ctx, session)
	if err != nil {
		return nil, nil, err
	}

	matched := FilterRows(snap.Schedules, filter)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = s.pageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	start := (page - 1) * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(matched)}
	return matched[start:end], pagination, nil
}

// FilterRows applies search, status and action filters without paginating.
func FilterRows(records []models.ScheduleRecord, filter models.ScheduleListFilter) []models.ScheduleRow {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	action := strings.ToLower(strings.TrimSpace(filter.Action))

	rows := make([]models.ScheduleRow, 0, len(records))
	for _, rec := range records {
		if status != "" && status != "all" && string(rec.SyncStatus) != status {
			continue
		}
		if search != "" && !matchesSearch(rec, search) {
			continue
		}
		derived := models.DeriveRowAction(rec)
		if action != "" && action != "all" && string(derived.Kind) != action {
			continue
		}
		rows = append(rows, models.ScheduleRow{ScheduleRecord: rec, Action: derived})
	}
	return rows
}

// Faculties returns the session's roster with derived load.
func (s *BoardService) Faculties(ctx context.Context, session string) ([]models.Faculty, error) {
	snap, err := s.Snapshot(ctx, session)
	if err != nil {
		return nil, err
	}
	return snap.Faculties, nil
}

// Flags exposes the session's in-flight operations.
func (s *BoardService) Flags(session string) map[models.Operation]bool {
	return s.busy.Flags(session)
}

func (s *BoardService) update(ctx context.Context, session string, mutate func(*models.BoardSnapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.Snapshot(ctx, session)
	if err != nil {
		return err
	}
	mutate(snap)
	if err := s.cache.Set(ctx, boardKey(session), snap, s.sessionTTL); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store console state")
	}
	return nil
}

func matchesSearch(rec models.ScheduleRecord, needle string) bool {
	fields := []string{
		rec.SubjectName,
		rec.SubjectCode,
		rec.SectionName,
		rec.FacultyName,
		rec.Instructor,
		rec.Room,
		rec.Day,
		string(rec.SISID),
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func validateListFilter(filter models.ScheduleListFilter) error {
	if status := strings.ToLower(strings.TrimSpace(filter.Status)); status != "" && status != "all" && !models.SyncStatus(status).Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown sync status filter")
	}
	if action := strings.ToLower(strings.TrimSpace(filter.Action)); action != "" && action != "all" && !models.RowActionKind(action).Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown action filter")
	}
	return nil
}

func boardKey(session string) string {
	return boardKeyPrefix + session
}
