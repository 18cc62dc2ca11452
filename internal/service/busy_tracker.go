package service

import (
	"sync"

	"github.com/noah-isme/sis-schedule-console/internal/models"
	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
)

// BusyTracker holds the independent in-flight flags of each session. Different operations
// may run concurrently; the same operation may not be re-triggered while its flag is set.
type BusyTracker struct {
	mu    sync.Mutex
	flags map[string]map[models.Operation]bool
}

// NewBusyTracker constructs an empty tracker.
func NewBusyTracker() *BusyTracker {
	return &BusyTracker{flags: make(map[string]map[models.Operation]bool)}
}

// Begin sets the flag and returns its release func, or ErrBusy when already set.
func (t *BusyTracker) Begin(session string, op models.Operation) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ops := t.flags[session]
	if ops == nil {
		ops = make(map[models.Operation]bool)
		t.flags[session] = ops
	}
	if ops[op] {
		return nil, appErrors.Clone(appErrors.ErrBusy, string(op)+" already in progress")
	}
	ops[op] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.flags[session], op)
			if len(t.flags[session]) == 0 {
				delete(t.flags, session)
			}
		})
	}, nil
}

// Flags returns a copy of the flags currently set for the session.
func (t *BusyTracker) Flags(session string) map[models.Operation]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[models.Operation]bool, len(t.flags[session]))
	for op, on := range t.flags[session] {
		out[op] = on
	}
	return out
}
