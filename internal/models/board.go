package models

import "time"

// BoardSnapshot is the per-session console state: the last successful fetches.
type BoardSnapshot struct {
	Session            string           `json:"session"`
	Schedules          []ScheduleRecord `json:"schedules"`
	Faculties          []Faculty        `json:"faculties"`
	SchedulesFetchedAt *time.Time       `json:"schedulesFetchedAt,omitempty"`
	FacultiesFetchedAt *time.Time       `json:"facultiesFetchedAt,omitempty"`
}

// FindSchedule returns the row with the given SIS id.
func (b *BoardSnapshot) FindSchedule(id SISID) (ScheduleRecord, bool) {
	if b == nil {
		return ScheduleRecord{}, false
	}
	for _, rec := range b.Schedules {
		if rec.SISID == id {
			return rec, true
		}
	}
	return ScheduleRecord{}, false
}

// Operation names a console activity with its own busy flag.
type Operation string

const (
	OpLoading         Operation = "loading"
	OpSyncing         Operation = "syncing"
	OpSyncingExisting Operation = "syncingExisting"
	OpAssigning       Operation = "assigning"
	OpSubstituting    Operation = "substituting"
	OpEditingFaculty  Operation = "editingFaculty"
	OpRestoring       Operation = "restoring"
)

// OperationFor maps a row action to the busy flag it holds while submitting.
func OperationFor(kind RowActionKind) Operation {
	switch kind {
	case RowActionEdit:
		return OpEditingFaculty
	case RowActionAssignSubstitute:
		return OpSubstituting
	case RowActionRestoreOriginal:
		return OpRestoring
	default:
		return OpAssigning
	}
}
