package models

// RowActionKind is the single action affordance shown for a schedule row.
type RowActionKind string

const (
	RowActionAssign           RowActionKind = "assign"
	RowActionEdit             RowActionKind = "edit"
	RowActionAssignSubstitute RowActionKind = "assign-substitute"
	RowActionRestoreOriginal  RowActionKind = "restore-original"
)

// Valid reports whether the kind is a known action.
func (k RowActionKind) Valid() bool {
	switch k {
	case RowActionAssign, RowActionEdit, RowActionAssignSubstitute, RowActionRestoreOriginal:
		return true
	}
	return false
}

// NeedsFaculty reports whether the action requires a faculty selection before submit.
func (k RowActionKind) NeedsFaculty() bool {
	return k != RowActionRestoreOriginal
}

// RowAction is derived from the fetched flags on every read; it is never stored.
type RowAction struct {
	Kind    RowActionKind `json:"kind"`
	Enabled bool          `json:"enabled"`
	Reason  string        `json:"reason,omitempty"`
}

// DeriveRowAction maps (isAssigned, shouldRestoreOriginal, isOnLeave) to exactly one action.
// Rows missing a subject or section id are never enabled.
func DeriveRowAction(r ScheduleRecord) RowAction {
	var kind RowActionKind
	switch {
	case !r.IsAssigned:
		kind = RowActionAssign
	case r.ShouldRestoreOriginal:
		kind = RowActionRestoreOriginal
	case r.OnLeave():
		kind = RowActionAssignSubstitute
	default:
		kind = RowActionEdit
	}

	action := RowAction{Kind: kind, Enabled: r.Actionable()}
	if !action.Enabled {
		action.Reason = "subject or section not yet synced into HRMS"
	}
	return action
}

// ScheduleRow pairs a record with its derived action for presentation.
type ScheduleRow struct {
	ScheduleRecord
	Action RowAction `json:"action"`
}
