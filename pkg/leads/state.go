package leads

import "github.com/jordanlanch/leadcrm/pkg/models"

// State is the lifecycle position derived from a lead's fields
type State string

const (
	StateUnassigned    State = "Unassigned"
	StateAssigned      State = "Assigned"
	StateDispositioned State = "Dispositioned"
	StateSuppressed    State = "Suppressed"
)

// StateOf derives the lifecycle state. Do Not Call wins over everything else.
func StateOf(l *models.Lead) State {
	switch {
	case l.IsSuppressed():
		return StateSuppressed
	case !l.IsAssigned():
		return StateUnassigned
	case l.CallDisposition == models.DispositionNone:
		return StateAssigned
	default:
		return StateDispositioned
	}
}
