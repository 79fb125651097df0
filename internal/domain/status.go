package domain

// Status represents the lifecycle status of an SPV
type Status string

const (
	// StatusDraft is the initial status of every SPV
	StatusDraft Status = "draft"
	// StatusApproved is reached when a complete submission goes through
	StatusApproved Status = "approved"
	// StatusRejected is set by an admin rejecting the deal
	StatusRejected Status = "rejected"
	// StatusInProgress is set by an admin while the deal is being worked
	StatusInProgress Status = "in progress"
)

// AllStatuses lists every valid lifecycle status
var AllStatuses = []Status{
	StatusDraft,
	StatusApproved,
	StatusRejected,
	StatusInProgress,
}

// Valid reports whether s is one of the defined lifecycle statuses.
// No particular status-to-status edge is forbidden; this single check is the
// only transition validation the workflow engine performs.
func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
