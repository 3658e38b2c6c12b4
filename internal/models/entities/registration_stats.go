package entities

// RegistrationStats is one row of the registration aggregate query.
// Registered counts rows of type registered regardless of status.
type RegistrationStats struct {
	TotalInterested int64 `db:"total_interested" json:"total_interested"`
	TotalRegistered int64 `db:"total_registered" json:"total_registered"`
	TotalApproved   int64 `db:"total_approved" json:"total_approved"`
	TotalPending    int64 `db:"total_pending" json:"total_pending"`
	TotalAttended   int64 `db:"total_attended" json:"total_attended"`
}

// EventRegistrationStats is the grouped variant keyed by event.
type EventRegistrationStats struct {
	EventID string `db:"event_id"`
	RegistrationStats
}
