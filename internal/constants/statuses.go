package constants

import "database/sql/driver"

type (
	EventStatus        string
	RegistrationType   string
	RegistrationStatus string
	RatingType         string
	NotificationType   string
	VerificationStatus string
)

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

const (
	RegistrationTypeInterested RegistrationType = "interested"
	RegistrationTypeRegistered RegistrationType = "registered"
)

const (
	RegistrationStatusInterested RegistrationStatus = "interested"
	RegistrationStatusPending    RegistrationStatus = "pending"
	RegistrationStatusApproved   RegistrationStatus = "approved"
	RegistrationStatusRejected   RegistrationStatus = "rejected"
	RegistrationStatusAttended   RegistrationStatus = "attended"
)

const (
	RatingTypeKJ RatingType = "kj_rating"
	RatingTypeKS RatingType = "ks_rating"
)

const (
	NotificationTypeRegistration NotificationType = "registration"
	NotificationTypeApproval     NotificationType = "approval"
	NotificationTypeEventUpdate  NotificationType = "event_update"
	NotificationTypeReminder     NotificationType = "reminder"
	NotificationTypeRating       NotificationType = "rating"
)

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

// OpenForRegistration reports whether singers may still register.
func (s EventStatus) OpenForRegistration() bool {
	return s == EventStatusDraft || s == EventStatusPublished
}

func (t RegistrationType) Valid() bool {
	return t == RegistrationTypeInterested || t == RegistrationTypeRegistered
}

// InitialStatus is the status a fresh registration of this type starts in.
func (t RegistrationType) InitialStatus() RegistrationStatus {
	if t == RegistrationTypeInterested {
		return RegistrationStatusInterested
	}
	return RegistrationStatusPending
}

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationStatusInterested, RegistrationStatusPending, RegistrationStatusApproved,
		RegistrationStatusRejected, RegistrationStatusAttended:
		return true
	}
	return false
}

// SlotHoldingStatuses are the statuses counted in an event's approved_count.
// Attendance keeps the slot that approval granted.
var SlotHoldingStatuses = []RegistrationStatus{RegistrationStatusApproved, RegistrationStatusAttended}

// HoldsSlot reports whether the registration occupies one unit of event capacity.
func (s RegistrationStatus) HoldsSlot() bool {
	return s == RegistrationStatusApproved || s == RegistrationStatusAttended
}

func (t RatingType) Valid() bool { return t == RatingTypeKJ || t == RatingTypeKS }

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeRegistration, NotificationTypeApproval, NotificationTypeEventUpdate,
		NotificationTypeReminder, NotificationTypeRating:
		return true
	}
	return false
}

func (s VerificationStatus) Valid() bool {
	return s == VerificationPending || s == VerificationVerified || s == VerificationRejected
}

/* ---------- DB adapters ---------- */

func (s *EventStatus) Scan(src interface{}) error {
	v, err := scanString("EventStatus", src)
	*s = EventStatus(v)
	return err
}
func (s EventStatus) Value() (driver.Value, error) { return string(s), nil }

func (t *RegistrationType) Scan(src interface{}) error {
	v, err := scanString("RegistrationType", src)
	*t = RegistrationType(v)
	return err
}
func (t RegistrationType) Value() (driver.Value, error) { return string(t), nil }

func (s *RegistrationStatus) Scan(src interface{}) error {
	v, err := scanString("RegistrationStatus", src)
	*s = RegistrationStatus(v)
	return err
}
func (s RegistrationStatus) Value() (driver.Value, error) { return string(s), nil }

func (t *RatingType) Scan(src interface{}) error {
	v, err := scanString("RatingType", src)
	*t = RatingType(v)
	return err
}
func (t RatingType) Value() (driver.Value, error) { return string(t), nil }

func (t *NotificationType) Scan(src interface{}) error {
	v, err := scanString("NotificationType", src)
	*t = NotificationType(v)
	return err
}
func (t NotificationType) Value() (driver.Value, error) { return string(t), nil }

func (s *VerificationStatus) Scan(src interface{}) error {
	v, err := scanString("VerificationStatus", src)
	*s = VerificationStatus(v)
	return err
}
func (s VerificationStatus) Value() (driver.Value, error) { return string(s), nil }
