package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/constants"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

const msgRegistrationNotFound = "Registration not found"

// RegistrationFilter narrows registration listings. Zero values match everything.
type RegistrationFilter struct {
	Type     constants.RegistrationType
	Statuses []constants.RegistrationStatus
}

func (f RegistrationFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Type != "" {
		q = q.Where("registrations.registration_type = ?", f.Type)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("registrations.status IN ?", f.Statuses)
	}
	return q
}

// RegistrationRepository handles registrations table operations using GORM
type RegistrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new GORM-based registration repository
func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *RegistrationRepository) WithTx(tx *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: tx}
}

func (r *RegistrationRepository) Create(ctx context.Context, reg *gormModels.Registration) error {
	if err := r.db.WithContext(ctx).Create(reg).Error; err != nil {
		return writeErr("failed to create registration", err, constants.MsgAlreadyInterested)
	}
	return nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*gormModels.Registration, error) {
	var reg gormModels.Registration
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reg).Error; err != nil {
		return nil, readErr("failed to fetch registration", err, msgRegistrationNotFound)
	}
	return &reg, nil
}

// GetByEventAndUser returns the single registration for the pair, NotFound if none.
func (r *RegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*gormModels.Registration, error) {
	var reg gormModels.Registration

	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&reg).Error
	if err != nil {
		return nil, readErr("failed to fetch registration", err, msgRegistrationNotFound)
	}
	return &reg, nil
}

// UpdateIfStatus writes the named columns of changes only while the row still
// has one of the expected statuses. It reports whether the row was changed.
func (r *RegistrationRepository) UpdateIfStatus(ctx context.Context, id string, expected []constants.RegistrationStatus, changes *gormModels.Registration, columns ...string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Registration{}).
		Where("id = ? AND status IN ?", id, expected).
		Select(columns).
		Updates(changes)
	if res.Error != nil {
		return false, writeErr("failed to update registration", res.Error, "")
	}
	return res.RowsAffected == 1, nil
}

func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Registration{}).Error; err != nil {
		return writeErr("failed to delete registration", err, "")
	}
	return nil
}

func (r *RegistrationRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&gormModels.Registration{}).Error; err != nil {
		return writeErr("failed to delete event registrations", err, "")
	}
	return nil
}

func (r *RegistrationRepository) DeleteByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&gormModels.Registration{}).Error; err != nil {
		return writeErr("failed to delete user registrations", err, "")
	}
	return nil
}

// ListByEvent returns the event's registrations with the singer preloaded, newest first.
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string, filter RegistrationFilter) ([]gormModels.Registration, error) {
	var regs []gormModels.Registration

	query := filter.apply(r.db.WithContext(ctx).Where("event_id = ?", eventID))
	err := query.
		Preload("User").
		Order("created_at DESC").
		Find(&regs).Error
	if err != nil {
		return nil, readErr("failed to list event registrations", err, "")
	}
	return regs, nil
}

// ListByUser returns the singer's registrations with event and host preloaded.
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string, filter RegistrationFilter) ([]gormModels.Registration, error) {
	var regs []gormModels.Registration

	query := filter.apply(r.db.WithContext(ctx).Where("user_id = ?", userID))
	err := query.
		Preload("Event.Host", publicProfile).
		Preload("Event.Category").
		Order("created_at DESC").
		Find(&regs).Error
	if err != nil {
		return nil, readErr("failed to list user registrations", err, "")
	}
	return regs, nil
}

func (r *RegistrationRepository) CountByUser(ctx context.Context, userID string, filter RegistrationFilter) (int64, error) {
	var count int64

	query := filter.apply(r.db.WithContext(ctx).Model(&gormModels.Registration{}).Where("user_id = ?", userID))
	if err := query.Count(&count).Error; err != nil {
		return 0, readErr("failed to count user registrations", err, "")
	}
	return count, nil
}

// CountSlotHolders counts the registrations occupying the event's capacity.
func (r *RegistrationRepository) CountSlotHolders(ctx context.Context, eventID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.Registration{}).
		Where("event_id = ? AND status IN ?", eventID, constants.SlotHoldingStatuses).
		Count(&count).Error
	if err != nil {
		return 0, readErr("failed to count slot holders", err, "")
	}
	return count, nil
}

func (r *RegistrationRepository) forHost(ctx context.Context, hostID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&gormModels.Registration{}).
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("events.host_id = ?", hostID)
}

// CountForHost counts registrations across all of the host's events.
// since, when non-zero, restricts to registrations created after it.
func (r *RegistrationRepository) CountForHost(ctx context.Context, hostID string, filter RegistrationFilter, since time.Time) (int64, error) {
	query := filter.apply(r.forHost(ctx, hostID))
	if !since.IsZero() {
		query = query.Where("registrations.created_at >= ?", since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, readErr("failed to count host registrations", err, "")
	}
	return count, nil
}

// ListForHost returns registrations across the host's events, oldest first so
// the queue is worked in arrival order.
func (r *RegistrationRepository) ListForHost(ctx context.Context, hostID string, filter RegistrationFilter) ([]gormModels.Registration, error) {
	var regs []gormModels.Registration

	err := filter.apply(r.forHost(ctx, hostID)).
		Preload("User").
		Preload("Event").
		Order("registrations.created_at ASC").
		Find(&regs).Error
	if err != nil {
		return nil, readErr("failed to list host registrations", err, "")
	}
	return regs, nil
}

// ListUpcomingApproved returns the singer's approved registrations for events
// that have not started yet, soonest first.
func (r *RegistrationRepository) ListUpcomingApproved(ctx context.Context, userID string, now time.Time, limit int) ([]gormModels.Registration, error) {
	var regs []gormModels.Registration

	err := r.db.WithContext(ctx).
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("registrations.user_id = ? AND registrations.status = ? AND events.start_date_time > ?",
			userID, constants.RegistrationStatusApproved, now).
		Preload("Event.Host", publicProfile).
		Order("events.start_date_time ASC").
		Limit(limit).
		Find(&regs).Error
	if err != nil {
		return nil, readErr("failed to list upcoming registrations", err, "")
	}
	return regs, nil
}

// ListDueReminders returns approved registrations whose event starts within
// the window and that have not been reminded yet.
func (r *RegistrationRepository) ListDueReminders(ctx context.Context, now time.Time, window time.Duration) ([]gormModels.Registration, error) {
	var regs []gormModels.Registration

	err := r.db.WithContext(ctx).
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("registrations.status = ? AND registrations.reminder_sent_at IS NULL", constants.RegistrationStatusApproved).
		Where("events.status = ? AND events.start_date_time > ? AND events.start_date_time <= ?",
			constants.EventStatusPublished, now, now.Add(window)).
		Preload("Event").
		Find(&regs).Error
	if err != nil {
		return nil, readErr("failed to list due reminders", err, "")
	}
	return regs, nil
}

// MarkReminderSent stamps the registration; it reports false if another
// worker got there first.
func (r *RegistrationRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Registration{}).
		Where("id = ? AND reminder_sent_at IS NULL", id).
		UpdateColumn("reminder_sent_at", at)
	if res.Error != nil {
		return false, writeErr("failed to mark reminder sent", res.Error, "")
	}
	return res.RowsAffected == 1, nil
}

// SlotEventIDsForUser lists events where the user holds a slot.
func (r *RegistrationRepository) SlotEventIDsForUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&gormModels.Registration{}).
		Where("user_id = ? AND status IN ?", userID, constants.SlotHoldingStatuses).
		Pluck("event_id", &ids).Error
	if err != nil {
		return nil, readErr("failed to list slot events", err, "")
	}
	return ids, nil
}

// EventIDsForUser lists every event the user has a registration for.
func (r *RegistrationRepository) EventIDsForUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&gormModels.Registration{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("event_id", &ids).Error
	if err != nil {
		return nil, readErr("failed to list registered events", err, "")
	}
	return ids, nil
}
