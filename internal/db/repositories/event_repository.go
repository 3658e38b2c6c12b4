package repositories

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/models/dtos"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

const msgEventNotFound = "Event not found"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EventRepository handles events table operations using GORM
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new GORM-based event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *EventRepository) WithTx(tx *gorm.DB) *EventRepository {
	return &EventRepository{db: tx}
}

func (r *EventRepository) Create(ctx context.Context, event *gormModels.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return writeErr("failed to create event", err, "")
	}
	return nil
}

// GetByID retrieves an event with its host and category preloaded
func (r *EventRepository) GetByID(ctx context.Context, id string) (*gormModels.Event, error) {
	var event gormModels.Event

	err := r.db.WithContext(ctx).
		Preload("Host", publicProfile).
		Preload("Category").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, readErr("failed to fetch event", err, msgEventNotFound)
	}
	return &event, nil
}

func (r *EventRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Event{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return writeErr("failed to update event", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return readErr("failed to update event", gorm.ErrRecordNotFound, msgEventNotFound)
	}
	return nil
}

// UpdateColumns writes the named columns from event. Associations are never saved.
func (r *EventRepository) UpdateColumns(ctx context.Context, event *gormModels.Event, columns ...string) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.Event{ID: event.ID}).
		Select(columns).
		Omit(clause.Associations).
		Updates(event).Error
	if err != nil {
		return writeErr("failed to update event", err, "")
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Event{})
	if res.Error != nil {
		return writeErr("failed to delete event", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return readErr("failed to delete event", gorm.ErrRecordNotFound, msgEventNotFound)
	}
	return nil
}

// List filters by case-insensitive title substring and exact category name,
// newest first. It returns the page and the total number of matches.
func (r *EventRepository) List(ctx context.Context, q dtos.EventListQuery) ([]gormModels.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&gormModels.Event{})

	if q.Query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Query)) + "%"
		query = query.Where(`LOWER(events.title) LIKE ? ESCAPE '\'`, pattern)
	}
	if q.Category != "" {
		query = query.
			Joins("JOIN categories ON categories.id = events.category_id").
			Where("categories.name = ?", q.Category)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, readErr("failed to count events", err, "")
	}

	var events []gormModels.Event
	err := query.
		Preload("Host", publicProfile).
		Preload("Category").
		Order("events.created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, readErr("failed to list events", err, "")
	}
	return events, total, nil
}

func (r *EventRepository) ListByHost(ctx context.Context, hostID string) ([]gormModels.Event, error) {
	var events []gormModels.Event

	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("host_id = ?", hostID).
		Order("start_date_time DESC").
		Find(&events).Error
	if err != nil {
		return nil, readErr("failed to list host events", err, "")
	}
	return events, nil
}

// ListRelated returns other events in the same category.
func (r *EventRepository) ListRelated(ctx context.Context, categoryID, excludeID string, page, limit int) ([]gormModels.Event, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&gormModels.Event{}).
		Where("category_id = ? AND id <> ?", categoryID, excludeID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, readErr("failed to count related events", err, "")
	}

	var events []gormModels.Event
	err := query.
		Preload("Host", publicProfile).
		Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, readErr("failed to list related events", err, "")
	}
	return events, total, nil
}

// ListUpcomingPublished returns published events starting after now. An
// empty hostID means every host and a zero limit means no limit.
func (r *EventRepository) ListUpcomingPublished(ctx context.Context, hostID string, now time.Time, limit int) ([]gormModels.Event, error) {
	query := r.db.WithContext(ctx).
		Preload("Host", publicProfile).
		Preload("Category").
		Where("status = ? AND start_date_time > ?", constants.EventStatusPublished, now)
	if hostID != "" {
		query = query.Where("host_id = ?", hostID)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}

	var events []gormModels.Event
	if err := query.Order("start_date_time ASC").Find(&events).Error; err != nil {
		return nil, readErr("failed to list upcoming events", err, "")
	}
	return events, nil
}

func (r *EventRepository) CountByHost(ctx context.Context, hostID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Event{}).
		Where("host_id = ?", hostID).
		Count(&count).Error
	if err != nil {
		return 0, readErr("failed to count host events", err, "")
	}
	return count, nil
}

// ReserveSlot atomically takes one unit of capacity. It reports false when the
// event is already full.
func (r *EventRepository) ReserveSlot(ctx context.Context, eventID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Event{}).
		Where("id = ? AND approved_count < capacity", eventID).
		UpdateColumn("approved_count", gorm.Expr("approved_count + 1"))
	if res.Error != nil {
		return false, writeErr("failed to reserve event slot", res.Error, "")
	}
	return res.RowsAffected == 1, nil
}

// ReleaseSlot gives back one unit of capacity.
func (r *EventRepository) ReleaseSlot(ctx context.Context, eventID string) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Event{}).
		Where("id = ? AND approved_count > 0", eventID).
		UpdateColumn("approved_count", gorm.Expr("approved_count - 1"))
	if res.Error != nil {
		return writeErr("failed to release event slot", res.Error, "")
	}
	return nil
}

// CompleteEnded marks published events whose end time has passed as completed.
func (r *EventRepository) CompleteEnded(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Event{}).
		Where("status = ? AND end_date_time < ?", constants.EventStatusPublished, now).
		Update("status", constants.EventStatusCompleted)
	if res.Error != nil {
		return 0, writeErr("failed to complete ended events", res.Error, "")
	}
	return res.RowsAffected, nil
}
