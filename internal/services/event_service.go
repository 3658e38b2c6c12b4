package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/models/dtos"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

// EventService is the catalog of events and categories. Only the owning host
// may change an event.
type EventService struct {
	db            *gorm.DB
	users         *repositories.UserRepository
	events        *repositories.EventRepository
	categories    *repositories.CategoryRepository
	registrations *repositories.RegistrationRepository
	ratings       *repositories.RatingRepository
	stats         *StatsService
	notifier      Notifier
}

func NewEventService(
	db *gorm.DB,
	users *repositories.UserRepository,
	events *repositories.EventRepository,
	categories *repositories.CategoryRepository,
	registrations *repositories.RegistrationRepository,
	ratings *repositories.RatingRepository,
	stats *StatsService,
	notifier Notifier,
) *EventService {
	return &EventService{
		db:            db,
		users:         users,
		events:        events,
		categories:    categories,
		registrations: registrations,
		ratings:       ratings,
		stats:         stats,
		notifier:      notifier,
	}
}

// CreateEvent stores a new event owned by the calling KJ. Status defaults to draft.
func (s *EventService) CreateEvent(ctx context.Context, hostIdentity string, req dtos.CreateEventRequest) (*gormModels.Event, error) {
	host, err := s.users.GetByIdentity(ctx, hostIdentity)
	if err != nil {
		return nil, err
	}
	if !host.Role.IsHost() {
		return nil, apperr.Unauthorized("Only KJs can create events")
	}

	if err := validateEventFields(req.Title, req.Description, req.Location, req.Capacity, req.StartDateTime, req.EndDateTime); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	settings := defaultRegistrationSettings()
	if err := applyRegistrationSettings(&settings, req.RegistrationSettings); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = constants.EventStatusDraft
	}
	if status != constants.EventStatusDraft && status != constants.EventStatusPublished {
		return nil, apperr.Validation("New events must be draft or published")
	}

	event := &gormModels.Event{
		Title:                strings.TrimSpace(req.Title),
		Description:          strings.TrimSpace(req.Description),
		Location:             strings.TrimSpace(req.Location),
		ImageURL:             req.ImageURL,
		StartDateTime:        req.StartDateTime,
		EndDateTime:          req.EndDateTime,
		Price:                req.Price,
		IsFree:               req.IsFree,
		EventURL:             req.EventURL,
		CategoryID:           req.CategoryID,
		HostID:               host.ID,
		Capacity:             req.Capacity,
		RegistrationDeadline: req.RegistrationDeadline,
		AutoApprove:          req.AutoApprove,
		Equipment:            req.Equipment,
		SongList:             req.SongList,
		RegistrationSettings: settings,
		Status:               status,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return s.events.GetByID(ctx, event.ID)
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*gormModels.Event, error) {
	return s.events.GetByID(ctx, id)
}

// UpdateEvent applies a partial update. Capacity and deadline changes are not
// enforced against registrations that already exist.
func (s *EventService) UpdateEvent(ctx context.Context, hostIdentity, eventID string, req dtos.UpdateEventRequest) (*gormModels.Event, error) {
	event, err := s.ownedEvent(ctx, hostIdentity, eventID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		event.Location = strings.TrimSpace(*req.Location)
	}
	if req.ImageURL != nil {
		event.ImageURL = *req.ImageURL
	}
	if req.StartDateTime != nil {
		event.StartDateTime = *req.StartDateTime
	}
	if req.EndDateTime != nil {
		event.EndDateTime = *req.EndDateTime
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if req.IsFree != nil {
		event.IsFree = *req.IsFree
	}
	if req.EventURL != nil {
		event.EventURL = *req.EventURL
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
	if req.RegistrationDeadline != nil {
		event.RegistrationDeadline = req.RegistrationDeadline
	}
	if req.AutoApprove != nil {
		event.AutoApprove = *req.AutoApprove
	}
	if req.Equipment != nil {
		event.Equipment = req.Equipment
	}
	if req.SongList != nil {
		event.SongList = req.SongList
	}
	if req.CategoryID != nil && *req.CategoryID != event.CategoryID {
		if _, err := s.categories.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		event.CategoryID = *req.CategoryID
	}
	if err := validateEventFields(event.Title, event.Description, event.Location, event.Capacity, event.StartDateTime, event.EndDateTime); err != nil {
		return nil, err
	}
	if err := applyRegistrationSettings(&event.RegistrationSettings, req.RegistrationSettings); err != nil {
		return nil, err
	}

	// approved_count and status are owned by the ledger and the status path.
	err = s.events.UpdateColumns(ctx, event, editableEventColumns...)
	if err != nil {
		return nil, err
	}
	return s.events.GetByID(ctx, event.ID)
}

// UpdateEventStatus moves the event through its lifecycle. Cancelling tells
// every singer holding or requesting a slot.
func (s *EventService) UpdateEventStatus(ctx context.Context, hostIdentity, eventID string, status constants.EventStatus) (*gormModels.Event, error) {
	if !status.Valid() {
		return nil, apperr.Validation("Unknown event status %q", status)
	}

	event, err := s.ownedEvent(ctx, hostIdentity, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == status {
		return event, nil
	}
	if event.Status == constants.EventStatusCancelled || event.Status == constants.EventStatusCompleted {
		return nil, apperr.Conflict("Event is already %s", event.Status)
	}

	if err := s.events.Update(ctx, event.ID, map[string]any{"status": status}); err != nil {
		return nil, err
	}

	if status == constants.EventStatusCancelled {
		s.notifyCancelled(ctx, event)
	}
	return s.events.GetByID(ctx, event.ID)
}

// DeleteEvent removes the event together with its registrations and ratings.
func (s *EventService) DeleteEvent(ctx context.Context, hostIdentity, eventID string) error {
	event, err := s.ownedEvent(ctx, hostIdentity, eventID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.registrations.WithTx(tx).DeleteByEvent(ctx, event.ID); err != nil {
			return err
		}
		if err := s.ratings.WithTx(tx).DeleteByEvent(ctx, event.ID); err != nil {
			return err
		}
		return s.events.WithTx(tx).Delete(ctx, event.ID)
	})
	if err != nil {
		return err
	}

	s.stats.InvalidateEvent(ctx, event.ID)
	return nil
}

func (s *EventService) ListEvents(ctx context.Context, q dtos.EventListQuery) (*dtos.PagedEvents, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = constants.DefaultEventPageSize
	}

	events, total, err := s.events.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &dtos.PagedEvents{Data: events, TotalPages: common.TotalPages(total, q.Limit)}, nil
}

func (s *EventService) EventsByHost(ctx context.Context, hostID string) ([]gormModels.Event, error) {
	return s.events.ListByHost(ctx, hostID)
}

func (s *EventService) RelatedEvents(ctx context.Context, eventID string, page, limit int) (*dtos.PagedEvents, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = constants.DefaultEventPageSize
	}

	events, total, err := s.events.ListRelated(ctx, event.CategoryID, event.ID, page, limit)
	if err != nil {
		return nil, err
	}
	return &dtos.PagedEvents{Data: events, TotalPages: common.TotalPages(total, limit)}, nil
}

func (s *EventService) CreateCategory(ctx context.Context, name string) (*gormModels.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Category name is required")
	}

	category := &gormModels.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *EventService) ListCategories(ctx context.Context) ([]gormModels.Category, error) {
	return s.categories.List(ctx)
}

// ownedEvent loads the event and checks the caller is its host.
func (s *EventService) ownedEvent(ctx context.Context, hostIdentity, eventID string) (*gormModels.Event, error) {
	host, err := s.users.GetByIdentity(ctx, hostIdentity)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HostID != host.ID {
		return nil, apperr.Unauthorized("%s", constants.MsgNotEventHost)
	}
	return event, nil
}

func (s *EventService) notifyCancelled(ctx context.Context, event *gormModels.Event) {
	regs, err := s.registrations.ListByEvent(ctx, event.ID, repositories.RegistrationFilter{
		Statuses: []constants.RegistrationStatus{constants.RegistrationStatusPending, constants.RegistrationStatusApproved},
	})
	if err != nil {
		return
	}
	for _, reg := range regs {
		s.notifier.Notify(ctx, Notice{
			UserID:  reg.UserID,
			Type:    constants.NotificationTypeEventUpdate,
			Title:   "Event Cancelled",
			Message: "The event \"" + event.Title + "\" has been cancelled by the KJ",
			Data:    map[string]any{"eventId": event.ID},
		})
	}
}

var editableEventColumns = []string{
	"title", "description", "location", "image_url", "start_date_time", "end_date_time",
	"price", "is_free", "event_url", "category_id", "capacity", "registration_deadline",
	"auto_approve", "equipment", "song_list",
	"reg_allow_group_registration", "reg_max_group_size", "reg_require_song_requests", "reg_allow_song_requests",
}

func validateEventFields(title, description, location string, capacity int, start, end time.Time) error {
	switch {
	case strings.TrimSpace(title) == "":
		return apperr.Validation("Title is required")
	case strings.TrimSpace(description) == "":
		return apperr.Validation("Description is required")
	case strings.TrimSpace(location) == "":
		return apperr.Validation("Location is required")
	case capacity < 1:
		return apperr.Validation("Capacity must be at least 1")
	case start.IsZero() || end.IsZero():
		return apperr.Validation("Start and end time are required")
	case end.Before(start):
		return apperr.Validation("End time must not be before start time")
	}
	return nil
}

func defaultRegistrationSettings() gormModels.RegistrationSettings {
	return gormModels.RegistrationSettings{
		AllowGroupRegistration: true,
		MaxGroupSize:           constants.DefaultMaxGroupSize,
		RequireSongRequests:    false,
		AllowSongRequests:      true,
	}
}

func applyRegistrationSettings(dst *gormModels.RegistrationSettings, req *dtos.RegistrationSettingsRequest) error {
	if req == nil {
		return nil
	}
	if req.AllowGroupRegistration != nil {
		dst.AllowGroupRegistration = *req.AllowGroupRegistration
	}
	if req.MaxGroupSize != nil {
		if *req.MaxGroupSize < 1 || *req.MaxGroupSize > constants.MaxGroupSizeLimit {
			return apperr.Validation("Max group size must be between 1 and %d", constants.MaxGroupSizeLimit)
		}
		dst.MaxGroupSize = *req.MaxGroupSize
	}
	if req.RequireSongRequests != nil {
		dst.RequireSongRequests = *req.RequireSongRequests
	}
	if req.AllowSongRequests != nil {
		dst.AllowSongRequests = *req.AllowSongRequests
	}
	if dst.RequireSongRequests && !dst.AllowSongRequests {
		return apperr.Validation("Song requests cannot be required when they are not allowed")
	}
	return nil
}
