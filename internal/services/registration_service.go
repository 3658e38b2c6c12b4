package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/metrics"
	"karaoke-events/kjhub/internal/models/dtos"
	"karaoke-events/kjhub/internal/models/entities"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

// errStatusMoved is returned inside a transaction when the conditional status
// update found the row in a different status than the one read before.
var errStatusMoved = errors.New("registration status changed concurrently")

var errEventFull = apperr.Conflict("%s", constants.ReasonEventFull)

// RegistrationService is the ledger of singer registrations. Capacity is
// enforced by a conditional increment of events.approved_count inside the
// same transaction as the status change.
type RegistrationService struct {
	db            *gorm.DB
	users         *repositories.UserRepository
	events        *repositories.EventRepository
	registrations *repositories.RegistrationRepository
	stats         *StatsService
	notifier      Notifier
	metrics       *metrics.MetricsRegistry
	now           func() time.Time
}

func NewRegistrationService(
	db *gorm.DB,
	users *repositories.UserRepository,
	events *repositories.EventRepository,
	registrations *repositories.RegistrationRepository,
	stats *StatsService,
	notifier Notifier,
	m *metrics.MetricsRegistry,
) *RegistrationService {
	return &RegistrationService{
		db:            db,
		users:         users,
		events:        events,
		registrations: registrations,
		stats:         stats,
		notifier:      notifier,
		metrics:       m,
		now:           time.Now,
	}
}

// CreateRegistration records interest in or a slot request for an event.
// An existing interest bookmark is upgraded in place when a slot is requested.
func (s *RegistrationService) CreateRegistration(ctx context.Context, eventID, userIdentity string, req dtos.CreateRegistrationRequest) (*gormModels.Registration, error) {
	if !req.RegistrationType.Valid() {
		return nil, apperr.Validation("Registration type must be interested or registered")
	}
	if req.GroupSize == 0 {
		req.GroupSize = 1
	}
	if req.GroupSize < 1 {
		return nil, apperr.Validation("Group size must be at least 1")
	}

	user, err := s.users.GetByIdentity(ctx, userIdentity)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	existing, err := s.registrations.GetByEventAndUser(ctx, event.ID, user.ID)
	switch {
	case err == nil:
		if existing.Status != constants.RegistrationStatusInterested || req.RegistrationType != constants.RegistrationTypeRegistered {
			if existing.RegistrationType == constants.RegistrationTypeRegistered {
				return nil, apperr.Conflict("%s", constants.ReasonAlreadyRegistered)
			}
			return nil, apperr.Conflict("%s", constants.MsgAlreadyInterested)
		}
	case apperr.Is(err, apperr.KindNotFound):
		existing = nil
	default:
		return nil, err
	}

	if req.RegistrationType == constants.RegistrationTypeRegistered {
		if err := s.checkSlotRequest(event, req.SongRequests, req.GroupSize); err != nil {
			return nil, err
		}
	}

	var reg *gormModels.Registration
	var autoApproved bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		regs := s.registrations.WithTx(tx)

		if existing != nil {
			changes := &gormModels.Registration{
				RegistrationType: constants.RegistrationTypeRegistered,
				Status:           constants.RegistrationStatusPending,
				SongRequests:     req.SongRequests,
				GroupSize:        req.GroupSize,
			}
			ok, err := regs.UpdateIfStatus(ctx, existing.ID,
				[]constants.RegistrationStatus{constants.RegistrationStatusInterested},
				changes, "registration_type", "status", "song_requests", "group_size")
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Conflict("%s", constants.ReasonAlreadyRegistered)
			}
			reg = existing
		} else {
			reg = &gormModels.Registration{
				EventID:          event.ID,
				UserID:           user.ID,
				RegistrationType: req.RegistrationType,
				Status:           req.RegistrationType.InitialStatus(),
				SongRequests:     req.SongRequests,
				GroupSize:        req.GroupSize,
			}
			if err := regs.Create(ctx, reg); err != nil {
				return err
			}
		}

		if req.RegistrationType == constants.RegistrationTypeRegistered && event.AutoApprove {
			// A full event leaves the request pending for the host.
			err := s.approveInTx(ctx, tx, reg, constants.RegistrationStatusPending, event.HostID, "")
			switch {
			case err == nil:
				autoApproved = true
			case !errors.Is(err, errEventFull):
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RegistrationsCreatedTotal.WithLabelValues(string(req.RegistrationType)).Inc()
	s.stats.InvalidateEvent(ctx, event.ID)

	if req.RegistrationType == constants.RegistrationTypeRegistered {
		s.notifier.Notify(ctx, Notice{
			UserID:  event.HostID,
			Type:    constants.NotificationTypeRegistration,
			Title:   "New Registration",
			Message: fmt.Sprintf("%s registered for %s", displayName(user), event.Title),
			Data:    map[string]any{"eventId": event.ID, "registrationId": reg.ID},
		})
	}
	if autoApproved {
		s.metrics.RegistrationDecisionsTotal.WithLabelValues("approved").Inc()
		s.notifyDecision(ctx, reg.UserID, event, constants.RegistrationStatusApproved, reg.ID)
	}

	return s.registrations.GetByID(ctx, reg.ID)
}

// UpdateRegistration is the singer-side edit. Stepping back from approved
// frees the slot in the same transaction.
func (s *RegistrationService) UpdateRegistration(ctx context.Context, registrationID, userIdentity string, req dtos.UpdateRegistrationRequest) (*gormModels.Registration, error) {
	user, err := s.users.GetByIdentity(ctx, userIdentity)
	if err != nil {
		return nil, err
	}
	reg, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.UserID != user.ID {
		return nil, apperr.Unauthorized("%s", constants.MsgNotOwner)
	}
	event, err := s.events.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}

	changes := *reg
	columns := []string{}
	if req.SongRequests != nil {
		changes.SongRequests = req.SongRequests
		columns = append(columns, "song_requests")
	}
	if req.GroupSize != nil {
		if *req.GroupSize < 1 {
			return nil, apperr.Validation("Group size must be at least 1")
		}
		changes.GroupSize = *req.GroupSize
		columns = append(columns, "group_size")
	}

	statusChanged := false
	if req.Status != nil && *req.Status != reg.Status {
		next := *req.Status
		if next != constants.RegistrationStatusInterested && next != constants.RegistrationStatusPending {
			return nil, apperr.Validation("Status can only be changed to interested or pending")
		}
		if reg.Status == constants.RegistrationStatusRejected || reg.Status == constants.RegistrationStatusAttended {
			return nil, apperr.Conflict("Registration has already been %s", reg.Status)
		}
		changes.Status = next
		changes.RegistrationType = constants.RegistrationTypeRegistered
		if next == constants.RegistrationStatusInterested {
			changes.RegistrationType = constants.RegistrationTypeInterested
		}
		changes.ApprovedBy = nil
		changes.ApprovedAt = nil
		columns = append(columns, "status", "registration_type", "approved_by", "approved_at")
		statusChanged = true
	}

	switch {
	case statusChanged && changes.Status == constants.RegistrationStatusPending && !reg.Status.HoldsSlot():
		if err := s.checkSlotRequest(event, changes.SongRequests, changes.GroupSize); err != nil {
			return nil, err
		}
	case changes.RegistrationType == constants.RegistrationTypeRegistered && (req.SongRequests != nil || req.GroupSize != nil):
		if err := s.checkSettings(event, changes.SongRequests, changes.GroupSize); err != nil {
			return nil, err
		}
	}
	if len(columns) == 0 {
		return reg, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.registrations.WithTx(tx).UpdateIfStatus(ctx, reg.ID,
			[]constants.RegistrationStatus{reg.Status}, &changes, columns...)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("Registration was changed by someone else, please retry")
		}
		if statusChanged && reg.Status.HoldsSlot() {
			return s.events.WithTx(tx).ReleaseSlot(ctx, reg.EventID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.stats.InvalidateEvent(ctx, reg.EventID)
	if statusChanged {
		s.notifier.Notify(ctx, Notice{
			UserID:  event.HostID,
			Type:    constants.NotificationTypeRegistration,
			Title:   "Registration Updated",
			Message: fmt.Sprintf("%s changed their registration for %s to %s", displayName(user), event.Title, changes.Status),
			Data:    map[string]any{"eventId": event.ID, "registrationId": reg.ID},
		})
	}
	return s.registrations.GetByID(ctx, reg.ID)
}

// DeleteRegistration removes the singer's own registration and frees any slot it held.
func (s *RegistrationService) DeleteRegistration(ctx context.Context, registrationID, userIdentity string) error {
	user, err := s.users.GetByIdentity(ctx, userIdentity)
	if err != nil {
		return err
	}
	reg, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}
	if reg.UserID != user.ID {
		return apperr.Unauthorized("%s", constants.MsgNotOwner)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-read inside the transaction so a concurrent approval is released too.
		current, err := s.registrations.WithTx(tx).GetByID(ctx, reg.ID)
		if err != nil {
			return err
		}
		if err := s.registrations.WithTx(tx).Delete(ctx, current.ID); err != nil {
			return err
		}
		if current.Status.HoldsSlot() {
			return s.events.WithTx(tx).ReleaseSlot(ctx, current.EventID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.stats.InvalidateEvent(ctx, reg.EventID)
	return nil
}

// ApproveRegistration grants a slot. Approving from pending or rejected
// consumes capacity; approving an approved or attended registration is a no-op.
func (s *RegistrationService) ApproveRegistration(ctx context.Context, registrationID, approverIdentity string, req dtos.DecisionRequest) (*gormModels.Registration, error) {
	reg, event, err := s.hostedRegistration(ctx, registrationID, approverIdentity)
	if err != nil {
		return nil, err
	}

	switch reg.Status {
	case constants.RegistrationStatusApproved, constants.RegistrationStatusAttended:
		return reg, nil
	case constants.RegistrationStatusInterested:
		return nil, apperr.Conflict("Interest bookmarks cannot be approved")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.approveInTx(ctx, tx, reg, reg.Status, event.HostID, req.Notes)
	})
	if errors.Is(err, errStatusMoved) {
		return s.settledDecision(ctx, reg.ID, constants.RegistrationStatusApproved, constants.RegistrationStatusAttended)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RegistrationDecisionsTotal.WithLabelValues("approved").Inc()
	s.stats.InvalidateEvent(ctx, event.ID)
	s.notifyDecision(ctx, reg.UserID, event, constants.RegistrationStatusApproved, reg.ID)
	return s.registrations.GetByID(ctx, reg.ID)
}

// RejectRegistration declines a pending request. Rejecting twice is a no-op;
// an approved registration has to be stepped back by the singer instead.
func (s *RegistrationService) RejectRegistration(ctx context.Context, registrationID, approverIdentity string, req dtos.DecisionRequest) (*gormModels.Registration, error) {
	reg, event, err := s.hostedRegistration(ctx, registrationID, approverIdentity)
	if err != nil {
		return nil, err
	}

	switch reg.Status {
	case constants.RegistrationStatusRejected:
		return reg, nil
	case constants.RegistrationStatusPending:
	default:
		return nil, apperr.Conflict("Cannot reject a registration that is %s", reg.Status)
	}

	changes := &gormModels.Registration{
		Status:     constants.RegistrationStatusRejected,
		ApprovedBy: &event.HostID,
		Notes:      req.Notes,
	}
	ok, err := s.registrations.UpdateIfStatus(ctx, reg.ID,
		[]constants.RegistrationStatus{constants.RegistrationStatusPending},
		changes, "status", "approved_by", "notes")
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.settledDecision(ctx, reg.ID, constants.RegistrationStatusRejected)
	}

	s.metrics.RegistrationDecisionsTotal.WithLabelValues("rejected").Inc()
	s.stats.InvalidateEvent(ctx, event.ID)
	s.notifyDecision(ctx, reg.UserID, event, constants.RegistrationStatusRejected, reg.ID)
	return s.registrations.GetByID(ctx, reg.ID)
}

// MarkAttendance records that an approved singer showed up.
func (s *RegistrationService) MarkAttendance(ctx context.Context, registrationID, hostIdentity string) (*gormModels.Registration, error) {
	reg, event, err := s.hostedRegistration(ctx, registrationID, hostIdentity)
	if err != nil {
		return nil, err
	}

	switch reg.Status {
	case constants.RegistrationStatusAttended:
		return reg, nil
	case constants.RegistrationStatusApproved:
	default:
		return nil, apperr.Conflict("Only approved registrations can be marked as attended")
	}

	now := s.now()
	changes := &gormModels.Registration{Status: constants.RegistrationStatusAttended, AttendedAt: &now}
	ok, err := s.registrations.UpdateIfStatus(ctx, reg.ID,
		[]constants.RegistrationStatus{constants.RegistrationStatusApproved},
		changes, "status", "attended_at")
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.settledDecision(ctx, reg.ID, constants.RegistrationStatusAttended)
	}

	s.metrics.RegistrationDecisionsTotal.WithLabelValues("attended").Inc()
	s.stats.InvalidateEvent(ctx, event.ID)
	s.notifier.Notify(ctx, Notice{
		UserID:  reg.UserID,
		Type:    constants.NotificationTypeEventUpdate,
		Title:   "Attendance Confirmed",
		Message: fmt.Sprintf("Thanks for singing at %s", event.Title),
		Data:    map[string]any{"eventId": event.ID, "registrationId": reg.ID},
	})
	return s.registrations.GetByID(ctx, reg.ID)
}

// EventRegistrations lists the event's registrations for its host.
func (s *RegistrationService) EventRegistrations(ctx context.Context, eventID, hostIdentity string, filter repositories.RegistrationFilter) ([]gormModels.Registration, error) {
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
	return s.registrations.ListByEvent(ctx, event.ID, filter)
}

func (s *RegistrationService) UserRegistrations(ctx context.Context, userIdentity string) ([]gormModels.Registration, error) {
	user, err := s.users.GetByIdentity(ctx, userIdentity)
	if err != nil {
		return nil, err
	}
	return s.registrations.ListByUser(ctx, user.ID, repositories.RegistrationFilter{})
}

// CanUserRegister checks, in order, the deadline, capacity and an existing
// slot request. The first failing check supplies the reason.
func (s *RegistrationService) CanUserRegister(ctx context.Context, eventID, userID string) (*dtos.Eligibility, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.DeadlinePassed(s.now()) {
		return &dtos.Eligibility{Reason: constants.ReasonDeadlinePassed}, nil
	}

	held, err := s.registrations.CountSlotHolders(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	if held >= int64(event.Capacity) {
		return &dtos.Eligibility{Reason: constants.ReasonEventFull}, nil
	}

	existing, err := s.registrations.GetByEventAndUser(ctx, event.ID, userID)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	if existing != nil && existing.RegistrationType == constants.RegistrationTypeRegistered {
		return &dtos.Eligibility{Reason: constants.ReasonAlreadyRegistered}, nil
	}

	return &dtos.Eligibility{CanRegister: true}, nil
}

// Stats is the single-query count snapshot for the event.
func (s *RegistrationService) Stats(ctx context.Context, eventID string) (*entities.RegistrationStats, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.stats.EventRegistrationStats(ctx, eventID)
}

// approveInTx reserves a slot and moves the registration from `from` to
// approved. A full event yields errEventFull and a lost race errStatusMoved.
func (s *RegistrationService) approveInTx(ctx context.Context, tx *gorm.DB, reg *gormModels.Registration, from constants.RegistrationStatus, hostID, notes string) error {
	reserved, err := s.events.WithTx(tx).ReserveSlot(ctx, reg.EventID)
	if err != nil {
		return err
	}
	if !reserved {
		s.metrics.CapacityRejectionsTotal.Inc()
		return errEventFull
	}

	now := s.now()
	changes := &gormModels.Registration{
		Status:     constants.RegistrationStatusApproved,
		ApprovedBy: &hostID,
		ApprovedAt: &now,
		Notes:      notes,
	}
	ok, err := s.registrations.WithTx(tx).UpdateIfStatus(ctx, reg.ID,
		[]constants.RegistrationStatus{from}, changes, "status", "approved_by", "approved_at", "notes")
	if err != nil {
		return err
	}
	if !ok {
		return errStatusMoved
	}
	return nil
}

// hostedRegistration loads a registration and its event, checking the caller
// hosts the event.
func (s *RegistrationService) hostedRegistration(ctx context.Context, registrationID, hostIdentity string) (*gormModels.Registration, *gormModels.Event, error) {
	host, err := s.users.GetByIdentity(ctx, hostIdentity)
	if err != nil {
		return nil, nil, err
	}
	reg, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		return nil, nil, err
	}
	event, err := s.events.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, nil, err
	}
	if event.HostID != host.ID {
		return nil, nil, apperr.Unauthorized("%s", constants.MsgNotEventHost)
	}
	return reg, event, nil
}

// settledDecision resolves a lost conditional update: if someone else already
// moved the registration to one of the wanted statuses the call is a no-op.
func (s *RegistrationService) settledDecision(ctx context.Context, registrationID string, wanted ...constants.RegistrationStatus) (*gormModels.Registration, error) {
	current, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	for _, st := range wanted {
		if current.Status == st {
			return current, nil
		}
	}
	return nil, apperr.Conflict("Registration was changed by someone else, please retry")
}

// checkSlotRequest applies the rules a new slot request must pass.
func (s *RegistrationService) checkSlotRequest(event *gormModels.Event, songs []string, groupSize int) error {
	if !event.Status.OpenForRegistration() {
		return apperr.Conflict("%s", constants.ReasonEventClosed)
	}
	if event.DeadlinePassed(s.now()) {
		return apperr.Validation("%s", constants.ReasonDeadlinePassed)
	}
	if event.Full() {
		s.metrics.CapacityRejectionsTotal.Inc()
		return apperr.Conflict("%s", constants.ReasonEventFull)
	}
	return s.checkSettings(event, songs, groupSize)
}

func (s *RegistrationService) checkSettings(event *gormModels.Event, songs []string, groupSize int) error {
	settings := event.RegistrationSettings
	switch {
	case groupSize > 1 && !settings.AllowGroupRegistration:
		return apperr.Validation("Group registration is not allowed for this event")
	case groupSize > settings.MaxGroupSize:
		return apperr.Validation("Group size cannot exceed %d", settings.MaxGroupSize)
	case len(songs) > 0 && !settings.AllowSongRequests:
		return apperr.Validation("Song requests are not allowed for this event")
	case len(songs) == 0 && settings.RequireSongRequests:
		return apperr.Validation("This event requires at least one song request")
	}
	return nil
}

func (s *RegistrationService) notifyDecision(ctx context.Context, singerID string, event *gormModels.Event, status constants.RegistrationStatus, registrationID string) {
	title := "Registration Approved"
	if status == constants.RegistrationStatusRejected {
		title = "Registration Declined"
	}
	s.notifier.Notify(ctx, Notice{
		UserID:  singerID,
		Type:    constants.NotificationTypeApproval,
		Title:   title,
		Message: fmt.Sprintf("Your registration for %s has been %s", event.Title, status),
		Data:    map[string]any{"eventId": event.ID, "registrationId": registrationID, "status": status},
	})
}

func displayName(u *gormModels.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}
