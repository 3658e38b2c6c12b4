package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/db/repositories"
	"karaoke-events/kjhub/internal/models/dtos"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

// DashboardService builds the role-specific read views.
type DashboardService struct {
	events        *repositories.EventRepository
	registrations *repositories.RegistrationRepository
	stats         *StatsService
	now           func() time.Time
}

func NewDashboardService(events *repositories.EventRepository, registrations *repositories.RegistrationRepository, stats *StatsService) *DashboardService {
	return &DashboardService{
		events:        events,
		registrations: registrations,
		stats:         stats,
		now:           time.Now,
	}
}

// ForUser returns the dashboard matching the user's role.
func (s *DashboardService) ForUser(ctx context.Context, user *gormModels.User) (*dtos.Dashboard, error) {
	d := &dtos.Dashboard{Role: user.Role}

	var err error
	switch user.Role {
	case constants.RoleKJ:
		d.KJ, err = s.KJOverview(ctx, user.ID)
	case constants.RoleKS:
		d.KS, err = s.KSOverview(ctx, user.ID)
	case constants.RolePromoter:
		d.Promoter, err = s.PromoterOverview(ctx, user)
	default:
		return nil, fmt.Errorf("no dashboard for role %q", user.Role)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// KJOverview runs its four reads concurrently.
func (s *DashboardService) KJOverview(ctx context.Context, hostID string) (*dtos.KJOverview, error) {
	now := s.now()
	overview := &dtos.KJOverview{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.events.CountByHost(gctx, hostID)
		overview.TotalEvents = n
		return err
	})
	g.Go(func() error {
		n, err := s.registrations.CountForHost(gctx, hostID, repositories.RegistrationFilter{
			Statuses: []constants.RegistrationStatus{constants.RegistrationStatusPending},
		}, time.Time{})
		overview.PendingRegistrations = n
		return err
	})
	g.Go(func() error {
		events, err := s.events.ListUpcomingPublished(gctx, hostID, now, 0)
		overview.UpcomingEvents = events
		return err
	})
	g.Go(func() error {
		n, err := s.registrations.CountForHost(gctx, hostID, repositories.RegistrationFilter{}, now.Add(-constants.RecentRegistrationsSpan))
		overview.RecentRegistrations = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

// KJRegistrationQueue is every pending request across the host's events, oldest first.
func (s *DashboardService) KJRegistrationQueue(ctx context.Context, hostID string) ([]gormModels.Registration, error) {
	return s.registrations.ListForHost(ctx, hostID, repositories.RegistrationFilter{
		Statuses: []constants.RegistrationStatus{constants.RegistrationStatusPending},
	})
}

// KJEventsWithStats pairs each hosted event with its counts from one grouped query.
func (s *DashboardService) KJEventsWithStats(ctx context.Context, hostID string) ([]dtos.EventWithStats, error) {
	events, err := s.events.ListByHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []dtos.EventWithStats{}, nil
	}

	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	stats, err := s.stats.StatsForEvents(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.EventWithStats, len(events))
	for i, e := range events {
		out[i] = dtos.EventWithStats{Event: e, Stats: stats[e.ID]}
	}
	return out, nil
}

func (s *DashboardService) KSOverview(ctx context.Context, userID string) (*dtos.KSOverview, error) {
	overview := &dtos.KSOverview{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.registrations.CountByUser(gctx, userID, repositories.RegistrationFilter{
			Statuses: []constants.RegistrationStatus{constants.RegistrationStatusPending, constants.RegistrationStatusApproved},
		})
		overview.RegisteredEvents = n
		return err
	})
	g.Go(func() error {
		n, err := s.registrations.CountByUser(gctx, userID, repositories.RegistrationFilter{
			Type: constants.RegistrationTypeInterested,
		})
		overview.InterestedEvents = n
		return err
	})
	g.Go(func() error {
		n, err := s.registrations.CountByUser(gctx, userID, repositories.RegistrationFilter{
			Statuses: []constants.RegistrationStatus{constants.RegistrationStatusAttended},
		})
		overview.AttendedEvents = n
		return err
	})
	g.Go(func() error {
		regs, err := s.registrations.ListUpcomingApproved(gctx, userID, s.now(), constants.UpcomingRegistrations)
		overview.UpcomingRegistrations = regs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

// KSEventHistory is the singer's attended events.
func (s *DashboardService) KSEventHistory(ctx context.Context, userID string) ([]gormModels.Registration, error) {
	return s.registrations.ListByUser(ctx, userID, repositories.RegistrationFilter{
		Statuses: []constants.RegistrationStatus{constants.RegistrationStatusAttended},
	})
}

func (s *DashboardService) KSInterestedEvents(ctx context.Context, userID string) ([]gormModels.Registration, error) {
	return s.registrations.ListByUser(ctx, userID, repositories.RegistrationFilter{
		Type: constants.RegistrationTypeInterested,
	})
}

func (s *DashboardService) PromoterOverview(ctx context.Context, user *gormModels.User) (*dtos.PromoterOverview, error) {
	events, err := s.events.ListUpcomingPublished(ctx, "", s.now(), 0)
	if err != nil {
		return nil, err
	}
	return &dtos.PromoterOverview{
		VerificationStatus: user.VerificationStatus,
		UpcomingEvents:     events,
	}, nil
}
