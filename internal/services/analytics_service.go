package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/hotelsuite/pms-backend/internal/booking"
	"github.com/hotelsuite/pms-backend/internal/cache"
	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	dashboardDays   = 7
	latestBookings  = 5
	dashboardPrefix = "dashboard:"
)

// AnalyticsService builds the front-desk dashboard
type AnalyticsService struct {
	analytics    AnalyticsStore
	reservations ReservationStore
	cache        cache.Cache
	ttl          time.Duration
	clock        clock.Clock
	logger       *logrus.Logger
}

// NewAnalyticsService creates a new analytics service. Pass cache.Noop{} to disable caching.
func NewAnalyticsService(
	analytics AnalyticsStore,
	reservations ReservationStore,
	c cache.Cache,
	ttl time.Duration,
	clk clock.Clock,
	logger *logrus.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		analytics:    analytics,
		reservations: reservations,
		cache:        c,
		ttl:          ttl,
		clock:        clk,
		logger:       logger,
	}
}

func dashboardKey(actor Actor, today time.Time) string {
	scope := "all"
	if actor.HotelID != nil {
		scope = actor.HotelID.String()
	}
	return dashboardPrefix + scope + ":" + booking.FormatDate(today)
}

// Dashboard returns the dashboard, served from cache when fresh. Cache errors
// fall through to the database.
func (s *AnalyticsService) Dashboard(ctx context.Context, actor Actor) (*models.DashboardStats, error) {
	today := clock.Today(s.clock)
	key := dashboardKey(actor, today)

	var cached models.DashboardStats
	err := s.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.WithError(err).Warn("Dashboard cache read failed")
	}

	stats, err := s.build(ctx, actor, today)
	if err != nil {
		return nil, err
	}
	if s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, key, stats, s.ttl); err != nil {
			s.logger.WithError(err).Warn("Dashboard cache write failed")
		}
	}
	return stats, nil
}

// Invalidate drops today's cached dashboard of actor's hotel
func (s *AnalyticsService) Invalidate(ctx context.Context, actor Actor) {
	if err := s.cache.Delete(ctx, dashboardKey(actor, clock.Today(s.clock))); err != nil {
		s.logger.WithError(err).Warn("Dashboard cache invalidation failed")
	}
}

func (s *AnalyticsService) build(ctx context.Context, actor Actor, today time.Time) (*models.DashboardStats, error) {
	from := today.AddDate(0, 0, -(dashboardDays - 1))
	to := today.AddDate(0, 0, 1)

	counts, err := s.analytics.RoomStatusCounts(ctx, actor.HotelID)
	if err != nil {
		return nil, err
	}
	byDay, err := s.analytics.ReservationsByDay(ctx, actor.HotelID, from, to)
	if err != nil {
		return nil, err
	}
	revenue, err := s.analytics.RevenueByDay(ctx, actor.HotelID, from, to)
	if err != nil {
		return nil, err
	}
	active, err := s.analytics.ActiveGuests(ctx, actor.HotelID)
	if err != nil {
		return nil, err
	}
	latest, err := s.reservations.Latest(ctx, actor.HotelID, latestBookings)
	if err != nil {
		return nil, err
	}
	arrivals, err := s.reservations.ListArrivals(ctx, actor.HotelID, today)
	if err != nil {
		return nil, err
	}
	departures, err := s.reservations.ListDepartures(ctx, actor.HotelID, today)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	return &models.DashboardStats{
		TotalRooms:         total,
		OccupancyRate:      OccupancyRate(counts[string(models.RoomStatusOccupied)], total),
		RoomStatusCounts:   counts,
		ReservationsByDay:  fillCounts(byDay, from, dashboardDays),
		RevenueByDay:       fillAmounts(revenue, from, dashboardDays),
		ActiveGuests:       active,
		LatestReservations: latest,
		TodayCheckIns:      arrivals,
		TodayCheckOuts:     departures,
		CheckInsToday:      len(arrivals),
		CheckOutsToday:     len(departures),
		GeneratedAt:        s.clock.Now(),
	}, nil
}

// OccupancyRate is occupied/total as a percentage with two decimals
func OccupancyRate(occupied, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(occupied)/float64(total)*10000) / 100
}

// fillCounts returns one entry per day starting at from, zero where no row exists
func fillCounts(rows []models.DailyCount, from time.Time, days int) []models.DailyCount {
	seen := make(map[string]int, len(rows))
	for _, r := range rows {
		seen[r.Date] = r.Count
	}
	out := make([]models.DailyCount, days)
	for i := range out {
		d := booking.FormatDate(from.AddDate(0, 0, i))
		out[i] = models.DailyCount{Date: d, Count: seen[d]}
	}
	return out
}

func fillAmounts(rows []models.DailyAmount, from time.Time, days int) []models.DailyAmount {
	seen := make(map[string]float64, len(rows))
	for _, r := range rows {
		seen[r.Date] = r.Amount
	}
	out := make([]models.DailyAmount, days)
	for i := range out {
		d := booking.FormatDate(from.AddDate(0, 0, i))
		out[i] = models.DailyAmount{Date: d, Amount: seen[d]}
	}
	return out
}
