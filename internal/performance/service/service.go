// Package service assembles the role scoped performance dashboards from raw
// counters and the pure metric rules.
package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"telecrm_backend/internal/performance/metrics"
	"telecrm_backend/internal/performance/repository"
	"telecrm_backend/internal/performance/transport"
	"telecrm_backend/platform/apperr"

	"github.com/google/uuid"
)

// Repository is the read model surface needed by the dashboards.
type Repository interface {
	StaffStats(ctx context.Context, staffID uuid.UUID, from, to time.Time) (repository.StaffStats, error)
	TeamStats(ctx context.Context, managerID uuid.UUID, from, to time.Time) ([]repository.StaffStats, error)
	AllTelecallerStats(ctx context.Context, from, to time.Time) ([]repository.StaffStats, error)
	LeadStatusCounts(ctx context.Context, managerID *uuid.UUID) (map[string]int, error)
	DailyCallTrend(ctx context.Context, telecallerIDs []uuid.UUID, from, to time.Time) ([]repository.TrendPoint, error)
	DailyLeadTrend(ctx context.Context, managerID *uuid.UUID, from, to time.Time) ([]repository.LeadTrendPoint, error)
	OrgWindowCounts(ctx context.Context, from, to time.Time) (repository.WindowCounts, error)
	FollowUpLoad(ctx context.Context, staffID uuid.UUID, now time.Time) (dueToday, overdue int, err error)
	SetMonthlyTarget(ctx context.Context, staffID uuid.UUID, target int) error
	RefreshSnapshot(ctx context.Context, staffID uuid.UUID) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Window resolves a named period to a half open [from, to) range ending now.
func (s *Service) Window(period string) (time.Time, time.Time) {
	now := s.now()
	switch period {
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, now
	case "week":
		return now.AddDate(0, 0, -7), now
	default:
		return now.AddDate(0, -1, 0), now
	}
}

// TelecallerDashboard returns one telecaller's own numbers plus their
// follow-up load. The independent queries run in parallel.
func (s *Service) TelecallerDashboard(ctx context.Context, telecallerID uuid.UUID, req transport.DashboardRequest) (transport.TelecallerDashboard, error) {
	from, to := s.Window(req.Period)

	var (
		stats             repository.StaffStats
		dueToday, overdue int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.repo.StaffStats(gctx, telecallerID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		dueToday, overdue, err = s.repo.FollowUpLoad(gctx, telecallerID, s.now())
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.TelecallerDashboard{}, apperr.NotFound("staff member not found")
		}
		return transport.TelecallerDashboard{}, err
	}

	return transport.TelecallerDashboard{
		Performance: toPerformance(stats),
		DueToday:    dueToday,
		Overdue:     overdue,
		From:        from,
		To:          to,
	}, nil
}

// ManagerDashboard rolls the manager's telecallers up into team totals.
func (s *Service) ManagerDashboard(ctx context.Context, managerID uuid.UUID, req transport.DashboardRequest) (transport.ManagerDashboard, error) {
	from, to := s.Window(req.Period)

	var (
		team   []repository.StaffStats
		counts map[string]int
		trend  []repository.LeadTrendPoint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		team, err = s.repo.TeamStats(gctx, managerID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.repo.LeadStatusCounts(gctx, &managerID)
		return err
	})
	g.Go(func() error {
		var err error
		trend, err = s.repo.DailyLeadTrend(gctx, &managerID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.ManagerDashboard{}, err
	}

	members, rollup := rollUp(team)
	return transport.ManagerDashboard{
		Team:        rollup,
		Members:     members,
		LeadsByStat: counts,
		LeadTrend:   toLeadTrend(trend),
		From:        from,
		To:          to,
	}, nil
}

// HeadDashboard is the org wide variant of the manager dashboard.
func (s *Service) HeadDashboard(ctx context.Context, req transport.DashboardRequest) (transport.HeadDashboard, error) {
	from, to := s.Window(req.Period)

	// The previous window has the same length and ends where this one starts.
	prevFrom := from.Add(-to.Sub(from))

	var (
		all       []repository.StaffStats
		counts    map[string]int
		cur, prev repository.WindowCounts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.repo.AllTelecallerStats(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.repo.LeadStatusCounts(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		cur, err = s.repo.OrgWindowCounts(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		prev, err = s.repo.OrgWindowCounts(gctx, prevFrom, from)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.HeadDashboard{}, err
	}

	members, rollup := rollUp(all)
	return transport.HeadDashboard{
		Org:         rollup,
		Telecallers: members,
		LeadsByStat: counts,
		Growth: transport.GrowthMetrics{
			LeadsGrowth:       metrics.GrowthPercent(float64(cur.Leads), float64(prev.Leads)),
			ConversionsGrowth: metrics.GrowthPercent(float64(cur.Conversions), float64(prev.Conversions)),
		},
		From: from,
		To:   to,
	}, nil
}

// TeamTrend returns the daily call volume for a manager's telecallers.
func (s *Service) TeamTrend(ctx context.Context, managerID *uuid.UUID, req transport.DashboardRequest) (transport.TrendResponse, error) {
	from, to := s.Window(req.Period)

	var ids []uuid.UUID
	if managerID != nil {
		team, err := s.repo.TeamStats(ctx, *managerID, from, to)
		if err != nil {
			return transport.TrendResponse{}, err
		}
		ids = make([]uuid.UUID, 0, len(team))
		for _, m := range team {
			ids = append(ids, m.StaffID)
		}
		if len(ids) == 0 {
			return transport.TrendResponse{Days: []transport.TrendDay{}, From: from, To: to}, nil
		}
	}

	points, err := s.repo.DailyCallTrend(ctx, ids, from, to)
	if err != nil {
		return transport.TrendResponse{}, err
	}

	byDay := make(map[string]*transport.TrendDay)
	order := make([]string, 0)
	for _, p := range points {
		key := p.Day.Format("2006-01-02")
		day, ok := byDay[key]
		if !ok {
			day = &transport.TrendDay{Day: key, Counts: make(map[string]int)}
			byDay[key] = day
			order = append(order, key)
		}
		day.Counts[p.CallStatus] += p.Count
		day.Total += p.Count
	}

	days := make([]transport.TrendDay, 0, len(order))
	for _, key := range order {
		days = append(days, *byDay[key])
	}
	return transport.TrendResponse{Days: days, From: from, To: to}, nil
}

// SetTarget updates a telecaller's monthly conversion target.
func (s *Service) SetTarget(ctx context.Context, staffID uuid.UUID, target int) error {
	if err := s.repo.SetMonthlyTarget(ctx, staffID, target); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("staff member not found")
		}
		return err
	}
	return nil
}

// RefreshSnapshot recomputes the stored counters for one staff member. The
// notification and assignment flows call this after writes.
func (s *Service) RefreshSnapshot(ctx context.Context, staffID uuid.UUID) error {
	return s.repo.RefreshSnapshot(ctx, staffID)
}

func toPerformance(st repository.StaffStats) transport.StaffPerformance {
	return transport.StaffPerformance{
		StaffID:           st.StaffID,
		StaffName:         st.StaffName,
		LeadsAssigned:     st.LeadsAssigned,
		CallsMade:         st.CallsMade,
		ConnectedCalls:    st.ConnectedCalls,
		Conversions:       st.Conversions,
		ConversionRate:    metrics.ConversionRate(st.Conversions, st.LeadsAssigned),
		MonthlyTarget:     st.MonthlyTarget,
		TargetAchievement: metrics.TargetAchievement(st.Conversions, st.MonthlyTarget),
	}
}

func toLeadTrend(points []repository.LeadTrendPoint) []transport.LeadTrendDay {
	days := make([]transport.LeadTrendDay, 0, len(points))
	for _, p := range points {
		days = append(days, transport.LeadTrendDay{
			Day:            p.Day.Format("2006-01-02"),
			Total:          p.Total,
			Converted:      p.Converted,
			ConversionRate: metrics.ConversionRate(p.Converted, p.Total),
		})
	}
	return days
}

func rollUp(team []repository.StaffStats) ([]transport.StaffPerformance, transport.TeamRollup) {
	members := make([]transport.StaffPerformance, 0, len(team))
	rates := make([]float64, 0, len(team))
	var rollup transport.TeamRollup
	var totalTarget int
	for _, st := range team {
		member := toPerformance(st)
		members = append(members, member)
		rates = append(rates, member.ConversionRate)
		rollup.TotalLeads += st.LeadsAssigned
		rollup.TotalCalls += st.CallsMade
		rollup.TotalConversions += st.Conversions
		totalTarget += st.MonthlyTarget
	}
	rollup.ConversionRate = metrics.MeanRate(rates)
	rollup.TargetAchievement = metrics.TargetAchievement(rollup.TotalConversions, totalTarget)
	return members, rollup
}
