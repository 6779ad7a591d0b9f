package service

import (
	"context"
	"testing"
	"time"

	"telecrm_backend/internal/performance/repository"
	"telecrm_backend/internal/performance/transport"

	"github.com/google/uuid"
)

type fakeRepo struct {
	stats     repository.StaffStats
	team      []repository.StaffStats
	counts    map[string]int
	trend     []repository.TrendPoint
	leadTrend []repository.LeadTrendPoint
	windows   map[time.Time]repository.WindowCounts
	dueToday  int
	overdue   int
}

func (f *fakeRepo) StaffStats(context.Context, uuid.UUID, time.Time, time.Time) (repository.StaffStats, error) {
	return f.stats, nil
}

func (f *fakeRepo) TeamStats(context.Context, uuid.UUID, time.Time, time.Time) ([]repository.StaffStats, error) {
	return f.team, nil
}

func (f *fakeRepo) AllTelecallerStats(context.Context, time.Time, time.Time) ([]repository.StaffStats, error) {
	return f.team, nil
}

func (f *fakeRepo) LeadStatusCounts(context.Context, *uuid.UUID) (map[string]int, error) {
	return f.counts, nil
}

func (f *fakeRepo) DailyCallTrend(context.Context, []uuid.UUID, time.Time, time.Time) ([]repository.TrendPoint, error) {
	return f.trend, nil
}

func (f *fakeRepo) DailyLeadTrend(context.Context, *uuid.UUID, time.Time, time.Time) ([]repository.LeadTrendPoint, error) {
	return f.leadTrend, nil
}

func (f *fakeRepo) OrgWindowCounts(_ context.Context, from, _ time.Time) (repository.WindowCounts, error) {
	return f.windows[from], nil
}

func (f *fakeRepo) FollowUpLoad(context.Context, uuid.UUID, time.Time) (int, int, error) {
	return f.dueToday, f.overdue, nil
}

func (f *fakeRepo) SetMonthlyTarget(context.Context, uuid.UUID, int) error { return nil }

func (f *fakeRepo) RefreshSnapshot(context.Context, uuid.UUID) error { return nil }

func TestTelecallerDashboard_ComputesRates(t *testing.T) {
	repo := &fakeRepo{
		stats: repository.StaffStats{
			StaffID:       uuid.New(),
			LeadsAssigned: 40,
			CallsMade:     120,
			Conversions:   10,
			MonthlyTarget: 20,
		},
		dueToday: 3,
		overdue:  1,
	}
	svc := New(repo)

	out, err := svc.TelecallerDashboard(context.Background(), uuid.New(), transport.DashboardRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Performance.ConversionRate != 25 {
		t.Fatalf("expected conversion rate 25, got %v", out.Performance.ConversionRate)
	}
	if out.Performance.TargetAchievement != 50 {
		t.Fatalf("expected target achievement 50, got %v", out.Performance.TargetAchievement)
	}
	if out.DueToday != 3 || out.Overdue != 1 {
		t.Fatalf("expected follow-up load 3/1, got %d/%d", out.DueToday, out.Overdue)
	}
}

func TestManagerDashboard_RollupAveragesRatesPerMember(t *testing.T) {
	repo := &fakeRepo{
		team: []repository.StaffStats{
			{StaffID: uuid.New(), LeadsAssigned: 1, Conversions: 1, MonthlyTarget: 5},
			{StaffID: uuid.New(), LeadsAssigned: 99, Conversions: 0, MonthlyTarget: 15},
		},
		counts: map[string]int{"NEW": 50},
	}
	svc := New(repo)

	out, err := svc.ManagerDashboard(context.Background(), uuid.New(), transport.DashboardRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Mean of 100% and 0%, not pooled 1/100.
	if out.Team.ConversionRate != 50 {
		t.Fatalf("expected team rate 50, got %v", out.Team.ConversionRate)
	}
	if out.Team.TotalLeads != 100 {
		t.Fatalf("expected 100 total leads, got %d", out.Team.TotalLeads)
	}
	// Pooled: 1 conversion over 20 target.
	if out.Team.TargetAchievement != 5 {
		t.Fatalf("expected target achievement 5, got %v", out.Team.TargetAchievement)
	}
}

func TestManagerDashboard_LeadTrendRatesPerDay(t *testing.T) {
	repo := &fakeRepo{
		counts: map[string]int{},
		leadTrend: []repository.LeadTrendPoint{
			{Day: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), Total: 8, Converted: 2},
			{Day: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), Total: 5, Converted: 0},
		},
	}
	svc := New(repo)

	out, err := svc.ManagerDashboard(context.Background(), uuid.New(), transport.DashboardRequest{Period: "week"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.LeadTrend) != 2 {
		t.Fatalf("expected 2 trend days, got %d", len(out.LeadTrend))
	}
	first := out.LeadTrend[0]
	if first.Day != "2026-03-09" || first.Total != 8 || first.Converted != 2 || first.ConversionRate != 25 {
		t.Fatalf("unexpected first trend day: %+v", first)
	}
	if out.LeadTrend[1].ConversionRate != 0 {
		t.Fatalf("expected zero rate for day without conversions, got %v", out.LeadTrend[1].ConversionRate)
	}
}

func TestHeadDashboard_GrowthAgainstPreviousWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	curFrom := now.AddDate(0, 0, -7)
	prevFrom := curFrom.Add(-now.Sub(curFrom))
	repo := &fakeRepo{
		counts: map[string]int{},
		windows: map[time.Time]repository.WindowCounts{
			curFrom:  {Leads: 30, Conversions: 6},
			prevFrom: {Leads: 20, Conversions: 8},
		},
	}
	svc := New(repo)
	svc.now = func() time.Time { return now }

	out, err := svc.HeadDashboard(context.Background(), transport.DashboardRequest{Period: "week"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Growth.LeadsGrowth != 50 {
		t.Fatalf("expected 50%% lead growth, got %v", out.Growth.LeadsGrowth)
	}
	if out.Growth.ConversionsGrowth != -25 {
		t.Fatalf("expected -25%% conversion growth, got %v", out.Growth.ConversionsGrowth)
	}
}

func TestHeadDashboard_NoBaselineReadsZeroGrowth(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		counts: map[string]int{},
		windows: map[time.Time]repository.WindowCounts{
			now.AddDate(0, 0, -7): {Leads: 30, Conversions: 6},
		},
	}
	svc := New(repo)
	svc.now = func() time.Time { return now }

	out, err := svc.HeadDashboard(context.Background(), transport.DashboardRequest{Period: "week"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Growth.LeadsGrowth != 0 || out.Growth.ConversionsGrowth != 0 {
		t.Fatalf("expected zero growth without a baseline, got %+v", out.Growth)
	}
}

func TestManagerDashboard_EmptyTeamHasZeroRates(t *testing.T) {
	svc := New(&fakeRepo{counts: map[string]int{}})

	out, err := svc.ManagerDashboard(context.Background(), uuid.New(), transport.DashboardRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Team.ConversionRate != 0 || out.Team.TargetAchievement != 0 {
		t.Fatalf("expected zero rates for empty team, got %+v", out.Team)
	}
}

func TestTeamTrend_GroupsByDay(t *testing.T) {
	day1 := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{trend: []repository.TrendPoint{
		{Day: day1, CallStatus: "CONNECTED", Count: 4},
		{Day: day1, CallStatus: "NO_ANSWER", Count: 6},
		{Day: day2, CallStatus: "CONNECTED", Count: 2},
	}}
	svc := New(repo)

	out, err := svc.TeamTrend(context.Background(), nil, transport.DashboardRequest{Period: "week"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(out.Days))
	}
	if out.Days[0].Total != 10 || out.Days[0].Counts["NO_ANSWER"] != 6 {
		t.Fatalf("unexpected first day rollup: %+v", out.Days[0])
	}
	if out.Days[1].Total != 2 {
		t.Fatalf("unexpected second day rollup: %+v", out.Days[1])
	}
}

func TestWindow_Periods(t *testing.T) {
	svc := New(&fakeRepo{})
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }

	from, to := svc.Window("today")
	if from.Hour() != 0 || !to.Equal(svc.now()) {
		t.Fatalf("unexpected today window: %v - %v", from, to)
	}

	from, _ = svc.Window("week")
	if got := svc.now().Sub(from); got != 7*24*time.Hour {
		t.Fatalf("expected 7 day window, got %v", got)
	}

	from, _ = svc.Window("")
	if from.Month() != time.February {
		t.Fatalf("expected month window reaching into February, got %v", from)
	}
}
