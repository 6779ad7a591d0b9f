package transport

import (
	"time"

	"github.com/google/uuid"
)

type DashboardRequest struct {
	Period string `form:"period" validate:"omitempty,oneof=today week month"`
}

type SetTargetRequest struct {
	MonthlyTarget int `json:"monthlyTarget" validate:"required,min=0,max=100000"`
}

// StaffPerformance is the computed view for one staff member.
type StaffPerformance struct {
	StaffID           uuid.UUID `json:"staffId"`
	StaffName         string    `json:"staffName"`
	LeadsAssigned     int       `json:"leadsAssigned"`
	CallsMade         int       `json:"callsMade"`
	ConnectedCalls    int       `json:"connectedCalls"`
	Conversions       int       `json:"conversions"`
	ConversionRate    float64   `json:"conversionRate"`
	MonthlyTarget     int       `json:"monthlyTarget"`
	TargetAchievement float64   `json:"targetAchievement"`
}

type TelecallerDashboard struct {
	Performance StaffPerformance `json:"performance"`
	DueToday    int              `json:"dueToday"`
	Overdue     int              `json:"overdue"`
	From        time.Time        `json:"from"`
	To          time.Time        `json:"to"`
}

// TeamRollup aggregates a manager's telecallers. ConversionRate is the
// simple mean of per-member rates; TargetAchievement pools conversions over
// pooled targets.
type TeamRollup struct {
	TotalLeads        int     `json:"totalLeads"`
	TotalCalls        int     `json:"totalCalls"`
	TotalConversions  int     `json:"totalConversions"`
	ConversionRate    float64 `json:"conversionRate"`
	TargetAchievement float64 `json:"targetAchievement"`
}

// LeadTrendDay is one day of lead intake with how many of those leads have
// converted so far.
type LeadTrendDay struct {
	Day            string  `json:"day"`
	Total          int     `json:"total"`
	Converted      int     `json:"converted"`
	ConversionRate float64 `json:"conversionRate"`
}

type ManagerDashboard struct {
	Team        TeamRollup         `json:"team"`
	Members     []StaffPerformance `json:"members"`
	LeadsByStat map[string]int     `json:"leadsByStatus"`
	LeadTrend   []LeadTrendDay     `json:"leadTrend"`
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
}

// GrowthMetrics compares the current window against the previous window of
// the same length.
type GrowthMetrics struct {
	LeadsGrowth       float64 `json:"leadsGrowth"`
	ConversionsGrowth float64 `json:"conversionsGrowth"`
}

type HeadDashboard struct {
	Org         TeamRollup         `json:"org"`
	Telecallers []StaffPerformance `json:"telecallers"`
	LeadsByStat map[string]int     `json:"leadsByStatus"`
	Growth      GrowthMetrics      `json:"growth"`
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
}

// TrendDay is one day in the call volume trend with per-status counts.
type TrendDay struct {
	Day    string         `json:"day"`
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

type TrendResponse struct {
	Days []TrendDay `json:"days"`
	From time.Time  `json:"from"`
	To   time.Time  `json:"to"`
}
