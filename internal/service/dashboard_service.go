package service

import (
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// DashboardService computes time-windowed spending views over the ledger.
// All date comparisons are in UTC calendar terms; month windows come from
// explicit month boundaries, never elapsed-day arithmetic.
type DashboardService struct {
	ledger *LedgerService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(ledger *LedgerService) *DashboardService {
	return &DashboardService{ledger: ledger}
}

// DashboardSummary is the aggregated view for the dashboard
type DashboardSummary struct {
	Today         decimal.Decimal            `json:"today"`
	ThisMonth     decimal.Decimal            `json:"thisMonth"`
	LastMonth     decimal.Decimal            `json:"lastMonth"`
	ChangePercent float64                    `json:"changePercent"`
	Breakdown     map[string]decimal.Decimal `json:"breakdown"`
}

// GetSummary computes the dashboard summary relative to now
func (s *DashboardService) GetSummary(now time.Time) *DashboardSummary {
	splits := s.ledger.All()

	thisStart := domain.MonthStart(now)
	nextStart := domain.NextMonthStart(now)
	lastStart := domain.MonthStartBack(now, 1)

	thisMonth := PeriodSpend(splits, thisStart, nextStart)
	lastMonth := PeriodSpend(splits, lastStart, thisStart)

	return &DashboardSummary{
		Today:         TodaySpend(splits, now),
		ThisMonth:     thisMonth,
		LastMonth:     lastMonth,
		ChangePercent: MonthOverMonthChange(thisMonth, lastMonth),
		Breakdown:     CategoryBreakdown(splits, thisStart, nextStart),
	}
}

// TodaySpend sums the amounts of splits dated on the same UTC calendar day as now
func TodaySpend(splits []domain.Split, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, sp := range splits {
		day, err := sp.Day()
		if err != nil {
			continue
		}
		if domain.SameUTCDay(day, now) {
			total = total.Add(sp.Amount)
		}
	}
	return total
}

// PeriodSpend sums the amounts of splits dated within [start, end)
func PeriodSpend(splits []domain.Split, start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, sp := range splits {
		if inPeriod(sp, start, end) {
			total = total.Add(sp.Amount)
		}
	}
	return total
}

// CategoryBreakdown maps category name to summed amount within [start, end).
// Categories with zero activity in the window are omitted.
func CategoryBreakdown(splits []domain.Split, start, end time.Time) map[string]decimal.Decimal {
	breakdown := make(map[string]decimal.Decimal)
	for _, sp := range splits {
		if !inPeriod(sp, start, end) {
			continue
		}
		breakdown[sp.Category] = breakdown[sp.Category].Add(sp.Amount)
	}
	return breakdown
}

// MonthOverMonthChange returns the percent change between two monthly totals.
// A month with zero prior spend reports either no change (both zero) or a
// 100% increase (any positive spend) - never division by zero or infinity.
func MonthOverMonthChange(thisMonth, lastMonth decimal.Decimal) float64 {
	if lastMonth.IsZero() {
		if thisMonth.IsPositive() {
			return 100
		}
		return 0
	}
	change, _ := thisMonth.Sub(lastMonth).Div(lastMonth).Mul(decimal.NewFromInt(100)).Float64()
	return change
}

func inPeriod(sp domain.Split, start, end time.Time) bool {
	day, err := sp.Day()
	if err != nil {
		return false
	}
	return !day.Before(start) && day.Before(end)
}
