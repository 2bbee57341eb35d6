// Package metrics computes subscription business metrics from normalized
// Whop records. Every function is pure: results depend only on the inputs
// and the supplied reference time.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/ayothedoc3/whop-analytics-dashboard/app/entity"
)

const (
	trendDays          = 90
	trailingWindowDays = 30
	topProductsLimit   = 5
	// daysPerMonth normalizes billing periods of any length to a monthly
	// rate: a 90-day plan contributes a third of its price per month.
	daysPerMonth = 30.0

	dateLayout = "2006-01-02"
)

// ComputeSnapshot derives the full metrics set from one consistent batch of
// records. now anchors all trailing windows and is normalized to UTC.
func ComputeSnapshot(now time.Time, memberships []entity.Membership, plans []entity.Plan, payments []entity.Payment, products []entity.Product) Snapshot {
	now = now.UTC()

	plansByID := make(map[string]entity.Plan, len(plans))
	for _, plan := range plans {
		if plan.ID != "" {
			plansByID[plan.ID] = plan
		}
	}
	productsByID := make(map[string]entity.Product, len(products))
	for _, product := range products {
		if product.ID != "" {
			productsByID[product.ID] = product
		}
	}

	return Snapshot{
		MRR:                    MRR(memberships, plansByID),
		ChurnRatePercent:       ChurnRate(now, memberships),
		NewSubscriptions:       NewSubscriptions(now, memberships),
		TotalActiveSubscribers: ActiveSubscribers(memberships),
		RevenueTrend:           RevenueTrend(now, payments),
		TopProducts:            TopProducts(now, payments, productsByID),
	}
}

// MRR sums the monthly-normalized renewal price of every live membership.
// Memberships only count when their effective plan is a renewal plan with a
// positive price; a missing billing period is read as monthly.
func MRR(memberships []entity.Membership, plansByID map[string]entity.Plan) float64 {
	var totalCents float64
	for _, m := range memberships {
		if !isLiveStatus(m.Status) {
			continue
		}
		plan := effectivePlan(m, plansByID)
		if plan == nil || plan.PlanType != entity.PlanTypeRenewal || plan.RenewalPriceCents <= 0 {
			continue
		}
		months := 1.0
		if plan.BillingPeriodDays > 0 {
			months = float64(plan.BillingPeriodDays) / daysPerMonth
		}
		totalCents += float64(plan.RenewalPriceCents) / months
	}
	return math.Round(totalCents) / 100
}

// ChurnRate reports the share of the base that cancelled over the trailing
// window, as a percentage rounded to two decimals. The base is every
// membership that was live at the start of the window; cancellations before
// the window leave the base entirely.
func ChurnRate(now time.Time, memberships []entity.Membership) float64 {
	cutoff := now.AddDate(0, 0, -trailingWindowDays)

	var base, churned int
	for _, m := range memberships {
		if m.CreatedAt == nil || m.CreatedAt.After(cutoff) {
			continue
		}
		if m.CanceledAt != nil && !m.CanceledAt.After(cutoff) {
			continue
		}
		base++
		if m.CanceledAt != nil && withinWindow(*m.CanceledAt, cutoff, now) {
			churned++
		}
	}
	if base == 0 {
		return 0
	}
	rate := float64(churned) / float64(base) * 100
	return math.Round(rate*100) / 100
}

// NewSubscriptions counts memberships created inside the trailing window,
// regardless of their current status.
func NewSubscriptions(now time.Time, memberships []entity.Membership) int {
	start := now.AddDate(0, 0, -trailingWindowDays)
	count := 0
	for _, m := range memberships {
		if m.CreatedAt != nil && withinWindow(*m.CreatedAt, start, now) {
			count++
		}
	}
	return count
}

// ActiveSubscribers counts memberships in an active or trialing state.
func ActiveSubscribers(memberships []entity.Membership) int {
	count := 0
	for _, m := range memberships {
		if isLiveStatus(m.Status) {
			count++
		}
	}
	return count
}

// RevenueTrend buckets payment amounts by UTC calendar day over the last 90
// days. Every day appears exactly once in ascending order, ending with
// today; days without payments carry zero revenue.
func RevenueTrend(now time.Time, payments []entity.Payment) []TrendPoint {
	dates := make([]string, 0, trendDays)
	cents := make(map[string]int64, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format(dateLayout)
		dates = append(dates, date)
		cents[date] = 0
	}

	for _, p := range payments {
		if p.CreatedAt == nil {
			continue
		}
		date := p.CreatedAt.UTC().Format(dateLayout)
		if _, ok := cents[date]; !ok {
			continue
		}
		cents[date] += p.AmountCents
	}

	trend := make([]TrendPoint, 0, trendDays)
	for _, date := range dates {
		trend = append(trend, TrendPoint{Date: date, Revenue: float64(cents[date]) / 100})
	}
	return trend
}

// TopProducts ranks products by payment revenue over the trailing window and
// keeps the top five. Products missing from the catalog fall back to a
// generated name. Ties preserve first-payment order.
func TopProducts(now time.Time, payments []entity.Payment, productsByID map[string]entity.Product) []ProductRevenue {
	start := now.AddDate(0, 0, -trailingWindowDays)

	order := make([]string, 0)
	cents := make(map[string]int64)
	for _, p := range payments {
		if p.CreatedAt == nil || !withinWindow(*p.CreatedAt, start, now) || p.ProductID == "" {
			continue
		}
		if _, ok := cents[p.ProductID]; !ok {
			order = append(order, p.ProductID)
		}
		cents[p.ProductID] += p.AmountCents
	}

	sort.SliceStable(order, func(i, j int) bool {
		return cents[order[i]] > cents[order[j]]
	})
	if len(order) > topProductsLimit {
		order = order[:topProductsLimit]
	}

	result := make([]ProductRevenue, 0, len(order))
	for _, id := range order {
		name := "Product " + id
		if product, ok := productsByID[id]; ok && product.Title != "" {
			name = product.Title
		}
		result = append(result, ProductRevenue{Name: name, Revenue: float64(cents[id]) / 100})
	}
	return result
}

// effectivePlan resolves the plan a membership is billed on. A catalog plan
// looked up by id wins; zero-valued fields on it are filled from the
// membership's embedded plan. With no catalog match the embedded plan is
// used as-is.
func effectivePlan(m entity.Membership, plansByID map[string]entity.Plan) *entity.Plan {
	var resolved *entity.Plan
	if m.PlanID != "" {
		if plan, ok := plansByID[m.PlanID]; ok {
			resolved = &plan
		}
	}
	if resolved == nil {
		return m.Plan
	}
	if m.Plan == nil {
		return resolved
	}

	merged := *resolved
	if merged.PlanType == "" {
		merged.PlanType = m.Plan.PlanType
	}
	if merged.RenewalPriceCents == 0 {
		merged.RenewalPriceCents = m.Plan.RenewalPriceCents
	}
	if merged.BillingPeriodDays == 0 {
		merged.BillingPeriodDays = m.Plan.BillingPeriodDays
	}
	return &merged
}

func isLiveStatus(status entity.MembershipStatus) bool {
	return status == entity.MembershipStatusActive || status == entity.MembershipStatusTrialing
}

func withinWindow(ts, start, end time.Time) bool {
	return !ts.Before(start) && !ts.After(end)
}
