package entity

const PlanTypeRenewal = "renewal"

// Zero values mean the field was absent upstream; the effective-plan merge
// relies on this to fill gaps from the embedded plan.
type Plan struct {
	ID                string
	PlanType          string
	RenewalPriceCents int64
	BillingPeriodDays int
}
