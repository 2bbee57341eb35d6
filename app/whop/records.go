package whop

import (
	"context"
	"encoding/json"
)

// Raw records as returned by the Whop v2 list endpoints. Fields whose shape
// varies between accounts (epoch vs date strings, numbers vs numeric strings,
// ids vs embedded objects) stay json.RawMessage and are normalized by the
// mapper package.

type Membership struct {
	ID                 string          `json:"id"`
	Status             string          `json:"status"`
	CreatedAt          json.RawMessage `json:"created_at"`
	CanceledAt         json.RawMessage `json:"canceled_at"`
	RenewalPeriodStart json.RawMessage `json:"renewal_period_start"`
	RenewalPeriodEnd   json.RawMessage `json:"renewal_period_end"`
	Plan               json.RawMessage `json:"plan"`
}

type Plan struct {
	ID            string          `json:"id"`
	PlanType      string          `json:"plan_type"`
	RenewalPrice  json.RawMessage `json:"renewal_price"`
	BillingPeriod json.RawMessage `json:"billing_period"`
}

type Payment struct {
	ID        string          `json:"id"`
	CreatedAt json.RawMessage `json:"created_at"`
	USDTotal  json.RawMessage `json:"usd_total"`
	Total     json.RawMessage `json:"total"`
	Subtotal  json.RawMessage `json:"subtotal"`
	Product   json.RawMessage `json:"product"`
}

type Product struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListParams carries the paging and scoping parameters shared by the list
// endpoints. The payments endpoint does not support the company filter and
// ignores CompanyID.
type ListParams struct {
	PageSize  int
	CompanyID string
}

type DataSource interface {
	ListMemberships(ctx context.Context, params ListParams) ([]Membership, error)
	ListPayments(ctx context.Context, params ListParams) ([]Payment, error)
	ListProducts(ctx context.Context, params ListParams) ([]Product, error)
	ListPlans(ctx context.Context, params ListParams) ([]Plan, error)
}
