package dto

// MetricsResponse is the dashboard payload. RevenueTrend always carries 90
// entries and TopProducts at most 5; both serialize as arrays even when empty.
type MetricsResponse struct {
	Metrics      MetricsBlock     `json:"metrics"`
	RevenueTrend []TrendPoint     `json:"revenueTrend"`
	TopProducts  []ProductRevenue `json:"topProducts"`
}

type MetricsBlock struct {
	MRR                    float64 `json:"mrr"`
	ChurnRate              float64 `json:"churnRate"`
	NewSubscriptions       int     `json:"newSubscriptions"`
	TotalActiveSubscribers int     `json:"totalActiveSubscribers"`
}

type TrendPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type ProductRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
