package metrics

// Snapshot is one full computation of the dashboard metrics at a point in
// time. All monetary values are in major units.
type Snapshot struct {
	MRR                    float64
	ChurnRatePercent       float64
	NewSubscriptions       int
	TotalActiveSubscribers int
	RevenueTrend           []TrendPoint
	TopProducts            []ProductRevenue
}

// TrendPoint is one calendar day of revenue. Date is formatted as 2006-01-02
// in UTC.
type TrendPoint struct {
	Date    string
	Revenue float64
}

type ProductRevenue struct {
	Name    string
	Revenue float64
}
