package mapper

import (
	"github.com/ayothedoc3/whop-analytics-dashboard/app/dto"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/metrics"
)

// MetricsResponse shapes a computed snapshot into the dashboard payload.
func MetricsResponse(snapshot *metrics.Snapshot) *dto.MetricsResponse {
	if snapshot == nil {
		return nil
	}

	return &dto.MetricsResponse{
		Metrics: dto.MetricsBlock{
			MRR:                    snapshot.MRR,
			ChurnRate:              snapshot.ChurnRatePercent,
			NewSubscriptions:       snapshot.NewSubscriptions,
			TotalActiveSubscribers: snapshot.TotalActiveSubscribers,
		},
		RevenueTrend: trendPointsToDTO(snapshot.RevenueTrend),
		TopProducts:  productRevenuesToDTO(snapshot.TopProducts),
	}
}

func trendPointsToDTO(items []metrics.TrendPoint) []dto.TrendPoint {
	result := make([]dto.TrendPoint, 0, len(items))
	for _, item := range items {
		result = append(result, dto.TrendPoint{Date: item.Date, Revenue: item.Revenue})
	}
	return result
}

func productRevenuesToDTO(items []metrics.ProductRevenue) []dto.ProductRevenue {
	result := make([]dto.ProductRevenue, 0, len(items))
	for _, item := range items {
		result = append(result, dto.ProductRevenue{Name: item.Name, Revenue: item.Revenue})
	}
	return result
}
