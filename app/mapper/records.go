package mapper

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ayothedoc3/whop-analytics-dashboard/app/entity"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/whop"
)

func Memberships(items []whop.Membership) []entity.Membership {
	result := make([]entity.Membership, 0, len(items))
	for _, item := range items {
		planID, plan := planRef(item.Plan)
		result = append(result, entity.Membership{
			ID:                 item.ID,
			Status:             entity.MembershipStatus(item.Status),
			CreatedAt:          instantPtr(item.CreatedAt),
			CanceledAt:         instantPtr(item.CanceledAt),
			RenewalPeriodStart: instantPtr(item.RenewalPeriodStart),
			RenewalPeriodEnd:   instantPtr(item.RenewalPeriodEnd),
			PlanID:             planID,
			Plan:               plan,
		})
	}
	return result
}

func Payments(items []whop.Payment) []entity.Payment {
	result := make([]entity.Payment, 0, len(items))
	for _, item := range items {
		result = append(result, entity.Payment{
			ID:          item.ID,
			CreatedAt:   instantPtr(item.CreatedAt),
			AmountCents: paymentCents(item),
			ProductID:   productRef(item.Product),
		})
	}
	return result
}

func Plans(items []whop.Plan) []entity.Plan {
	result := make([]entity.Plan, 0, len(items))
	for _, item := range items {
		result = append(result, Plan(item))
	}
	return result
}

// Plan converts one raw plan. The renewal price is already in minor units on
// the wire and stays that way.
func Plan(item whop.Plan) entity.Plan {
	plan := entity.Plan{
		ID:       item.ID,
		PlanType: item.PlanType,
	}
	if price, ok := numberValue(item.RenewalPrice); ok {
		plan.RenewalPriceCents = int64(math.Round(price))
	}
	if days, ok := numberValue(item.BillingPeriod); ok && days > 0 {
		plan.BillingPeriodDays = int(math.Round(days))
	}
	return plan
}

func Products(items []whop.Product) []entity.Product {
	result := make([]entity.Product, 0, len(items))
	for _, item := range items {
		result = append(result, entity.Product{
			ID:    item.ID,
			Title: item.Title,
		})
	}
	return result
}

// paymentCents reads the payment amount from the first populated field in
// priority order: usd_total, total, subtotal. Amounts arrive in minor units;
// fractional values round to the nearest cent.
func paymentCents(item whop.Payment) int64 {
	if v, ok := firstNumber(item.USDTotal, item.Total, item.Subtotal); ok {
		return int64(math.Round(v))
	}
	return 0
}

// planRef handles the two shapes the plan field takes upstream: a bare plan
// id string, or an embedded plan object.
func planRef(raw json.RawMessage) (string, *entity.Plan) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return "", nil
	}

	var id string
	if err := json.Unmarshal(trimmed, &id); err == nil {
		return id, nil
	}

	var embedded whop.Plan
	if err := json.Unmarshal(trimmed, &embedded); err != nil {
		return "", nil
	}
	plan := Plan(embedded)
	return plan.ID, &plan
}

func productRef(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}

	var id string
	if err := json.Unmarshal(trimmed, &id); err == nil {
		return id
	}

	var embedded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(trimmed, &embedded); err != nil {
		return ""
	}
	return embedded.ID
}

func instantPtr(raw json.RawMessage) *time.Time {
	ts, ok := ParseInstant(raw)
	if !ok {
		return nil
	}
	return &ts
}

func firstNumber(raws ...json.RawMessage) (float64, bool) {
	for _, raw := range raws {
		if v, ok := numberValue(raw); ok {
			return v, true
		}
	}
	return 0, false
}

func numberValue(raw json.RawMessage) (float64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return 0, false
	}

	var num float64
	if err := json.Unmarshal(trimmed, &num); err == nil {
		return num, true
	}

	var str string
	if err := json.Unmarshal(trimmed, &str); err != nil {
		return 0, false
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return 0, false
	}
	return num, true
}
