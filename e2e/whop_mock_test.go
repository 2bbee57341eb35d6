//go:build e2e
// +build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

const (
	defaultWhopMockAPIKey = "whop-e2e-key"
	whopMockAddr          = "127.0.0.1:38084"
)

func whopMockAPIKey() string {
	if value := strings.TrimSpace(os.Getenv("WHOP_API_KEY")); value != "" {
		return value
	}
	return defaultWhopMockAPIKey
}

func analyticsAppAPIKey() string {
	return strings.TrimSpace(os.Getenv("APP_API_KEY"))
}

// The mock serves a fixed dataset with timestamps anchored to the moment of
// each request, so trailing-window metrics come out the same no matter when
// the suite runs. Amounts are minor units, matching the live API.
func whopMockHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/memberships", requireBearer(func(w http.ResponseWriter, r *http.Request) {
		writeWhopData(w, []map[string]any{
			{
				"id":         "mem_live_monthly",
				"status":     "active",
				"created_at": daysAgoUnix(10),
				"plan":       "plan_basic",
			},
			{
				"id":         "mem_live_quarterly",
				"status":     "active",
				"created_at": daysAgoUnixMilli(60),
				"plan":       map[string]any{"id": "plan_pro"},
			},
			{
				"id":          "mem_churned",
				"status":      "canceled",
				"created_at":  daysAgoRFC3339(90),
				"canceled_at": daysAgoUnix(10),
				"plan":        "plan_basic",
			},
			{
				"id":          "mem_gone",
				"status":      "expired",
				"created_at":  daysAgoUnix(120),
				"canceled_at": daysAgoUnix(50),
				"plan":        "plan_once",
			},
			{
				"id":         "mem_trial",
				"status":     "trialing",
				"created_at": daysAgoUnix(5),
				"plan":       "plan_once",
			},
		})
	}))
	mux.HandleFunc("/payments", requireBearer(func(w http.ResponseWriter, r *http.Request) {
		writeWhopData(w, []map[string]any{
			{
				"id":         "pay_recent_alpha",
				"created_at": daysAgoUnix(1),
				"usd_total":  "2500",
				"product":    "prod_alpha",
			},
			{
				"id":         "pay_recent_beta",
				"created_at": daysAgoUnix(3),
				"total":      1500,
				"product":    map[string]any{"id": "prod_beta"},
			},
			{
				"id":         "pay_old_alpha",
				"created_at": daysAgoUnix(40),
				"subtotal":   "999",
				"product":    "prod_alpha",
			},
			{
				"id":         "pay_ancient",
				"created_at": daysAgoUnix(100),
				"usd_total":  500,
				"product":    "prod_beta",
			},
		})
	}))
	mux.HandleFunc("/products", requireBearer(func(w http.ResponseWriter, r *http.Request) {
		writeWhopData(w, []map[string]any{
			{"id": "prod_alpha", "title": "Alpha Access"},
			{"id": "prod_beta", "title": "Beta Club"},
		})
	}))
	mux.HandleFunc("/plans", requireBearer(func(w http.ResponseWriter, r *http.Request) {
		writeWhopData(w, []map[string]any{
			{"id": "plan_basic", "plan_type": "renewal", "renewal_price": "1000", "billing_period": 30},
			{"id": "plan_pro", "plan_type": "renewal", "renewal_price": 9000, "billing_period": 90},
			{"id": "plan_once", "plan_type": "one_time", "renewal_price": nil, "billing_period": nil},
		})
	}))
	return mux
}

func requireBearer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+whopMockAPIKey() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid token"}`))
			return
		}
		next(w, r)
	}
}

func writeWhopData(w http.ResponseWriter, items []map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": items})
}

func daysAgoUnix(days int) int64 {
	return time.Now().UTC().AddDate(0, 0, -days).Unix()
}

func daysAgoUnixMilli(days int) int64 {
	return time.Now().UTC().AddDate(0, 0, -days).UnixMilli()
}

func daysAgoRFC3339(days int) string {
	return time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
}

func TestMain(m *testing.M) {
	if os.Getenv("WHOP_API_KEY") == "" {
		_ = os.Setenv("WHOP_API_KEY", defaultWhopMockAPIKey)
	}

	listener, err := net.Listen("tcp", whopMockAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start whop api mock: %v\n", err)
		os.Exit(1)
	}

	server := &http.Server{Handler: whopMockHandler()}
	go func() {
		_ = server.Serve(listener)
	}()

	exitCode := m.Run()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = server.Shutdown(shutdownCtx)
	cancel()
	_ = listener.Close()

	os.Exit(exitCode)
}
