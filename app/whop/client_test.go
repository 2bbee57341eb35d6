package whop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ayothedoc3/whop-analytics-dashboard/config"
)

func testConfig(baseURL string) config.WhopConfig {
	return config.WhopConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		CompanyID:      "biz_123",
		PageSize:       50,
		RequestTimeout: 5 * time.Second,
	}
}

func TestListMembershipsSendsAuthAndQuery(t *testing.T) {
	var gotPath, gotAuth, gotPer, gotCompany string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotPer = r.URL.Query().Get("per")
		gotCompany = r.URL.Query().Get("company_id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"mem_1","status":"active"},{"id":"mem_2","status":"canceled"}]}`))
	}))
	defer server.Close()

	client := NewAPIClient(testConfig(server.URL))

	memberships, err := client.ListMemberships(context.Background(), ListParams{PageSize: 50, CompanyID: "biz_123"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(memberships) != 2 {
		t.Fatalf("expected 2 memberships, got %d", len(memberships))
	}
	if memberships[0].ID != "mem_1" || memberships[0].Status != "active" {
		t.Errorf("unexpected first membership: %+v", memberships[0])
	}
	if gotPath != "/memberships" {
		t.Errorf("expected path /memberships, got %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
	if gotPer != "50" {
		t.Errorf("expected per=50, got %q", gotPer)
	}
	if gotCompany != "biz_123" {
		t.Errorf("expected company_id=biz_123, got %q", gotCompany)
	}
}

func TestListPaymentsOmitsCompanyID(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"pay_1","usd_total":"4999"}]}`))
	}))
	defer server.Close()

	client := NewAPIClient(testConfig(server.URL))

	payments, err := client.ListPayments(context.Background(), ListParams{PageSize: 50, CompanyID: "biz_123"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(payments))
	}
	if strings.Contains(gotQuery, "company_id") {
		t.Errorf("expected payments query without company_id, got %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "per=50") {
		t.Errorf("expected per=50 in query, got %q", gotQuery)
	}
}

func TestListProductsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_token"}`))
	}))
	defer server.Close()

	client := NewAPIClient(testConfig(server.URL))

	_, err := client.ListProducts(context.Background(), ListParams{CompanyID: "biz_123"})
	if err == nil {
		t.Fatal("expected error for 401 response, got nil")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status code in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid_token") {
		t.Errorf("expected response body in error, got %v", err)
	}
}

func TestListPlansDecodesRawFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"plan_1","plan_type":"renewal","renewal_price":"1999","billing_period":30}]}`))
	}))
	defer server.Close()

	client := NewAPIClient(testConfig(server.URL))

	plans, err := client.ListPlans(context.Background(), ListParams{CompanyID: "biz_123"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(plans))
	}
	if plans[0].ID != "plan_1" || plans[0].PlanType != "renewal" {
		t.Errorf("unexpected plan: %+v", plans[0])
	}
	if string(plans[0].RenewalPrice) != `"1999"` {
		t.Errorf("expected raw renewal_price preserved, got %s", plans[0].RenewalPrice)
	}
}

func TestNewAPIClientTrimsBaseURL(t *testing.T) {
	cfg := testConfig("https://api.example.com/v2/")
	client := NewAPIClient(cfg)
	if client.baseURL != "https://api.example.com/v2" {
		t.Errorf("expected trailing slash trimmed, got %s", client.baseURL)
	}
}

func TestGetCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewAPIClient(testConfig(server.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListMemberships(ctx, ListParams{})
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}
