package whop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ayothedoc3/whop-analytics-dashboard/app/factory"
	"github.com/ayothedoc3/whop-analytics-dashboard/config"
)

// APIClient implements DataSource against the Whop REST API. All list calls
// are idempotent GETs, so callers may retry them freely.
type APIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logrus.FieldLogger
}

func NewAPIClient(cfg config.WhopConfig) *APIClient {
	limit := rate.Inf
	burst := 1
	if cfg.RateLimitPerSecond > 0 {
		limit = rate.Limit(cfg.RateLimitPerSecond)
		burst = cfg.RateLimitPerSecond
	}

	return &APIClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(limit, burst),
		logger:     factory.NewModuleLogger("whop-client"),
	}
}

func (c *APIClient) ListMemberships(ctx context.Context, params ListParams) ([]Membership, error) {
	var envelope struct {
		Data []Membership `json:"data"`
	}
	if err := c.get(ctx, "/memberships", listQuery(params, true), &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

func (c *APIClient) ListPayments(ctx context.Context, params ListParams) ([]Payment, error) {
	var envelope struct {
		Data []Payment `json:"data"`
	}
	if err := c.get(ctx, "/payments", listQuery(params, false), &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

func (c *APIClient) ListProducts(ctx context.Context, params ListParams) ([]Product, error) {
	var envelope struct {
		Data []Product `json:"data"`
	}
	if err := c.get(ctx, "/products", listQuery(params, true), &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

func (c *APIClient) ListPlans(ctx context.Context, params ListParams) ([]Plan, error) {
	var envelope struct {
		Data []Plan `json:"data"`
	}
	if err := c.get(ctx, "/plans", listQuery(params, true), &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

func listQuery(params ListParams, withCompany bool) url.Values {
	q := url.Values{}
	if params.PageSize > 0 {
		q.Set("per", strconv.Itoa(params.PageSize))
	}
	if withCompany && params.CompanyID != "" {
		q.Set("company_id", params.CompanyID)
	}
	return q
}

func (c *APIClient) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whop api returned status %d for %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	c.logger.WithFields(logrus.Fields{"path": path, "status": resp.StatusCode}).Debug("whop_request")
	return nil
}
