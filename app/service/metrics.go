package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ayothedoc3/whop-analytics-dashboard/app/factory"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/mapper"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/metrics"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/retry"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/whop"
	"github.com/ayothedoc3/whop-analytics-dashboard/config"
)

// MetricsService aggregates the four Whop record collections into one
// dashboard snapshot per request. Nothing is cached between calls.
type MetricsService struct {
	source   whop.DataSource
	whopCfg  config.WhopConfig
	retryCfg retry.Config
	logger   logrus.FieldLogger
}

func NewMetricsService(source whop.DataSource, whopCfg config.WhopConfig, retryCfg retry.Config) *MetricsService {
	return &MetricsService{
		source:   source,
		whopCfg:  whopCfg,
		retryCfg: retryCfg,
		logger:   factory.NewModuleLogger("metrics-service"),
	}
}

// Snapshot fetches memberships, payments, products and plans concurrently,
// normalizes them and computes the metrics. The result is all-or-nothing: if
// any collection cannot be fetched within its retry budget, the first failure
// is returned and no snapshot is produced.
func (s *MetricsService) Snapshot(ctx context.Context) (*metrics.Snapshot, error) {
	if strings.TrimSpace(s.whopCfg.CompanyID) == "" {
		return nil, ErrCompanyIDRequired
	}

	now := time.Now().UTC()
	params := whop.ListParams{
		PageSize:  s.whopCfg.PageSize,
		CompanyID: s.whopCfg.CompanyID,
	}

	var (
		memberships []whop.Membership
		payments    []whop.Payment
		products    []whop.Product
		plans       []whop.Plan
	)

	// Each goroutine retries independently and writes only its own slice, so
	// one collection's failure cannot clobber another's data.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		items, err := retry.Do(groupCtx, s.retryCfg, func(ctx context.Context) ([]whop.Membership, error) {
			return s.source.ListMemberships(ctx, params)
		})
		if err != nil {
			return fmt.Errorf("fetch memberships: %w", err)
		}
		memberships = items
		return nil
	})
	group.Go(func() error {
		items, err := retry.Do(groupCtx, s.retryCfg, func(ctx context.Context) ([]whop.Payment, error) {
			return s.source.ListPayments(ctx, params)
		})
		if err != nil {
			return fmt.Errorf("fetch payments: %w", err)
		}
		payments = items
		return nil
	})
	group.Go(func() error {
		items, err := retry.Do(groupCtx, s.retryCfg, func(ctx context.Context) ([]whop.Product, error) {
			return s.source.ListProducts(ctx, params)
		})
		if err != nil {
			return fmt.Errorf("fetch products: %w", err)
		}
		products = items
		return nil
	})
	group.Go(func() error {
		items, err := retry.Do(groupCtx, s.retryCfg, func(ctx context.Context) ([]whop.Plan, error) {
			return s.source.ListPlans(ctx, params)
		})
		if err != nil {
			return fmt.Errorf("fetch plans: %w", err)
		}
		plans = items
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	snapshot := metrics.ComputeSnapshot(
		now,
		mapper.Memberships(memberships),
		mapper.Plans(plans),
		mapper.Payments(payments),
		mapper.Products(products),
	)

	s.logger.WithFields(logrus.Fields{
		"memberships": len(memberships),
		"payments":    len(payments),
		"products":    len(products),
		"plans":       len(plans),
	}).Debug("snapshot_computed")

	return &snapshot, nil
}
