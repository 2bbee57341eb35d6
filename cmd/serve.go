package cmd

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ayothedoc3/whop-analytics-dashboard/app/controller"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/retry"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/service"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/whop"
	"github.com/ayothedoc3/whop-analytics-dashboard/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) server exposing the dashboard metrics API.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	if cfg.Whop.APIKey == "" {
		logrus.Warn("WHOP_API_KEY is not set; upstream requests will be unauthenticated")
	}
	if cfg.Whop.CompanyID == "" {
		logrus.Warn("WHOP_COMPANY_ID is not set; metrics requests will fail until it is configured")
	}

	whopClient := whop.NewAPIClient(cfg.Whop)
	metricsService := service.NewMetricsService(whopClient, cfg.Whop, retry.Config{
		MaxAttempts:  cfg.Fetch.MaxAttempts,
		InitialDelay: cfg.Fetch.InitialDelay,
	})
	metricsController := controller.NewMetricsController(metricsService)

	e := setupHTTPServer(metricsController, cfg.App.APIKey)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(metricsController *controller.MetricsController, apiKey string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string {
			return fmt.Sprintf("rest-%s", uuid.New().String())
		},
	}))

	e.GET("/health", metricsController.Health)

	// The health endpoint stays open for probes; only the dashboard API is
	// gated, and only when an API key is configured.
	api := e.Group("/api")
	if apiKey != "" {
		api.Use(echomiddleware.KeyAuthWithConfig(echomiddleware.KeyAuthConfig{
			KeyLookup: "header:X-API-Key",
			Validator: func(key string, _ echo.Context) (bool, error) {
				return subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1, nil
			},
			// Missing and invalid keys get the same answer so the response
			// does not reveal whether a key was recognized.
			ErrorHandler: func(_ error, _ echo.Context) error {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing api key")
			},
		}))
	}
	api.GET("/metrics", metricsController.GetMetrics)

	return e
}
