package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"ecommerce-dashboard/internal/config"
	"ecommerce-dashboard/internal/middleware"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/server"
	"ecommerce-dashboard/internal/services"
	"ecommerce-dashboard/internal/ui/templates"
)

const (
	renderTimeout    = 10 * time.Second
	pageCacheControl = "no-cache"
	pageTitle        = "E-Commerce Data Analysis Dashboard"
)

var conclusions = []string{
	"The best-selling product categories are the ones with the highest number of ordered items.",
	"The most frequently used payment method deserves extra attention to improve the customer experience.",
}

// newDashboardPage builds the page shell from the loaded dataset: every
// category selected, default breadth, most frequent payment type.
func newDashboardPage(analytics *services.Analytics) templates.Page {
	codes := analytics.Categories()
	options := make([]templates.CategoryOption, len(codes))
	for i, code := range codes {
		label := code
		if english, ok := services.TranslateCategory(code); ok {
			label = english
		}
		options[i] = templates.CategoryOption{Code: code, Label: label}
	}

	dist := analytics.PaymentTypes()
	paymentTypes := make([]string, len(dist))
	for i, p := range dist {
		paymentTypes[i] = p.PaymentType
	}

	return templates.Page{
		Title:        pageTitle,
		Categories:   options,
		PaymentTypes: paymentTypes,
		TopN:         services.DefaultTopN,
		MinTopN:      services.MinTopN,
		MaxTopN:      services.MaxTopN,
		PaymentType:  analytics.DefaultPaymentType(),
		Conclusions:  conclusions,
	}
}

func dashboardHandler(analytics *services.Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Cache-Control", pageCacheControl)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.Dashboard(newDashboardPage(analytics)).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	files := services.DataFiles{
		OrderItems: cfg.Data.OrderItemsPath(),
		Payments:   cfg.Data.PaymentsPath(),
		Products:   cfg.Data.ProductsPath(),
	}

	analytics := services.NewAnalytics()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	defer cancel()

	if err := analytics.Load(ctx, files); err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardHandler(analytics),
	}

	srv := server.NewServer(analytics, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook("analytics", func(ctx context.Context) error {
		logger.Info("shutting down analytics service", "stats", analytics.Stats())
		return nil
	})

	if cfg.Data.Watch {
		watcher, err := services.NewDataWatcher(files, analytics, logger)
		if err != nil {
			logger.Error("failed to create data watcher", "error", err)
			os.Exit(1)
		}
		if err := watcher.Start(context.Background()); err != nil {
			logger.Error("failed to start data watcher", "error", err)
			os.Exit(1)
		}
		gracefulServer.RegisterShutdownHook("data-watcher", func(ctx context.Context) error {
			return watcher.Stop()
		})
	}

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
