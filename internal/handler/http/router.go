package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KiranKumarPM/servon-1/internal/domain"
	"github.com/KiranKumarPM/servon-1/pkg/health"
	"github.com/KiranKumarPM/servon-1/pkg/middleware"
)

// Services bundles the use cases the router exposes.
type Services struct {
	Reviews      ReviewService
	Catalog      CatalogService
	Requirements RequirementService
	Quotations   QuotationService
	Advisor      AdvisorService
	Users        UserService
}

// Options configures the cross-cutting parts of the router. Nil Metrics,
// Gatherer and AILimiter disable the corresponding feature.
type Options struct {
	Validate  middleware.TokenValidator
	Health    *health.Handler
	Metrics   *middleware.HTTPMetrics
	Gatherer  prometheus.Gatherer
	AILimiter *middleware.RateLimiter
	CORS      middleware.CORSConfig
}

// NewRouter creates a chi router with every API route registered.
func NewRouter(svcs Services, opts Options, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.Recovery(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Handler)
	}
	r.Use(middleware.CORS(opts.CORS))

	// Health check endpoints
	if opts.Health != nil {
		r.Get("/health/live", opts.Health.Live)
		r.Get("/health/ready", opts.Health.Ready)
	}
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	authenticated := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.Validate))
		// Re-enrich the request logger now that the user id is known.
		r.Use(middleware.RequestLogger(logger))
	}
	providersOnly := middleware.RequireRole(domain.UserTypeProvider)
	customersOnly := middleware.RequireRole(domain.UserTypeCustomer)

	catalog := NewCatalogHandler(svcs.Catalog, logger)
	r.Route("/api/v1/services", func(r chi.Router) {
		r.Get("/", catalog.ListServices)
		r.Get("/{id}", catalog.GetService)
		r.Group(func(r chi.Router) {
			authenticated(r)
			r.With(providersOnly).Post("/", catalog.CreateService)
		})
	})

	reviews := NewReviewHandler(svcs.Reviews, logger)
	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Get("/service/{serviceId}", reviews.ListReviews)
		r.Get("/service/{serviceId}/stats", reviews.GetStats)
		r.Group(func(r chi.Router) {
			authenticated(r)
			r.Post("/", reviews.CreateReview)
			r.Put("/{id}", reviews.UpdateReview)
			r.Delete("/{id}", reviews.DeleteReview)
			r.Post("/{id}/helpful", reviews.MarkHelpful)
		})
	})

	requirements := NewRequirementHandler(svcs.Requirements, logger)
	r.Route("/api/v1/requirements", func(r chi.Router) {
		authenticated(r)
		r.With(customersOnly).Post("/", requirements.CreateRequirement)
		r.Get("/", requirements.ListOpen)
		r.Get("/my", requirements.ListMine)
		r.Patch("/{id}/status", requirements.UpdateStatus)
	})

	quotations := NewQuotationHandler(svcs.Quotations, logger)
	r.Route("/api/v1/quotations", func(r chi.Router) {
		authenticated(r)
		r.With(providersOnly).Post("/", quotations.SendQuotation)
		r.Get("/received", quotations.ListReceived)
		r.Get("/sent", quotations.ListSent)
		r.Patch("/{id}/status", quotations.UpdateStatus)
	})

	advisor := NewAdvisorHandler(svcs.Advisor, logger)
	r.Route("/api/v1/ai", func(r chi.Router) {
		authenticated(r)
		if opts.AILimiter != nil {
			r.Use(opts.AILimiter.Handler)
		}
		r.Get("/recommendations/{requirementId}", advisor.Recommendations)
		r.Post("/analyze", advisor.Analyze)
		r.Post("/personalized-response", advisor.PersonalizedResponse)
		r.Post("/estimate-cost", advisor.EstimateCost)
	})

	users := NewUserHandler(svcs.Users, logger)
	r.Route("/api/v1/users/me", func(r chi.Router) {
		authenticated(r)
		r.Get("/", users.Me)
		r.Patch("/", users.UpdateMe)
		r.Post("/credits", users.BuyCredits)
	})

	return r
}
