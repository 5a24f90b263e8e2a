package controller

import (
	"time"

	"github.com/brandsync/brandsync/internal/infrastructure/config"
	"github.com/brandsync/brandsync/internal/infrastructure/observability"
	customMW "github.com/brandsync/brandsync/internal/middleware"
	"github.com/brandsync/brandsync/internal/repository/postgres"
	"github.com/brandsync/brandsync/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	Pool               *pgxpool.Pool
	RedisClient        *redis.Client
	TaskService        *service.TaskService
	PaymentService     *service.PaymentService
	ApplicationService *service.ApplicationService
	ProfileService     *service.ProfileService
	PayoutService      *service.PayoutService
	IdempotencyRepo    *postgres.IdempotencyRepository
	Metrics            *observability.Metrics
	CORSConfig         config.CORSConfig
	JWTSecret          string
	RateLimitPerMin    int
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(customMW.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link", "X-Idempotency-Replayed"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	if deps.RateLimitPerMin > 0 {
		r.Use(customMW.RateLimit(deps.RateLimitPerMin))
	}
	r.Use(customMW.Metrics(deps.Metrics))

	healthC := NewHealthController(deps.Pool, deps.RedisClient)
	taskC := NewTaskController(deps.TaskService)
	paymentC := NewPaymentController(deps.PaymentService)
	applicationC := NewApplicationController(deps.ApplicationService)
	profileC := NewProfileController(deps.ProfileService)
	payoutC := NewPayoutController(deps.PayoutService)

	r.Get("/health", healthC.Health)
	r.Get("/health/live", healthC.Liveness)
	r.Get("/health/ready", healthC.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface: registration, the pricing calculator and the
		// gateway callback. The callback authenticates itself through its
		// MD5 signature, not a bearer token.
		r.Post("/profiles", profileC.Create)
		r.Post("/estimates", taskC.Estimate)
		r.Post("/payments/notify", paymentC.Notify)

		r.Group(func(r chi.Router) {
			r.Use(customMW.RequireAuth(deps.JWTSecret))
			idempotencyMW := customMW.Idempotency(deps.IdempotencyRepo)

			// Tasks
			r.With(idempotencyMW).Post("/tasks", taskC.Create)
			r.Get("/tasks", taskC.List)
			r.Get("/tasks/{id}", taskC.Get)
			r.Post("/tasks/{id}/publish", taskC.Publish)
			r.Post("/tasks/{id}/cancel", taskC.Cancel)

			// Payments
			r.Post("/tasks/{id}/checkout", paymentC.Checkout)
			r.Post("/tasks/{id}/reconcile", paymentC.Reconcile)
			r.Post("/tasks/{id}/bank-slips", paymentC.RegisterSlip)

			// Applications
			r.With(idempotencyMW).Post("/applications", applicationC.Apply)
			r.Get("/applications", applicationC.List)
			r.Get("/applications/{id}", applicationC.Get)
			r.Post("/applications/{id}/accept", applicationC.Accept)
			r.Post("/applications/{id}/reject", applicationC.Reject)
			r.Post("/applications/{id}/withdraw", applicationC.Withdraw)
			r.Post("/applications/{id}/approve", applicationC.Approve)
			r.Post("/applications/{id}/proofs", applicationC.SubmitProof)
			r.Get("/applications/{id}/proofs", applicationC.GetProofs)

			// Profiles
			r.Get("/profiles/{id}", profileC.Get)
			r.Put("/profiles/{id}/contact", profileC.UpdateContact)
			r.Post("/profiles/{id}/onboarding/advance", profileC.AdvanceOnboarding)
			r.With(idempotencyMW).Post("/profiles/{id}/withdrawals", profileC.RequestWithdrawal)
			r.Get("/profiles/{id}/withdrawals", profileC.ListWithdrawals)

			// Admin
			r.Route("/admin", func(r chi.Router) {
				r.Use(customMW.RequireRole("admin"))
				r.Get("/bank-slips", paymentC.PendingSlips)
				r.Post("/bank-slips/{id}/review", paymentC.ReviewSlip)
				r.Get("/withdrawals", profileC.ListAllWithdrawals)
				r.Post("/withdrawals/{id}/resolve", profileC.ResolveWithdrawal)
				r.Post("/payouts/{id}/retry", payoutC.Retry)
			})
		})
	})

	return r
}
