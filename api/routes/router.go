package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oceanharvest/fishmarket-backend/api/controllers"
	"github.com/oceanharvest/fishmarket-backend/api/middleware"
	"github.com/oceanharvest/fishmarket-backend/internal/listings"
	"github.com/oceanharvest/fishmarket-backend/internal/orders"
	"github.com/oceanharvest/fishmarket-backend/internal/payments"
	"github.com/oceanharvest/fishmarket-backend/internal/reviews"
	"github.com/oceanharvest/fishmarket-backend/internal/users"
	"github.com/oceanharvest/fishmarket-backend/pkg/config"
	"github.com/oceanharvest/fishmarket-backend/pkg/logger"
	"github.com/oceanharvest/fishmarket-backend/pkg/metrics"
	pkgredis "github.com/oceanharvest/fishmarket-backend/pkg/redis"
)

type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *pkgredis.Client
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Users    users.Service
	Listings listings.Service
	Orders   orders.Service
	Reviews  reviews.Service
	Payments payments.Service
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, readinessDeps(p)))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore(p.Redis), p.Logger))

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", controllers.UserRegister(p.Users, p.Logger))
			r.Post("/login", controllers.UserLogin(p.Users, p.Logger))
			r.Get("/", controllers.UserList(p.Users, p.Logger))
			r.Get("/{userId}", controllers.UserGet(p.Users, p.Logger))
			r.Put("/{userId}", controllers.UserUpdate(p.Users, p.Logger))
			r.Delete("/{userId}", controllers.UserDelete(p.Users, p.Logger))
		})

		r.Route("/listings", func(r chi.Router) {
			r.Post("/", controllers.ListingCreate(p.Listings, p.Logger))
			r.Get("/", controllers.ListingList(p.Listings, p.Logger))
			r.Get("/{listingId}", controllers.ListingGet(p.Listings, p.Logger))
			r.Put("/{listingId}", controllers.ListingUpdate(p.Listings, p.Logger))
			r.Delete("/{listingId}", controllers.ListingDelete(p.Listings, p.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(p.Orders, p.Logger))
			r.Get("/", controllers.OrderList(p.Orders, p.Logger))
			r.Get("/buyer/{buyerId}", controllers.OrderListByBuyer(p.Orders, p.Logger))
			r.Get("/{orderId}", controllers.OrderGet(p.Orders, p.Logger))
			r.Put("/{orderId}/status", controllers.OrderUpdateStatus(p.Orders, p.Logger))
			r.Delete("/{orderId}", controllers.OrderDelete(p.Orders, p.Logger))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", controllers.ReviewAttach(p.Reviews, p.Logger))
			r.Get("/", controllers.ReviewList(p.Reviews, p.Logger))
			r.Get("/buyer/{buyerId}", controllers.ReviewListByBuyer(p.Reviews, p.Logger))
			r.Get("/{reviewId}", controllers.ReviewGet(p.Reviews, p.Logger))
			r.Put("/{reviewId}", controllers.ReviewUpdate(p.Reviews, p.Logger))
			r.Delete("/{reviewId}", controllers.ReviewDelete(p.Reviews, p.Logger))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", controllers.PaymentCreate(p.Payments, p.Logger))
			r.Get("/", controllers.PaymentList(p.Payments, p.Logger))
			r.Get("/order/{orderId}", controllers.PaymentGetByOrder(p.Payments, p.Logger))
		})
	})

	return r
}

func readinessDeps(p RouterParams) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if p.DB != nil {
		deps["database"] = p.DB
	}
	if p.Redis != nil {
		deps["redis"] = p.Redis
	}
	return deps
}

func idempotencyStore(client *pkgredis.Client) pkgredis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}
