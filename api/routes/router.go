package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/urbanswap/urbanswap-backend/api/controllers"
	"github.com/urbanswap/urbanswap-backend/api/middleware"
	"github.com/urbanswap/urbanswap-backend/internal/auth"
	"github.com/urbanswap/urbanswap-backend/internal/listings"
	"github.com/urbanswap/urbanswap-backend/internal/swaps"
	"github.com/urbanswap/urbanswap-backend/pkg/auth/session"
	"github.com/urbanswap/urbanswap-backend/pkg/config"
	"github.com/urbanswap/urbanswap-backend/pkg/logger"
	"github.com/urbanswap/urbanswap-backend/pkg/metrics"
	"github.com/urbanswap/urbanswap-backend/pkg/redis"
	"github.com/urbanswap/urbanswap-backend/pkg/storage"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	RedisClient     *redis.Client
	SessionManager  session.AccessSessionChecker
	AuthService     auth.Service
	ListingsService listings.Service
	SwapsService    swaps.Service
	ImageStore      *storage.DiskStore
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer
}

// NewRouter assembles the chi router with the full middleware chain.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.Client.URL),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Get("/api/health", controllers.Health(cfg))

	if p.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		register := r.With()
		login := r.With()
		if p.RedisClient != nil {
			register = r.With(middleware.AuthRateLimit(registerPolicy, p.RedisClient, logg))
			login = r.With(middleware.AuthRateLimit(loginPolicy, p.RedisClient, logg))
		}
		register.Post("/register", controllers.AuthRegister(p.AuthService, logg))
		login.Post("/login", controllers.AuthLogin(p.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
			r.Post("/logout", controllers.AuthLogout(p.AuthService, logg))
			r.Get("/profile", controllers.AuthProfile(p.AuthService, logg))
			r.Put("/profile", controllers.AuthUpdateProfile(p.AuthService, logg))
		})
	})

	// A nil *storage.DiskStore must stay a nil interface so the upload
	// handlers can detect the missing dependency.
	var imageStore controllers.ImageStore
	if p.ImageStore != nil {
		imageStore = p.ImageStore
	}

	r.Route("/api/listings", func(r chi.Router) {
		r.Get("/", controllers.ListListings(p.ListingsService, logg))
		r.Get("/featured", controllers.FeaturedListings(p.ListingsService, logg))
		r.Get("/{listingId}", controllers.GetListing(p.ListingsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
			r.Post("/", controllers.CreateListing(p.ListingsService, imageStore, logg))
			r.Put("/{listingId}", controllers.UpdateListing(p.ListingsService, imageStore, logg))
			r.Delete("/{listingId}", controllers.DeleteListing(p.ListingsService, logg))
			r.Get("/user/my-listings", controllers.MyListings(p.ListingsService, logg))
		})
	})

	r.Route("/api/swaps", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Post("/", controllers.CreateSwap(p.SwapsService, logg))
		r.Get("/", controllers.ListSwaps(p.SwapsService, logg))
		r.Get("/{swapId}", controllers.GetSwap(p.SwapsService, logg))
		r.Put("/{swapId}/status", controllers.UpdateSwapStatus(p.SwapsService, logg))
	})

	if p.ImageStore != nil {
		fileServer := http.StripPrefix(cfg.Uploads.PublicPath+"/", http.FileServer(http.Dir(p.ImageStore.Dir())))
		r.Get(cfg.Uploads.PublicPath+"/*", fileServer.ServeHTTP)
	}

	return r
}
