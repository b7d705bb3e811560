// Package app builds the HTTP application from configuration. Both the API server and
// travelctl share it.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"travelagency/internal/config"
	"travelagency/internal/database"
	"travelagency/internal/middleware"
	"travelagency/internal/modules/admin"
	"travelagency/internal/modules/auth"
	"travelagency/internal/modules/booking"
	"travelagency/internal/modules/catalog"
	"travelagency/internal/modules/favorite"
	"travelagency/internal/modules/notify"
	"travelagency/internal/modules/order"
	"travelagency/internal/modules/payment"
	"travelagency/internal/modules/review"
	"travelagency/internal/modules/upload"
	"travelagency/internal/pkg/events"
	"travelagency/internal/pkg/jwt"
	"travelagency/internal/pkg/metrics"
	"travelagency/internal/pkg/midtrans"
	"travelagency/internal/pkg/ratelimit"
	"travelagency/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type App struct {
	Config  *config.Config
	Log     *logrus.Logger
	DB      *gorm.DB
	Metrics *metrics.Metrics

	Bookings *repository.BookingRepository
	Users    *repository.UserRepository
	Admins   *repository.AdminRepository
	Catalog  *catalog.Catalog
	Payments *payment.Service

	registry  *prometheus.Registry
	hub       *notify.Hub
	publisher events.Publisher
	limiter   ratelimit.Limiter
	jwt       *jwt.Service
	redis     *redis.Client

	adminHandler    *admin.Handler
	authHandler     *auth.Handler
	bookingHandler  *booking.Handler
	favoriteHandler *favorite.Handler
	orderHandler    *order.Handler
	reviewHandler   *review.Handler
	uploadHandler   *upload.Handler
	paymentHandler  *payment.Handler
	notifyHandler   *notify.Handler
}

type Option func(*App)

// WithDB skips Connect and uses db as is. Migrations still run.
func WithDB(db *gorm.DB) Option { return func(a *App) { a.DB = db } }

// New connects storage, migrates the schema and wires every module.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger, opts ...Option) (*App, error) {
	a := &App{Config: cfg, Log: log}
	for _, opt := range opts {
		opt(a)
	}

	if a.DB == nil {
		db, err := database.Connect(cfg.Database.URL, log)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.DB = db
	}
	if err := database.Migrate(a.DB); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.New(a.registry)

	a.limiter = a.newLimiter(ctx)
	a.publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		a.publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		log.WithFields(logrus.Fields{"brokers": cfg.Kafka.Brokers, "topic": cfg.Kafka.Topic}).Info("publishing booking events to kafka")
	}
	a.hub = notify.NewHub()
	a.jwt = jwt.New(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)

	a.Bookings = repository.NewBookingRepository(a.DB)
	a.Users = repository.NewUserRepository(a.DB)
	a.Admins = repository.NewAdminRepository(a.DB)
	a.Catalog = catalog.New(a.DB, log)

	gw := midtrans.NewClient(midtrans.Config{
		ServerKey: cfg.Gateway.ServerKey,
		SnapURL:   cfg.Gateway.SnapURL,
		APIURL:    cfg.Gateway.APIURL,
		Timeout:   cfg.Gateway.Timeout,
	})
	a.Payments = payment.NewService(a.Bookings, a.Catalog.Packages, gw, payment.Config{
		ServerKey:    cfg.Gateway.ServerKey,
		IsProduction: cfg.Gateway.IsProduction,
		OrderPrefix:  cfg.Gateway.OrderPrefix,
		FinishURL:    cfg.FinishURL(),
	}, log,
		payment.WithPublisher(a.publisher),
		payment.WithNotifier(a.hub),
		payment.WithMetrics(a.Metrics),
	)

	a.adminHandler = admin.NewHandler(admin.NewService(repository.NewStatsRepository(a.DB)), log)
	a.authHandler = auth.NewHandler(auth.NewService(a.Users, a.Admins, a.jwt, log), log)
	a.bookingHandler = booking.NewHandler(booking.NewService(a.Bookings, a.publisher, a.hub, a.Metrics, log), log)
	a.favoriteHandler = favorite.NewHandler(repository.NewFavoriteRepository(a.DB), a.Catalog.Packages, log)
	a.orderHandler = order.NewHandler(order.NewService(repository.NewOrderRepository(a.DB), a.Catalog.Consumables, log), log)
	a.reviewHandler = review.NewHandler(review.NewService(repository.NewReviewRepository(a.DB), a.Bookings, a.Catalog.Packages, a.Users), log)
	a.uploadHandler = upload.NewHandler(upload.NewService(repository.NewUploadRepository(a.DB), cfg.Upload.Dir, log))
	a.paymentHandler = payment.NewHandler(a.Payments, log, cfg.IsDevelopment())
	a.notifyHandler = notify.NewHandler(a.hub, a.Bookings, log)

	return a, nil
}

func (a *App) newLimiter(ctx context.Context) ratelimit.Limiter {
	opts := ratelimit.Options{
		Limit:  a.Config.RateLimit.LoginAttempts,
		Window: a.Config.RateLimit.LoginWindow,
		Prefix: "login_attempts:",
	}
	if a.Config.Redis.Addr == "" {
		return ratelimit.NewMemory(opts)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.Config.Redis.Addr,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		a.Log.WithError(err).WithField("addr", a.Config.Redis.Addr).Warn("redis unavailable, using in-process login limiter")
		_ = client.Close()
		return ratelimit.NewMemory(opts)
	}
	a.redis = client
	a.Log.WithField("addr", a.Config.Redis.Addr).Info("login limiter backed by redis")
	return ratelimit.NewRedis(client, opts, a.Log)
}

// Router returns the gin engine with every route mounted.
func (a *App) Router() *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(a.Config.App.TrustedProxies); err != nil {
		a.Log.WithError(err).Error("invalid trusted proxies, trusting none")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(a.Log, a.Config.IsDevelopment()),
		middleware.RequestLogger(a.Log, a.Metrics),
		middleware.CORS(a.Config.AllowedOrigins()),
	)

	r.GET("/health", a.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	a.notifyHandler.RegisterRoutes(r)

	api := r.Group("/api")
	protected := api.Group("", middleware.JWTAuth(a.jwt))
	back := api.Group("", middleware.JWTAuth(a.jwt), middleware.AdminOnly())

	pay := api.Group("/payment")
	a.paymentHandler.RegisterRoutes(pay)
	if a.Config.DevEndpointsEnabled() {
		payment.NewDevHandler(a.paymentHandler).RegisterRoutes(pay)
	} else if a.Config.IsDevelopment() {
		a.Log.Warn("payment dev endpoints disabled: gateway is in production mode")
	}

	a.authHandler.RegisterPublicRoutes(api)
	a.authHandler.RegisterAdminRoutes(api, middleware.LoginRateLimit(a.limiter, "admin_login", a.Metrics))
	a.authHandler.RegisterProtectedRoutes(protected)

	a.adminHandler.RegisterRoutes(back)
	a.Catalog.RegisterRoutes(api, back)
	a.bookingHandler.RegisterRoutes(protected, back)
	a.favoriteHandler.RegisterRoutes(protected)
	a.orderHandler.RegisterRoutes(protected, back)
	a.reviewHandler.RegisterRoutes(api, protected, back)
	a.uploadHandler.RegisterRoutes(r, back)

	return r
}

func (a *App) health(c *gin.Context) {
	sqlDB, err := a.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"database":  "up",
		"env":       a.Config.App.Env,
		"timestamp": time.Now().UTC(),
	})
}

// Close releases sockets, the event writer, redis and the database pool.
func (a *App) Close() error {
	a.hub.Close()
	if err := a.publisher.Close(); err != nil {
		a.Log.WithError(err).Warn("close event publisher")
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
