package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/clinicdesk/handlers"
	"github.com/clinicdesk/clinicdesk/internal/appointments"
	"github.com/clinicdesk/clinicdesk/internal/attachments"
	"github.com/clinicdesk/clinicdesk/internal/blacklist"
	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/database"
	"github.com/clinicdesk/clinicdesk/internal/doctors"
	"github.com/clinicdesk/clinicdesk/internal/patients"
	"github.com/clinicdesk/clinicdesk/internal/visits"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
	"github.com/clinicdesk/clinicdesk/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// log level controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
	}))
	r.Use(metrics.RequestCounter())

	ctx := context.Background()

	// Redis is optional: it powers the token blacklist and the distributed
	// rate limiter when reachable.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			blacklist.SetClient(redisClient)
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Built below so the limiter can be registered per group: on the public
	// group it keys by client IP, and on the protected group it runs after
	// auth and keys by the authenticated doctor.
	var rateLimiter gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			rateLimiter = middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win)
		} else {
			rateLimiter = middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()
	db := client.Database(cfg.MongoDB.Database)

	doctorsSvc := doctors.NewService(doctors.NewMongoRepository(db.Collection("doctors")))
	patientsSvc := patients.NewService(patients.NewMongoRepository(db.Collection("patients")))
	visitsSvc := visits.NewService(visits.NewMongoRepository(db.Collection("visits")), patientsSvc)
	appointmentsSvc := appointments.NewService(appointments.NewMongoRepository(db.Collection("appointments")), patientsSvc)

	// MinIO is optional: attachment routes are only registered when configured.
	var attachmentsSvc *attachments.Service
	if cfg.MinIO.Endpoint != "" {
		store, err := attachments.NewMinIOStore(cfg.MinIO)
		if err != nil {
			logger.Warnf("failed to initialize MinIO (%s): %v", cfg.MinIO.Endpoint, err)
		} else {
			attachmentsSvc = attachments.NewService(attachments.NewMongoRepository(db.Collection("attachments")), store, patientsSvc)
			logger.Infof("Connected to MinIO: %s bucket=%s", cfg.MinIO.Endpoint, cfg.MinIO.Bucket)
		}
	}

	api := r.Group("/api")
	protected := r.Group("/api", middleware.AuthMiddleware(cfg.JWT.Secret))
	if rateLimiter != nil {
		api.Use(rateLimiter)
		protected.Use(rateLimiter)
	}

	handlers.NewAuthHandler(cfg, doctorsSvc).Register(api, protected)
	handlers.NewPatientsHandler(patientsSvc).Register(protected)
	handlers.NewVisitsHandler(visitsSvc).Register(protected)
	handlers.NewAppointmentsHandler(appointmentsSvc).Register(protected)
	handlers.NewDashboardHandler(patientsSvc, appointmentsSvc).Register(protected)
	if attachmentsSvc != nil {
		handlers.NewAttachmentsHandler(attachmentsSvc).Register(protected)
	}
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when critical dependencies answer
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps["mongo"] = client.Ping(pingCtx, nil) == nil
		if !deps["mongo"] {
			ready = false
		}

		if redisClient != nil {
			deps["redis"] = redisClient.Ping(pingCtx).Err() == nil
			if !deps["redis"] {
				ready = false
			}
		} else if cfg.Redis.Host != "" {
			// configured but unreachable at startup
			deps["redis"] = false
			ready = false
		}

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting clinicdesk API on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
