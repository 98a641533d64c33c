package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	myPostgresRepo "github.com/krishna-gitAcc/hospital-management-project/internal/adapters/db/postgres"
	myRedisRepo "github.com/krishna-gitAcc/hospital-management-project/internal/adapters/db/redis"
	transport "github.com/krishna-gitAcc/hospital-management-project/internal/adapters/transport/http"
	httpmw "github.com/krishna-gitAcc/hospital-management-project/internal/adapters/transport/http/middleware"
	appjwt "github.com/krishna-gitAcc/hospital-management-project/internal/app/auth/jwt"
	appsvc "github.com/krishna-gitAcc/hospital-management-project/internal/app/auth/service"
	"github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/model"
	"github.com/krishna-gitAcc/hospital-management-project/internal/infra/config"
	lg "github.com/krishna-gitAcc/hospital-management-project/internal/infra/log"
	"github.com/krishna-gitAcc/hospital-management-project/internal/infra/migrate"
	"github.com/krishna-gitAcc/hospital-management-project/internal/infra/server"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	sessionRepo := myRedisRepo.NewRedisSessionRepo(redisCli, cfg.SessionTTL)
	tokenRepo := myRedisRepo.NewRedisTokenRepo(redisCli)

	jwtUtil, err := appjwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}

	svc := appsvc.New(userRepo, sessionRepo, tokenRepo, jwtUtil, cfg, validator.New())
	handler := transport.NewHandler(svc, zapLog)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	if n, err := userRepo.CountByRole(startupCtx, model.RoleAdmin); err != nil {
		zapLog.Warn("admin count check failed", zap.Error(err))
	} else if n == 0 {
		zapLog.Warn("no admin users registered")
	}
	cancelStartup()

	metrics := httpmw.NewMetrics(prometheus.DefaultRegisterer)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(zapLog))
	router.Use(httpmw.NewRateLimitPerIP(50, 100, 10_000, time.Hour))
	router.Use(metrics.Handler())

	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// the gateway check gates everything, /health and /metrics included
	router.Use(httpmw.NewGatewayFilter(cfg.GatewaySecretHeader, cfg.GatewaySecret))

	handler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rootCtx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		return server.StartHTTPServer(ctx, cfg, router, zapLog)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")
	cancel()

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
