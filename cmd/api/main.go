package main

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/zibbid/postboard/internal/auth/http"
	authservice "github.com/zibbid/postboard/internal/auth/service"
	"github.com/zibbid/postboard/internal/common/clock"
	"github.com/zibbid/postboard/internal/common/config"
	"github.com/zibbid/postboard/internal/common/constants"
	commoncrypto "github.com/zibbid/postboard/internal/common/crypto"
	commondb "github.com/zibbid/postboard/internal/common/db"
	commonhttp "github.com/zibbid/postboard/internal/common/http"
	"github.com/zibbid/postboard/internal/common/jwtverify"
	"github.com/zibbid/postboard/internal/common/logger"
	"github.com/zibbid/postboard/internal/common/server"
	posthttp "github.com/zibbid/postboard/internal/post/http"
	postrepo "github.com/zibbid/postboard/internal/post/repository"
	postservice "github.com/zibbid/postboard/internal/post/service"
	userhttp "github.com/zibbid/postboard/internal/user/http"
	userrepo "github.com/zibbid/postboard/internal/user/repository"
	userservice "github.com/zibbid/postboard/internal/user/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.LogDir, "api", cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	pool := commondb.NewPool(appLog, cfg.DatabaseURL)
	defer pool.Close()
	commondb.StartPoolMetrics(pool, constants.DBPoolMetricsInterval)

	hasher := commoncrypto.NewBcryptHasher(cfg.BcryptCost)
	verifier := jwtverify.NewVerifier(cfg.JWTSecret)
	issuer := authservice.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, clock.NewRealClock())

	users := userrepo.NewPgRepository(pool)
	posts := postrepo.NewPgRepository(pool)

	authSvc := authservice.NewAuthService(users, hasher, issuer, appLog)
	userSvc := userservice.NewService(users, hasher, appLog)
	postSvc := postservice.NewService(posts, appLog)

	mux := http.NewServeMux()
	authhttp.NewHandler(authSvc, appLog).Register(mux)
	posthttp.NewHandler(postSvc, verifier, appLog).Register(mux)
	userhttp.NewHandler(userSvc, verifier, appLog).Register(mux)
	mux.HandleFunc("/health", commonhttp.HealthHandler(appLog))
	mux.Handle("/metrics", promhttp.Handler())

	limiter := commonhttp.NewStrictRateLimiter()
	timeout := commonhttp.RequestTimeoutMiddleware(cfg.RequestTimeout)
	handler := commonhttp.BuildBaseHandler(appLog, limiter.Middleware(timeout(mux)))

	srv := server.NewServer(server.DefaultServerConfig(cfg.HTTPPort), handler)

	server.StartWithGracefulShutdownAndHooks(srv, appLog, "api", []server.ShutdownHook{
		func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})
}
