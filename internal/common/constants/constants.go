package constants

import "time"

type contextKey string

const TraceIDKey contextKey = "trace_id"

const (
	PasswordMinLength  = 8
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32

	TitleMinLength   = 5
	TitleMaxLength   = 30
	ContentMinLength = 5
	ContentMaxLength = 300

	BcryptCost = 7

	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	DefaultMaxRequestSize = 1 << 20

	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "8080"
	DefaultRequestTimeout = 5 * time.Second
	DefaultAccessTokenTTL = 24 * time.Hour

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 0.5
	RateLimitRegisterBurst             = 3
	RateLimitGeneralRequestsPerSecond  = 20.0
	RateLimitGeneralBurst              = 40

	TestJWTSecret      = "test-secret-key-that-is-long-enough!"
	TestAccessTokenTTL = 30 * time.Minute
)
