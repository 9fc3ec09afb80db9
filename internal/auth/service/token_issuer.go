package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zibbid/postboard/internal/common/clock"
	"github.com/zibbid/postboard/internal/common/jwtverify"
	"github.com/zibbid/postboard/internal/observability/metrics"
	userdomain "github.com/zibbid/postboard/internal/user/domain"
)

type TokenIssuer struct {
	jwtSecret      []byte
	clock          clock.Clock
	accessTokenTTL time.Duration
}

func NewTokenIssuer(jwtSecret string, accessTokenTTL time.Duration, clock clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret:      []byte(jwtSecret),
		clock:          clock,
		accessTokenTTL: accessTokenTTL,
	}
}

// IssueAccessToken signs an HS256 token carrying the id/email/role triple
// the verifier and the policy checks run on.
func (ti *TokenIssuer) IssueAccessToken(user userdomain.User) (string, error) {
	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   now.Add(ti.accessTokenTTL).Unix(),
		"iat":   now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	metrics.AccessTokensIssued.Inc()
	return tokenString, nil
}

func (ti *TokenIssuer) ParseToken(tokenString string) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(tokenString, ti.jwtSecret)
}
