package jwtverify

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/zibbid/postboard/internal/common/errors"
	"github.com/zibbid/postboard/internal/observability/metrics"
)

// Claims is the verified identity carried by a session token. Handlers
// receive it as an explicit value and thread it into service calls; it
// is never stashed in a request context.
type Claims struct {
	UserID int64
	Email  string
	Role   string
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// FromRequest authenticates the request from its Authorization header.
func (v *Verifier) FromRequest(r *http.Request) (Claims, error) {
	raw := r.Header.Get("Authorization")
	if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
		return Claims{}, commonerrors.ErrMissingAuthorization
	}

	return v.Parse(strings.TrimPrefix(raw, "Bearer "))
}

func (v *Verifier) Parse(tokenString string) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	claims, err := parseToken(tokenString, v.secret)
	if err != nil {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, err
	}
	return claims, nil
}

func ParseToken(tokenString string, secret []byte) (Claims, error) {
	return parseToken(tokenString, secret)
}

func parseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, commonerrors.ErrInvalidTokenSigningMethod
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		if err == nil {
			err = commonerrors.ErrInvalidToken
		}
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	id, _ := mapClaims["id"].(float64)
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	if id <= 0 || email == "" || role == "" {
		return Claims{}, commonerrors.ErrMissingTokenClaims
	}

	return Claims{
		UserID: int64(id),
		Email:  email,
		Role:   role,
	}, nil
}
