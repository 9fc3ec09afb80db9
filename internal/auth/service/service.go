package service

import (
	"context"
	"errors"

	commoncrypto "github.com/zibbid/postboard/internal/common/crypto"
	commonerrors "github.com/zibbid/postboard/internal/common/errors"
	"github.com/zibbid/postboard/internal/common/logger"
	"github.com/zibbid/postboard/internal/observability/metrics"
	userdomain "github.com/zibbid/postboard/internal/user/domain"
	userrepo "github.com/zibbid/postboard/internal/user/repository"
)

type AuthService struct {
	users  userrepo.Repository
	hasher commoncrypto.PasswordHasher
	issuer *TokenIssuer
	log    *logger.Logger
}

func NewAuthService(
	users userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	issuer *TokenIssuer,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		log:    log,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Role     userdomain.Role
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token string
}

// Register creates an account and signs it in. Email uniqueness is
// enforced by the store, not pre-checked here.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	role := input.Role
	if !role.Valid() {
		role = userdomain.RoleUser
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user, err := s.users.Create(ctx, userdomain.User{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, commonerrors.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "register_email_exists",
			}).Warn("register failed: email already exists")
			return AuthResult{}, err
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	token, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": user.ID,
			"action":  "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": user.ID,
		"action":  "register_success",
	}).Info("register success")

	return AuthResult{Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_invalid_password",
		}).Warn("login failed: invalid password")
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": user.ID,
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": user.ID,
		"action":  "login_success",
	}).Info("login success")

	return AuthResult{Token: token}, nil
}
