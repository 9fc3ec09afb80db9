package service

import (
	"context"

	commoncrypto "github.com/zibbid/postboard/internal/common/crypto"
	commonerrors "github.com/zibbid/postboard/internal/common/errors"
	"github.com/zibbid/postboard/internal/common/logger"
	"github.com/zibbid/postboard/internal/filter"
	"github.com/zibbid/postboard/internal/user/domain"
	"github.com/zibbid/postboard/internal/user/repository"
)

type Service struct {
	repo   repository.Repository
	hasher commoncrypto.PasswordHasher
	log    *logger.Logger
}

func NewService(repo repository.Repository, hasher commoncrypto.PasswordHasher, log *logger.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, log: log}
}

func (s *Service) List(ctx context.Context, req filter.Request) ([]domain.User, error) {
	q, err := filter.Build(req, filter.EntityUsers)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateInput carries the raw patch; a non-nil Password is hashed here
// before it reaches the store.
type UpdateInput struct {
	Email    *string
	Password *string
	Role     *domain.Role
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (domain.User, error) {
	patch := domain.Patch{
		Email: input.Email,
		Role:  input.Role,
	}

	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": id,
				"action":  "user_update_hash_failed",
			}).Errorf("user update failed: password hash error: %v", err)
			return domain.User{}, commonerrors.ErrInternalError.WithCause(err)
		}
		patch.PasswordHash = &hash
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.User{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": id,
		"action":  "user_updated",
	}).Info("user updated")

	return updated, nil
}

// Delete removes the user; their posts go with them via the store's
// cascading foreign key.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": id,
		"action":  "user_deleted",
	}).Info("user deleted")

	return nil
}
