package service

import (
	"context"

	"github.com/zibbid/postboard/internal/common/logger"
	"github.com/zibbid/postboard/internal/filter"
	"github.com/zibbid/postboard/internal/post/domain"
	"github.com/zibbid/postboard/internal/post/repository"
)

type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

func NewService(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

type CreateInput struct {
	Title   string
	Content string
}

// Create stamps ownership from the authenticated identity; the author id
// never comes from the request body.
func (s *Service) Create(ctx context.Context, authorID int64, input CreateInput) (domain.Post, error) {
	created, err := s.repo.Create(ctx, domain.Post{
		Title:   input.Title,
		Content: input.Content,
		UserID:  authorID,
	})
	if err != nil {
		return domain.Post{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"post_id": created.ID,
		"user_id": authorID,
		"action":  "post_created",
	}).Info("post created")

	return created, nil
}

func (s *Service) List(ctx context.Context, req filter.Request) ([]domain.Post, error) {
	q, err := filter.Build(req, filter.EntityPosts)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Post, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, patch domain.Patch) (domain.Post, error) {
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Post{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"post_id": id,
		"action":  "post_updated",
	}).Info("post updated")

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.WithFields(ctx, logger.Fields{
		"post_id": id,
		"action":  "post_deleted",
	}).Info("post deleted")

	return nil
}
