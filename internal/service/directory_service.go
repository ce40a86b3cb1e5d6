package service

import (
	"context"
	"fmt"

	"github.com/juicefit/juice-platform/internal/directory"
	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/internal/platform/cache"
	"github.com/juicefit/juice-platform/internal/repo/postgres"
	"github.com/juicefit/juice-platform/pkg/config"
	"github.com/juicefit/juice-platform/pkg/logger"
)

type DirectoryService interface {
	Search(ctx context.Context, q directory.Query) ([]domain.Trainer, error)
	GetTrainer(ctx context.Context, id string) (*domain.Trainer, error)
	UpdateProfile(ctx context.Context, sessionTrainerID, id string, patch domain.TrainerPatch) (*domain.Trainer, error)
}

type directoryService struct {
	trainerRepo postgres.TrainerRepository
	cache       *cache.Redis
	config      *config.Config
}

func NewDirectoryService(trainerRepo postgres.TrainerRepository, redis *cache.Redis, cfg *config.Config) DirectoryService {
	return &directoryService{
		trainerRepo: trainerRepo,
		cache:       redis,
		config:      cfg,
	}
}

// Search loads the active listing (cached for a few minutes) and applies
// the filter in memory. Distances are computed per request, never stored.
func (s *directoryService) Search(ctx context.Context, q directory.Query) ([]domain.Trainer, error) {
	trainers, ok := s.cache.GetDirectory(ctx)
	if !ok {
		var err error
		trainers, err = s.trainerRepo.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load trainer directory: %w", err)
		}
		s.cache.SetDirectory(ctx, trainers, s.config.Trainer.DirectoryCacheTTL)
	}

	// Password hashes never leave the service, cached or not.
	for i := range trainers {
		trainers[i].PasswordHash = ""
	}

	return directory.Apply(trainers, q), nil
}

func (s *directoryService) GetTrainer(ctx context.Context, id string) (*domain.Trainer, error) {
	if id == "" {
		return nil, domain.ErrMissingID
	}
	trainer, err := s.trainerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load trainer: %w", err)
	}
	if trainer == nil {
		return nil, domain.ErrNotFound
	}
	trainer.PasswordHash = ""
	return trainer, nil
}

func (s *directoryService) UpdateProfile(ctx context.Context, sessionTrainerID, id string, patch domain.TrainerPatch) (*domain.Trainer, error) {
	existing, err := s.trainerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load trainer: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if !existing.IsOwner(sessionTrainerID) {
		return nil, domain.ErrInvalidToken
	}

	updated, err := s.trainerRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update trainer: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	s.cache.InvalidateDirectory(ctx)
	logger.InfoContext(ctx, "Trainer profile updated", "trainer_id", id)

	updated.PasswordHash = ""
	return updated, nil
}
