package service

import (
	"context"
	"fmt"
	"time"

	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/internal/platform/mailer"
	"github.com/juicefit/juice-platform/internal/repo/postgres"
	"github.com/juicefit/juice-platform/pkg/config"
	"github.com/juicefit/juice-platform/pkg/events"
	"github.com/juicefit/juice-platform/pkg/logger"
)

type TrainerService interface {
	CreatePreview(ctx context.Context, req *domain.TempTrainerReq) (*domain.TempTrainer, error)
	GetPreview(ctx context.Context, id, token string) (*domain.TempTrainerView, error)
	UpdatePreview(ctx context.Context, id, token string, patch domain.TempTrainerPatch) error
	ListPreviews(ctx context.Context, limit, offset int) ([]domain.TempTrainer, error)
}

type trainerService struct {
	tempRepo postgres.TempTrainerRepository
	mailer   mailer.Service
	eventBus events.Publisher
	config   *config.Config
}

func NewTrainerService(
	tempRepo postgres.TempTrainerRepository,
	mail mailer.Service,
	eventBus events.Publisher,
	cfg *config.Config,
) TrainerService {
	return &trainerService{
		tempRepo: tempRepo,
		mailer:   mail,
		eventBus: eventBus,
		config:   cfg,
	}
}

func (s *trainerService) CreatePreview(ctx context.Context, req *domain.TempTrainerReq) (*domain.TempTrainer, error) {
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if !domain.EmailRe.MatchString(req.Email) {
		return nil, fmt.Errorf("%w: email format is invalid", domain.ErrValidation)
	}

	trainer, err := s.tempRepo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create trainer preview: %w", err)
	}

	event := events.PreviewCreatedEvent{
		TempID:       trainer.ID,
		TrainerName:  trainer.Name,
		TrainerEmail: trainer.Email,
		ExpiresAt:    trainer.ExpiresAt(),
		CreatedAt:    trainer.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.PreviewCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish preview created event", "error", err, "temp_id", trainer.ID)
	}

	previewURL := fmt.Sprintf("%s/trainer/preview/%s?token=%s", s.config.Site.BaseURL, trainer.ID, trainer.Token)
	if err := s.mailer.SendPreviewLink(trainer.Email, trainer.Name, previewURL); err != nil {
		logger.WarnContext(ctx, "Failed to send preview email", "error", err, "temp_id", trainer.ID)
	} else {
		notify := events.NotificationEvent{
			Type:      "preview_link",
			Recipient: trainer.Email,
			Template:  "trainer_preview",
			Data:      map[string]interface{}{"temp_id": trainer.ID},
		}
		if err := s.eventBus.Publish(ctx, events.NotifySend, notify); err != nil {
			logger.ErrorContext(ctx, "Failed to publish notification event", "error", err, "temp_id", trainer.ID)
		}
	}

	return trainer, nil
}

// GetPreview checks the read preconditions in a fixed order so that every
// failure mode gets its own distinct signal: missing id, missing token,
// unknown record, token mismatch, expired window.
func (s *trainerService) GetPreview(ctx context.Context, id, token string) (*domain.TempTrainerView, error) {
	start := time.Now()

	if id == "" {
		logger.WarnContext(ctx, "Preview read rejected", "check", "missing_id", "elapsed_ms", time.Since(start).Milliseconds())
		return nil, domain.ErrMissingID
	}
	if token == "" {
		logger.WarnContext(ctx, "Preview read rejected", "check", "missing_token", "temp_id", id, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, domain.ErrMissingToken
	}

	trainer, err := s.tempRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load trainer preview: %w", err)
	}
	if trainer == nil {
		logger.WarnContext(ctx, "Preview read rejected", "check", "not_found", "temp_id", id, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, domain.ErrNotFound
	}
	if !trainer.MatchesToken(token) {
		logger.WarnContext(ctx, "Preview read rejected", "check", "invalid_token", "temp_id", id, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, domain.ErrInvalidToken
	}
	if trainer.IsExpired(time.Now()) {
		logger.InfoContext(ctx, "Preview read rejected", "check", "expired", "temp_id", id,
			"created_at", trainer.CreatedAt, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, domain.ErrExpired
	}

	view := domain.Normalize(trainer)
	logger.DebugContext(ctx, "Preview read ok", "temp_id", id, "elapsed_ms", time.Since(start).Milliseconds())
	return &view, nil
}

// UpdatePreview shares the read preconditions except the expiry check:
// edits are accepted right up to (and past) the 24h boundary so a trainer
// mid-edit is never locked out of saving.
func (s *trainerService) UpdatePreview(ctx context.Context, id, token string, patch domain.TempTrainerPatch) error {
	if id == "" {
		return domain.ErrMissingID
	}
	if token == "" {
		return domain.ErrMissingToken
	}

	existing, err := s.tempRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load trainer preview: %w", err)
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if !existing.MatchesToken(token) {
		return domain.ErrInvalidToken
	}

	updated, err := s.tempRepo.Update(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update trainer preview: %w", err)
	}
	if updated == nil {
		return domain.ErrNotFound
	}

	changes := detectPreviewChanges(existing, updated)
	if len(changes) > 0 {
		event := events.PreviewUpdatedEvent{
			TempID:    updated.ID,
			Changes:   changes,
			UpdatedAt: updated.UpdatedAt,
		}
		if err := s.eventBus.Publish(ctx, events.PreviewUpdated, event); err != nil {
			logger.ErrorContext(ctx, "Failed to publish preview updated event", "error", err, "temp_id", updated.ID)
		}
	}

	return nil
}

func (s *trainerService) ListPreviews(ctx context.Context, limit, offset int) ([]domain.TempTrainer, error) {
	return s.tempRepo.ListRecent(ctx, limit, offset)
}

func detectPreviewChanges(old, new *domain.TempTrainer) []string {
	var changes []string

	if old.Name != new.Name {
		changes = append(changes, "name")
	}
	if old.Phone != new.Phone {
		changes = append(changes, "phone")
	}
	if old.Bio != new.Bio {
		changes = append(changes, "bio")
	}
	if old.Specialization != new.Specialization {
		changes = append(changes, "specialization")
	}
	if !equalStrings(old.Certifications, new.Certifications) {
		changes = append(changes, "certifications")
	}
	if !equalStrings(old.Services, new.Services) {
		changes = append(changes, "services")
	}
	if old.Pricing != new.Pricing {
		changes = append(changes, "pricing")
	}
	if old.Location != new.Location {
		changes = append(changes, "location")
	}
	if old.Instagram != new.Instagram {
		changes = append(changes, "instagram")
	}
	if old.Website != new.Website {
		changes = append(changes, "website")
	}

	return changes
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
