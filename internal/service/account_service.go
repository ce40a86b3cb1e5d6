package service

import (
	"context"
	"fmt"

	"github.com/alexedwards/argon2id"

	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/internal/repo/postgres"
	"github.com/juicefit/juice-platform/pkg/auth"
	"github.com/juicefit/juice-platform/pkg/config"
	"github.com/juicefit/juice-platform/pkg/logger"
)

const minPasswordLen = 8

type AccountService interface {
	SetupAccount(ctx context.Context, req *domain.SetupRequest) (*domain.SessionResponse, error)
	VerifyCode(ctx context.Context, req *domain.VerifyCodeRequest) (*domain.SessionResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.SessionResponse, error)
}

type accountService struct {
	trainerRepo postgres.TrainerRepository
	setupRepo   postgres.SetupRepository
	config      *config.Config
}

func NewAccountService(trainerRepo postgres.TrainerRepository, setupRepo postgres.SetupRepository, cfg *config.Config) AccountService {
	return &accountService{
		trainerRepo: trainerRepo,
		setupRepo:   setupRepo,
		config:      cfg,
	}
}

// SetupAccount consumes a magic setup token from the activation email and
// sets the trainer's password.
func (s *accountService) SetupAccount(ctx context.Context, req *domain.SetupRequest) (*domain.SessionResponse, error) {
	if req.Token == "" {
		return nil, domain.ErrMissingToken
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	trainerID, ok, err := s.setupRepo.ConsumeSetupMagic(ctx, req.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to check setup token: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trainer: %w", err)
	}
	if trainer == nil {
		return nil, domain.ErrNotFound
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.trainerRepo.SetPasswordHash(ctx, trainer.ID, hash); err != nil {
		return nil, fmt.Errorf("failed to store password: %w", err)
	}

	logger.InfoContext(ctx, "Trainer account set up", "trainer_id", trainer.ID)
	return s.newSession(trainer)
}

// VerifyCode is the typed-in alternative to the magic link: the short code
// from the setup email plus a chosen password. The code is single-use and
// the repository counts failed attempts.
func (s *accountService) VerifyCode(ctx context.Context, req *domain.VerifyCodeRequest) (*domain.SessionResponse, error) {
	if req.Email == "" || req.Code == "" {
		return nil, fmt.Errorf("%w: email and code are required", domain.ErrValidation)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	trainerID, ok, err := s.setupRepo.CheckSetupCode(ctx, req.Email, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check setup code: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trainer: %w", err)
	}
	if trainer == nil {
		return nil, domain.ErrNotFound
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.trainerRepo.SetPasswordHash(ctx, trainer.ID, hash); err != nil {
		return nil, fmt.Errorf("failed to store password: %w", err)
	}

	logger.InfoContext(ctx, "Trainer account set up via code", "trainer_id", trainer.ID)
	return s.newSession(trainer)
}

func (s *accountService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.SessionResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	trainer, err := s.trainerRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up trainer: %w", err)
	}
	if trainer == nil || trainer.PasswordHash == "" {
		return nil, domain.ErrInvalidToken
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, trainer.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, domain.ErrInvalidToken
	}

	return s.newSession(trainer)
}

func (s *accountService) newSession(trainer *domain.Trainer) (*domain.SessionResponse, error) {
	ttl := s.config.Auth.AccessTokenTTL
	token, err := auth.NewTrainerSession(trainer.ID, trainer.Email, s.config.Auth.JWTSecret, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &domain.SessionResponse{
		Success:     true,
		AccessToken: token,
		TrainerID:   trainer.ID,
		ExpiresIn:   int64(ttl.Seconds()),
	}, nil
}
