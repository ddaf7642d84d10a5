package identity

import (
	"context"
	"strings"

	"darkitchen/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Exists(ctx context.Context, email string) (bool, error)
	Register(ctx context.Context, profile Profile) (string, Identity, error)
	Login(ctx context.Context, email, password string) (string, Identity, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Exists(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email)
}

func (s *service) Register(ctx context.Context, profile Profile) (string, Identity, error) {
	log := logger.FromCtx(ctx).With(zap.String("email", profile.Email))

	hashed, err := HashPassword(profile.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", Identity{}, err
	}

	id, err := s.repo.Create(ctx, profile, hashed)
	if err != nil {
		log.Error("failed to create client", zap.Error(err))
		if strings.Contains(err.Error(), "clients_email_key") {
			return "", Identity{}, ErrEmailExists
		}
		return "", Identity{}, err
	}

	token, err := GenerateJWT(id.ID, id.Role, id.Email)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("client_id", id.ID), zap.Error(err))
		return "", Identity{}, err
	}

	log.Info("client registered", zap.Uint("client_id", id.ID))

	return token, id, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, Identity, error) {
	id, hashed, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", Identity{}, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, hashed) {
		return "", Identity{}, ErrInvalidCredentials
	}

	token, err := GenerateJWT(id.ID, id.Role, id.Email)
	return token, id, err
}
