// Package auth содержит бизнес-логику регистрации и входа пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/chefhub/internal/lib/jwt"
	"github.com/magabrotheeeer/chefhub/internal/lib/password"
	"github.com/magabrotheeeer/chefhub/internal/models"
	"github.com/magabrotheeeer/chefhub/internal/storage/repository"
)

// ErrInvalidCredentials неверная пара логин/пароль.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Repository определяет методы хранилища для работы с пользователями.
type Repository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService реализует регистрацию и выдачу JWT токенов.
type AuthService struct {
	repo  Repository
	maker jwt.Maker
	log   *slog.Logger
}

// New создает новый экземпляр AuthService.
func New(repo Repository, maker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		repo:  repo,
		maker: maker,
		log:   log,
	}
}

// Register создает нового пользователя с ролью user и возвращает его UID.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegisterUser) (string, error) {
	const op = "services.auth.Register"

	hash, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	uid, err := s.repo.RegisterUser(ctx, models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         "user",
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registered new user", slog.String("username", req.Username))
	return uid, nil
}

// Login проверяет учетные данные и возвращает подписанный JWT токен.
func (s *AuthService) Login(ctx context.Context, req models.DummyLoginUser) (string, error) {
	const op = "services.auth.Login"

	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.maker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}
