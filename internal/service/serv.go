package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/linemk/pizza-orders/internal/domain/models"
	security "github.com/linemk/pizza-orders/internal/jwt-new"
	"github.com/linemk/pizza-orders/internal/storage"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	log       *slog.Logger
	userRepo  storage.UserStorage
	tokenTTL  time.Duration
	jwtSecret string
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, tokenTTL time.Duration, jwtSecret string) *AuthService {
	return &AuthService{
		log:       log,
		userRepo:  userRepo,
		tokenTTL:  tokenTTL,
		jwtSecret: jwtSecret,
	}
}

type AuthServiceInterface interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// Signup регистрирует нового пользователя, пароль хранится в виде bcrypt-хэша.
// Если имя или email заняты, возвращается storage.ErrUserExists.
func (a *AuthService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	const op = "auth.Signup"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return nil, errors.Wrapf(err, "%s: failed to hash password", op)
	}

	user, err := a.userRepo.CreateUser(ctx, &models.User{
		Username: username,
		Email:    email,
		PassHash: passHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			logger.Warn("user already exists")
		} else {
			logger.Error("failed to create user", slog.Any("error", err))
		}
		return nil, errors.Wrapf(err, "%s: failed to create user", op)
	}

	logger.Info("user signed up", slog.Int64("userID", user.ID))
	return user, nil
}

// Login проверяет пароль и выдаёт JWT-токен.
// Неизвестный пользователь и неверный пароль неразличимы для клиента.
func (a *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	const op = "auth.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", errors.Wrap(ErrInvalidCredentials, op)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", errors.Wrapf(err, "%s: failed to get user", op)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return "", errors.Wrap(ErrInvalidCredentials, op)
	}

	token, err := security.NewToken(user, a.tokenTTL, a.jwtSecret)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", errors.Wrapf(err, "%s: failed to generate token", op)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return token, nil
}
