package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/pizza-orders/internal/service"
	"github.com/linemk/pizza-orders/internal/storage"
)

// SignupRequest представляет структуру запроса на регистрацию
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignupResponse - данные созданного пользователя, без хэша пароля
type SignupResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginRequest представляет структуру запроса для аутентификации
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse представляет структуру ответа с JWT-токеном
type LoginResponse struct {
	Token string `json:"token"`
}

// SignupHandler обрабатывает POST /auth/signup
func SignupHandler(log *slog.Logger, authService service.AuthServiceInterface) BodyHandler[SignupRequest] {
	return func(w http.ResponseWriter, r *http.Request, req SignupRequest) {
		const op = "handlers.SignupHandler"
		logger := log.With(slog.String("op", op))

		user, err := authService.Signup(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, storage.ErrUserExists) {
				http.Error(w, "username or email already taken", http.StatusConflict)
				return
			}
			logger.Error("signup failed", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusCreated, SignupResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}
}

// LoginHandler обрабатывает POST /auth/login
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) BodyHandler[LoginRequest] {
	return func(w http.ResponseWriter, r *http.Request, req LoginRequest) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		token, err := authService.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			logger.Error("login failed", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, LoginResponse{Token: token})
	}
}
