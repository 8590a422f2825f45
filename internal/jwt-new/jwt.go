package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/linemk/pizza-orders/internal/domain/models"
)

var ErrEmptySecret = errors.New("jwt secret is empty")

// NewToken генерирует JWT-токен для указанного пользователя с заданным временем жизни.
// В поле sub кладётся username - по нему middleware восстанавливает вызывающего.
func NewToken(user *models.User, ttl time.Duration, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.Username,
		"uid": user.ID,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
