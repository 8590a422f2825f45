package app

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/linemk/pizza-orders/internal/config"
	"github.com/linemk/pizza-orders/internal/service"
	"github.com/linemk/pizza-orders/internal/storage"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB

	AuthService  *service.AuthService
	OrderService service.OrderService
}

// NewApp открывает пул соединений с БД и собирает репозитории и сервисы поверх него
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// реализация слоев по работе с БД
	userRepo := storage.NewUserRepository(db)
	orderRepo := storage.NewOrderRepository(db)

	return &App{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		AuthService:  service.NewAuthService(log, userRepo, cfg.JWT.TTL(), cfg.JWT.Secret),
		OrderService: service.NewOrderService(log, userRepo, orderRepo),
	}, nil
}

// Router собирает http-обработчик приложения
func (a *App) Router() http.Handler {
	return NewRouter(a.Logger, a.Config.JWT.Secret, a.AuthService, a.OrderService)
}
