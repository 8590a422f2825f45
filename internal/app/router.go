package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/linemk/pizza-orders/internal/app/handlers"
	"github.com/linemk/pizza-orders/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/pizza-orders/internal/lib/logger/handlers/urllog"
	"github.com/linemk/pizza-orders/internal/lib/metrics"
	"github.com/linemk/pizza-orders/internal/service"
)

// NewRouter регистрирует маршруты. Для защищённых маршрутов цепочка такая:
// JWT middleware -> декодирование и валидация тела -> хендлер.
func NewRouter(
	log *slog.Logger,
	jwtSecret string,
	authService service.AuthServiceInterface,
	orderService service.OrderService,
) http.Handler {
	m := metrics.New()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(m.Middleware)
	router.Use(middleware.Heartbeat("/health"))

	router.Method(http.MethodGet, "/metrics", m.Handler())

	// регистрация и вход - без токена
	router.Post("/auth/signup", handlers.Validated(log, handlers.SignupHandler(log, authService)))
	router.Post("/auth/login", handlers.Validated(log, handlers.LoginHandler(log, authService)))

	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(jwtSecret))

		r.Get("/orders", handlers.ListOrdersHandler(log, orderService))
		r.Post("/orders", handlers.Validated(log, handlers.PlaceOrderHandler(log, orderService)))

		r.Get("/order/{order_id:[0-9]+}", handlers.GetOrderHandler(log, orderService))
		r.Put("/order/{order_id:[0-9]+}", handlers.Validated(log, handlers.UpdateOrderHandler(log, orderService)))
		r.Delete("/order/{order_id:[0-9]+}", handlers.DeleteOrderHandler(log, orderService))
		r.Patch("/order/status/{order_id:[0-9]+}", handlers.Validated(log, handlers.UpdateOrderStatusHandler(log, orderService)))

		r.Get("/user/{user_id:[0-9]+}/order/{order_id:[0-9]+}", handlers.GetUserOrderHandler(log, orderService))
		r.Get("/user/{user_id:[0-9]+}/orders", handlers.ListUserOrdersHandler(log, orderService))
	})

	return router
}
