package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linemk/pizza-orders/internal/app/handlers"
	"github.com/linemk/pizza-orders/internal/domain/models"
	"github.com/linemk/pizza-orders/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/pizza-orders/internal/service"
	"github.com/linemk/pizza-orders/internal/storage"
)

// fakeAuthService - фиктивная реализация для тестирования.
type fakeAuthService struct {
	user  *models.User
	token string
	err   error
}

func (f *fakeAuthService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return f.token, f.err
}

// fakeOrderService возвращает заранее заданные значения и запоминает аргументы
type fakeOrderService struct {
	order  *models.Order
	orders []*models.Order
	err    error

	gotUsername string
	gotOrder    *models.Order
	gotID       int64
	gotUserID   int64
	gotStatus   models.OrderStatus
}

var _ service.OrderService = (*fakeOrderService)(nil)

func (f *fakeOrderService) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return f.orders, f.err
}

func (f *fakeOrderService) PlaceOrder(ctx context.Context, username string, order *models.Order) (*models.Order, error) {
	f.gotUsername, f.gotOrder = username, order
	return f.order, f.err
}

func (f *fakeOrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	f.gotID = id
	return f.order, f.err
}

func (f *fakeOrderService) UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	f.gotOrder = order
	return f.order, f.err
}

func (f *fakeOrderService) DeleteOrder(ctx context.Context, id int64) error {
	f.gotID = id
	return f.err
}

func (f *fakeOrderService) GetUserOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	f.gotUserID, f.gotID = userID, orderID
	return f.order, f.err
}

func (f *fakeOrderService) ListUserOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	f.gotUserID = userID
	return f.orders, f.err
}

func (f *fakeOrderService) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	f.gotID, f.gotStatus = id, status
	return f.order, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:          1,
		Flavour:     "chicken",
		Quantity:    16,
		Size:        models.SizeLarge,
		OrderStatus: models.StatusPending,
		UserID:      1,
	}
}

// newRequest собирает запрос с параметрами chi и (опционально) username в контексте
func newRequest(method, target, body, username string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if username != "" {
		ctx = context.WithValue(ctx, jwtmiddleware.UsernameKey, username)
	}
	return req.WithContext(ctx)
}

func TestSignupHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{user: &models.User{ID: 1, Username: "testuser", Email: "test@example.com"}}
	handler := handlers.Validated(testLogger(), handlers.SignupHandler(testLogger(), fakeSvc))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("POST", "/auth/signup",
		`{"username": "testuser", "email": "test@example.com", "password": "password123"}`, "", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	var resp handlers.SignupResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "testuser", resp.Username)
	assert.NotContains(t, rr.Body.String(), "pass")
}

func TestSignupHandler_ValidationError(t *testing.T) {
	handler := handlers.Validated(testLogger(), handlers.SignupHandler(testLogger(), &fakeAuthService{}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("POST", "/auth/signup",
		`{"username": "testuser", "email": "not-an-email", "password": "short"}`, "", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignupHandler_Conflict(t *testing.T) {
	fakeSvc := &fakeAuthService{err: errors.Wrap(storage.ErrUserExists, "auth.Signup")}
	handler := handlers.Validated(testLogger(), handlers.SignupHandler(testLogger(), fakeSvc))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("POST", "/auth/signup",
		`{"username": "testuser", "email": "test@example.com", "password": "password123"}`, "", nil))

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLoginHandler_Success(t *testing.T) {
	handler := handlers.Validated(testLogger(), handlers.LoginHandler(testLogger(), &fakeAuthService{token: "test-token"}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("POST", "/auth/login", `{"username": "testuser", "password": "password123"}`, "", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp handlers.LoginResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "test-token", resp.Token)
}

func TestLoginHandler_InvalidJSON(t *testing.T) {
	handler := handlers.Validated(testLogger(), handlers.LoginHandler(testLogger(), &fakeAuthService{}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("POST", "/auth/login", `{"username": "testuser", "password":`, "", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	fakeSvc := &fakeAuthService{err: errors.Wrap(service.ErrInvalidCredentials, "auth.Login")}
	handler := handlers.Validated(testLogger(), handlers.LoginHandler(testLogger(), fakeSvc))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("POST", "/auth/login", `{"username": "testuser", "password": "password123"}`, "", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginHandler_InternalError(t *testing.T) {
	handler := handlers.Validated(testLogger(), handlers.LoginHandler(testLogger(), &fakeAuthService{err: assert.AnError}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("POST", "/auth/login", `{"username": "testuser", "password": "password123"}`, "", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestListOrdersHandler_Empty(t *testing.T) {
	handler := handlers.ListOrdersHandler(testLogger(), &fakeOrderService{orders: nil})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("GET", "/orders", "", "testuser", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListOrdersHandler_ServiceError(t *testing.T) {
	handler := handlers.ListOrdersHandler(testLogger(), &fakeOrderService{err: assert.AnError})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("GET", "/orders", "", "testuser", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestPlaceOrderHandler_Success(t *testing.T) {
	fakeSvc := &fakeOrderService{order: sampleOrder()}
	handler := handlers.Validated(testLogger(), handlers.PlaceOrderHandler(testLogger(), fakeSvc))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("POST", "/orders",
		`{"size": "LARGE", "quantity": 16, "flavour": "chicken"}`, "testuser", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	// наружу - только четыре поля, enum как строка
	assert.JSONEq(t, `{"flavour": "chicken", "quantity": 16, "size": "LARGE", "order_status": "PENDING"}`, rr.Body.String())
	assert.Equal(t, "testuser", fakeSvc.gotUsername)
	assert.Equal(t, 16, fakeSvc.gotOrder.Quantity)
	assert.Equal(t, models.SizeLarge, fakeSvc.gotOrder.Size)
}

func TestPlaceOrderHandler_QuantityOptional(t *testing.T) {
	fakeSvc := &fakeOrderService{order: sampleOrder()}
	handler := handlers.Validated(testLogger(), handlers.PlaceOrderHandler(testLogger(), fakeSvc))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("POST", "/orders", `{"size": "SMALL", "flavour": "margherita"}`, "testuser", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 0, fakeSvc.gotOrder.Quantity, "zero asks the store for its default")
}

func TestPlaceOrderHandler_RejectsBadBodies(t *testing.T) {
	cases := map[string]string{
		"unknown size":      `{"size": "HUGE", "quantity": 1, "flavour": "chicken"}`,
		"lower-case size":   `{"size": "large", "quantity": 1, "flavour": "chicken"}`,
		"missing flavour":   `{"size": "LARGE", "quantity": 1}`,
		"missing size":      `{"quantity": 1, "flavour": "chicken"}`,
		"negative quantity": `{"size": "LARGE", "quantity": -1, "flavour": "chicken"}`,
		"quantity string":   `{"size": "LARGE", "quantity": "16", "flavour": "chicken"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fakeSvc := &fakeOrderService{order: sampleOrder()}
			handler := handlers.Validated(testLogger(), handlers.PlaceOrderHandler(testLogger(), fakeSvc))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, newRequest("POST", "/orders", body, "testuser", nil))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Nil(t, fakeSvc.gotOrder, "service must not be called")
		})
	}
}

func TestPlaceOrderHandler_MissingUsername(t *testing.T) {
	fakeSvc := &fakeOrderService{order: sampleOrder()}
	handler := handlers.Validated(testLogger(), handlers.PlaceOrderHandler(testLogger(), fakeSvc))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("POST", "/orders", `{"size": "LARGE", "flavour": "chicken"}`, "", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPlaceOrderHandler_UnknownCaller(t *testing.T) {
	fakeSvc := &fakeOrderService{err: errors.Wrap(service.ErrUnknownCaller, "op")}
	handler := handlers.Validated(testLogger(), handlers.PlaceOrderHandler(testLogger(), fakeSvc))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("POST", "/orders", `{"size": "LARGE", "flavour": "chicken"}`, "ghost", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetOrderHandler(t *testing.T) {
	fakeSvc := &fakeOrderService{order: sampleOrder()}
	handler := handlers.GetOrderHandler(testLogger(), fakeSvc)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("GET", "/order/1", "", "testuser", map[string]string{"order_id": "1"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1), fakeSvc.gotID)
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	fakeSvc := &fakeOrderService{err: errors.Wrap(storage.ErrOrderNotFound, "op")}
	handler := handlers.GetOrderHandler(testLogger(), fakeSvc)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("GET", "/order/7", "", "testuser", map[string]string{"order_id": "7"}))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "order not found")
}

func TestGetOrderHandler_BadID(t *testing.T) {
	handler := handlers.GetOrderHandler(testLogger(), &fakeOrderService{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("GET", "/order/99999999999999999999", "", "testuser",
		map[string]string{"order_id": "99999999999999999999"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateOrderHandler(t *testing.T) {
	fakeSvc := &fakeOrderService{order: sampleOrder()}
	handler := handlers.Validated(testLogger(), handlers.UpdateOrderHandler(testLogger(), fakeSvc))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("PUT", "/order/3",
		`{"size": "MEDIUM", "quantity": 4, "flavour": "pepperoni"}`, "testuser", map[string]string{"order_id": "3"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, fakeSvc.gotOrder)
	assert.Equal(t, int64(3), fakeSvc.gotOrder.ID)
	assert.Equal(t, "pepperoni", fakeSvc.gotOrder.Flavour)
	assert.Equal(t, 4, fakeSvc.gotOrder.Quantity)
	assert.Equal(t, models.SizeMedium, fakeSvc.gotOrder.Size)
	assert.Empty(t, fakeSvc.gotOrder.OrderStatus, "update never carries a status")
}

func TestUpdateOrderHandler_RequiresQuantity(t *testing.T) {
	fakeSvc := &fakeOrderService{order: sampleOrder()}
	handler := handlers.Validated(testLogger(), handlers.UpdateOrderHandler(testLogger(), fakeSvc))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("PUT", "/order/3",
		`{"size": "MEDIUM", "flavour": "pepperoni"}`, "testuser", map[string]string{"order_id": "3"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, fakeSvc.gotOrder)
}

func TestDeleteOrderHandler(t *testing.T) {
	fakeSvc := &fakeOrderService{}
	handler := handlers.DeleteOrderHandler(testLogger(), fakeSvc)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("DELETE", "/order/2", "", "testuser", map[string]string{"order_id": "2"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message": "Order Deleted Successfully"}`, rr.Body.String())
	assert.Equal(t, int64(2), fakeSvc.gotID)
}

func TestGetUserOrderHandler_UserNotFound(t *testing.T) {
	fakeSvc := &fakeOrderService{err: errors.Wrap(storage.ErrUserNotFound, "op")}
	handler := handlers.GetUserOrderHandler(testLogger(), fakeSvc)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("GET", "/user/5/order/1", "", "testuser",
		map[string]string{"user_id": "5", "order_id": "1"}))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "user not found")
	assert.Equal(t, int64(5), fakeSvc.gotUserID)
	assert.Equal(t, int64(1), fakeSvc.gotID)
}

func TestListUserOrdersHandler(t *testing.T) {
	fakeSvc := &fakeOrderService{orders: []*models.Order{sampleOrder()}}
	handler := handlers.ListUserOrdersHandler(testLogger(), fakeSvc)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("GET", "/user/1/orders", "", "testuser", map[string]string{"user_id": "1"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp []handlers.OrderResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "chicken", resp[0].Flavour)
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	order := sampleOrder()
	order.OrderStatus = models.StatusInTransit
	fakeSvc := &fakeOrderService{order: order}
	handler := handlers.Validated(testLogger(), handlers.UpdateOrderStatusHandler(testLogger(), fakeSvc))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("PATCH", "/order/status/1", `{"order_status": "IN_TRANSIT"}`, "testuser",
		map[string]string{"order_id": "1"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.StatusInTransit, fakeSvc.gotStatus)
	assert.Contains(t, rr.Body.String(), `"order_status":"IN_TRANSIT"`)
}

func TestUpdateOrderStatusHandler_InvalidStatus(t *testing.T) {
	fakeSvc := &fakeOrderService{order: sampleOrder()}
	handler := handlers.Validated(testLogger(), handlers.UpdateOrderStatusHandler(testLogger(), fakeSvc))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newRequest("PATCH", "/order/status/1", `{"order_status": "LOST"}`, "testuser",
		map[string]string{"order_id": "1"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, fakeSvc.gotStatus)
}
