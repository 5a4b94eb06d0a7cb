package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "quickbite/internal/api/http"
	"quickbite/internal/domain"
	"quickbite/internal/mocks"
	"quickbite/internal/service"
	"quickbite/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T, orders *mocks.OrderServiceInterface,
	catalog *mocks.CatalogServiceInterface, users *mocks.UserServiceInterface) *mux.Router {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	carts := storage.NewRedisCartStore(client, time.Hour)

	handler := httpapi.NewHandler(orders, catalog, users, carts, "test-token")
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestHandler_createOrder(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		prepareMocks func(*mocks.OrderServiceInterface)
		expectedCode int
		expectedBody string
	}{
		{
			name:    "success",
			payload: `{"customer_name":"Ana","customer_phone":"555","payment_method":"card","items":[{"product_id":1,"product_name":"Burger","unit_price_cents":1000,"quantity":2}]}`,
			prepareMocks: func(orders *mocks.OrderServiceInterface) {
				orders.On("Submit", mock.Anything, mock.Anything).
					Return(&domain.Order{ID: 42, Status: domain.StatusPending, TotalCents: 2599}, nil).Once()
			},
			expectedCode: http.StatusCreated,
			expectedBody: `"id":42`,
		},
		{
			name:         "invalid_json",
			payload:      `not json`,
			prepareMocks: func(*mocks.OrderServiceInterface) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "empty_cart",
			payload: `{"customer_name":"Ana","customer_phone":"555","payment_method":"card","items":[]}`,
			prepareMocks: func(orders *mocks.OrderServiceInterface) {
				orders.On("Submit", mock.Anything, mock.Anything).
					Return(nil, service.ErrEmptyCart).Once()
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			orders := mocks.NewOrderServiceInterface(t)
			catalog := mocks.NewCatalogServiceInterface(t)
			users := mocks.NewUserServiceInterface(t)
			router := setupTestRouter(t, orders, catalog, users)

			testCase.prepareMocks(orders)

			req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(testCase.payload))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}

func TestHandler_getOrder(t *testing.T) {
	tests := []struct {
		name         string
		prepareMocks func(*mocks.OrderServiceInterface)
		expectedCode int
	}{
		{
			name: "found",
			prepareMocks: func(orders *mocks.OrderServiceInterface) {
				orders.On("GetOrder", mock.Anything, 42).
					Return(&domain.Order{ID: 42, Status: domain.StatusPending}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "not_found_is_a_normal_response",
			prepareMocks: func(orders *mocks.OrderServiceInterface) {
				orders.On("GetOrder", mock.Anything, 42).
					Return(nil, service.ErrOrderNotFound).Once()
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			orders := mocks.NewOrderServiceInterface(t)
			catalog := mocks.NewCatalogServiceInterface(t)
			users := mocks.NewUserServiceInterface(t)
			router := setupTestRouter(t, orders, catalog, users)

			testCase.prepareMocks(orders)

			req := httptest.NewRequest("GET", "/api/orders/42", nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
		})
	}
}

func TestHandler_transitionOrder(t *testing.T) {
	orders := mocks.NewOrderServiceInterface(t)
	catalog := mocks.NewCatalogServiceInterface(t)
	users := mocks.NewUserServiceInterface(t)
	router := setupTestRouter(t, orders, catalog, users)

	orders.On("Transition", mock.Anything, 5, domain.StatusAccepted, "ok").
		Return(&domain.Order{ID: 5, Status: domain.StatusAccepted}, nil).Once()

	req := httptest.NewRequest("POST", "/api/orders/5/status",
		bytes.NewBufferString(`{"status":"accepted","note":"ok"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)

	orders.On("Transition", mock.Anything, 5, domain.StatusDelivered, "").
		Return(nil, service.ErrInvalidTransition).Once()

	req = httptest.NewRequest("POST", "/api/orders/5/status",
		bytes.NewBufferString(`{"status":"delivered"}`))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestHandler_cartFlow(t *testing.T) {
	orders := mocks.NewOrderServiceInterface(t)
	catalog := mocks.NewCatalogServiceInterface(t)
	users := mocks.NewUserServiceInterface(t)
	router := setupTestRouter(t, orders, catalog, users)

	addPayload := `{"product_id":1,"product_name":"Burger","unit_price_cents":1000,"quantity":1}`

	// The same line added twice merges into one line with quantity 2.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/carts/sess-1/items", bytes.NewBufferString(addPayload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	req := httptest.NewRequest("GET", "/api/carts/sess-1", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var view domain.CartView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	assert.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.ItemCount)
	assert.Equal(t, int64(2000), view.SubtotalCents)

	// Clearing empties the cart.
	req = httptest.NewRequest("DELETE", "/api/carts/sess-1", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	assert.Empty(t, view.Items)
}

func TestHandler_provisionUser(t *testing.T) {
	payload := `{"email":"ana@example.com","password":"secret","full_name":"Ana"}`

	t.Run("rejects_missing_service_token", func(t *testing.T) {
		orders := mocks.NewOrderServiceInterface(t)
		catalog := mocks.NewCatalogServiceInterface(t)
		users := mocks.NewUserServiceInterface(t)
		router := setupTestRouter(t, orders, catalog, users)

		req := httptest.NewRequest("POST", "/api/admin/users", bytes.NewBufferString(payload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("creates_user_with_valid_token", func(t *testing.T) {
		orders := mocks.NewOrderServiceInterface(t)
		catalog := mocks.NewCatalogServiceInterface(t)
		users := mocks.NewUserServiceInterface(t)
		router := setupTestRouter(t, orders, catalog, users)

		users.On("Provision", mock.Anything, "ana@example.com", "secret", "Ana", "", "").
			Return(&domain.User{ID: 1, Email: "ana@example.com", Role: "customer"}, nil).Once()

		req := httptest.NewRequest("POST", "/api/admin/users", bytes.NewBufferString(payload))
		req.Header.Set("X-Service-Token", "test-token")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusCreated, recorder.Code)
	})
}

func TestHandler_listProducts(t *testing.T) {
	orders := mocks.NewOrderServiceInterface(t)
	catalog := mocks.NewCatalogServiceInterface(t)
	users := mocks.NewUserServiceInterface(t)
	router := setupTestRouter(t, orders, catalog, users)

	catalog.On("ListProducts", mock.Anything).Return([]domain.Product{
		{ID: 1, Name: "Burger", PriceCents: 1000, Active: true},
	}, nil).Once()

	req := httptest.NewRequest("GET", "/api/products", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"Burger"`)
}
