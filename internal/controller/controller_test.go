package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"order-tracking-service/internal/controller"
	"order-tracking-service/internal/middleware"
	"order-tracking-service/internal/model"
	"order-tracking-service/internal/repository"
	"order-tracking-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminKey = "admin-key"

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := service.NewTokenIssuer(service.TokenConfig{
		AccessSecret:  []byte("access"),
		RefreshSecret: []byte("refresh"),
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)
	authSvc, err := service.NewAuthService(repository.NewMemoryUserRepository(), service.NewBcryptHasher(bcrypt.MinCost), tokens)
	require.NoError(t, err)
	orderSvc := service.NewOrderService(repository.NewMemoryOrderRepository(), nil)

	router := controller.NewRouter(
		controller.RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}, AdminAPIKey: adminKey},
		controller.NewOrderController(orderSvc),
		controller.NewAuthController(authSvc),
		authSvc,
	)
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(email, password string) *httptest.ResponseRecorder {
	s.t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin devuelve el header Authorization listo para usar.
func (s *testServer) registerAndLogin(email string) map[string]string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/register", gin.H{
		"email": email, "full_name": "Test User", "password": "s3cret", "phone_number": "+100",
	}, nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	w = s.login(email, "s3cret")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var tokens map[string]string
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &tokens))
	return map[string]string{"Authorization": "Bearer " + tokens["access_token"]}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	t.Run("should register without exposing the password hash", func(t *testing.T) {
		w := s.do(http.MethodPost, "/register", gin.H{
			"email": "a@x.com", "full_name": "Alice", "password": "s3cret", "phone_number": "+100",
		}, nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]any](t, w)
		assert.Equal(t, "a@x.com", body["email"])
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "_id")
	})

	t.Run("should reject duplicate registrations", func(t *testing.T) {
		w := s.do(http.MethodPost, "/register", gin.H{
			"email": "a@x.com", "full_name": "Alice", "password": "other", "phone_number": "+100",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should reject missing fields", func(t *testing.T) {
		w := s.do(http.MethodPost, "/register", gin.H{"email": "b@x.com"}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should issue tokens on login", func(t *testing.T) {
		w := s.login("a@x.com", "s3cret")

		require.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]string](t, w)
		assert.NotEmpty(t, body["access_token"])
		assert.NotEmpty(t, body["refresh_token"])
		assert.Equal(t, "bearer", body["token_type"])
	})

	t.Run("should answer identically for wrong password and unknown email", func(t *testing.T) {
		wrong := s.login("a@x.com", "nope")
		unknown := s.login("ghost@x.com", "s3cret")

		assert.Equal(t, http.StatusBadRequest, wrong.Code)
		assert.Equal(t, wrong.Code, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	})

	t.Run("should refresh tokens", func(t *testing.T) {
		tokens := decode[map[string]string](t, s.login("a@x.com", "s3cret"))

		w := s.do(http.MethodPost, "/token/refresh", gin.H{"refresh_token": tokens["refresh_token"]}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(http.MethodPost, "/token/refresh", gin.H{"refresh_token": tokens["access_token"]}, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)

	t.Run("should require the authorization header", func(t *testing.T) {
		w := s.do(http.MethodGet, "/orders", nil, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	})

	t.Run("should reject invalid tokens", func(t *testing.T) {
		w := s.do(http.MethodGet, "/orders", nil, map[string]string{"Authorization": "Bearer nope"})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestOrderEndpoints(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin("a@x.com")
	bob := s.registerAndLogin("b@x.com")
	admin := map[string]string{middleware.AdminKeyHeader: adminKey}

	w := s.do(http.MethodPost, "/orders", gin.H{"owner_email": "a@x.com", "description": "book"}, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[model.Order](t, w)
	assert.Equal(t, model.StatusOrdered, created.Status)
	assert.Empty(t, created.OrderHistory)
	require.NotEmpty(t, created.TrackingID)
	orderPath := "/orders/" + created.TrackingID

	t.Run("should forbid creating orders for someone else", func(t *testing.T) {
		w := s.do(http.MethodPost, "/orders", gin.H{"owner_email": "a@x.com"}, bob)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("should list only the caller's orders", func(t *testing.T) {
		mine := decode[[]model.Order](t, s.do(http.MethodGet, "/orders", nil, alice))
		theirs := decode[[]model.Order](t, s.do(http.MethodGet, "/orders", nil, bob))

		require.Len(t, mine, 1)
		assert.Equal(t, created.TrackingID, mine[0].TrackingID)
		assert.NotNil(t, theirs)
		assert.Empty(t, theirs)
	})

	t.Run("should serve a single order publicly", func(t *testing.T) {
		w := s.do(http.MethodGet, orderPath, nil, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, created, decode[model.Order](t, w))

		w = s.do(http.MethodGet, "/orders/missing", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should keep status updates behind the admin key", func(t *testing.T) {
		w := s.do(http.MethodPut, orderPath+"/update", gin.H{"status": "shipped"}, alice)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("should reject unknown statuses", func(t *testing.T) {
		w := s.do(http.MethodPut, orderPath+"/update", gin.H{"status": "lost"}, admin)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should walk the documented lifecycle", func(t *testing.T) {
		w := s.do(http.MethodPut, orderPath+"/update", gin.H{"status": "shipped", "update_message": "left warehouse"}, admin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		o := decode[model.Order](t, s.do(http.MethodGet, orderPath, nil, nil))
		assert.Equal(t, model.StatusShipped, o.Status)
		assert.Equal(t, []string{"left warehouse"}, o.OrderHistory)

		w = s.do(http.MethodPut, orderPath+"/cancel", nil, alice)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		o = decode[model.Order](t, s.do(http.MethodGet, orderPath, nil, nil))
		assert.Equal(t, model.StatusCancelled, o.Status)
		assert.Equal(t, []string{"left warehouse", "Order has been cancelled"}, o.OrderHistory)

		w = s.do(http.MethodPut, orderPath+"/update", gin.H{"status": "delivered"}, admin)
		assert.Equal(t, http.StatusForbidden, w.Code)

		after := decode[model.Order](t, s.do(http.MethodGet, orderPath, nil, nil))
		assert.Equal(t, o, after)
	})

	t.Run("should return not found when cancelling unknown orders", func(t *testing.T) {
		w := s.do(http.MethodPut, "/orders/missing/cancel", nil, alice)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should delete through the admin route only", func(t *testing.T) {
		w := s.do(http.MethodDelete, orderPath+"/delete", nil, alice)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = s.do(http.MethodDelete, orderPath+"/delete", nil, admin)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(http.MethodGet, orderPath, nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(http.MethodDelete, orderPath+"/delete", nil, admin)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminRoutesClosedWithoutKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AdminOnly(""))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.AdminKeyHeader, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
