package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"eventhub/config"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/delivery/http/router"
	"eventhub/internal/delivery/http/router/handler"
	"eventhub/internal/delivery/http/validator"
	"eventhub/internal/infra/auth"
	"eventhub/internal/infra/persistence/memory"
	"eventhub/internal/usecase/impl"
)

// newTestServer assembles the echo app the same way the production server
// does, backed by the in-memory store.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-secret"
	cfg.Auth = &config.AuthConfig{AccessTokenTTL: time.Hour}

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := impl.NewAccountService(impl.AccountServiceParams{
		UserRepo: memory.NewUserRepository(memory.NewStore()),
		Hasher:   auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		Tokens:   tokens,
		Logger:   logger,
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	r := router.NewRouter(router.RouterParams{
		AccountHandler: handler.NewAccountHandler(uc, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(tokens),
	})
	r.RegisterRoutes(e)

	return e
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return env
}

const registerAnnBody = `{"name":"Ann","email":"ann@x.com","password":"s3cret","role":"ATTENDEE"}`

func TestAccountHandler_Register(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/users/register", registerAnnBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "User signed up successfully", env.Message)

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ann@x.com", user.Email)
	assert.Equal(t, "ATTENDEE", user.Role)

	// The digest must never leak into the response body.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAccountHandler_Register_DuplicateEmail(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/users/register", registerAnnBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/users/register", registerAnnBody, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decode(t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE_EMAIL", env.Error.Code)
}

func TestAccountHandler_Register_ValidationErrors(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/users/register",
		`{"name":"Al","email":"not-an-email","password":"123","role":"ADMIN"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	var fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Error.Details, &fields))

	got := make(map[string]string, len(fields))
	for _, f := range fields {
		got[f.Field] = f.Message
	}
	assert.Contains(t, got, "name")
	assert.Contains(t, got, "email")
	assert.Contains(t, got, "password")
	assert.Contains(t, got, "role")
}

func TestAccountHandler_Login(t *testing.T) {
	e := newTestServer(t)
	doJSON(e, http.MethodPost, "/users/register", registerAnnBody, "")

	rec := doJSON(e, http.MethodPost, "/users/login",
		`{"email":"ann@x.com","password":"s3cret"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode(t, rec)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.NotEmpty(t, out.Token)
}

func TestAccountHandler_Login_WrongPassword(t *testing.T) {
	e := newTestServer(t)
	doJSON(e, http.MethodPost, "/users/register", registerAnnBody, "")

	rec := doJSON(e, http.MethodPost, "/users/login",
		`{"email":"ann@x.com","password":"wrong-pass"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
}

func TestAccountHandler_Login_UnknownEmailMatchesWrongPassword(t *testing.T) {
	e := newTestServer(t)
	doJSON(e, http.MethodPost, "/users/register", registerAnnBody, "")

	unknown := doJSON(e, http.MethodPost, "/users/login",
		`{"email":"ghost@x.com","password":"s3cret"}`, "")
	wrongPass := doJSON(e, http.MethodPost, "/users/login",
		`{"email":"ann@x.com","password":"wrong-pass"}`, "")

	assert.Equal(t, wrongPass.Code, unknown.Code)
	assert.JSONEq(t, wrongPass.Body.String(), unknown.Body.String())
}

func TestAccountHandler_Update(t *testing.T) {
	e := newTestServer(t)
	doJSON(e, http.MethodPost, "/users/register", registerAnnBody, "")

	rec := doJSON(e, http.MethodPut, "/users/update",
		`{"email":"ann@x.com","name":"Ann Lee"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode(t, rec)
	var user struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "Ann Lee", user.Name)
}

func TestAccountHandler_Update_NotFound(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPut, "/users/update",
		`{"email":"ghost@x.com","name":"Ghost"}`, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "USER_NOT_FOUND", env.Error.Code)
}

func TestAccountHandler_Delete(t *testing.T) {
	e := newTestServer(t)
	doJSON(e, http.MethodPost, "/users/register", registerAnnBody, "")

	rec := doJSON(e, http.MethodPut, "/users/delete", `{"email":"ann@x.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// After deletion, logging in with the old credentials fails.
	rec = doJSON(e, http.MethodPost, "/users/login",
		`{"email":"ann@x.com","password":"s3cret"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccountHandler_Delete_NotFound(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPut, "/users/delete", `{"email":"ghost@x.com"}`, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountHandler_Profile(t *testing.T) {
	e := newTestServer(t)
	doJSON(e, http.MethodPost, "/users/register", registerAnnBody, "")

	rec := doJSON(e, http.MethodPost, "/users/login",
		`{"email":"ann@x.com","password":"s3cret"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode(t, rec)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))

	rec = doJSON(e, http.MethodGet, "/users/profile", "", out.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	env = decode(t, rec)
	var user struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "ann@x.com", user.Email)
}

func TestAccountHandler_Profile_RequiresToken(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/users/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/users/profile", "", "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
