package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devcamp-api/internal/application"
	"devcamp-api/internal/domain/entity"
	"devcamp-api/internal/domain/repository"
	"devcamp-api/internal/interface/middleware"
	"devcamp-api/pkg/helpers"
	"devcamp-api/pkg/response"
	"devcamp-api/pkg/token"
	"devcamp-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type fakeUserStore struct {
	users  map[string]*entity.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*entity.User{}}
}

func (r *fakeUserStore) Create(_ context.Context, u *entity.User) error {
	for _, e := range r.users {
		if e.Email == u.Email {
			return errors.New("duplicate email")
		}
	}
	r.nextID++
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserStore) Update(_ context.Context, u *entity.User) error {
	e, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	e.Name, e.Email = u.Name, u.Email
	return nil
}

func (r *fakeUserStore) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (r *fakeUserStore) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserStore) List(_ context.Context) ([]*entity.User, error) { return nil, nil }

func (r *fakeUserStore) SaveResetToken(_ context.Context, id, hash string, exp time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetPasswordToken, u.ResetPasswordExpire = &hash, &exp
	return nil
}

func (r *fakeUserStore) ClearResetToken(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetPasswordToken, u.ResetPasswordExpire = nil, nil
	return nil
}

func (r *fakeUserStore) FindByResetToken(_ context.Context, hash string, now time.Time) (*entity.User, error) {
	for _, u := range r.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == hash &&
			u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type noopMailer struct{}

func (noopMailer) Send(context.Context, string, string, string, string) error { return nil }

type noopPublisher struct{}

func (noopPublisher) PublishJSON(context.Context, any) error { return nil }

func authTestRouter(t *testing.T) (*gin.Engine, *fakeUserStore) {
	t.Helper()
	store := newFakeUserStore()
	tokens := token.NewManager("test-secret", 30)
	svc := application.NewAuthService(store, tokens, noopMailer{}, noopPublisher{}, nil,
		"DevCamp", "https://api.devcamp.test/api/v1/auth/resetpassword", 10*time.Minute)
	h := NewAuthHandler(svc, helpers.NewCookie("", false), nil)

	r := gin.New()
	r.Use(middleware.ErrorNormalizer(nil))
	auth := r.Group("/api/v1/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/forgotpassword", h.ForgotPassword)
	auth.PUT("/resetpassword/:resettoken", h.ResetPassword)
	protected := auth.Group("/")
	protected.Use(middleware.Protect(tokens, store))
	protected.GET("/logout", h.Logout)
	protected.GET("/me", h.Me)
	protected.PUT("/updatedetails", h.UpdateDetails)
	protected.PUT("/updatepassword", h.UpdatePassword)
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookie {
			return ck
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	r, _ := authTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"name":"John Doe","email":"john@example.com","password":"123456"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Token)

	ck := sessionCookie(t, w)
	assert.Equal(t, env.Token, ck.Value)
	assert.True(t, ck.HttpOnly)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := authTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"name":"John Doe","email":"nope","password":"123"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "email must be a valid email")
	assert.Contains(t, env.Error, "password must be at least 6 characters")
}

func TestLoginEndpointErrors(t *testing.T) {
	r, _ := authTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"name":"John Doe","email":"john@example.com","password":"123456"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"john@example.com","password":"wrongpass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "Invalid credentials", env.Error)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"john@example.com","password":"123456"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMeEndpoint(t *testing.T) {
	r, _ := authTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"name":"John Doe","email":"john@example.com","password":"123456"}`)
	ck := sessionCookie(t, w)

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "", ck)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"john@example.com"`)
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	r, _ := authTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"name":"John Doe","email":"john@example.com","password":"123456"}`)
	ck := sessionCookie(t, w)

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/logout", "", ck)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := sessionCookie(t, w)
	assert.Equal(t, "none", cleared.Value)
	assert.LessOrEqual(t, cleared.MaxAge, 10)

	// The sentinel cookie no longer authenticates.
	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "", cleared)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdatePasswordEndpoint(t *testing.T) {
	r, _ := authTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"name":"John Doe","email":"john@example.com","password":"123456"}`)
	ck := sessionCookie(t, w)

	w = doJSON(t, r, http.MethodPut, "/api/v1/auth/updatepassword",
		`{"currentPassword":"nope","newPassword":"newpassword"}`, ck)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Password is incorrect")

	w = doJSON(t, r, http.MethodPut, "/api/v1/auth/updatepassword",
		`{"currentPassword":"123456","newPassword":"newpassword"}`, ck)
	require.Equal(t, http.StatusOK, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.NotEmpty(t, env.Token)
}

func TestForgotAndResetPasswordEndpoints(t *testing.T) {
	r, store := authTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		`{"name":"John Doe","email":"john@example.com","password":"123456"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/forgotpassword",
		`{"email":"missing@example.com"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "There is no user with that email")

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/forgotpassword",
		`{"email":"john@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Email sent")

	w = doJSON(t, r, http.MethodPut, "/api/v1/auth/resetpassword/bogustoken",
		`{"password":"newpassword"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "InvalidToken")

	// Plant a known token directly; the plaintext never leaves the mailer.
	exp := time.Now().Add(10 * time.Minute)
	require.NoError(t, store.SaveResetToken(context.Background(), "user-1",
		token.HashResetToken("knowntoken"), exp))

	w = doJSON(t, r, http.MethodPut, "/api/v1/auth/resetpassword/knowntoken",
		`{"password":"newpassword"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"john@example.com","password":"newpassword"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
