package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gridrr/admin-backend/internal/models"
)

type fakeUserStore struct {
	byEmail     map[string]*models.User
	byID        map[string]*models.User
	lookups     []string
	verified    []string
	createdName string
	createErr   error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
	for _, u := range users {
		f.byEmail[u.Email] = u
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, hashedPw string) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdName = name
	u := &models.User{ID: "user-new", Name: name, Email: email, Password: hashedPw}
	f.byEmail[email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.lookups = append(f.lookups, email)
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errAssert
	}
	return u, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errAssert
	}
	return u, nil
}

func (f *fakeUserStore) MarkEmailVerified(_ context.Context, id string) error {
	f.verified = append(f.verified, id)
	return nil
}

var errAssert = assert.AnError

type fakeSessions struct {
	created      []string
	deleted      []string
	verifyTokens map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{verifyTokens: map[string]string{}}
}

func (f *fakeSessions) Create(_ context.Context, userID string) (string, error) {
	f.created = append(f.created, userID)
	return "sid-" + userID, nil
}

func (f *fakeSessions) Delete(_ context.Context, sid string) error {
	f.deleted = append(f.deleted, sid)
	return nil
}

func (f *fakeSessions) CreateVerifyToken(_ context.Context, userID string) (string, error) {
	token := "token-" + userID
	f.verifyTokens[token] = userID
	return token, nil
}

func (f *fakeSessions) ConsumeVerifyToken(_ context.Context, token string) (string, error) {
	userID := f.verifyTokens[token]
	delete(f.verifyTokens, token)
	return userID, nil
}

func hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func verifiedUser(t *testing.T) *models.User {
	return &models.User{
		ID: "user-1", Name: "Alice", Email: "alice@example.com",
		Password: hash(t, "secret"), EmailVerified: true,
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestLogin_NormalizesEmail(t *testing.T) {
	users := newFakeUserStore(verifiedUser(t))
	sessions := newFakeSessions()
	h := NewHandler(users, sessions, "http://localhost:8080")

	body := strings.NewReader(`{"email":"  Alice@Example.COM ","password":"secret"}`)
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"alice@example.com"}, users.lookups)
	assert.Equal(t, []string{"user-1"}, sessions.created)

	cookie := sessionCookie(t, rec)
	assert.Equal(t, "sid-user-1", cookie.Value)
	assert.True(t, cookie.HttpOnly)

	var res models.AuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	require.NotNil(t, res.User)
	assert.Empty(t, res.User.Password)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	users := newFakeUserStore(verifiedUser(t))
	sessions := newFakeSessions()
	h := NewHandler(users, sessions, "http://localhost:8080")

	body := strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`)
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, sessions.created)
}

func TestLogin_UnverifiedEmail(t *testing.T) {
	u := verifiedUser(t)
	u.EmailVerified = false
	users := newFakeUserStore(u)
	sessions := newFakeSessions()
	h := NewHandler(users, sessions, "http://localhost:8080")

	body := strings.NewReader(`{"email":"alice@example.com","password":"secret"}`)
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, sessions.created)
}

func TestSignup_SoftSuccess(t *testing.T) {
	users := newFakeUserStore()
	sessions := newFakeSessions()
	h := NewHandler(users, sessions, "http://localhost:8080")

	body := strings.NewReader(`{"email":"Bob@Example.com","password":"hunter22","name":"Bob"}`)
	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/api/auth/signup", body))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res models.AuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Contains(t, res.Error, "verify")
	assert.Equal(t, "Bob", users.createdName)

	// Email stored normalized, verification token minted.
	_, ok := users.byEmail["bob@example.com"]
	assert.True(t, ok)
	assert.Len(t, sessions.verifyTokens, 1)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	users.createErr = fmt.Errorf("create user: %w", &pgconn.PgError{Code: "23505"})
	sessions := newFakeSessions()
	h := NewHandler(users, sessions, "http://localhost:8080")

	body := strings.NewReader(`{"email":"bob@example.com","password":"hunter22","name":"Bob"}`)
	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/api/auth/signup", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
	assert.Empty(t, sessions.verifyTokens)
}

func TestSignup_DatabaseFailure(t *testing.T) {
	users := newFakeUserStore()
	users.createErr = errAssert
	sessions := newFakeSessions()
	h := NewHandler(users, sessions, "http://localhost:8080")

	body := strings.NewReader(`{"email":"bob@example.com","password":"hunter22","name":"Bob"}`)
	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/api/auth/signup", body))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, sessions.verifyTokens)
}

func TestSignup_MissingFields(t *testing.T) {
	h := NewHandler(newFakeUserStore(), newFakeSessions(), "http://localhost:8080")

	body := strings.NewReader(`{"email":"bob@example.com"}`)
	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/api/auth/signup", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	sessions := newFakeSessions()
	h := NewHandler(newFakeUserStore(), sessions, "http://localhost:8080")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid-user-1"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"sid-user-1"}, sessions.deleted)

	cookie := sessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestMe(t *testing.T) {
	users := newFakeUserStore(verifiedUser(t))
	h := NewHandler(users, newFakeSessions(), "http://localhost:8080")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(WithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var u models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, "alice@example.com", u.Email)

	// Anonymous request
	rec = httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyCallback(t *testing.T) {
	users := newFakeUserStore(verifiedUser(t))
	sessions := newFakeSessions()
	sessions.verifyTokens["token-user-1"] = "user-1"
	h := NewHandler(users, sessions, "http://localhost:8080")

	rec := httptest.NewRecorder()
	h.VerifyCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?token=token-user-1", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := rec.Result().Location()
	require.NoError(t, err)
	assert.Equal(t, "/signin", loc.Path)
	assert.Equal(t, []string{"user-1"}, users.verified)

	// Token is one-shot.
	rec = httptest.NewRecorder()
	h.VerifyCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?token=token-user-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.VerifyCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
