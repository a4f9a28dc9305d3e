package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sandeul/website-backend/internal/middleware"
	"github.com/sandeul/website-backend/internal/models"
	"github.com/sandeul/website-backend/internal/store"
)

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	users  map[string]*models.User // by id
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (f *fakeUserStore) add(username, password, role string, active bool) *models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	f.nextID++
	u := &models.User{
		ID:       "u" + string(rune('0'+f.nextID)),
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Name:     username,
		Role:     role,
		IsActive: active,
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserStore) CreateUser(ctx context.Context, username, email, hashedPw, name, role string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return nil, store.ErrDuplicateUser
		}
	}
	f.nextID++
	u := &models.User{
		ID:       "u" + string(rune('0'+f.nextID)),
		Username: username,
		Email:    email,
		Password: hashedPw,
		Name:     name,
		Role:     role,
		IsActive: true,
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if u, ok := f.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id, hashedPw string) error {
	if u, ok := f.users[id]; ok {
		u.Password = hashedPw
	}
	return nil
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLogin_Success(t *testing.T) {
	users := newFakeUserStore()
	admin := users.add("admin", "secret123", models.RoleAdmin, true)
	tokens := NewTokenService("test-secret")
	h := NewHandler(users, tokens)

	rec := postJSON(t, h.Login, "/api/auth/login", models.LoginRequest{
		Username: "admin",
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool            `json:"success"`
		Token   string          `json:"token"`
		User    models.UserView `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, admin.ID, resp.User.ID)

	// The issued token must resolve back to the same user.
	userID, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, userID)

	// Login records last_login.
	assert.NotNil(t, users.users[admin.ID].LastLogin)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newFakeUserStore()
	users.add("admin", "secret123", models.RoleAdmin, true)
	h := NewHandler(users, NewTokenService("test-secret"))

	rec := postJSON(t, h.Login, "/api/auth/login", models.LoginRequest{
		Username: "admin",
		Password: "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"사용자 이름 또는 비밀번호가 올바르지 않습니다."}`, rec.Body.String())
}

func TestLogin_UnknownUser_SameMessage(t *testing.T) {
	users := newFakeUserStore()
	users.add("admin", "secret123", models.RoleAdmin, true)
	h := NewHandler(users, NewTokenService("test-secret"))

	wrongPass := postJSON(t, h.Login, "/api/auth/login", models.LoginRequest{
		Username: "admin", Password: "nope",
	})
	unknown := postJSON(t, h.Login, "/api/auth/login", models.LoginRequest{
		Username: "ghost", Password: "nope",
	})

	// Unknown user and wrong password must be indistinguishable.
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
}

func TestLogin_InactiveAccount(t *testing.T) {
	users := newFakeUserStore()
	users.add("olduser", "secret123", models.RoleEditor, false)
	h := NewHandler(users, NewTokenService("test-secret"))

	rec := postJSON(t, h.Login, "/api/auth/login", models.LoginRequest{
		Username: "olduser", Password: "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	h := NewHandler(newFakeUserStore(), NewTokenService("test-secret"))

	rec := postJSON(t, h.Login, "/api/auth/login", models.LoginRequest{Username: "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangePassword(t *testing.T) {
	users := newFakeUserStore()
	user := users.add("editor", "oldpass", models.RoleEditor, true)
	h := NewHandler(users, NewTokenService("test-secret"))

	body, _ := json.Marshal(models.ChangePasswordRequest{
		CurrentPassword: "oldpass",
		NewPassword:     "newpass",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/change-password", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// The stored hash must verify against the new password and must
	// not be the plaintext.
	stored := users.users[user.ID].Password
	assert.NotEqual(t, "newpass", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("newpass")))
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	users := newFakeUserStore()
	user := users.add("editor", "oldpass", models.RoleEditor, true)
	h := NewHandler(users, NewTokenService("test-secret"))

	body, _ := json.Marshal(models.ChangePasswordRequest{
		CurrentPassword: "not-it",
		NewPassword:     "newpass",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/change-password", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateUser_DefaultsToEditor(t *testing.T) {
	users := newFakeUserStore()
	h := NewHandler(users, NewTokenService("test-secret"))

	rec := postJSON(t, h.CreateUser, "/api/auth/users", models.CreateUserRequest{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "pass1234",
		Name:     "Newbie",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User models.UserView `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.RoleEditor, resp.User.Role)
}

func TestCreateUser_Duplicate(t *testing.T) {
	users := newFakeUserStore()
	users.add("taken", "pass1234", models.RoleEditor, true)
	h := NewHandler(users, NewTokenService("test-secret"))

	rec := postJSON(t, h.CreateUser, "/api/auth/users", models.CreateUserRequest{
		Username: "taken",
		Email:    "other@example.com",
		Password: "pass1234",
		Name:     "Taken",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"이미 사용 중인 사용자 이름 또는 이메일입니다."}`, rec.Body.String())
}
