package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sandeul/website-backend/internal/middleware"
	"github.com/sandeul/website-backend/internal/models"
	"github.com/sandeul/website-backend/internal/store"
	"github.com/sandeul/website-backend/internal/web"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, hashedPw, name, role string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, hashedPw string) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	tokens *TokenService
}

func NewHandler(users UserStore, tokens *TokenService) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// Login verifies credentials and issues a bearer token. Unknown user
// and wrong password produce the same message so accounts cannot be
// enumerated.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		web.Error(w, http.StatusBadRequest, "사용자 이름과 비밀번호를 입력해주세요.")
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusUnauthorized, "사용자 이름 또는 비밀번호가 올바르지 않습니다.")
			return
		}
		log.Printf("login lookup error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	if !user.IsActive {
		web.Error(w, http.StatusUnauthorized, "비활성화된 계정입니다. 관리자에게 문의하세요.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		web.Error(w, http.StatusUnauthorized, "사용자 이름 또는 비밀번호가 올바르지 않습니다.")
		return
	}

	if err := h.users.UpdateLastLogin(r.Context(), user.ID, time.Now()); err != nil {
		log.Printf("last login update error: %v", err)
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("token issue error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user.View(),
	})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "로그인이 필요합니다.")
		return
	}
	web.JSON(w, http.StatusOK, user.View())
}

// ChangePassword verifies the current password before replacing it.
// The new password is rehashed; plaintext is never stored.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "로그인이 필요합니다.")
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		web.Error(w, http.StatusBadRequest, "현재 비밀번호와 새 비밀번호를 입력해주세요.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		web.Error(w, http.StatusUnauthorized, "현재 비밀번호가 올바르지 않습니다.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, string(hashed)); err != nil {
		log.Printf("password update error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "비밀번호가 성공적으로 변경되었습니다.",
	})
}

// CreateUser creates an account. Admin only; role defaults to editor.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "모든 필수 필드를 입력해주세요.")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Name == "" {
		web.Error(w, http.StatusBadRequest, "모든 필수 필드를 입력해주세요.")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleEditor
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Username, req.Email, string(hashed), req.Name, req.Role)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			web.Error(w, http.StatusBadRequest, "이미 사용 중인 사용자 이름 또는 이메일입니다.")
			return
		}
		log.Printf("user create error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	web.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user.View(),
	})
}
