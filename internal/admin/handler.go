package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/sandeul/website-backend/internal/models"
	"github.com/sandeul/website-backend/internal/store"
	"github.com/sandeul/website-backend/internal/web"
)

const recentLimit = 5

// NoticeStats supplies dashboard numbers for notices.
type NoticeStats interface {
	NoticeBulkStore
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, n int) ([]models.Notice, error)
}

// ProductStats supplies dashboard numbers for products.
type ProductStats interface {
	ProductBulkStore
	Count(ctx context.Context) (int64, error)
}

// ContactStats supplies dashboard numbers for inquiries.
type ContactStats interface {
	ContactBulkStore
	Count(ctx context.Context) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
	Recent(ctx context.Context, n int) ([]models.Contact, error)
}

// Handler holds the back-office HTTP handlers.
type Handler struct {
	notices  NoticeStats
	products ProductStats
	contacts ContactStats
}

func NewHandler(notices NoticeStats, products ProductStats, contacts ContactStats) *Handler {
	return &Handler{notices: notices, products: products, contacts: contacts}
}

// Dashboard returns entity counts plus the most recent notices and
// inquiries.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	noticeCount, err := h.notices.Count(ctx)
	if err != nil {
		h.serverError(w, "dashboard notice count", err)
		return
	}
	productCount, err := h.products.Count(ctx)
	if err != nil {
		h.serverError(w, "dashboard product count", err)
		return
	}
	contactCount, err := h.contacts.Count(ctx)
	if err != nil {
		h.serverError(w, "dashboard contact count", err)
		return
	}
	newContactCount, err := h.contacts.CountUnread(ctx)
	if err != nil {
		h.serverError(w, "dashboard unread count", err)
		return
	}
	recentNotices, err := h.notices.Recent(ctx, recentLimit)
	if err != nil {
		h.serverError(w, "dashboard recent notices", err)
		return
	}
	recentContacts, err := h.contacts.Recent(ctx, recentLimit)
	if err != nil {
		h.serverError(w, "dashboard recent contacts", err)
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"stats": map[string]int64{
			"noticeCount":     noticeCount,
			"productCount":    productCount,
			"contactCount":    contactCount,
			"newContactCount": newContactCount,
		},
		"recentNotices":  recentNotices,
		"recentContacts": recentContacts,
	})
}

// CheckAdmin confirms the caller passed the admin gate.
func (h *Handler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"isAdmin": true,
	})
}

// NoticesBulk applies one whitelisted action to a set of notices.
func (h *Handler) NoticesBulk(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, func(ctx context.Context, req BulkRequest) (store.BulkResult, error) {
		return applyNoticeBulk(ctx, h.notices, req)
	})
}

// ProductsBulk applies one whitelisted action to a set of products.
func (h *Handler) ProductsBulk(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, func(ctx context.Context, req BulkRequest) (store.BulkResult, error) {
		return applyProductBulk(ctx, h.products, req)
	})
}

// ContactsBulk applies one whitelisted action to a set of inquiries.
func (h *Handler) ContactsBulk(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, func(ctx context.Context, req BulkRequest) (store.BulkResult, error) {
		return applyContactBulk(ctx, h.contacts, req)
	})
}

func (h *Handler) bulk(w http.ResponseWriter, r *http.Request, apply func(context.Context, BulkRequest) (store.BulkResult, error)) {
	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "올바른 요청이 아닙니다.")
		return
	}

	result, err := apply(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			web.Error(w, http.StatusBadRequest, "올바른 요청이 아닙니다.")
		case errors.Is(err, ErrInvalidStatus):
			web.Error(w, http.StatusBadRequest, "유효한 상태를 입력해주세요.")
		case errors.Is(err, ErrInvalidAction):
			web.Error(w, http.StatusBadRequest, "지원하지 않는 작업입니다.")
		default:
			h.serverError(w, "bulk apply", err)
		}
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%d개의 항목에 대해 작업이 완료되었습니다.", len(req.IDs)),
		"result":  result,
	})
}

func (h *Handler) serverError(w http.ResponseWriter, op string, err error) {
	log.Printf("%s error: %v", op, err)
	web.Error(w, http.StatusInternalServerError, web.ErrServer)
}
