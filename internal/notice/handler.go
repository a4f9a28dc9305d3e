package notice

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sandeul/website-backend/internal/middleware"
	"github.com/sandeul/website-backend/internal/models"
	"github.com/sandeul/website-backend/internal/store"
	"github.com/sandeul/website-backend/internal/upload"
	"github.com/sandeul/website-backend/internal/web"
)

const maxAttachments = 5

// Store defines the interface for notice persistence.
type Store interface {
	List(ctx context.Context, q store.NoticeQuery) ([]models.Notice, int64, error)
	Insert(ctx context.Context, n *models.Notice) (string, error)
	GetByID(ctx context.Context, id string) (*models.Notice, error)
	Update(ctx context.Context, n *models.Notice) error
	Delete(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
}

// Handler holds notice HTTP handlers.
type Handler struct {
	notices Store
	uploads *upload.Saver
}

func NewHandler(notices Store, uploads *upload.Saver) *Handler {
	return &Handler{notices: notices, uploads: uploads}
}

var attachmentRule = upload.Rule{
	Exts:     upload.DocumentExts,
	MaxSize:  upload.MaxFileSize,
	MaxFiles: maxAttachments,
	Prefix:   "notices",
}

// List returns a page of notices. Unless the caller asks otherwise,
// only published notices are shown.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	page := web.ParsePage(qs)

	q := store.NoticeQuery{
		Category: qs.Get("category"),
		Search:   qs.Get("search"),
		Sort:     qs.Get("sort"),
		Order:    qs.Get("order"),
		Skip:     page.Skip(),
		Limit:    page.Limit,
	}
	published := true
	if v := qs.Get("isPublished"); v != "" {
		published = v == "true"
	}
	q.IsPublished = &published

	notices, total, err := h.notices.List(r.Context(), q)
	if err != nil {
		log.Printf("notice list error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"notices":    notices,
		"pagination": web.NewPagination(page, total),
	})
}

// Get returns one notice and bumps its view counter.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	notice, err := h.notices.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusNotFound, "공지사항을 찾을 수 없습니다.")
			return
		}
		log.Printf("notice get error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	if err := h.notices.IncrementViewCount(r.Context(), id); err != nil {
		log.Printf("notice view count error: %v", err)
	}

	web.JSON(w, http.StatusOK, notice)
}

// Create stores a new notice with optional attachments. Admin only.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		web.Error(w, http.StatusBadRequest, "올바른 요청이 아닙니다.")
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	if title == "" || content == "" {
		web.Error(w, http.StatusBadRequest, "모든 필수 필드를 입력해주세요.")
		return
	}

	category := r.FormValue("category")
	if category == "" {
		category = "general"
	}

	attachments, err := h.uploads.SaveAll(r.Context(), r.MultipartForm.File["attachments"], attachmentRule)
	if err != nil {
		if msg := upload.Message(err); msg != "" {
			web.Error(w, http.StatusBadRequest, msg)
			return
		}
		log.Printf("notice attachment error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	notice := &models.Notice{
		Title:       title,
		Content:     content,
		AuthorID:    user.ID,
		AuthorName:  user.Name,
		Category:    category,
		IsImportant: r.FormValue("isImportant") == "true",
		Attachments: attachments,
		IsPublished: r.FormValue("isPublished") != "false",
	}

	id, err := h.notices.Insert(r.Context(), notice)
	if err != nil {
		log.Printf("notice insert error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	saved, err := h.notices.GetByID(r.Context(), id)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}
	web.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"notice":  saved,
	})
}

// Update modifies an existing notice. New attachments are appended.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	notice, err := h.notices.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusNotFound, "공지사항을 찾을 수 없습니다.")
			return
		}
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		web.Error(w, http.StatusBadRequest, "올바른 요청이 아닙니다.")
		return
	}

	if v := r.FormValue("title"); v != "" {
		notice.Title = v
	}
	if v := r.FormValue("content"); v != "" {
		notice.Content = v
	}
	if v := r.FormValue("category"); v != "" {
		notice.Category = v
	}
	if v := r.FormValue("isImportant"); v != "" {
		notice.IsImportant = v == "true"
	}
	if v := r.FormValue("isPublished"); v != "" {
		notice.IsPublished = v == "true"
	}

	added, err := h.uploads.SaveAll(r.Context(), r.MultipartForm.File["attachments"], attachmentRule)
	if err != nil {
		if msg := upload.Message(err); msg != "" {
			web.Error(w, http.StatusBadRequest, msg)
			return
		}
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}
	notice.Attachments = append(notice.Attachments, added...)

	if err := h.notices.Update(r.Context(), notice); err != nil {
		log.Printf("notice update error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"notice":  notice,
	})
}

// Delete removes a notice and its attachment blobs.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	notice, err := h.notices.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusNotFound, "공지사항을 찾을 수 없습니다.")
			return
		}
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	for _, att := range notice.Attachments {
		if err := h.uploads.Remove(r.Context(), att.Path); err != nil {
			log.Printf("notice attachment remove error: %v", err)
		}
	}

	if err := h.notices.Delete(r.Context(), id); err != nil {
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "공지사항이 성공적으로 삭제되었습니다.",
	})
}
