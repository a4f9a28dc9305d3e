package contact

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sandeul/website-backend/internal/middleware"
	"github.com/sandeul/website-backend/internal/models"
	"github.com/sandeul/website-backend/internal/store"
	"github.com/sandeul/website-backend/internal/upload"
	"github.com/sandeul/website-backend/internal/web"
)

// maxAttachments caps files on the public contact form.
const maxAttachments = 3

const errContactNotFound = "문의를 찾을 수 없습니다."

// Store defines the interface for contact-inquiry persistence.
type Store interface {
	List(ctx context.Context, q store.ContactQuery) ([]models.Contact, int64, error)
	Insert(ctx context.Context, c *models.Contact) (string, error)
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	MarkRead(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) error
	SetAssignee(ctx context.Context, id string, assignee *string) error
	PushResponse(ctx context.Context, id string, resp models.Response) error
}

// Handler holds contact HTTP handlers.
type Handler struct {
	contacts Store
	uploads  *upload.Saver
}

func NewHandler(contacts Store, uploads *upload.Saver) *Handler {
	return &Handler{contacts: contacts, uploads: uploads}
}

var attachmentRule = upload.Rule{
	Exts:     upload.DocumentExts,
	MaxSize:  upload.MaxFileSize,
	MaxFiles: maxAttachments,
	Prefix:   "contacts",
}

// Create accepts a public contact-form submission with up to three
// attachments. Attachment validation runs before anything is saved.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		web.Error(w, http.StatusBadRequest, "올바른 요청이 아닙니다.")
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")
	subject := r.FormValue("subject")
	message := r.FormValue("message")
	if name == "" || email == "" || subject == "" || message == "" {
		web.Error(w, http.StatusBadRequest, "모든 필수 필드를 입력해주세요.")
		return
	}

	attachments, err := h.uploads.SaveAll(r.Context(), r.MultipartForm.File["attachments"], attachmentRule)
	if err != nil {
		if msg := upload.Message(err); msg != "" {
			web.Error(w, http.StatusBadRequest, msg)
			return
		}
		log.Printf("contact attachment error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	contact := &models.Contact{
		Name:        name,
		Email:       email,
		Phone:       r.FormValue("phone"),
		Company:     r.FormValue("company"),
		Subject:     subject,
		Message:     message,
		Attachments: attachments,
		Status:      models.ContactStatusNew,
		IsRead:      false,
		Responses:   []models.Response{},
	}

	if _, err := h.contacts.Insert(r.Context(), contact); err != nil {
		log.Printf("contact insert error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	web.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "문의가 성공적으로 접수되었습니다.",
	})
}

// List returns a page of inquiries. Admin only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	page := web.ParsePage(qs)

	q := store.ContactQuery{
		Status: qs.Get("status"),
		Search: qs.Get("search"),
		Sort:   qs.Get("sort"),
		Order:  qs.Get("order"),
		Skip:   page.Skip(),
		Limit:  page.Limit,
	}
	if v := qs.Get("isRead"); v != "" {
		read := v == "true"
		q.IsRead = &read
	}

	contacts, total, err := h.contacts.List(r.Context(), q)
	if err != nil {
		log.Printf("contact list error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"contacts":   contacts,
		"pagination": web.NewPagination(page, total),
	})
}

// Get returns one inquiry and marks it read.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusNotFound, errContactNotFound)
			return
		}
		log.Printf("contact get error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	if !contact.IsRead {
		if err := h.contacts.MarkRead(r.Context(), id); err != nil {
			log.Printf("contact mark read error: %v", err)
		}
		contact.IsRead = true
	}

	web.JSON(w, http.StatusOK, contact)
}

// UpdateStatus sets the workflow status of one inquiry.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !models.ValidContactStatus(req.Status) {
		web.Error(w, http.StatusBadRequest, "유효한 상태를 입력해주세요.")
		return
	}

	if err := h.contacts.SetStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusNotFound, errContactNotFound)
			return
		}
		log.Printf("contact status error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"contact": contact,
	})
}

// Assign sets or clears the assignee of one inquiry. An empty or
// absent assignedTo unassigns.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		AssignedTo string `json:"assignedTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "올바른 요청이 아닙니다.")
		return
	}

	var assignee *string
	if req.AssignedTo != "" {
		assignee = &req.AssignedTo
	}

	if err := h.contacts.SetAssignee(r.Context(), id, assignee); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusNotFound, errContactNotFound)
			return
		}
		log.Printf("contact assign error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"contact": contact,
	})
}

// AddResponse appends an admin reply to one inquiry.
func (h *Handler) AddResponse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, _ := middleware.UserFrom(r.Context())

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		web.Error(w, http.StatusBadRequest, "응답 내용을 입력해주세요.")
		return
	}

	resp := models.Response{
		Content:   req.Content,
		CreatedAt: time.Now(),
		CreatedBy: user.ID,
	}
	if err := h.contacts.PushResponse(r.Context(), id, resp); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusNotFound, errContactNotFound)
			return
		}
		log.Printf("contact response error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"contact": contact,
	})
}
