package setting

import (
	"context"
	"encoding/json"
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

const errSettingNotFound = "설정을 찾을 수 없습니다."

// Store defines the interface for settings persistence.
type Store interface {
	All(ctx context.Context) ([]models.Setting, error)
	GetByType(ctx context.Context, settingType string) (*models.Setting, error)
	Upsert(ctx context.Context, settingType string, data map[string]interface{}, updatedBy string) (*models.Setting, error)
}

// Handler holds settings HTTP handlers.
type Handler struct {
	settings Store
	cache    *Cache
	uploads  *upload.Saver
}

func NewHandler(settings Store, cache *Cache, uploads *upload.Saver) *Handler {
	return &Handler{settings: settings, cache: cache, uploads: uploads}
}

var fileRule = upload.Rule{
	Exts:     upload.ImageExts,
	MaxSize:  upload.MaxImageSize,
	MaxFiles: 1,
	Prefix:   "settings",
}

// GetAll returns every settings document as a type→data map.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.All(r.Context())
	if err != nil {
		log.Printf("settings list error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	result := make(map[string]interface{}, len(settings))
	for _, s := range settings {
		result[s.Type] = s.Data
	}
	web.JSON(w, http.StatusOK, result)
}

// Get returns the data for one settings type, served from the Redis
// cache when possible.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	settingType := chi.URLParam(r, "type")

	if data, err := h.cache.Get(r.Context(), settingType); err == nil && data != nil {
		web.JSON(w, http.StatusOK, data)
		return
	}

	setting, err := h.settings.GetByType(r.Context(), settingType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusNotFound, errSettingNotFound)
			return
		}
		log.Printf("setting get error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	if err := h.cache.Set(r.Context(), settingType, setting.Data); err != nil {
		log.Printf("setting cache error: %v", err)
	}
	web.JSON(w, http.StatusOK, setting.Data)
}

// Put creates or replaces one settings type. Admin only.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	settingType := chi.URLParam(r, "type")
	user, _ := middleware.UserFrom(r.Context())

	var data map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || len(data) == 0 {
		web.Error(w, http.StatusBadRequest, "설정 데이터가 없습니다.")
		return
	}

	setting, err := h.settings.Upsert(r.Context(), settingType, data, user.ID)
	if err != nil {
		log.Printf("setting upsert error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	if err := h.cache.Invalidate(r.Context(), settingType); err != nil {
		log.Printf("setting cache invalidate error: %v", err)
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"setting": setting,
	})
}

// UploadFile stores a site image (logo, favicon, white logo). The
// file lands in the blob store; the caller records the returned path
// in the appearance settings.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	fileType := chi.URLParam(r, "fileType")
	if fileType != "logo" && fileType != "favicon" && fileType != "logoWhite" {
		web.Error(w, http.StatusBadRequest, "지원하지 않는 파일 타입입니다.")
		return
	}

	if err := r.ParseMultipartForm(upload.MaxImageSize); err != nil {
		web.Error(w, http.StatusBadRequest, "파일이 업로드되지 않았습니다.")
		return
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		web.Error(w, http.StatusBadRequest, "파일이 업로드되지 않았습니다.")
		return
	}

	att, err := h.uploads.SaveOne(r.Context(), files[0], fileRule)
	if err != nil {
		if msg := upload.Message(err); msg != "" {
			web.Error(w, http.StatusBadRequest, msg)
			return
		}
		log.Printf("setting upload error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"filePath": att.Path,
		"fileType": fileType,
	})
}

// UpdateMenu replaces the menu list inside the general settings.
func (h *Handler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	var req struct {
		Menus []interface{} `json:"menus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Menus == nil {
		web.Error(w, http.StatusBadRequest, "올바른 메뉴 데이터가 아닙니다.")
		return
	}

	data := map[string]interface{}{}
	if current, err := h.settings.GetByType(r.Context(), "general"); err == nil {
		data = current.Data
	}
	data["menus"] = req.Menus

	if _, err := h.settings.Upsert(r.Context(), "general", data, user.ID); err != nil {
		log.Printf("menu update error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	if err := h.cache.Invalidate(r.Context(), "general"); err != nil {
		log.Printf("setting cache invalidate error: %v", err)
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"menus":   req.Menus,
	})
}
