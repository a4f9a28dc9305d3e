package product

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sandeul/website-backend/internal/models"
	"github.com/sandeul/website-backend/internal/store"
	"github.com/sandeul/website-backend/internal/upload"
	"github.com/sandeul/website-backend/internal/web"
)

const maxImages = 5

// Store defines the interface for product persistence.
type Store interface {
	List(ctx context.Context, q store.ProductQuery) ([]models.Product, int64, error)
	Insert(ctx context.Context, p *models.Product) (string, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
}

// Handler holds product HTTP handlers.
type Handler struct {
	products Store
	uploads  *upload.Saver
}

func NewHandler(products Store, uploads *upload.Saver) *Handler {
	return &Handler{products: products, uploads: uploads}
}

var imageRule = upload.Rule{
	Exts:     upload.ImageExts,
	MaxSize:  upload.MaxFileSize,
	MaxFiles: maxImages,
	Prefix:   "products",
}

// List returns a page of products. The public listing shows active
// products only; pass isActive=false to see the rest.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	page := web.ParsePage(qs)

	q := store.ProductQuery{
		Category: qs.Get("category"),
		Brand:    qs.Get("brand"),
		Search:   qs.Get("search"),
		Sort:     qs.Get("sort"),
		Order:    qs.Get("order"),
		Skip:     page.Skip(),
		Limit:    page.Limit,
	}
	active := true
	if v := qs.Get("isActive"); v != "" {
		active = v == "true"
	}
	q.IsActive = &active

	products, total, err := h.products.List(r.Context(), q)
	if err != nil {
		log.Printf("product list error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"products":   products,
		"pagination": web.NewPagination(page, total),
	})
}

// Get returns one product.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusNotFound, "제품을 찾을 수 없습니다.")
			return
		}
		log.Printf("product get error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}
	web.JSON(w, http.StatusOK, product)
}

// Create stores a new product with uploaded images. Admin only.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		web.Error(w, http.StatusBadRequest, "올바른 요청이 아닙니다.")
		return
	}

	name := r.FormValue("name")
	brand := r.FormValue("brand")
	category := r.FormValue("category")
	description := r.FormValue("description")
	if name == "" || brand == "" || category == "" || description == "" {
		web.Error(w, http.StatusBadRequest, "모든 필수 필드를 입력해주세요.")
		return
	}

	attachments, err := h.uploads.SaveAll(r.Context(), r.MultipartForm.File["images"], imageRule)
	if err != nil {
		if msg := upload.Message(err); msg != "" {
			web.Error(w, http.StatusBadRequest, msg)
			return
		}
		log.Printf("product image error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}
	images := make([]models.Image, 0, len(attachments))
	for _, att := range attachments {
		images = append(images, models.Image{Path: att.Path, Alt: name})
	}

	displayOrder, _ := strconv.Atoi(r.FormValue("displayOrder"))

	product := &models.Product{
		Name:           name,
		Brand:          brand,
		Category:       category,
		Description:    description,
		Features:       parseFeatures(r.FormValue("features")),
		Specifications: parseSpecifications(r.FormValue("specifications")),
		Images:         images,
		ExternalLink:   r.FormValue("externalLink"),
		DisplayOrder:   displayOrder,
		IsActive:       true,
	}

	id, err := h.products.Insert(r.Context(), product)
	if err != nil {
		log.Printf("product insert error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	saved, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}
	web.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"product": saved,
	})
}

// Update modifies an existing product. keepImages selects which of
// the current images survive, by index; new uploads are appended.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusNotFound, "제품을 찾을 수 없습니다.")
			return
		}
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		web.Error(w, http.StatusBadRequest, "올바른 요청이 아닙니다.")
		return
	}

	if v := r.FormValue("name"); v != "" {
		product.Name = v
	}
	if v := r.FormValue("brand"); v != "" {
		product.Brand = v
	}
	if v := r.FormValue("category"); v != "" {
		product.Category = v
	}
	if v := r.FormValue("description"); v != "" {
		product.Description = v
	}
	if v := r.FormValue("features"); v != "" {
		product.Features = parseFeatures(v)
	}
	if v := r.FormValue("specifications"); v != "" {
		product.Specifications = parseSpecifications(v)
	}
	if v := r.FormValue("externalLink"); v != "" {
		product.ExternalLink = v
	}
	if v := r.FormValue("displayOrder"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			product.DisplayOrder = n
		}
	}
	if v := r.FormValue("isActive"); v != "" {
		product.IsActive = v == "true"
	}

	if v := r.FormValue("keepImages"); v != "" {
		var keep []string
		if err := json.Unmarshal([]byte(v), &keep); err == nil {
			kept := make([]models.Image, 0, len(product.Images))
			for i, img := range product.Images {
				for _, k := range keep {
					if k == strconv.Itoa(i) {
						kept = append(kept, img)
						break
					}
				}
			}
			product.Images = kept
		}
	}

	attachments, err := h.uploads.SaveAll(r.Context(), r.MultipartForm.File["images"], imageRule)
	if err != nil {
		if msg := upload.Message(err); msg != "" {
			web.Error(w, http.StatusBadRequest, msg)
			return
		}
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}
	for _, att := range attachments {
		product.Images = append(product.Images, models.Image{Path: att.Path, Alt: product.Name})
	}

	if err := h.products.Update(r.Context(), product); err != nil {
		log.Printf("product update error: %v", err)
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"product": product,
	})
}

// Delete hard-deletes a product and its image blobs.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusNotFound, "제품을 찾을 수 없습니다.")
			return
		}
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	for _, img := range product.Images {
		if err := h.uploads.Remove(r.Context(), img.Path); err != nil {
			log.Printf("product image remove error: %v", err)
		}
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		web.Error(w, http.StatusInternalServerError, web.ErrServer)
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "제품이 성공적으로 삭제되었습니다.",
	})
}

// parseFeatures accepts either a JSON array or a comma-separated
// string.
func parseFeatures(raw string) []string {
	if raw == "" {
		return nil
	}
	var features []string
	if err := json.Unmarshal([]byte(raw), &features); err == nil {
		return features
	}
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	return features
}

// parseSpecifications accepts a JSON array of {name, value} pairs.
func parseSpecifications(raw string) []models.Specification {
	if raw == "" {
		return nil
	}
	var specs []models.Specification
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		log.Printf("specifications parse error: %v", err)
		return nil
	}
	return specs
}
