package upload

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Downloader is the read side of the blob store.
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// ServeFile streams a stored upload. Mounted at /uploads/* so the
// paths recorded on attachments resolve directly.
func ServeFile(blobs Downloader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")
		if key == "" || strings.Contains(key, "..") {
			http.Error(w, `{"error":"file not found"}`, http.StatusNotFound)
			return
		}

		data, ct, err := blobs.Download(r.Context(), key)
		if err != nil {
			http.Error(w, `{"error":"file not found"}`, http.StatusNotFound)
			return
		}
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Write(data)
	}
}
