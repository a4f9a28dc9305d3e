package notice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sandeul/website-backend/internal/models"
	"github.com/sandeul/website-backend/internal/store"
	"github.com/sandeul/website-backend/internal/upload"
	"github.com/sandeul/website-backend/internal/web"
)

// fakeNoticeStore implements the List path with real filter, sort and
// slice semantics so pagination can be exercised end to end.
type fakeNoticeStore struct {
	notices []models.Notice
}

func (f *fakeNoticeStore) List(ctx context.Context, q store.NoticeQuery) ([]models.Notice, int64, error) {
	matched := []models.Notice{}
	for _, n := range f.notices {
		if q.IsPublished != nil && n.IsPublished != *q.IsPublished {
			continue
		}
		if q.Category != "" && n.Category != q.Category {
			continue
		}
		matched = append(matched, n)
	}

	// Default order: important first, then most recent.
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].IsImportant != matched[j].IsImportant {
			return matched[i].IsImportant
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if q.Skip >= len(matched) {
		return []models.Notice{}, total, nil
	}
	end := q.Skip + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.Skip:end], total, nil
}

func (f *fakeNoticeStore) Insert(ctx context.Context, n *models.Notice) (string, error) {
	n.ID = primitive.NewObjectID()
	f.notices = append(f.notices, *n)
	return n.ID.Hex(), nil
}

func (f *fakeNoticeStore) GetByID(ctx context.Context, id string) (*models.Notice, error) {
	for i := range f.notices {
		if f.notices[i].ID.Hex() == id {
			return &f.notices[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeNoticeStore) Update(ctx context.Context, n *models.Notice) error { return nil }
func (f *fakeNoticeStore) Delete(ctx context.Context, id string) error        { return nil }
func (f *fakeNoticeStore) IncrementViewCount(ctx context.Context, id string) error {
	return nil
}

type noopBlobStore struct{}

func (noopBlobStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return nil
}
func (noopBlobStore) Remove(ctx context.Context, key string) error { return nil }

func seedNotices(count int) *fakeNoticeStore {
	f := &fakeNoticeStore{}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		f.notices = append(f.notices, models.Notice{
			ID:          primitive.NewObjectID(),
			Title:       fmt.Sprintf("notice %d", i),
			Content:     "content",
			Category:    "general",
			IsPublished: true,
			IsImportant: i%7 == 0,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		})
	}
	return f
}

type listResponse struct {
	Notices    []models.Notice `json:"notices"`
	Pagination web.Pagination  `json:"pagination"`
}

func getList(t *testing.T, h *Handler, query string) listResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/notices"+query, nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// Walking every page in order must reproduce the full sorted result
// set with no duplicates or gaps.
func TestList_PaginationCoversAll(t *testing.T) {
	notices := seedNotices(23)
	h := NewHandler(notices, upload.NewSaver(noopBlobStore{}))

	first := getList(t, h, "?limit=5")
	assert.Equal(t, 5, first.Pagination.TotalPages)
	assert.Equal(t, int64(23), first.Pagination.TotalItems)

	seen := map[string]bool{}
	collected := []models.Notice{}
	for page := 1; page <= first.Pagination.TotalPages; page++ {
		resp := getList(t, h, fmt.Sprintf("?limit=5&page=%d", page))
		for _, n := range resp.Notices {
			id := n.ID.Hex()
			assert.False(t, seen[id], "duplicate notice across pages: %s", id)
			seen[id] = true
			collected = append(collected, n)
		}
	}
	require.Len(t, collected, 23)

	// Important notices come before the rest; within each group,
	// newest first.
	sawRegular := false
	var prev *models.Notice
	for i := range collected {
		n := collected[i]
		if !n.IsImportant {
			sawRegular = true
		} else {
			assert.False(t, sawRegular, "important notice after a regular one")
		}
		if prev != nil && prev.IsImportant == n.IsImportant {
			assert.False(t, prev.CreatedAt.Before(n.CreatedAt), "out of order within group")
		}
		prev = &collected[i]
	}
}

func TestList_DefaultsToPublishedOnly(t *testing.T) {
	notices := seedNotices(3)
	notices.notices[1].IsPublished = false
	h := NewHandler(notices, upload.NewSaver(noopBlobStore{}))

	resp := getList(t, h, "")
	assert.Equal(t, int64(2), resp.Pagination.TotalItems)

	unpublished := getList(t, h, "?isPublished=false")
	assert.Equal(t, int64(1), unpublished.Pagination.TotalItems)
}

func TestGet_NotFound(t *testing.T) {
	h := NewHandler(&fakeNoticeStore{}, upload.NewSaver(noopBlobStore{}))

	req := httptest.NewRequest(http.MethodGet, "/api/notices/000000000000000000000000", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
