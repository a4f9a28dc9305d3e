package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeul/website-backend/internal/models"
	"github.com/sandeul/website-backend/internal/store"
)

// fakeNotices backs the bulk dispatch with a map of id → published.
type fakeNotices struct {
	published map[string]bool
}

func (f *fakeNotices) SetPublished(ctx context.Context, ids []string, published bool) (store.BulkResult, error) {
	var res store.BulkResult
	for _, id := range ids {
		if _, ok := f.published[id]; !ok {
			continue
		}
		res.MatchedCount++
		if f.published[id] != published {
			f.published[id] = published
			res.ModifiedCount++
		}
	}
	return res, nil
}

func (f *fakeNotices) DeleteMany(ctx context.Context, ids []string) (store.BulkResult, error) {
	var res store.BulkResult
	for _, id := range ids {
		if _, ok := f.published[id]; ok {
			delete(f.published, id)
			res.DeletedCount++
		}
	}
	return res, nil
}

func (f *fakeNotices) Count(ctx context.Context) (int64, error) {
	return int64(len(f.published)), nil
}

func (f *fakeNotices) Recent(ctx context.Context, n int) ([]models.Notice, error) {
	return nil, nil
}

// fakeContacts records writes so tests can prove validation happens
// before any mutation.
type fakeContacts struct {
	writes int
}

func (f *fakeContacts) SetStatusMany(ctx context.Context, ids []string, status string) (store.BulkResult, error) {
	f.writes++
	return store.BulkResult{MatchedCount: int64(len(ids)), ModifiedCount: int64(len(ids))}, nil
}

func (f *fakeContacts) SetAssigneeMany(ctx context.Context, ids []string, assignee *string) (store.BulkResult, error) {
	f.writes++
	return store.BulkResult{MatchedCount: int64(len(ids)), ModifiedCount: int64(len(ids))}, nil
}

func (f *fakeContacts) SetReadMany(ctx context.Context, ids []string, read bool) (store.BulkResult, error) {
	f.writes++
	return store.BulkResult{MatchedCount: int64(len(ids)), ModifiedCount: int64(len(ids))}, nil
}

func (f *fakeContacts) DeleteMany(ctx context.Context, ids []string) (store.BulkResult, error) {
	f.writes++
	return store.BulkResult{DeletedCount: int64(len(ids))}, nil
}

func (f *fakeContacts) Count(ctx context.Context) (int64, error)       { return 0, nil }
func (f *fakeContacts) CountUnread(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeContacts) Recent(ctx context.Context, n int) ([]models.Contact, error) {
	return nil, nil
}

type fakeProducts struct{}

func (fakeProducts) SetActive(ctx context.Context, ids []string, active bool) (store.BulkResult, error) {
	return store.BulkResult{MatchedCount: int64(len(ids)), ModifiedCount: int64(len(ids))}, nil
}

func (fakeProducts) DeleteMany(ctx context.Context, ids []string) (store.BulkResult, error) {
	return store.BulkResult{DeletedCount: int64(len(ids))}, nil
}

func (fakeProducts) Count(ctx context.Context) (int64, error) { return 0, nil }

func TestParseNoticeAction(t *testing.T) {
	tests := []struct {
		name    string
		req     BulkRequest
		want    noticeActionKind
		wantErr error
	}{
		{"publish", BulkRequest{Action: "publish", IDs: []string{"a"}}, noticePublish, nil},
		{"unpublish", BulkRequest{Action: "unpublish", IDs: []string{"a"}}, noticeUnpublish, nil},
		{"delete", BulkRequest{Action: "delete", IDs: []string{"a"}}, noticeDelete, nil},
		{"empty ids", BulkRequest{Action: "publish"}, 0, ErrInvalidRequest},
		{"empty action", BulkRequest{IDs: []string{"a"}}, 0, ErrInvalidRequest},
		{"unknown action", BulkRequest{Action: "archive", IDs: []string{"a"}}, 0, ErrInvalidAction},
		{"foreign action", BulkRequest{Action: "activate", IDs: []string{"a"}}, 0, ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseNoticeAction(tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseContactAction_StatusValidation(t *testing.T) {
	_, err := parseContactAction(BulkRequest{Action: "status", IDs: []string{"a"}, Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Missing ids beats the status check; the request is malformed
	// before the payload is even looked at.
	_, err = parseContactAction(BulkRequest{Action: "status", Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	action, err := parseContactAction(BulkRequest{Action: "status", IDs: []string{"a"}, Status: "in-progress"})
	require.NoError(t, err)
	assert.Equal(t, contactSetStatus, action.kind)
	assert.Equal(t, "in-progress", action.status)
}

func TestParseContactAction_Assign(t *testing.T) {
	unassign, err := parseContactAction(BulkRequest{Action: "assign", IDs: []string{"a"}})
	require.NoError(t, err)
	assert.Nil(t, unassign.assignee)

	assign, err := parseContactAction(BulkRequest{Action: "assign", IDs: []string{"a"}, AssignedTo: "u7"})
	require.NoError(t, err)
	require.NotNil(t, assign.assignee)
	assert.Equal(t, "u7", *assign.assignee)
}

func TestApplyNoticeBulk_Publish(t *testing.T) {
	notices := &fakeNotices{published: map[string]bool{"a": false, "b": false}}

	res, err := applyNoticeBulk(context.Background(), notices, BulkRequest{
		Action: "publish", IDs: []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.ModifiedCount)
	assert.True(t, notices.published["a"])
	assert.True(t, notices.published["b"])
}

func TestApplyNoticeBulk_DeleteIdempotent(t *testing.T) {
	notices := &fakeNotices{published: map[string]bool{"a": true, "b": true}}
	req := BulkRequest{Action: "delete", IDs: []string{"a", "b"}}

	first, err := applyNoticeBulk(context.Background(), notices, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.DeletedCount)

	// Same request again: both already gone, nothing deleted, no error.
	second, err := applyNoticeBulk(context.Background(), notices, req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.DeletedCount)
	assert.Empty(t, notices.published)
}

func TestApplyContactBulk_NoWriteOnBadStatus(t *testing.T) {
	contacts := &fakeContacts{}

	_, err := applyContactBulk(context.Background(), contacts, BulkRequest{
		Action: "status", IDs: []string{"a"}, Status: "bogus",
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, contacts.writes, "invalid status must be rejected before any write")
}

func bulkPost(t *testing.T, h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/notices/bulk", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNoticesBulk_Endpoint(t *testing.T) {
	notices := &fakeNotices{published: map[string]bool{"id1": false, "id2": false}}
	h := NewHandler(notices, fakeProducts{}, &fakeContacts{})

	rec := bulkPost(t, h.NoticesBulk, BulkRequest{Action: "publish", IDs: []string{"id1", "id2"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Message string           `json:"message"`
		Result  store.BulkResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "2개의 항목에 대해 작업이 완료되었습니다.", resp.Message)
	assert.Equal(t, int64(2), resp.Result.ModifiedCount)
}

func TestNoticesBulk_InvalidAction(t *testing.T) {
	h := NewHandler(&fakeNotices{published: map[string]bool{}}, fakeProducts{}, &fakeContacts{})

	rec := bulkPost(t, h.NoticesBulk, BulkRequest{Action: "archive", IDs: []string{"id1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"지원하지 않는 작업입니다."}`, rec.Body.String())
}

func TestNoticesBulk_MissingIDs(t *testing.T) {
	h := NewHandler(&fakeNotices{published: map[string]bool{}}, fakeProducts{}, &fakeContacts{})

	rec := bulkPost(t, h.NoticesBulk, map[string]interface{}{"action": "publish"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"올바른 요청이 아닙니다."}`, rec.Body.String())
}

func TestContactsBulk_BadStatusMessage(t *testing.T) {
	h := NewHandler(&fakeNotices{published: map[string]bool{}}, fakeProducts{}, &fakeContacts{})

	rec := bulkPost(t, h.ContactsBulk, BulkRequest{Action: "status", IDs: []string{"id1"}, Status: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"유효한 상태를 입력해주세요."}`, rec.Body.String())
}

// A status action without ids is a malformed request, not a bad
// status value.
func TestContactsBulk_StatusActionMissingIDs(t *testing.T) {
	h := NewHandler(&fakeNotices{published: map[string]bool{}}, fakeProducts{}, &fakeContacts{})

	rec := bulkPost(t, h.ContactsBulk, BulkRequest{Action: "status", Status: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"올바른 요청이 아닙니다."}`, rec.Body.String())
}

func TestNoticesBulk_MissingAction(t *testing.T) {
	h := NewHandler(&fakeNotices{published: map[string]bool{}}, fakeProducts{}, &fakeContacts{})

	rec := bulkPost(t, h.NoticesBulk, BulkRequest{IDs: []string{"id1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"올바른 요청이 아닙니다."}`, rec.Body.String())
}
