package admin

import (
	"context"
	"errors"

	"github.com/sandeul/website-backend/internal/models"
	"github.com/sandeul/website-backend/internal/store"
)

var (
	// ErrInvalidRequest covers a missing action and a missing or
	// empty id list.
	ErrInvalidRequest = errors.New("invalid bulk request")
	// ErrInvalidAction means the action is not in the whitelist for
	// the entity.
	ErrInvalidAction = errors.New("unsupported bulk action")
	// ErrInvalidStatus means a status action carried a value outside
	// the contact status enum.
	ErrInvalidStatus = errors.New("invalid contact status")
)

// BulkRequest is the JSON body shared by the bulk endpoints.
type BulkRequest struct {
	Action     string   `json:"action"`
	IDs        []string `json:"ids"`
	Status     string   `json:"status,omitempty"`
	AssignedTo string   `json:"assignedTo,omitempty"`
}

// Bulk actions are parsed into typed variants up front, so dispatch
// is an exhaustive switch and every validation failure happens before
// any write.

type noticeActionKind int

const (
	noticePublish noticeActionKind = iota + 1
	noticeUnpublish
	noticeDelete
)

func parseNoticeAction(req BulkRequest) (noticeActionKind, error) {
	if len(req.IDs) == 0 || req.Action == "" {
		return 0, ErrInvalidRequest
	}
	switch req.Action {
	case "publish":
		return noticePublish, nil
	case "unpublish":
		return noticeUnpublish, nil
	case "delete":
		return noticeDelete, nil
	}
	return 0, ErrInvalidAction
}

// NoticeBulkStore is the slice of the notice store bulk dispatch needs.
type NoticeBulkStore interface {
	SetPublished(ctx context.Context, ids []string, published bool) (store.BulkResult, error)
	DeleteMany(ctx context.Context, ids []string) (store.BulkResult, error)
}

func applyNoticeBulk(ctx context.Context, notices NoticeBulkStore, req BulkRequest) (store.BulkResult, error) {
	kind, err := parseNoticeAction(req)
	if err != nil {
		return store.BulkResult{}, err
	}
	switch kind {
	case noticePublish:
		return notices.SetPublished(ctx, req.IDs, true)
	case noticeUnpublish:
		return notices.SetPublished(ctx, req.IDs, false)
	case noticeDelete:
		return notices.DeleteMany(ctx, req.IDs)
	}
	return store.BulkResult{}, ErrInvalidAction
}

type productActionKind int

const (
	productActivate productActionKind = iota + 1
	productDeactivate
	productDelete
)

func parseProductAction(req BulkRequest) (productActionKind, error) {
	if len(req.IDs) == 0 || req.Action == "" {
		return 0, ErrInvalidRequest
	}
	switch req.Action {
	case "activate":
		return productActivate, nil
	case "deactivate":
		return productDeactivate, nil
	case "delete":
		return productDelete, nil
	}
	return 0, ErrInvalidAction
}

// ProductBulkStore is the slice of the product store bulk dispatch needs.
type ProductBulkStore interface {
	SetActive(ctx context.Context, ids []string, active bool) (store.BulkResult, error)
	DeleteMany(ctx context.Context, ids []string) (store.BulkResult, error)
}

func applyProductBulk(ctx context.Context, products ProductBulkStore, req BulkRequest) (store.BulkResult, error) {
	kind, err := parseProductAction(req)
	if err != nil {
		return store.BulkResult{}, err
	}
	switch kind {
	case productActivate:
		return products.SetActive(ctx, req.IDs, true)
	case productDeactivate:
		return products.SetActive(ctx, req.IDs, false)
	case productDelete:
		return products.DeleteMany(ctx, req.IDs)
	}
	return store.BulkResult{}, ErrInvalidAction
}

type contactActionKind int

const (
	contactSetStatus contactActionKind = iota + 1
	contactAssign
	contactMarkRead
	contactMarkUnread
	contactDelete
)

// contactAction carries the action-specific payload alongside the kind.
type contactAction struct {
	kind     contactActionKind
	status   string
	assignee *string
}

func parseContactAction(req BulkRequest) (contactAction, error) {
	if len(req.IDs) == 0 || req.Action == "" {
		return contactAction{}, ErrInvalidRequest
	}
	switch req.Action {
	case "status":
		if !models.ValidContactStatus(req.Status) {
			return contactAction{}, ErrInvalidStatus
		}
		return contactAction{kind: contactSetStatus, status: req.Status}, nil
	case "assign":
		a := contactAction{kind: contactAssign}
		if req.AssignedTo != "" {
			a.assignee = &req.AssignedTo
		}
		return a, nil
	case "markRead":
		return contactAction{kind: contactMarkRead}, nil
	case "markUnread":
		return contactAction{kind: contactMarkUnread}, nil
	case "delete":
		return contactAction{kind: contactDelete}, nil
	}
	return contactAction{}, ErrInvalidAction
}

// ContactBulkStore is the slice of the contact store bulk dispatch needs.
type ContactBulkStore interface {
	SetStatusMany(ctx context.Context, ids []string, status string) (store.BulkResult, error)
	SetAssigneeMany(ctx context.Context, ids []string, assignee *string) (store.BulkResult, error)
	SetReadMany(ctx context.Context, ids []string, read bool) (store.BulkResult, error)
	DeleteMany(ctx context.Context, ids []string) (store.BulkResult, error)
}

func applyContactBulk(ctx context.Context, contacts ContactBulkStore, req BulkRequest) (store.BulkResult, error) {
	action, err := parseContactAction(req)
	if err != nil {
		return store.BulkResult{}, err
	}
	switch action.kind {
	case contactSetStatus:
		return contacts.SetStatusMany(ctx, req.IDs, action.status)
	case contactAssign:
		return contacts.SetAssigneeMany(ctx, req.IDs, action.assignee)
	case contactMarkRead:
		return contacts.SetReadMany(ctx, req.IDs, true)
	case contactMarkUnread:
		return contacts.SetReadMany(ctx, req.IDs, false)
	case contactDelete:
		return contacts.DeleteMany(ctx, req.IDs)
	}
	return store.BulkResult{}, ErrInvalidAction
}
