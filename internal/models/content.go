package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notice categories.
var NoticeCategories = []string{"general", "press", "financial", "product", "event"}

// Contact statuses.
const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in-progress"
	ContactStatusCompleted  = "completed"
)

// ValidContactStatus reports whether s is one of the contact status values.
func ValidContactStatus(s string) bool {
	return s == ContactStatusNew || s == ContactStatusInProgress || s == ContactStatusCompleted
}

// Attachment references an uploaded file held by the blob store.
type Attachment struct {
	Filename     string `json:"filename"       bson:"filename"`
	OriginalName string `json:"originalname"   bson:"originalname"`
	Path         string `json:"path"           bson:"path"`
	Size         int64  `json:"size"           bson:"size"`
}

// Notice is a single notice-board entry stored in MongoDB.
type Notice struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Title       string             `json:"title"       bson:"title"`
	Content     string             `json:"content"     bson:"content"`
	AuthorID    string             `json:"authorId"    bson:"author_id"`
	AuthorName  string             `json:"authorName"  bson:"author_name"`
	Category    string             `json:"category"    bson:"category"`
	IsImportant bool               `json:"isImportant" bson:"is_important"`
	Attachments []Attachment       `json:"attachments" bson:"attachments"`
	ViewCount   int64              `json:"viewCount"   bson:"view_count"`
	IsPublished bool               `json:"isPublished" bson:"is_published"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt"   bson:"updated_at"`
}

// Specification is a single name/value pair on a product.
type Specification struct {
	Name  string `json:"name"  bson:"name"`
	Value string `json:"value" bson:"value"`
}

// Image is an image reference with alt text.
type Image struct {
	Path string `json:"path" bson:"path"`
	Alt  string `json:"alt"  bson:"alt"`
}

// ProductDocument is a downloadable document attached to a product.
type ProductDocument struct {
	Name string `json:"name" bson:"name"`
	Path string `json:"path" bson:"path"`
	Type string `json:"type" bson:"type"`
}

// Product is a catalog entry stored in MongoDB.
type Product struct {
	ID             primitive.ObjectID `json:"id"             bson:"_id,omitempty"`
	Name           string             `json:"name"           bson:"name"`
	Brand          string             `json:"brand"          bson:"brand"`
	Category       string             `json:"category"       bson:"category"`
	Description    string             `json:"description"    bson:"description"`
	Features       []string           `json:"features"       bson:"features"`
	Specifications []Specification    `json:"specifications" bson:"specifications"`
	Logo           *Image             `json:"logo,omitempty" bson:"logo,omitempty"`
	Images         []Image            `json:"images"         bson:"images"`
	Documents      []ProductDocument  `json:"documents"      bson:"documents"`
	ExternalLink   string             `json:"externalLink"   bson:"external_link"`
	DisplayOrder   int                `json:"displayOrder"   bson:"display_order"`
	IsActive       bool               `json:"isActive"       bson:"is_active"`
	CreatedAt      time.Time          `json:"createdAt"      bson:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt"      bson:"updated_at"`
}

// Response is an admin reply recorded on a contact inquiry.
type Response struct {
	Content   string    `json:"content"   bson:"content"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	CreatedBy string    `json:"createdBy" bson:"created_by"`
}

// Contact is a contact-form inquiry stored in MongoDB.
type Contact struct {
	ID          primitive.ObjectID `json:"id"                   bson:"_id,omitempty"`
	Name        string             `json:"name"                 bson:"name"`
	Email       string             `json:"email"                bson:"email"`
	Phone       string             `json:"phone"                bson:"phone"`
	Company     string             `json:"company"              bson:"company"`
	Subject     string             `json:"subject"              bson:"subject"`
	Message     string             `json:"message"              bson:"message"`
	Attachments []Attachment       `json:"attachments"          bson:"attachments"`
	Status      string             `json:"status"               bson:"status"`
	IsRead      bool               `json:"isRead"               bson:"is_read"`
	AssignedTo  *string            `json:"assignedTo,omitempty" bson:"assigned_to,omitempty"`
	Responses   []Response         `json:"responses"            bson:"responses"`
	CreatedAt   time.Time          `json:"createdAt"            bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt"            bson:"updated_at"`
}

// Setting is a site-configuration document. One document per type.
type Setting struct {
	ID        primitive.ObjectID     `json:"id"        bson:"_id,omitempty"`
	Type      string                 `json:"type"      bson:"type"`
	Data      map[string]interface{} `json:"data"      bson:"data"`
	UpdatedBy string                 `json:"updatedBy" bson:"updated_by"`
	CreatedAt time.Time              `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time              `json:"updatedAt" bson:"updated_at"`
}
