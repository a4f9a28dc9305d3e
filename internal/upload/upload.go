// Package upload validates multipart file uploads and stores the
// accepted files in the blob store. Validation runs over the whole
// set before any byte is uploaded, so a rejected file never leaves
// partial state behind.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sandeul/website-backend/internal/models"
)

var (
	ErrTooManyFiles = errors.New("too many files")
	ErrFileType     = errors.New("unsupported file type")
	ErrFileTooLarge = errors.New("file too large")
)

// DocumentExts is the whitelist for notice and contact attachments
// and product documents.
var DocumentExts = extSet("jpeg", "jpg", "png", "gif", "pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "zip")

// ImageExts is the whitelist for image-only routes (settings logo,
// favicon, product images).
var ImageExts = extSet("jpeg", "jpg", "png", "gif", "svg", "ico")

const (
	// MaxFileSize caps general uploads.
	MaxFileSize = 10 << 20 // 10MB
	// MaxImageSize caps settings image uploads.
	MaxImageSize = 5 << 20 // 5MB
)

// Rule bounds one upload route: which extensions, how large, how many.
type Rule struct {
	Exts     map[string]bool
	MaxSize  int64
	MaxFiles int
	Prefix   string
}

// Message returns the user-facing Korean message for a validation
// failure, or empty when err is not an upload error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrTooManyFiles):
		return "첨부 파일 개수가 제한을 초과했습니다."
	case errors.Is(err, ErrFileType):
		return "지원하지 않는 파일 형식입니다."
	case errors.Is(err, ErrFileTooLarge):
		return "파일 크기가 제한을 초과했습니다."
	}
	return ""
}

// BlobStore is the subset of the blob client the saver needs. Uploads
// are streamed, not buffered.
type BlobStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
}

// Saver validates and persists multipart uploads.
type Saver struct {
	blobs BlobStore
}

func NewSaver(blobs BlobStore) *Saver {
	return &Saver{blobs: blobs}
}

// Validate checks the file set against the rule without touching the
// blob store.
func Validate(files []*multipart.FileHeader, rule Rule) error {
	if len(files) > rule.MaxFiles {
		return fmt.Errorf("%w: %d > %d", ErrTooManyFiles, len(files), rule.MaxFiles)
	}
	for _, fh := range files {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
		if !rule.Exts[ext] {
			return fmt.Errorf("%w: .%s", ErrFileType, ext)
		}
		if fh.Size > rule.MaxSize {
			return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, fh.Size)
		}
	}
	return nil
}

// SaveAll validates the set, then uploads each file under a fresh
// object key and returns attachment records referencing them.
func (s *Saver) SaveAll(ctx context.Context, files []*multipart.FileHeader, rule Rule) ([]models.Attachment, error) {
	if err := Validate(files, rule); err != nil {
		return nil, err
	}

	attachments := make([]models.Attachment, 0, len(files))
	for _, fh := range files {
		att, err := s.save(ctx, fh, rule.Prefix)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, att)
	}
	return attachments, nil
}

// SaveOne validates and uploads a single file.
func (s *Saver) SaveOne(ctx context.Context, fh *multipart.FileHeader, rule Rule) (models.Attachment, error) {
	if err := Validate([]*multipart.FileHeader{fh}, rule); err != nil {
		return models.Attachment{}, err
	}
	return s.save(ctx, fh, rule.Prefix)
}

// Remove deletes a stored attachment's blob, resolving the stored
// path back to its object key.
func (s *Saver) Remove(ctx context.Context, path string) error {
	return s.blobs.Remove(ctx, ObjectKey(path))
}

// ObjectKey maps a stored /uploads/... path to the blob object key.
func ObjectKey(path string) string {
	return strings.TrimPrefix(path, "/uploads/")
}

func (s *Saver) save(ctx context.Context, fh *multipart.FileHeader, prefix string) (models.Attachment, error) {
	f, err := fh.Open()
	if err != nil {
		return models.Attachment{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	filename := fmt.Sprintf("%s-%s%s", prefix, uuid.New().String(), ext)
	key := prefix + "/" + filename

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.blobs.Upload(ctx, key, f, fh.Size, contentType); err != nil {
		return models.Attachment{}, fmt.Errorf("upload blob: %w", err)
	}

	return models.Attachment{
		Filename:     filename,
		OriginalName: fh.Filename,
		Path:         "/uploads/" + key,
		Size:         fh.Size,
	}, nil
}

func extSet(exts ...string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[e] = true
	}
	return m
}
