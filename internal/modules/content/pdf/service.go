package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/habarupress/core/internal/models"
	"github.com/habarupress/core/internal/modules/content/repo"
	"github.com/habarupress/core/internal/pkg/access"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrStorageUnavailable = errors.New("object storage is not configured")
	ErrNotPDF             = errors.New("file must be a PDF")
	ErrBadImageFormat     = errors.New("unsupported image format")
	ErrTooLarge           = errors.New("file exceeds the upload size limit")
)

// Blobs is the object-store surface the PDF module needs.
type Blobs interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(rawURL string) (string, bool)
}

// Service handles PDF business logic for one channel.
type Service struct {
	db           *gorm.DB
	channel      models.Channel
	repo         *repo.Repository[models.PdfModel]
	blobs        Blobs
	maxSize      int64
	imageFormats []string
}

func NewService(db *gorm.DB, channel models.Channel, blobs Blobs, maxSizeMB int, imageFormats []string) *Service {
	byCategory := func(tx *gorm.DB, categoryID string) *gorm.DB {
		return tx.Where("pdfs.category_id = ?", categoryID)
	}
	return &Service{
		db:           db,
		channel:      channel,
		repo:         repo.New[models.PdfModel](db, channel, "pdfs", []string{"Category"}, byCategory),
		blobs:        blobs,
		maxSize:      int64(maxSizeMB) * 1024 * 1024,
		imageFormats: imageFormats,
	}
}

// List returns one page of PDFs visible to role.
func (s *Service) List(ctx context.Context, role access.Role, f access.Filters) ([]models.PdfModel, int64, error) {
	return s.repo.List(ctx, role, f)
}

// Get fetches one PDF. Drafts are only visible to admins.
func (s *Service) Get(ctx context.Context, id string, role access.Role) (*models.PdfModel, error) {
	return s.repo.Get(ctx, id, role)
}

// Create uploads the blobs and stores a new draft PDF. If the row insert
// fails, the freshly uploaded blobs are removed again.
func (s *Service) Create(ctx context.Context, authorID string, p CreateParams) (*models.PdfModel, error) {
	if s.blobs == nil {
		return nil, ErrStorageUnavailable
	}
	if err := s.checkPDF(p.File); err != nil {
		return nil, err
	}
	if p.Image != nil {
		if err := s.checkImage(p.Image); err != nil {
			return nil, err
		}
	}

	categoryID, err := s.resolveCategory(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}

	fileURL, err := s.uploadBlob(ctx, "pdfs", p.File, "application/pdf")
	if err != nil {
		return nil, err
	}
	var imageURL string
	if p.Image != nil {
		imageURL, err = s.uploadBlob(ctx, "pdf-covers", p.Image, "")
		if err != nil {
			s.removeBlob(ctx, fileURL)
			return nil, err
		}
	}

	row := models.PdfModel{
		Channel:     s.channel,
		Title:       p.Title,
		Description: p.Description,
		FileURL:     fileURL,
		ImageURL:    imageURL,
		AuthorID:    authorID,
		Status:      models.StatusDraft,
		CategoryID:  categoryID,
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		s.removeBlob(ctx, fileURL)
		s.removeBlob(ctx, imageURL)
		return nil, err
	}
	return s.repo.Get(ctx, row.ID, access.RoleAdmin)
}

// Update applies a partial update. A replacement blob is uploaded first and
// the old one removed only after the row is saved, so a failed save never
// strands the record pointing at a deleted blob.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (*models.PdfModel, error) {
	row, err := s.repo.Get(ctx, id, access.RoleAdmin)
	if err != nil || row == nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, *p.CategoryID)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = categoryID
	}

	var oldBlobs []string
	if p.File != nil {
		if s.blobs == nil {
			return nil, ErrStorageUnavailable
		}
		if err := s.checkPDF(p.File); err != nil {
			return nil, err
		}
		fileURL, err := s.uploadBlob(ctx, "pdfs", p.File, "application/pdf")
		if err != nil {
			return nil, err
		}
		updates["file_url"] = fileURL
		oldBlobs = append(oldBlobs, row.FileURL)
	}
	if p.Image != nil {
		if s.blobs == nil {
			return nil, ErrStorageUnavailable
		}
		if err := s.checkImage(p.Image); err != nil {
			return nil, err
		}
		imageURL, err := s.uploadBlob(ctx, "pdf-covers", p.Image, "")
		if err != nil {
			return nil, err
		}
		updates["image_url"] = imageURL
		oldBlobs = append(oldBlobs, row.ImageURL)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	for _, u := range oldBlobs {
		s.removeBlob(ctx, u)
	}
	return s.repo.Get(ctx, id, access.RoleAdmin)
}

// SetStatus flips the publish state.
func (s *Service) SetStatus(ctx context.Context, id string, status models.PublishStatus) (*models.PdfModel, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	row, err := s.repo.Get(ctx, id, access.RoleAdmin)
	if err != nil || row == nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(row).Update("status", status).Error; err != nil {
		return nil, err
	}
	row.Status = status
	return row, nil
}

// Delete removes the row and then its blobs, best effort.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	row, err := s.repo.Get(ctx, id, access.RoleAdmin)
	if err != nil || row == nil {
		return false, err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	s.removeBlob(ctx, row.FileURL)
	s.removeBlob(ctx, row.ImageURL)
	return true, nil
}

func (s *Service) checkPDF(fh *multipart.FileHeader) error {
	if fh == nil {
		return ErrNotPDF
	}
	if !strings.EqualFold(path.Ext(fh.Filename), ".pdf") {
		return ErrNotPDF
	}
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return ErrTooLarge
	}
	return nil
}

func (s *Service) checkImage(fh *multipart.FileHeader) error {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fh.Filename), "."))
	for _, allowed := range s.imageFormats {
		if ext == strings.ToLower(allowed) {
			if s.maxSize > 0 && fh.Size > s.maxSize {
				return ErrTooLarge
			}
			return nil
		}
	}
	return ErrBadImageFormat
}

func (s *Service) uploadBlob(ctx context.Context, prefix string, fh *multipart.FileHeader, contentType string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if contentType == "" {
		contentType = fh.Header.Get("Content-Type")
	}
	key := objectKey(prefix, path.Ext(fh.Filename))
	return s.blobs.Upload(ctx, key, contentType, f, fh.Size)
}

func (s *Service) removeBlob(ctx context.Context, rawURL string) {
	if s.blobs == nil || rawURL == "" {
		return
	}
	if key, ok := s.blobs.KeyFromURL(rawURL); ok {
		_ = s.blobs.Delete(ctx, key)
	}
}

// resolveCategory validates a channel-scoped category reference. Empty
// clears the assignment.
func (s *Service) resolveCategory(ctx context.Context, id string) (*string, error) {
	if id == "" {
		return nil, nil
	}
	if !access.ValidID(id) {
		return nil, ErrCategoryNotFound
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("channel = ? AND id = ?", s.channel, id).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrCategoryNotFound
	}
	return &id, nil
}

// objectKey builds a date-partitioned unique key like pdfs/2026/09/<uuid>.pdf.
func objectKey(prefix, ext string) string {
	now := time.Now()
	return fmt.Sprintf("%s/%04d/%02d/%s%s", prefix, now.Year(), int(now.Month()), uuid.New().String(), strings.ToLower(ext))
}
