package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/habarupress/core/internal/models"
	"github.com/habarupress/core/internal/modules/content/repo"
	"github.com/habarupress/core/internal/pkg/access"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// ErrCategoryNotFound is returned when a referenced category does not exist
// on this channel.
var ErrCategoryNotFound = errors.New("category not found")

// ErrInvalidFontSize is returned for font size values outside the enum.
var ErrInvalidFontSize = errors.New("invalid font size")

// Service handles blog business logic for one channel.
type Service struct {
	db        *gorm.DB
	channel   models.Channel
	repo      *repo.Repository[models.BlogModel]
	sanitizer *bluemonday.Policy
}

func NewService(db *gorm.DB, channel models.Channel) *Service {
	byCategory := func(tx *gorm.DB, categoryID string) *gorm.DB {
		return tx.Joins("JOIN blog_categories ON blog_categories.blog_id = blogs.id").
			Where("blog_categories.category_id = ?", categoryID)
	}
	return &Service{
		db:        db,
		channel:   channel,
		repo:      repo.New[models.BlogModel](db, channel, "blogs", []string{"Categories"}, byCategory),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// List returns one page of blogs visible to role.
func (s *Service) List(ctx context.Context, role access.Role, f access.Filters) ([]models.BlogModel, int64, error) {
	return s.repo.List(ctx, role, f)
}

// Get fetches one blog. Drafts are only visible to admins.
func (s *Service) Get(ctx context.Context, id string, role access.Role) (*models.BlogModel, error) {
	return s.repo.Get(ctx, id, role)
}

// Create stores a new draft blog. Content is sanitized server-side so stored
// HTML is safe to render as-is.
func (s *Service) Create(ctx context.Context, authorID string, dto *CreateBlogDTO) (*models.BlogModel, error) {
	cats, err := s.resolveCategories(ctx, dto.Categories)
	if err != nil {
		return nil, err
	}

	fontSize := models.FontMedium
	if dto.FontSize != "" {
		fontSize = models.FontSize(dto.FontSize)
		if !fontSize.Valid() {
			return nil, ErrInvalidFontSize
		}
	}

	b := models.BlogModel{
		Channel:    s.channel,
		Title:      dto.Title,
		Content:    s.sanitizer.Sanitize(dto.Content),
		AuthorID:   authorID,
		Status:     models.StatusDraft,
		FontFamily: dto.FontFamily,
		FontSize:   fontSize,
		Categories: cats,
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update applies a partial update. Returns (nil, nil) when the blog does not
// exist on this channel.
func (s *Service) Update(ctx context.Context, id string, dto *UpdateBlogDTO) (*models.BlogModel, error) {
	b, err := s.repo.Get(ctx, id, access.RoleAdmin)
	if err != nil || b == nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Content != nil {
		updates["content"] = s.sanitizer.Sanitize(*dto.Content)
	}
	if dto.FontFamily != nil {
		updates["font_family"] = *dto.FontFamily
	}
	if dto.FontSize != nil {
		fs := models.FontSize(*dto.FontSize)
		if !fs.Valid() {
			return nil, ErrInvalidFontSize
		}
		updates["font_size"] = fs
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(b).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if dto.Categories != nil {
		cats, err := s.resolveCategories(ctx, *dto.Categories)
		if err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Model(b).Association("Categories").Replace(&cats); err != nil {
			return nil, err
		}
	}

	return s.repo.Get(ctx, id, access.RoleAdmin)
}

// SetStatus flips the publish state.
func (s *Service) SetStatus(ctx context.Context, id string, status models.PublishStatus) (*models.BlogModel, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	b, err := s.repo.Get(ctx, id, access.RoleAdmin)
	if err != nil || b == nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(b).Update("status", status).Error; err != nil {
		return nil, err
	}
	b.Status = status
	return b, nil
}

// Delete removes a blog and its category links.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	err = s.db.WithContext(ctx).Exec("DELETE FROM blog_categories WHERE blog_id = ?", id).Error
	return true, err
}

// resolveCategories loads the referenced categories, channel-scoped. Every
// id must resolve; a stale or cross-channel id fails the whole request.
func (s *Service) resolveCategories(ctx context.Context, ids []string) ([]models.CategoryModel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	for _, id := range ids {
		if !access.ValidID(id) {
			return nil, ErrCategoryNotFound
		}
	}

	var cats []models.CategoryModel
	err := s.db.WithContext(ctx).
		Where("channel = ? AND id IN ?", s.channel, ids).
		Find(&cats).Error
	if err != nil {
		return nil, err
	}
	if len(cats) != len(ids) {
		return nil, ErrCategoryNotFound
	}
	return cats, nil
}
