package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/habarupress/core/internal/models"
	"github.com/habarupress/core/internal/pkg/access"
	"github.com/habarupress/core/internal/pkg/slug"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateName is returned when the name is already taken on this
	// channel.
	ErrDuplicateName = errors.New("category name already exists")
	// ErrInvalidID is returned for malformed category ids on operations
	// that require one.
	ErrInvalidID = errors.New("invalid category id")
)

type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required"`
}

type UpdateCategoryDTO struct {
	Name *string `json:"name"`
}

// CategoryInfo is a category plus its visible blog count.
type CategoryInfo struct {
	models.CategoryModel
	BlogCount int64 `json:"blog_count"`
}

// Service handles category business logic for one channel.
type Service struct {
	db      *gorm.DB
	channel models.Channel
}

func NewService(db *gorm.DB, channel models.Channel) *Service {
	return &Service{db: db, channel: channel}
}

// List returns all categories on this channel with blog counts. Counts only
// include blogs the caller can see, so public listings never leak drafts.
func (s *Service) List(ctx context.Context, role access.Role) ([]CategoryInfo, error) {
	var cats []models.CategoryModel
	err := s.db.WithContext(ctx).
		Where("channel = ?", s.channel).
		Order("created_at ASC").
		Find(&cats).Error
	if err != nil {
		return nil, err
	}

	counts, err := s.blogCounts(ctx, role)
	if err != nil {
		return nil, err
	}

	infos := make([]CategoryInfo, len(cats))
	for i, cat := range cats {
		infos[i] = CategoryInfo{CategoryModel: cat, BlogCount: counts[cat.ID]}
	}
	return infos, nil
}

func (s *Service) blogCounts(ctx context.Context, role access.Role) (map[string]int64, error) {
	tx := s.db.WithContext(ctx).
		Table("blog_categories").
		Select("blog_categories.category_id AS id, COUNT(*) AS n").
		Joins("JOIN blogs ON blogs.id = blog_categories.blog_id").
		Where("blogs.channel = ? AND blogs.deleted_at IS NULL", s.channel)
	if role != access.RoleAdmin {
		tx = tx.Where("blogs.status = ?", models.StatusPublished)
	}

	var rows []struct {
		ID string
		N  int64
	}
	if err := tx.Group("blog_categories.category_id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.ID] = r.N
	}
	return counts, nil
}

// GetByQuery resolves a category by id or slug and attaches the blogs
// visible to the caller, newest first. Returns (nil, nil) when not found.
func (s *Service) GetByQuery(ctx context.Context, query string, role access.Role) (*models.CategoryModel, error) {
	tx := s.db.WithContext(ctx).Where("channel = ?", s.channel)
	if access.ValidID(query) {
		tx = tx.Where("id = ?", query)
	} else {
		tx = tx.Where("slug = ?", query)
	}

	var cat models.CategoryModel
	if err := tx.First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	blogsTx := s.db.WithContext(ctx).
		Model(&models.BlogModel{}).
		Joins("JOIN blog_categories ON blog_categories.blog_id = blogs.id").
		Where("blog_categories.category_id = ? AND blogs.channel = ?", cat.ID, s.channel).
		Order("blogs.created_at DESC")
	if role != access.RoleAdmin {
		blogsTx = blogsTx.Where("blogs.status = ?", models.StatusPublished)
	}
	if err := blogsTx.Find(&cat.Blogs).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// Create stores a new category with a derived, channel-unique slug.
func (s *Service) Create(ctx context.Context, dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("channel = ? AND name = ?", s.channel, dto.Name).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateName
	}

	uniqueSlug, err := s.uniqueSlug(ctx, dto.Name, "")
	if err != nil {
		return nil, err
	}

	cat := models.CategoryModel{
		Channel: s.channel,
		Name:    dto.Name,
		Slug:    uniqueSlug,
	}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// Update renames a category. The slug is recomputed only when the name
// actually changes, so existing URLs stay stable otherwise.
func (s *Service) Update(ctx context.Context, id string, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	if !access.ValidID(id) {
		return nil, ErrInvalidID
	}

	var cat models.CategoryModel
	err := s.db.WithContext(ctx).
		Where("channel = ? AND id = ?", s.channel, id).
		First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if dto.Name == nil || *dto.Name == cat.Name {
		return &cat, nil
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("channel = ? AND name = ? AND id <> ?", s.channel, *dto.Name, id).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateName
	}

	uniqueSlug, err := s.uniqueSlug(ctx, *dto.Name, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"name": *dto.Name, "slug": uniqueSlug}
	if err := s.db.WithContext(ctx).Model(&cat).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// Delete removes a category, detaching its blogs and PDFs first. The row is
// hard-deleted: the channel-scoped unique indexes cover physical rows, so a
// soft-deleted category would keep blocking its name and slug forever.
// Returns false when no category matched.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if !access.ValidID(id) {
		return false, ErrInvalidID
	}

	var cat models.CategoryModel
	err := s.db.WithContext(ctx).
		Where("channel = ? AND id = ?", s.channel, id).
		First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM blog_categories WHERE category_id = ?", id).Error; err != nil {
			return err
		}
		err := tx.Model(&models.PdfModel{}).
			Where("channel = ? AND category_id = ?", s.channel, id).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Unscoped().Delete(&cat).Error
	})
}

// uniqueSlug derives the slug for name and suffixes it until it is free on
// this channel. excludeID skips the category being renamed.
func (s *Service) uniqueSlug(ctx context.Context, name, excludeID string) (string, error) {
	base := slug.Derive(name)
	candidate := base
	for i := 2; ; i++ {
		tx := s.db.WithContext(ctx).Model(&models.CategoryModel{}).
			Where("channel = ? AND slug = ?", s.channel, candidate)
		if excludeID != "" {
			tx = tx.Where("id <> ?", excludeID)
		}
		var count int64
		if err := tx.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
