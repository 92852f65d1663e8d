// Package repo holds the channel-scoped content repository shared by blogs
// and PDFs. Both channels live in the same tables; every query is pinned to
// one channel and filtered through the composed access predicate.
package repo

import (
	"context"
	"errors"

	"github.com/habarupress/core/internal/models"
	"github.com/habarupress/core/internal/pkg/access"
	"gorm.io/gorm"
)

// Repository runs channel-pinned queries for one content model.
type Repository[T any] struct {
	db         *gorm.DB
	channel    models.Channel
	table      string
	preloads   []string
	byCategory access.CategoryClause
}

// New builds a repository bound to one channel. table qualifies ORDER BY
// columns, which matters once the category clause joins another table.
func New[T any](db *gorm.DB, channel models.Channel, table string, preloads []string, byCategory access.CategoryClause) *Repository[T] {
	return &Repository[T]{
		db:         db,
		channel:    channel,
		table:      table,
		preloads:   preloads,
		byCategory: byCategory,
	}
}

// Channel returns the channel this repository is pinned to.
func (r *Repository[T]) Channel() models.Channel { return r.channel }

// DB exposes the underlying handle for service-level queries.
func (r *Repository[T]) DB() *gorm.DB { return r.db }

func (r *Repository[T]) base() *gorm.DB {
	var zero T
	tx := r.db.Model(&zero).Where(r.table+".channel = ?", r.channel)
	for _, p := range r.preloads {
		tx = tx.Preload(p)
	}
	return tx
}

// List returns one page of rows visible to role under the given filters,
// along with the filtered total.
func (r *Repository[T]) List(ctx context.Context, role access.Role, f access.Filters) ([]T, int64, error) {
	pred := access.Compose(role, f)

	query := func() *gorm.DB {
		return pred.Apply(r.base(), r.byCategory)
	}

	items := make([]T, 0, f.Limit)
	total, err := access.Paginate(ctx, query, f, r.table+".created_at DESC", &items)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Get fetches one row by id. Non-admin callers only see published rows.
// Returns (nil, nil) when nothing visible matches.
func (r *Repository[T]) Get(ctx context.Context, id string, role access.Role) (*T, error) {
	if !access.ValidID(id) {
		return nil, nil
	}

	tx := r.base().WithContext(ctx).Where(r.table+".id = ?", id)
	if role != access.RoleAdmin {
		tx = tx.Where(r.table+".status = ?", models.StatusPublished)
	}

	var row T
	if err := tx.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Create inserts a row. The caller must have stamped the channel.
func (r *Repository[T]) Create(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Delete removes a row by id. Returns false when nothing matched.
func (r *Repository[T]) Delete(ctx context.Context, id string) (bool, error) {
	if !access.ValidID(id) {
		return false, nil
	}
	var zero T
	res := r.db.WithContext(ctx).
		Where("channel = ? AND id = ?", r.channel, id).
		Delete(&zero)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
