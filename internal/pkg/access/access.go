// Package access builds the query predicate and pagination window used by
// every content listing and detail endpoint. The same rules apply to blogs
// and PDFs on both channels: non-admin callers only ever see published items.
package access

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/habarupress/core/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Role is the caller's effective privilege level.
type Role uint8

const (
	RoleAnonymous Role = iota
	RoleUser
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "anonymous"
	}
}

// RoleOf maps a signed-in user's stored role value to a Role.
func RoleOf(stored string) Role {
	if stored == models.RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

const (
	DefaultPage = 1
	// DefaultLimit is the public listing page size.
	DefaultLimit = 6
	// AdminDefaultLimit applies when an admin lists without an explicit
	// limit, so management views see everything on one page.
	AdminDefaultLimit = 100
	MaxLimit          = 100
)

// Filters holds the optional listing parameters taken from the query string.
type Filters struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

// FiltersFromContext parses and clamps listing parameters. Missing, malformed
// and out-of-range limits all fall back to the caller's role default, so an
// admin management view never silently shrinks to the public page size.
func FiltersFromContext(c *gin.Context, role Role) Filters {
	limitDefault := DefaultLimit
	if role == RoleAdmin {
		limitDefault = AdminDefaultLimit
	}

	f := Filters{
		Search:   c.Query("search"),
		Category: strings.TrimSpace(c.Query("category")),
		Page:     parseIntOr(c.Query("page"), DefaultPage),
		Limit:    parseIntOr(strings.TrimSpace(c.Query("limit")), limitDefault),
	}

	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = limitDefault
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// Predicate is the composed visibility filter. Composition is pure:
// the same role and filters always produce the same predicate.
type Predicate struct {
	PublishedOnly  bool
	TitleSubstring string
	CategoryID     string
}

// Compose applies the visibility rules to the requested filters.
// Syntactically invalid category ids are silently dropped, matching the
// lenient policy of the list endpoints.
func Compose(role Role, f Filters) Predicate {
	p := Predicate{PublishedOnly: role != RoleAdmin}
	if s := strings.TrimSpace(f.Search); s != "" {
		p.TitleSubstring = s
	}
	if ValidID(f.Category) {
		p.CategoryID = f.Category
	}
	return p
}

// ValidID reports whether s is a syntactically valid entity identifier.
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// CategoryClause restricts a query to one category. Blogs use a join over
// the association table, PDFs a plain column match.
type CategoryClause func(tx *gorm.DB, categoryID string) *gorm.DB

// Apply translates the predicate into WHERE clauses on tx.
func (p Predicate) Apply(tx *gorm.DB, byCategory CategoryClause) *gorm.DB {
	if p.PublishedOnly {
		tx = tx.Where("status = ?", models.StatusPublished)
	}
	if p.TitleSubstring != "" {
		pattern := "%" + EscapeLike(strings.ToLower(p.TitleSubstring)) + "%"
		tx = tx.Where("LOWER(title) LIKE ? ESCAPE '!'", pattern)
	}
	if p.CategoryID != "" && byCategory != nil {
		tx = byCategory(tx, p.CategoryID)
	}
	return tx
}

// EscapeLike escapes LIKE metacharacters so user search input is matched
// literally rather than as a pattern.
func EscapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

// Paginate runs the page fetch and the total count concurrently under the
// same predicate. query must return a fresh, fully-filtered query each call
// so the two reads never share a statement.
func Paginate[T any](ctx context.Context, query func() *gorm.DB, f Filters, order string, dest *[]T) (int64, error) {
	g, gctx := errgroup.WithContext(ctx)

	var total int64
	g.Go(func() error {
		return query().WithContext(gctx).Count(&total).Error
	})
	g.Go(func() error {
		offset := (f.Page - 1) * f.Limit
		return query().WithContext(gctx).
			Order(order).
			Offset(offset).
			Limit(f.Limit).
			Find(dest).Error
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total, nil
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
