package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/habarupress/core/internal/models"
	"github.com/habarupress/core/internal/pkg/access"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.CategoryModel{}, &models.BlogModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func blogCategoryClause(tx *gorm.DB, categoryID string) *gorm.DB {
	return tx.Joins("JOIN blog_categories ON blog_categories.blog_id = blogs.id").
		Where("blog_categories.category_id = ?", categoryID)
}

func newBlogRepo(db *gorm.DB, ch models.Channel) *Repository[models.BlogModel] {
	return New[models.BlogModel](db, ch, "blogs", []string{"Categories"}, blogCategoryClause)
}

func seedBlog(t *testing.T, db *gorm.DB, ch models.Channel, title string, status models.PublishStatus, cats ...models.CategoryModel) models.BlogModel {
	t.Helper()
	b := models.BlogModel{
		Channel:    ch,
		Title:      title,
		Content:    "<p>body</p>",
		Status:     status,
		Categories: cats,
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("seed blog: %v", err)
	}
	return b
}

func TestListIsChannelPinned(t *testing.T) {
	db := openTestDB(t)
	seedBlog(t, db, models.ChannelMain, "main story", models.StatusPublished)
	seedBlog(t, db, models.ChannelOther, "other story", models.StatusPublished)

	items, total, err := newBlogRepo(db, models.ChannelMain).List(context.Background(), access.RoleAnonymous, access.Filters{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Title != "main story" {
		t.Fatalf("got total=%d items=%+v", total, items)
	}
}

func TestListVisibilityByRole(t *testing.T) {
	db := openTestDB(t)
	seedBlog(t, db, models.ChannelMain, "live", models.StatusPublished)
	seedBlog(t, db, models.ChannelMain, "draft", models.StatusDraft)
	r := newBlogRepo(db, models.ChannelMain)

	_, total, err := r.List(context.Background(), access.RoleAnonymous, access.Filters{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Errorf("anonymous total = %d, want 1", total)
	}

	_, total, err = r.List(context.Background(), access.RoleAdmin, access.Filters{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Errorf("admin total = %d, want 2", total)
	}
}

func TestListSearchIsLiteralAndCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	seedBlog(t, db, models.ChannelMain, "100% Dhivehi", models.StatusPublished)
	seedBlog(t, db, models.ChannelMain, "Other News", models.StatusPublished)
	r := newBlogRepo(db, models.ChannelMain)

	_, total, err := r.List(context.Background(), access.RoleAnonymous, access.Filters{Search: "100%", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Errorf("literal %% search total = %d, want 1", total)
	}

	_, total, err = r.List(context.Background(), access.RoleAnonymous, access.Filters{Search: "dhivehi", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Errorf("case-insensitive search total = %d, want 1", total)
	}
}

func TestListCategoryFilter(t *testing.T) {
	db := openTestDB(t)
	cat := models.CategoryModel{Channel: models.ChannelMain, Name: "Politics", Slug: "politics"}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatal(err)
	}
	seedBlog(t, db, models.ChannelMain, "tagged", models.StatusPublished, cat)
	seedBlog(t, db, models.ChannelMain, "untagged", models.StatusPublished)
	r := newBlogRepo(db, models.ChannelMain)

	items, total, err := r.List(context.Background(), access.RoleAnonymous, access.Filters{Category: cat.ID, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Title != "tagged" {
		t.Fatalf("category filter: total=%d items=%+v", total, items)
	}

	// Malformed ids are dropped rather than erroring.
	_, total, err = r.List(context.Background(), access.RoleAnonymous, access.Filters{Category: "not-a-uuid", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Errorf("malformed category total = %d, want 2", total)
	}
}

func TestListPaginationTotalSpansAllPages(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 7; i++ {
		seedBlog(t, db, models.ChannelMain, fmt.Sprintf("story %d", i), models.StatusPublished)
	}
	r := newBlogRepo(db, models.ChannelMain)

	items, total, err := r.List(context.Background(), access.RoleAnonymous, access.Filters{Page: 2, Limit: 3})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
	if len(items) != 3 {
		t.Errorf("page 2 size = %d, want 3", len(items))
	}

	items, _, err = r.List(context.Background(), access.RoleAnonymous, access.Filters{Page: 3, Limit: 3})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("last page size = %d, want 1", len(items))
	}
}

func TestGetHonorsVisibility(t *testing.T) {
	db := openTestDB(t)
	draft := seedBlog(t, db, models.ChannelMain, "draft", models.StatusDraft)
	r := newBlogRepo(db, models.ChannelMain)

	got, err := r.Get(context.Background(), draft.ID, access.RoleAnonymous)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("anonymous should not see drafts")
	}

	got, err = r.Get(context.Background(), draft.ID, access.RoleAdmin)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Title != "draft" {
		t.Errorf("admin Get = %+v", got)
	}

	got, err = r.Get(context.Background(), "garbage-id", access.RoleAdmin)
	if err != nil || got != nil {
		t.Errorf("malformed id Get = (%+v, %v), want (nil, nil)", got, err)
	}
}

func TestDelete(t *testing.T) {
	db := openTestDB(t)
	b := seedBlog(t, db, models.ChannelMain, "gone soon", models.StatusPublished)
	r := newBlogRepo(db, models.ChannelMain)

	ok, err := r.Delete(context.Background(), b.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = (%v, %v)", ok, err)
	}
	ok, err = r.Delete(context.Background(), b.ID)
	if err != nil || ok {
		t.Fatalf("second Delete = (%v, %v), want (false, nil)", ok, err)
	}

	other := newBlogRepo(db, models.ChannelOther)
	b2 := seedBlog(t, db, models.ChannelMain, "stays", models.StatusPublished)
	ok, err = other.Delete(context.Background(), b2.ID)
	if err != nil || ok {
		t.Fatalf("cross-channel Delete = (%v, %v), want (false, nil)", ok, err)
	}
}
