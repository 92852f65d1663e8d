package blog

import (
	"context"
	"path/filepath"
	"strings"
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

func seedCategory(t *testing.T, db *gorm.DB, ch models.Channel, name, slug string) models.CategoryModel {
	t.Helper()
	cat := models.CategoryModel{Channel: ch, Name: name, Slug: slug}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestCreateStartsAsDraftAndSanitizes(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, models.ChannelMain)

	b, err := svc.Create(context.Background(), "author-1", &CreateBlogDTO{
		Title:   "ޚަބަރު",
		Content: `<p>safe</p><script>alert("x")</script>`,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Status != models.StatusDraft {
		t.Errorf("status = %q, want draft", b.Status)
	}
	if strings.Contains(b.Content, "<script") {
		t.Errorf("script survived sanitization: %q", b.Content)
	}
	if !strings.Contains(b.Content, "<p>safe</p>") {
		t.Errorf("benign markup stripped: %q", b.Content)
	}
	if b.FontSize != models.FontMedium {
		t.Errorf("font size default = %q", b.FontSize)
	}
}

func TestCreateRejectsCrossChannelCategory(t *testing.T) {
	db := openTestDB(t)
	otherCat := seedCategory(t, db, models.ChannelOther, "Other", "other")
	svc := NewService(db, models.ChannelMain)

	_, err := svc.Create(context.Background(), "author-1", &CreateBlogDTO{
		Title:      "t",
		Content:    "c",
		Categories: []string{otherCat.ID},
	})
	if err != ErrCategoryNotFound {
		t.Fatalf("err = %v, want ErrCategoryNotFound", err)
	}
}

func TestCreateRejectsInvalidFontSize(t *testing.T) {
	svc := NewService(openTestDB(t), models.ChannelMain)
	_, err := svc.Create(context.Background(), "a", &CreateBlogDTO{
		Title: "t", Content: "c", FontSize: "gigantic",
	})
	if err != ErrInvalidFontSize {
		t.Fatalf("err = %v, want ErrInvalidFontSize", err)
	}
}

func TestUpdatePartialAndCategoryReplace(t *testing.T) {
	db := openTestDB(t)
	catA := seedCategory(t, db, models.ChannelMain, "A", "a")
	catB := seedCategory(t, db, models.ChannelMain, "B", "b")
	svc := NewService(db, models.ChannelMain)

	b, err := svc.Create(context.Background(), "author-1", &CreateBlogDTO{
		Title: "before", Content: "c", Categories: []string{catA.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "after"
	cats := []string{catB.ID}
	got, err := svc.Update(context.Background(), b.ID, &UpdateBlogDTO{Title: &title, Categories: &cats})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "after" || got.Content != "c" {
		t.Errorf("partial update: %+v", got)
	}
	if len(got.Categories) != 1 || got.Categories[0].ID != catB.ID {
		t.Errorf("categories not replaced: %+v", got.Categories)
	}

	// Clearing with an explicit empty slice.
	empty := []string{}
	got, err = svc.Update(context.Background(), b.ID, &UpdateBlogDTO{Categories: &empty})
	if err != nil {
		t.Fatalf("Update clear: %v", err)
	}
	if len(got.Categories) != 0 {
		t.Errorf("categories not cleared: %+v", got.Categories)
	}
}

func TestUpdateMissingReturnsNil(t *testing.T) {
	svc := NewService(openTestDB(t), models.ChannelMain)
	title := "x"
	got, err := svc.Update(context.Background(), "1b4e28ba-2fa1-11d2-883f-0016d3cca427", &UpdateBlogDTO{Title: &title})
	if err != nil || got != nil {
		t.Fatalf("got (%+v, %v), want (nil, nil)", got, err)
	}
}

func TestSetStatusPublishes(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, models.ChannelMain)

	b, err := svc.Create(context.Background(), "a", &CreateBlogDTO{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(context.Background(), b.ID, access.RoleAnonymous)
	if err != nil || got != nil {
		t.Fatalf("draft visible to anonymous: (%+v, %v)", got, err)
	}

	if _, err := svc.SetStatus(context.Background(), b.ID, models.StatusPublished); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	got, err = svc.Get(context.Background(), b.ID, access.RoleAnonymous)
	if err != nil || got == nil {
		t.Fatalf("published blog hidden: (%+v, %v)", got, err)
	}
}

func TestDeleteCleansJoinRows(t *testing.T) {
	db := openTestDB(t)
	cat := seedCategory(t, db, models.ChannelMain, "A", "a")
	svc := NewService(db, models.ChannelMain)

	b, err := svc.Create(context.Background(), "a", &CreateBlogDTO{
		Title: "t", Content: "c", Categories: []string{cat.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := svc.Delete(context.Background(), b.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = (%v, %v)", ok, err)
	}

	var joins int64
	if err := db.Table("blog_categories").Where("blog_id = ?", b.ID).Count(&joins).Error; err != nil {
		t.Fatal(err)
	}
	if joins != 0 {
		t.Errorf("join rows left behind: %d", joins)
	}
}
