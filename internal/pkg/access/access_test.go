package access

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestComposeVisibility(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAnonymous, true},
		{RoleUser, true},
		{RoleAdmin, false},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			p := Compose(tt.role, Filters{})
			if p.PublishedOnly != tt.want {
				t.Errorf("PublishedOnly = %v, want %v", p.PublishedOnly, tt.want)
			}
		})
	}
}

func TestComposeIsPure(t *testing.T) {
	f := Filters{Search: "habaru", Category: "9e4cff6c-6be2-47a4-a39c-1a7a0f8a2f10"}
	a := Compose(RoleUser, f)
	b := Compose(RoleUser, f)
	if a != b {
		t.Fatalf("identical inputs produced different predicates: %+v vs %+v", a, b)
	}
}

func TestComposeCategoryValidation(t *testing.T) {
	valid := "9e4cff6c-6be2-47a4-a39c-1a7a0f8a2f10"

	p := Compose(RoleAnonymous, Filters{Category: valid})
	if p.CategoryID != valid {
		t.Errorf("valid category id dropped: %+v", p)
	}

	for _, bad := range []string{"not-an-id", "123", "' OR 1=1 --", " "} {
		p := Compose(RoleAnonymous, Filters{Category: bad})
		if p.CategoryID != "" {
			t.Errorf("invalid category id %q kept: %+v", bad, p)
		}
	}
}

func TestComposeSearchTrimmed(t *testing.T) {
	if p := Compose(RoleAnonymous, Filters{Search: "   "}); p.TitleSubstring != "" {
		t.Errorf("blank search kept: %+v", p)
	}
	if p := Compose(RoleAnonymous, Filters{Search: " ވާހަކަ "}); p.TitleSubstring != "ވާހަކަ" {
		t.Errorf("search not trimmed: %q", p.TitleSubstring)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"100%", "100!%"},
		{"a_b", "a!_b"},
		{"50% off_now!", "50!% off!_now!!"},
	}
	for _, tt := range tests {
		if got := EscapeLike(tt.in); got != tt.want {
			t.Errorf("EscapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFiltersFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	get := func(rawQuery string, role Role) Filters {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/blogs?"+rawQuery, nil)
		return FiltersFromContext(c, role)
	}

	f := get("", RoleAnonymous)
	if f.Page != 1 || f.Limit != DefaultLimit {
		t.Errorf("anonymous defaults = %+v", f)
	}

	f = get("", RoleAdmin)
	if f.Limit != AdminDefaultLimit {
		t.Errorf("admin default limit = %d, want %d", f.Limit, AdminDefaultLimit)
	}

	f = get("page=3&limit=2", RoleAdmin)
	if f.Page != 3 || f.Limit != 2 {
		t.Errorf("explicit params = %+v", f)
	}

	f = get("page=-1&limit=0", RoleAnonymous)
	if f.Page != 1 || f.Limit != DefaultLimit {
		t.Errorf("invalid params not clamped: %+v", f)
	}

	f = get("limit=9999", RoleAnonymous)
	if f.Limit != MaxLimit {
		t.Errorf("limit not capped: %d", f.Limit)
	}

	// Malformed limits keep the role default.
	f = get("limit=abc", RoleAdmin)
	if f.Limit != AdminDefaultLimit {
		t.Errorf("admin malformed limit = %d, want %d", f.Limit, AdminDefaultLimit)
	}
	f = get("limit=abc", RoleAnonymous)
	if f.Limit != DefaultLimit {
		t.Errorf("anonymous malformed limit = %d, want %d", f.Limit, DefaultLimit)
	}
}
