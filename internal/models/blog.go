package models

// FontSize is the reader-facing text size preference stored with a blog.
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

func (f FontSize) Valid() bool {
	return f == FontSmall || f == FontMedium || f == FontLarge
}

// BlogModel is a rich-text article. Content is sanitized HTML.
type BlogModel struct {
	Base
	Channel    Channel       `json:"-"           gorm:"type:varchar(16);index;not null"`
	Title      string        `json:"title"       gorm:"not null"`
	Content    string        `json:"content"     gorm:"type:longtext"`
	AuthorID   string        `json:"author"      gorm:"index"`
	Status     PublishStatus `json:"status"      gorm:"type:varchar(16);default:'draft';index"`
	FontFamily string        `json:"font_family"`
	FontSize   FontSize      `json:"font_size"   gorm:"type:varchar(16);default:'medium'"`

	Categories []CategoryModel `json:"categories,omitempty" gorm:"many2many:blog_categories;joinForeignKey:BlogID;joinReferences:CategoryID"`
}

func (BlogModel) TableName() string { return "blogs" }
