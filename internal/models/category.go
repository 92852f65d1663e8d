package models

// CategoryModel groups blogs and PDFs inside one channel.
// Name and Slug are unique per channel, not globally.
type CategoryModel struct {
	Base
	Channel Channel `json:"-"    gorm:"type:varchar(16);not null;uniqueIndex:uq_categories_channel_name;uniqueIndex:uq_categories_channel_slug"`
	Name    string  `json:"name" gorm:"not null;uniqueIndex:uq_categories_channel_name"`
	Slug    string  `json:"slug" gorm:"not null;uniqueIndex:uq_categories_channel_slug"`

	Blogs []BlogModel `json:"blogs,omitempty" gorm:"many2many:blog_categories;joinForeignKey:CategoryID;joinReferences:BlogID"`
}

func (CategoryModel) TableName() string { return "categories" }
