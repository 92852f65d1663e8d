package models

// PdfModel is an uploaded PDF document with optional cover image.
// FileURL and ImageURL point at object storage; the blobs are owned
// by this record and removed with it.
type PdfModel struct {
	Base
	Channel     Channel       `json:"-"           gorm:"type:varchar(16);index;not null"`
	Title       string        `json:"title"       gorm:"not null"`
	Description string        `json:"description" gorm:"type:text"`
	FileURL     string        `json:"pdf_file"    gorm:"not null"`
	ImageURL    string        `json:"image"`
	AuthorID    string        `json:"author"      gorm:"index"`
	Status      PublishStatus `json:"status"      gorm:"type:varchar(16);default:'draft';index"`

	CategoryID *string        `json:"category_id" gorm:"index"`
	Category   *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (PdfModel) TableName() string { return "pdfs" }
