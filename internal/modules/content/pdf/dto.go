package pdf

import "mime/multipart"

// CreateParams carries the parsed multipart form for a new PDF.
// File is required, the cover image optional.
type CreateParams struct {
	Title       string
	Description string
	CategoryID  string
	File        *multipart.FileHeader
	Image       *multipart.FileHeader
}

// UpdateParams carries a partial multipart update. Nil field pointers leave
// the stored value untouched; a new File or Image replaces the stored blob.
type UpdateParams struct {
	Title       *string
	Description *string
	CategoryID  *string
	File        *multipart.FileHeader
	Image       *multipart.FileHeader
}

// SetStatusDTO is the request body for the publish/unpublish toggle.
type SetStatusDTO struct {
	Status string `json:"status" binding:"required"`
}
