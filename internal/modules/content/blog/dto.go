package blog

// CreateBlogDTO is the request body for creating a blog. New blogs always
// start as drafts; publishing is a separate status change.
type CreateBlogDTO struct {
	Title      string   `json:"title"   binding:"required"`
	Content    string   `json:"content" binding:"required"`
	Categories []string `json:"categories"`
	FontFamily string   `json:"font_family"`
	FontSize   string   `json:"font_size"`
}

// UpdateBlogDTO is the request body for updating a blog (all fields optional).
// A non-nil empty Categories slice clears the assignment.
type UpdateBlogDTO struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Categories *[]string `json:"categories"`
	FontFamily *string   `json:"font_family"`
	FontSize   *string   `json:"font_size"`
}

// SetStatusDTO is the request body for the publish/unpublish toggle.
type SetStatusDTO struct {
	Status string `json:"status" binding:"required"`
}
