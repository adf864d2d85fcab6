package dto

type CreateCategoryDTO struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug"` // auto-generated from Title if empty
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsActive    bool   `json:"isActive"`
	Icon        string `json:"icon"`
}

// UpdateCategoryDTO — all fields are optional pointers
type UpdateCategoryDTO struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
	Icon        *string `json:"icon"`
}
