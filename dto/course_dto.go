package dto

type CreateCourseDTO struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Level       string  `json:"level"`
	Price       float64 `json:"price" binding:"gte=0"`
	CategoryId  string  `json:"categoryId"`
	IsPublished bool    `json:"isPublished"`
}

type UpdateCourseDTO struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Level       *string  `json:"level"`
	Price       *float64 `json:"price"`
	CategoryId  *string  `json:"categoryId"`
	IsPublished *bool    `json:"isPublished"`
}

type CreateCourseSectionDTO struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	VideoUrl string `json:"videoUrl"`
	Duration int    `json:"duration"`
	Order    int    `json:"order"`
	IsFree   bool   `json:"isFree"`
}

type UpdateCourseSectionDTO struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	VideoUrl *string `json:"videoUrl"`
	Duration *int    `json:"duration"`
	Order    *int    `json:"order"`
	IsFree   *bool   `json:"isFree"`
}
