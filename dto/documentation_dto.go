package dto

type CodeExampleDTO struct {
	Title    string `json:"title"`
	Language string `json:"language"`
	Code     string `json:"code" binding:"required"`
}

type DocumentSectionDTO struct {
	DocumentId string `json:"documentId" binding:"required"`
	Order      int    `json:"order"`
}

type CreateDocumentationDTO struct {
	Title            string               `json:"title" binding:"required"`
	Slug             string               `json:"slug"` // auto-generated from Title if empty
	Description      string               `json:"description"`
	Content          string               `json:"content" binding:"required"`
	CategoryId       string               `json:"categoryId"`
	Price            float64              `json:"price" binding:"gte=0"`
	KeyFeatures      []string             `json:"keyFeatures"`
	CodeExamples     []CodeExampleDTO     `json:"codeExamples"`
	DocumentSections []DocumentSectionDTO `json:"documentSections"`
	IsPublished      bool                 `json:"isPublished"`
}

type UpdateDocumentationDTO struct {
	Title            *string               `json:"title"`
	Slug             *string               `json:"slug"`
	Description      *string               `json:"description"`
	Content          *string               `json:"content"`
	CategoryId       *string               `json:"categoryId"`
	Price            *float64              `json:"price"`
	KeyFeatures      *[]string             `json:"keyFeatures"`
	CodeExamples     *[]CodeExampleDTO     `json:"codeExamples"`
	DocumentSections *[]DocumentSectionDTO `json:"documentSections"`
	IsPublished      *bool                 `json:"isPublished"`
}
