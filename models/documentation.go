package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type CodeExample struct {
	Title    string `bson:"title,omitempty" json:"title,omitempty"`
	Language string `bson:"language,omitempty" json:"language,omitempty"`
	Code     string `bson:"code" json:"code"`
}

// DocumentSection references another documentation document that acts as a
// sub-page of this one, plus the display order within the parent.
type DocumentSection struct {
	DocumentId bson.ObjectID `bson:"documentId" json:"documentId"`
	Title      string        `bson:"title" json:"title"`
	Slug       string        `bson:"slug" json:"slug"`
	Order      int           `bson:"order" json:"order"`
}

type Documentation struct {
	Id               bson.ObjectID     `bson:"_id,omitempty" json:"id"`
	Title            string            `bson:"title" json:"title"`
	Slug             string            `bson:"slug" json:"slug"`
	Description      string            `bson:"description,omitempty" json:"description,omitempty"`
	Content          string            `bson:"content" json:"content"`
	CategoryId       bson.ObjectID     `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	Price            float64           `bson:"price" json:"price"`
	KeyFeatures      []string          `bson:"keyFeatures,omitempty" json:"keyFeatures,omitempty"`
	CodeExamples     []CodeExample     `bson:"codeExamples,omitempty" json:"codeExamples,omitempty"`
	DocumentSections []DocumentSection `bson:"documentSections,omitempty" json:"documentSections,omitempty"`
	ImageUrl         string            `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	IsPublished      bool              `bson:"isPublished" json:"isPublished"`
	CreatedAt        time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time         `bson:"updatedAt" json:"updatedAt"`
}
