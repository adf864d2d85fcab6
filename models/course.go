package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Course struct {
	Id           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string        `bson:"title" json:"title"`
	Slug         string        `bson:"slug" json:"slug"`
	Description  string        `bson:"description,omitempty" json:"description,omitempty"`
	Level        string        `bson:"level,omitempty" json:"level,omitempty"` // beginner|intermediate|advanced
	Rating       float64       `bson:"rating" json:"rating"`
	StudentCount int           `bson:"studentCount" json:"studentCount"`
	Price        float64       `bson:"price" json:"price"`
	ImageUrl     string        `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	IsPublished  bool          `bson:"isPublished" json:"isPublished"`
	CategoryId   bson.ObjectID `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// CourseSection is an ordered lesson block owned by a course.
type CourseSection struct {
	Id       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseId bson.ObjectID `bson:"courseId" json:"courseId"`
	Title    string        `bson:"title" json:"title"`
	Content  string        `bson:"content,omitempty" json:"content,omitempty"`
	VideoUrl string        `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Duration int           `bson:"duration,omitempty" json:"duration,omitempty"` // minutes
	Order    int           `bson:"order" json:"order"`
	IsFree   bool          `bson:"isFree" json:"isFree"` // previewable without purchase
}
