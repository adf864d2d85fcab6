package models

import "go.mongodb.org/mongo-driver/v2/bson"

type Category struct {
	Id          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string        `bson:"title" json:"title"`
	Slug        string        `bson:"slug" json:"slug"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Order       int           `bson:"order" json:"order"`
	IsActive    bool          `bson:"isActive" json:"isActive"`
	Icon        string        `bson:"icon,omitempty" json:"icon,omitempty"`
	ImageUrl    string        `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}
