package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog item. Products are written by the admin
// path and read-only everywhere else.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Rating      float64            `bson:"rating,omitempty" json:"rating,omitempty"`
}
