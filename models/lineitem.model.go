package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LineItem is a cart or favourites entry linking an owner to a product.
// At most one LineItem exists per (collection, email, product_id) pair.
// Quantity counts cart adds; favourites entries always carry quantity 1.
type LineItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Email     string             `bson:"email" json:"email"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Name      string             `bson:"name" json:"name"`
	Brand     string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Price     float64            `bson:"price" json:"price"`
}
