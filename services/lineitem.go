package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"du-electronics-server/models"
	"du-electronics-server/repository"
)

// Kind selects which line-item collection an operation targets.
type Kind string

const (
	KindCart       Kind = "carts"
	KindFavourites Kind = "favourites"
)

// LineItemService implements the add-or-increment logic shared by the
// cart and favourites features. Cart entries count repeat adds in
// Quantity; favourites is a set, so a repeat add changes nothing.
type LineItemService struct {
	Products   repository.Collection
	Carts      repository.Collection
	Favourites repository.Collection
}

func (s *LineItemService) collection(kind Kind) (repository.Collection, error) {
	switch kind {
	case KindCart:
		return s.Carts, nil
	case KindFavourites:
		return s.Favourites, nil
	}
	return nil, fmt.Errorf("unknown collection %q: %w", kind, ErrValidation)
}

// AddOrIncrement inserts a LineItem for (email, productRef) or bumps the
// existing one, as a single atomic upsert. The read-then-write window of
// a find-plus-insert pair is what this primitive exists to avoid: two
// concurrent adds of an absent item must still end with one document.
func (s *LineItemService) AddOrIncrement(ctx context.Context, kind Kind, email, productRef string) (*models.LineItem, error) {
	coll, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", ErrValidation)
	}
	productID, err := primitive.ObjectIDFromHex(productRef)
	if err != nil {
		return nil, fmt.Errorf("invalid product id %q: %w", productRef, ErrValidation)
	}

	var product models.Product
	err = s.Products.FindOne(ctx, bson.M{"_id": productID}, &product)
	if errors.Is(err, repository.ErrNoDocuments) {
		return nil, fmt.Errorf("product %s: %w", productRef, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	onInsert := bson.M{
		"name":     product.Name,
		"brand":    product.Brand,
		"category": product.Category,
		"image":    product.Image,
		"price":    product.Price,
	}
	update := bson.M{"$setOnInsert": onInsert}
	if kind == KindCart {
		update["$inc"] = bson.M{"quantity": 1}
	} else {
		onInsert["quantity"] = 1
	}

	var item models.LineItem
	filter := bson.M{"email": email, "product_id": productID}
	if err := coll.FindOneAndUpsert(ctx, filter, update, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Remove deletes one LineItem by its identifier. An unknown identifier
// is a zero-affected result, not an error.
func (s *LineItemService) Remove(ctx context.Context, kind Kind, itemID string) (int64, error) {
	coll, err := s.collection(kind)
	if err != nil {
		return 0, err
	}
	id, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q: %w", itemID, ErrValidation)
	}
	return coll.DeleteOne(ctx, bson.M{"_id": id})
}

// Clear empties the cart collection. Favourites has no bulk clear.
func (s *LineItemService) Clear(ctx context.Context, kind Kind) (int64, error) {
	if kind != KindCart {
		return 0, fmt.Errorf("bulk clear is cart-only: %w", ErrValidation)
	}
	return s.Carts.DeleteMany(ctx, bson.M{})
}

// List returns the owner's LineItems plus the total document count of
// the collection. The count is collection-wide, not owner-filtered; the
// storefront shows it as a running total.
func (s *LineItemService) List(ctx context.Context, kind Kind, email string) ([]models.LineItem, int64, error) {
	coll, err := s.collection(kind)
	if err != nil {
		return nil, 0, err
	}
	var items []models.LineItem
	if err := coll.Find(ctx, bson.M{"email": email}, 0, 0, &items); err != nil {
		return nil, 0, err
	}
	count, err := coll.Count(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}
