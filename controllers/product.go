package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"du-electronics-server/models"
	"du-electronics-server/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ProductController handles catalog requests.
type ProductController struct {
	Products repository.Collection
}

func NewProductController(products repository.Collection) *ProductController {
	return &ProductController{Products: products}
}

// GetProducts returns one catalog page plus the total catalog size.
// The count ignores page and size so the client can render pagination.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	size, err := strconv.ParseInt(r.URL.Query().Get("size"), 10, 64)
	if err != nil || size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if page < 0 {
		page = 0
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products := []models.Product{}
	if err := pc.Products.Find(ctx, bson.M{}, page*size, size, &products); err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}
	count, err := pc.Products.Count(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Error counting products", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"result": products,
		"count":  count,
	})
}

// GetProductByID returns a single product, or an empty body when the
// id is unknown.
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	err = pc.Products.FindOne(ctx, bson.M{"_id": id}, &product)
	w.Header().Set("Content-Type", "application/json")
	if errors.Is(err, repository.ErrNoDocuments) {
		json.NewEncoder(w).Encode(map[string]interface{}{})
		return
	}
	if err != nil {
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(product)
}

// CreateProduct adds a catalog item (admin path).
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if product.Name == "" || product.Price <= 0 {
		http.Error(w, "Name and a positive price are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	insertedID, err := pc.Products.InsertOne(ctx, product)
	if err != nil {
		http.Error(w, "Error creating product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"insertedId": insertedID})
}
