package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"du-electronics-server/services"
)

// CartController handles cart requests.
type CartController struct {
	Svc *services.LineItemService
}

func NewCartController(svc *services.LineItemService) *CartController {
	return &CartController{Svc: svc}
}

// GetCart returns the owner's cart items and the carts collection
// total.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, count, err := cc.Svc.List(ctx, services.KindCart, email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  items,
		"count": count,
	})
}

// AddToCart adds the posted product to the caller's cart, or bumps its
// quantity when it is already there.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	email := r.URL.Query().Get("email")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	item, err := cc.Svc.AddOrIncrement(ctx, services.KindCart, email, body.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteCart removes one item when an id is supplied, otherwise clears
// the carts collection.
func (cc *CartController) DeleteCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var deleted int64
	var err error
	if id := r.URL.Query().Get("id"); id != "" {
		deleted, err = cc.Svc.Remove(ctx, services.KindCart, id)
	} else {
		deleted, err = cc.Svc.Clear(ctx, services.KindCart)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}
