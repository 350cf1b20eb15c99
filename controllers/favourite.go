package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"du-electronics-server/services"
)

// FavouriteController handles favourites requests.
type FavouriteController struct {
	Svc *services.LineItemService
}

func NewFavouriteController(svc *services.LineItemService) *FavouriteController {
	return &FavouriteController{Svc: svc}
}

// GetFavourites returns the owner's favourites.
func (fc *FavouriteController) GetFavourites(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, _, err := fc.Svc.List(ctx, services.KindFavourites, email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// AddFavourite marks a product as a favourite. Favourites is a set:
// adding an existing favourite changes nothing and returns the record
// as stored.
func (fc *FavouriteController) AddFavourite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	item, err := fc.Svc.AddOrIncrement(ctx, services.KindFavourites, body.Email, body.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteFavourite removes one favourite by id.
func (fc *FavouriteController) DeleteFavourite(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	deleted, err := fc.Svc.Remove(ctx, services.KindFavourites, params["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}
