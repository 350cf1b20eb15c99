package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"du-electronics-server/models"
	"du-electronics-server/repository"
)

// UserController handles account records.
type UserController struct {
	Users repository.Collection
}

func NewUserController(users repository.Collection) *UserController {
	return &UserController{Users: users}
}

// CreateUser records a user on first sign-in. One document per email,
// held by a single atomic upsert on the email key: concurrent sign-ins
// for the same address converge on one record. The pre-generated id in
// $setOnInsert tells a fresh insert apart from an existing match.
func (uc *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if body.Email == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	newID := primitive.NewObjectID()
	var user models.User
	err := uc.Users.FindOneAndUpsert(ctx,
		bson.M{"email": body.Email},
		bson.M{"$setOnInsert": bson.M{
			"_id":        newID,
			"name":       body.Name,
			"role":       "user",
			"created_at": time.Now(),
		}},
		&user,
	)
	if err != nil {
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	if user.ID == newID {
		writeJSON(w, http.StatusCreated, map[string]interface{}{"insertedId": user.ID})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"insertedId": nil})
}

// GetUsers lists all users (admin path).
func (uc *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	users := []models.User{}
	if err := uc.Users.Find(ctx, bson.M{}, 0, 0, &users); err != nil {
		http.Error(w, "Error fetching users", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// MakeAdmin promotes a user to the admin role (admin path). This is
// the only mutation the role field has.
func (uc *UserController) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	matched, modified, err := uc.Users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": "admin"}},
	)
	if err != nil {
		http.Error(w, "Error updating user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{
		"matchedCount":  matched,
		"modifiedCount": modified,
	})
}

// DeleteUser removes a user record (admin path).
func (uc *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	deleted, err := uc.Users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		http.Error(w, "Error deleting user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}
