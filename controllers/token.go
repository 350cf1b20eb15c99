package controllers

import (
	"encoding/json"
	"net/http"

	"du-electronics-server/utils"
)

// TokenController issues signed bearer credentials.
type TokenController struct{}

func NewTokenController() *TokenController {
	return &TokenController{}
}

// AccessToken signs whatever identity payload the caller posts and
// returns the credential. The route is unauthenticated; see the role
// gate on privileged routes for where authorization actually happens.
func (tc *TokenController) AccessToken(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	token, err := utils.GenerateToken(payload)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}
