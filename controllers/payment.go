package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"du-electronics-server/models"
	"du-electronics-server/services"
)

// PaymentController handles checkout initiation and the gateway's
// asynchronous success/fail callbacks.
type PaymentController struct {
	Orchestrator *services.PaymentOrchestrator
	ClientURL    string
}

func NewPaymentController(orchestrator *services.PaymentOrchestrator, clientURL string) *PaymentController {
	return &PaymentController{Orchestrator: orchestrator, ClientURL: clientURL}
}

// CreatePayment starts a checkout and returns the gateway redirect URL.
func (pc *PaymentController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var info models.CheckoutInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	redirectURL, err := pc.Orchestrator.Initiate(ctx, info)
	if err != nil {
		log.Printf("Payment initiation failed: %v", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": redirectURL})
}

// PaymentSuccess is the gateway's success callback. It carries no
// bearer credential; possession of a live tran_id is the capability.
// Unknown or replayed ids redirect to the fail page instead of
// faulting.
func (pc *PaymentController) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	tranID := mux.Vars(r)["tranId"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := pc.Orchestrator.ConfirmSuccess(ctx, tranID); err != nil {
		log.Printf("Payment success callback for %s: %v", tranID, err)
		http.Redirect(w, r, fmt.Sprintf("%s/payment/fail", pc.ClientURL), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("%s/payment/success", pc.ClientURL), http.StatusSeeOther)
}

// PaymentFail is the gateway's failure callback.
func (pc *PaymentController) PaymentFail(w http.ResponseWriter, r *http.Request) {
	tranID := mux.Vars(r)["tranId"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := pc.Orchestrator.ConfirmFailure(ctx, tranID); err != nil {
		log.Printf("Payment fail callback for %s: %v", tranID, err)
	}
	http.Redirect(w, r, fmt.Sprintf("%s/payment/fail", pc.ClientURL), http.StatusSeeOther)
}
