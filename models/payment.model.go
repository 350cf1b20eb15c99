package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment transaction lifecycle. INITIATED is the sole initial state;
// PAID and FAILED are terminal.
const (
	StatusInitiated = "INITIATED"
	StatusPaid      = "PAID"
	StatusFailed    = "FAILED"
)

// PaymentTransaction tracks one checkout attempt from gateway-session
// creation to its terminal outcome, keyed by TranID.
type PaymentTransaction struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	TranID     string             `bson:"tran_id" json:"tran_id"`
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Amount     float64            `bson:"amount" json:"amount"`
	Currency   string             `bson:"currency" json:"currency"`
	Address    string             `bson:"address,omitempty" json:"address,omitempty"`
	PostCode   string             `bson:"post_code,omitempty" json:"post_code,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PaidStatus bool               `bson:"paid_status" json:"paid_status"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	PaidAt     *time.Time         `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}

// CheckoutInfo is the client-supplied payload that initiates a checkout.
type CheckoutInfo struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Address  string  `json:"address"`
	PostCode string  `json:"post_code"`
	Phone    string  `json:"phone"`
}
