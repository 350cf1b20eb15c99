package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"du-electronics-server/gateway"
	"du-electronics-server/models"
	"du-electronics-server/repository"
)

// Mailer sends transactional mail. Send failures are logged, never
// surfaced to the customer.
type Mailer interface {
	SendEmail(toEmail, subject, content string) error
}

const gatewayTimeout = 10 * time.Second

// PaymentOrchestrator drives one checkout attempt through its states:
// INITIATED on session creation, then exactly one transition to PAID or
// FAILED on gateway callback. Transitions are single atomic updates
// keyed by tran_id, so replayed callbacks converge instead of
// corrupting the record.
type PaymentOrchestrator struct {
	Transactions repository.Collection
	Gateway      gateway.SessionCreator
	ServerURL    string
	Mailer       Mailer
}

// Initiate creates a gateway session for info, persists the pending
// transaction and returns the redirect URL. The transaction is written
// only after the gateway confirms the session, so a gateway failure or
// timeout leaves no orphaned pending record.
func (p *PaymentOrchestrator) Initiate(ctx context.Context, info models.CheckoutInfo) (string, error) {
	if info.Price <= 0 {
		return "", fmt.Errorf("price must be positive: %w", ErrValidation)
	}
	if info.Email == "" {
		return "", fmt.Errorf("email is required: %w", ErrValidation)
	}
	if info.Currency == "" {
		return "", fmt.Errorf("currency is required: %w", ErrValidation)
	}

	tranID := uuid.NewString()
	req := gateway.SessionRequest{
		TranID:        tranID,
		Amount:        info.Price,
		Currency:      info.Currency,
		SuccessURL:    fmt.Sprintf("%s/paymnet/success/%s", p.ServerURL, tranID),
		FailURL:       fmt.Sprintf("%s/paymnet/fail/%s", p.ServerURL, tranID),
		CancelURL:     fmt.Sprintf("%s/paymnet/fail/%s", p.ServerURL, tranID),
		CustomerName:  info.Name,
		CustomerEmail: info.Email,
		Address:       info.Address,
		PostCode:      info.PostCode,
		Phone:         info.Phone,
	}

	gctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	redirectURL, err := p.Gateway.CreateSession(gctx, req)
	if err != nil {
		return "", fmt.Errorf("create gateway session: %v: %w", err, ErrGateway)
	}

	tx := models.PaymentTransaction{
		TranID:     tranID,
		Email:      info.Email,
		Name:       info.Name,
		Amount:     info.Price,
		Currency:   info.Currency,
		Address:    info.Address,
		PostCode:   info.PostCode,
		Phone:      info.Phone,
		PaidStatus: false,
		Status:     models.StatusInitiated,
		CreatedAt:  time.Now(),
	}
	if _, err := p.Transactions.InsertOne(ctx, tx); err != nil {
		return "", fmt.Errorf("persist transaction %s: %w", tranID, err)
	}
	return redirectURL, nil
}

// ConfirmSuccess moves the transaction to PAID. Confirming an already
// paid transaction is a no-op success; an unknown or failed tran_id is
// ErrNotFound. The receipt mail goes out only on the first transition.
func (p *PaymentOrchestrator) ConfirmSuccess(ctx context.Context, tranID string) error {
	now := time.Now()
	matched, _, err := p.Transactions.UpdateOne(ctx,
		bson.M{"tran_id": tranID, "status": models.StatusInitiated},
		bson.M{"$set": bson.M{
			"paid_status": true,
			"status":      models.StatusPaid,
			"paid_at":     now,
		}},
	)
	if err != nil {
		return err
	}
	if matched == 1 {
		p.sendReceipt(ctx, tranID)
		return nil
	}

	// Replayed or forged callback: success only if the record is
	// already PAID.
	var tx models.PaymentTransaction
	err = p.Transactions.FindOne(ctx, bson.M{"tran_id": tranID, "status": models.StatusPaid}, &tx)
	if errors.Is(err, repository.ErrNoDocuments) {
		return fmt.Errorf("transaction %s: %w", tranID, ErrNotFound)
	}
	return err
}

// ConfirmFailure moves a pending transaction to FAILED. The record is
// retained as the audit trail of the failed attempt.
func (p *PaymentOrchestrator) ConfirmFailure(ctx context.Context, tranID string) error {
	matched, _, err := p.Transactions.UpdateOne(ctx,
		bson.M{"tran_id": tranID, "status": models.StatusInitiated},
		bson.M{"$set": bson.M{"status": models.StatusFailed}},
	)
	if err != nil {
		return err
	}
	if matched == 0 {
		return fmt.Errorf("transaction %s: %w", tranID, ErrNotFound)
	}
	return nil
}

func (p *PaymentOrchestrator) sendReceipt(ctx context.Context, tranID string) {
	if p.Mailer == nil {
		return
	}
	var tx models.PaymentTransaction
	if err := p.Transactions.FindOne(ctx, bson.M{"tran_id": tranID}, &tx); err != nil {
		log.Printf("Failed to load transaction %s for receipt: %v", tranID, err)
		return
	}
	go func() {
		subject := "Payment received - du-electronics"
		content := fmt.Sprintf(
			"Dear %s,\n\nWe have received your payment of %.2f %s.\nTransaction ID: %s\n\nThank you for shopping with us!\n",
			tx.Name, tx.Amount, tx.Currency, tx.TranID,
		)
		if err := p.Mailer.SendEmail(tx.Email, subject, content); err != nil {
			log.Printf("Failed to send receipt to %s: %v", tx.Email, err)
		}
	}()
}
