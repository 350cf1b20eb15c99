package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// SessionRequest carries everything the gateway needs to host one
// payment attempt. TranID correlates the session with its callbacks.
type SessionRequest struct {
	TranID        string
	Amount        float64
	Currency      string
	SuccessURL    string
	FailURL       string
	CancelURL     string
	CustomerName  string
	CustomerEmail string
	Address       string
	PostCode      string
	Phone         string
}

// SessionCreator creates a hosted gateway session and returns the URL
// the customer is redirected to.
type SessionCreator interface {
	CreateSession(ctx context.Context, req SessionRequest) (string, error)
}

const sandboxEndpoint = "https://sandbox.sslcommerz.com/gwprocess/v4/api.php"

// SSLCommerz creates hosted payment sessions against the SSLCommerz
// session API.
type SSLCommerz struct {
	StoreID       string
	StorePassword string
	Endpoint      string
	Client        *http.Client
}

func NewSSLCommerz(storeID, storePassword string) *SSLCommerz {
	return &SSLCommerz{
		StoreID:       storeID,
		StorePassword: storePassword,
		Endpoint:      sandboxEndpoint,
		Client:        &http.Client{},
	}
}

type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// CreateSession posts the session form and returns GatewayPageURL. The
// caller bounds the call through ctx; a timeout surfaces as an error
// and nothing is persisted on our side.
func (s *SSLCommerz) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	form := url.Values{}
	form.Set("store_id", s.StoreID)
	form.Set("store_passwd", s.StorePassword)
	form.Set("tran_id", req.TranID)
	form.Set("total_amount", fmt.Sprintf("%.2f", req.Amount))
	form.Set("currency", req.Currency)
	form.Set("success_url", req.SuccessURL)
	form.Set("fail_url", req.FailURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("cus_name", req.CustomerName)
	form.Set("cus_email", req.CustomerEmail)
	form.Set("cus_add1", req.Address)
	form.Set("cus_postcode", req.PostCode)
	form.Set("cus_phone", req.Phone)
	form.Set("shipping_method", "NO")
	form.Set("product_name", "du-electronics order")
	form.Set("product_category", "electronics")
	form.Set("product_profile", "general")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gateway session request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway session request: unexpected status %d", resp.StatusCode)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("decode gateway session response: %w", err)
	}
	if session.Status != "SUCCESS" || session.GatewayPageURL == "" {
		return "", fmt.Errorf("gateway rejected session: %s", session.FailedReason)
	}
	return session.GatewayPageURL, nil
}
