package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"du-electronics-server/gateway"
	"du-electronics-server/models"
	"du-electronics-server/repository"
	"du-electronics-server/services"
)

type stubGateway struct {
	lastReq gateway.SessionRequest
}

func (s *stubGateway) CreateSession(ctx context.Context, req gateway.SessionRequest) (string, error) {
	s.lastReq = req
	return "https://gateway.example.com/session/abc", nil
}

func newPaymentRouter(t *testing.T) (*mux.Router, *services.PaymentOrchestrator, *stubGateway) {
	t.Helper()

	gw := &stubGateway{}
	orchestrator := &services.PaymentOrchestrator{
		Transactions: repository.NewMemory(),
		Gateway:      gw,
		ServerURL:    "https://shop.example.com",
	}
	pc := NewPaymentController(orchestrator, "https://front.example.com")

	router := mux.NewRouter()
	router.HandleFunc("/payment", pc.CreatePayment).Methods("POST")
	router.HandleFunc("/paymnet/success/{tranId}", pc.PaymentSuccess).Methods("POST")
	router.HandleFunc("/paymnet/fail/{tranId}", pc.PaymentFail).Methods("POST")
	return router, orchestrator, gw
}

func TestCreatePayment_ReturnsGatewayURL(t *testing.T) {
	t.Parallel()

	router, orchestrator, gw := newPaymentRouter(t)

	body := strings.NewReader(`{"name":"Rahim","email":"rahim@x.com","price":100,"currency":"BDT"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payment", body))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://gateway.example.com/session/abc", resp["url"])

	var tx models.PaymentTransaction
	require.NoError(t, orchestrator.Transactions.FindOne(context.Background(), bson.M{"tran_id": gw.lastReq.TranID}, &tx))
	assert.Equal(t, models.StatusInitiated, tx.Status)
}

func TestPaymentCallbacks_Redirect(t *testing.T) {
	t.Parallel()

	router, _, gw := newPaymentRouter(t)

	body := strings.NewReader(`{"email":"rahim@x.com","price":100,"currency":"BDT"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payment", body))
	require.Equal(t, http.StatusOK, rec.Code)
	tranID := gw.lastReq.TranID

	// Success callback redirects to the storefront's success page.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/paymnet/success/"+tranID, nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://front.example.com/payment/success", rec.Header().Get("Location"))

	// Replayed success callback behaves the same.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/paymnet/success/"+tranID, nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://front.example.com/payment/success", rec.Header().Get("Location"))
}

func TestPaymentCallbacks_UnknownTranID(t *testing.T) {
	t.Parallel()

	router, _, _ := newPaymentRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/paymnet/success/forged", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://front.example.com/payment/fail", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/paymnet/fail/forged", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://front.example.com/payment/fail", rec.Header().Get("Location"))
}
