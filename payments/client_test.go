package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/a2n2k3p4/printbuddy-backend/models"
)

type recordingSessions struct {
	calls   []int
	handled bool
}

func (r *recordingSessions) HandleResponse(status int) bool {
	r.calls = append(r.calls, status)
	return r.handled
}

func newTestClient(t *testing.T, handler http.HandlerFunc, sessions SessionHandler) (*Client, *MemoryCredentialStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := NewMemoryCredentialStore()
	return NewClient(srv.Client(), srv.URL, store, sessions, zap.NewNop().Sugar()), store
}

func TestCreateOrderSendsExpectedFields(t *testing.T) {
	var form map[string]string
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form = map[string]string{}
		for key := range r.MultipartForm.Value {
			form[key] = r.FormValue(key)
		}
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"message": "Order created",
			"data": {
				"paymentOptions": {"key": "rzp_test", "order_id": "order_abc", "amount": 4000},
				"orderId": "41",
				"razorpayOrderId": "order_abc",
				"amount": 40,
				"code": "ORD-41"
			}
		}`))
	}, nil)
	require.NoError(t, store.Set(credentialKeyToken, "tok-1"))

	result := client.CreateOrder(context.Background(), models.PaymentRequest{
		TransactionID: "PB1700000000000APPAB12CD34",
		UserID:        "U1",
		UserName:      "Asha",
		UserEmail:     "asha@example.com",
		UserPhone:     "9999999999",
		AmountRupees:  40,
		FileID:        "F1",
		Description:   "10 page document",
	})

	assert.Equal(t, "U1", form["userId"])
	assert.Equal(t, "Asha", form["userName"])
	assert.Equal(t, "asha@example.com", form["userEmail"])
	assert.Equal(t, "9999999999", form["userMobile"])
	assert.Equal(t, "40", form["amount"])
	assert.Equal(t, "F1", form["fileId"])
	assert.Equal(t, "PB1700000000000APPAB12CD34", form["fileName"])
	assert.NotEmpty(t, form["appLogo"])
	assert.Equal(t, "10 page document", form["description"])

	require.True(t, result.Success)
	assert.Equal(t, "41", result.OrderID)
	assert.Equal(t, "order_abc", result.RazorpayOrderID)
	assert.Equal(t, int64(40), result.Amount)
	assert.Equal(t, "ORD-41", result.Code)
	assert.Equal(t, "rzp_test", result.CheckoutOptions["key"])
	assert.Equal(t, "order_abc", result.CheckoutOptions["order_id"])
}

func TestCreateOrderServerSideFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "message": "File no longer available"}`))
	}, nil)

	result := client.CreateOrder(context.Background(), models.PaymentRequest{AmountRupees: 40})
	assert.False(t, result.Success)
	assert.Equal(t, "File no longer available", result.Message)
}

func TestCreateOrderNon200(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}, nil)

	result := client.CreateOrder(context.Background(), models.PaymentRequest{AmountRupees: 40})
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestCreateOrderAcceptsAny2xx(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"success": true,
			"message": "Order created",
			"data": {
				"paymentOptions": {"key": "rzp_test"},
				"orderId": "41",
				"razorpayOrderId": "order_abc",
				"amount": 40
			}
		}`))
	}, nil)

	result := client.CreateOrder(context.Background(), models.PaymentRequest{AmountRupees: 40})
	assert.True(t, result.Success)
	assert.Equal(t, "order_abc", result.RazorpayOrderID)
}

func TestVerifyPaymentAcceptsAny2xx(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{
			"success": true,
			"message": "Payment verified",
			"data": {"payment_id": "pay_123", "magic_code": "XQ12Z9"}
		}`))
	}, nil)

	result := client.VerifyPayment(context.Background(), models.VerifyRequest{OrderID: "41"})
	assert.True(t, result.Success)
	assert.Equal(t, "XQ12Z9", result.MagicCode)
}

func TestCreateOrderTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(http.DefaultClient, url, nil, nil, zap.NewNop().Sugar())
	result := client.CreateOrder(context.Background(), models.PaymentRequest{AmountRupees: 40})
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestCreateOrderUnparseableResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway timeout</html>`))
	}, nil)

	result := client.CreateOrder(context.Background(), models.PaymentRequest{AmountRupees: 40})
	assert.False(t, result.Success)
}

func TestVerifyPaymentSuccess(t *testing.T) {
	var form map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form = map[string]string{}
		for key := range r.MultipartForm.Value {
			form[key] = r.FormValue(key)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"message": "Payment verified",
			"data": {
				"file_id": "F1",
				"payment_id": "pay_123",
				"amount": 40,
				"magic_code": "XQ12Z9",
				"email_sent": true
			}
		}`))
	}, nil)

	result := client.VerifyPayment(context.Background(), models.VerifyRequest{
		OrderID:           "41",
		FileID:            "F1",
		UserID:            "U1",
		RazorpayPaymentID: "pay_123",
		RazorpayOrderID:   "order_abc",
		RazorpaySignature: "sig",
	})

	assert.Equal(t, "41", form["orderId"])
	assert.Equal(t, "F1", form["fileId"])
	assert.Equal(t, "U1", form["userId"])
	assert.Equal(t, "pay_123", form["razorpay_payment_id"])
	assert.Equal(t, "order_abc", form["razorpay_order_id"])
	assert.Equal(t, "sig", form["razorpay_signature"])

	require.True(t, result.Success)
	assert.Equal(t, "XQ12Z9", result.MagicCode)
	assert.Equal(t, "pay_123", result.PaymentID)
	assert.Equal(t, int64(40), result.Amount)
	assert.True(t, result.EmailSent)
	assert.False(t, result.SessionExpired)
}

func TestVerifyPayment401SessionExpired(t *testing.T) {
	sessions := &recordingSessions{handled: true}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, sessions)

	result := client.VerifyPayment(context.Background(), models.VerifyRequest{OrderID: "41"})
	assert.False(t, result.Success)
	assert.True(t, result.SessionExpired)
	assert.Equal(t, "Session expired", result.Message)
	assert.Equal(t, []int{http.StatusUnauthorized}, sessions.calls)
}

func TestVerifyPayment401UnhandledFallsThrough(t *testing.T) {
	sessions := &recordingSessions{handled: false}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, sessions)

	result := client.VerifyPayment(context.Background(), models.VerifyRequest{OrderID: "41"})
	assert.False(t, result.Success)
	assert.False(t, result.SessionExpired)
	assert.NotEqual(t, "Session expired", result.Message)
}

func TestVerifyPaymentServerSideFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "message": "Payment verification failed"}`))
	}, nil)

	result := client.VerifyPayment(context.Background(), models.VerifyRequest{OrderID: "41"})
	assert.False(t, result.Success)
	assert.Equal(t, "Payment verification failed", result.Message)
}
