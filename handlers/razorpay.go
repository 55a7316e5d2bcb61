package handlers

import (
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// Gateway is the slice of the Razorpay SDK the handlers use, behind an
// interface so tests can stub order creation and signature checks.
type Gateway interface {
	KeyID() string
	CreateOrder(data map[string]interface{}) (map[string]interface{}, error)
	VerifySignature(orderID, paymentID, signature string) bool
	VerifyWebhook(body []byte, signature string) bool
}

type razorpayGateway struct {
	client        *razorpay.Client
	keyID         string
	keySecret     string
	webhookSecret string
}

// NewGateway creates a Gateway backed by the real Razorpay SDK client.
func NewGateway(keyID, keySecret, webhookSecret string) Gateway {
	return &razorpayGateway{
		client:        razorpay.NewClient(keyID, keySecret),
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

func (g *razorpayGateway) KeyID() string {
	return g.keyID
}

func (g *razorpayGateway) CreateOrder(data map[string]interface{}) (map[string]interface{}, error) {
	return g.client.Order.Create(data, nil)
}

// VerifySignature checks the checkout signature: HMAC-SHA256 over
// "<order_id>|<payment_id>" with the key secret.
func (g *razorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return utils.VerifyWebhookSignature(orderID+"|"+paymentID, signature, g.keySecret)
}

// VerifyWebhook checks the X-Razorpay-Signature header on webhook deliveries.
func (g *razorpayGateway) VerifyWebhook(body []byte, signature string) bool {
	return utils.VerifyWebhookSignature(string(body), signature, g.webhookSecret)
}
