package models

import "fmt"

// PaymentRequest is the payload the client core sends to the order-creation
// endpoint. AmountRupees comes from the pricing step that runs before this
// flow begins; nothing in the payment flow recomputes it.
type PaymentRequest struct {
	TransactionID string `json:"transactionId"` // client correlation tag, also names the uploaded file server-side
	UserID        string `json:"userId"`
	UserName      string `json:"userName"`
	UserEmail     string `json:"userEmail"`
	UserPhone     string `json:"userPhone"`
	AmountRupees  int64  `json:"amount"` // whole rupees
	FileID        string `json:"fileId"`
	Description   string `json:"description,omitempty"`
}

// CheckoutOptions is the opaque options bag returned by order creation and
// handed verbatim to the checkout SDK. The client never inspects it.
type CheckoutOptions map[string]interface{}

// OrderCreationResult is what order creation resolves with. Success false
// covers every failure origin: transport, parse, server logic.
type OrderCreationResult struct {
	Success         bool
	Message         string
	CheckoutOptions CheckoutOptions
	OrderID         string
	RazorpayOrderID string
	Amount          int64
	Code            string
}

// VerifyRequest carries the checkout SDK's payment credentials back to the
// verification endpoint.
type VerifyRequest struct {
	OrderID           string
	FileID            string
	UserID            string
	RazorpayPaymentID string
	RazorpayOrderID   string
	RazorpaySignature string
}

// VerificationResult is what payment verification resolves with.
// SessionExpired marks the distinguished 401 path: the session handler has
// already taken over navigation, so callers must not raise a generic alert.
type VerificationResult struct {
	Success        bool
	Message        string
	SessionExpired bool
	FileID         string
	PaymentID      string
	Amount         int64
	MagicCode      string
	EmailSent      bool
}

// CheckoutSuccess is the checkout SDK's resolution payload.
type CheckoutSuccess struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id,omitempty"`
	RazorpaySignature string `json:"razorpay_signature,omitempty"`
}

// CheckoutError is the checkout SDK's rejection shape. Description is
// unreliable: sometimes a structured JSON string, sometimes plain text,
// sometimes empty with only a code.
type CheckoutError struct {
	Code        int    `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout rejected (code %d): %s", e.Code, e.Description)
}
