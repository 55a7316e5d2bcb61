package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/a2n2k3p4/printbuddy-backend/models"
)

const appLogoURL = "https://cdn.printbuddy.in/assets/app-logo.png"

// Client talks to the order-creation and payment-verification endpoints.
// It is stateless and never returns errors to its callers: every transport,
// parse, or server-side failure collapses into a result with Success false,
// so the orchestrator handles all outcomes uniformly without try/catch at
// each call site.
type Client struct {
	httpClient     *http.Client
	createOrderURL string
	verifyURL      string
	credentials    CredentialStore
	sessions       SessionHandler
	logger         *zap.SugaredLogger
}

// NewClient builds a Client against baseURL. credentials and sessions may be
// nil; requests then go out unauthenticated and 401s read as plain failures.
func NewClient(httpClient *http.Client, baseURL string, credentials CredentialStore, sessions SessionHandler, logger *zap.SugaredLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:     httpClient,
		createOrderURL: baseURL + "/payments/create-order",
		verifyURL:      baseURL + "/payments/verify",
		credentials:    credentials,
		sessions:       sessions,
		logger:         logger,
	}
}

type orderEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		PaymentOptions  models.CheckoutOptions `json:"paymentOptions"`
		OrderID         string                 `json:"orderId"`
		RazorpayOrderID string                 `json:"razorpayOrderId"`
		Amount          int64                  `json:"amount"`
		Code            string                 `json:"code"`
	} `json:"data"`
}

type verifyEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		FileID    string `json:"file_id"`
		PaymentID string `json:"payment_id"`
		Amount    int64  `json:"amount"`
		MagicCode string `json:"magic_code"`
		EmailSent bool   `json:"email_sent"`
	} `json:"data"`
}

// CreateOrder registers a pending payment intent and returns the options bag
// needed to open the checkout SDK. The server stores the uploaded document
// under the client transaction id, so it doubles as the fileName field.
func (c *Client) CreateOrder(ctx context.Context, req models.PaymentRequest) models.OrderCreationResult {
	fields := map[string]string{
		"userId":      req.UserID,
		"userName":    req.UserName,
		"userEmail":   req.UserEmail,
		"userMobile":  req.UserPhone,
		"amount":      strconv.FormatInt(req.AmountRupees, 10),
		"fileId":      req.FileID,
		"fileName":    req.TransactionID,
		"appLogo":     appLogoURL,
		"description": req.Description,
	}

	status, body, err := c.postForm(ctx, c.createOrderURL, fields)
	if err != nil {
		c.logger.Errorw("create order request failed", "transaction_id", req.TransactionID, "error", err)
		return models.OrderCreationResult{Message: "Unable to reach payment server"}
	}
	if status/100 != 2 {
		c.logger.Warnw("create order rejected", "transaction_id", req.TransactionID, "status", status)
		return models.OrderCreationResult{Message: fmt.Sprintf("Order creation failed (status %d)", status)}
	}

	var env orderEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Errorw("create order response unreadable", "transaction_id", req.TransactionID, "error", err)
		return models.OrderCreationResult{Message: "Order creation failed"}
	}
	if !env.Success || env.Data == nil {
		msg := env.Message
		if msg == "" {
			msg = "Order creation failed"
		}
		return models.OrderCreationResult{Message: msg}
	}

	return models.OrderCreationResult{
		Success:         true,
		Message:         env.Message,
		CheckoutOptions: env.Data.PaymentOptions,
		OrderID:         env.Data.OrderID,
		RazorpayOrderID: env.Data.RazorpayOrderID,
		Amount:          env.Data.Amount,
		Code:            env.Data.Code,
	}
}

// VerifyPayment confirms the checkout SDK's payment credentials with the
// server. A 401 is not an ordinary failure: the session handler takes over
// (credential wipe + navigation) and the result comes back flagged so callers
// skip the generic error alert.
func (c *Client) VerifyPayment(ctx context.Context, req models.VerifyRequest) models.VerificationResult {
	fields := map[string]string{
		"orderId":             req.OrderID,
		"fileId":              req.FileID,
		"userId":              req.UserID,
		"razorpay_payment_id": req.RazorpayPaymentID,
		"razorpay_order_id":   req.RazorpayOrderID,
		"razorpay_signature":  req.RazorpaySignature,
	}

	status, body, err := c.postForm(ctx, c.verifyURL, fields)
	if err != nil {
		c.logger.Errorw("verify payment request failed", "order_id", req.OrderID, "error", err)
		return models.VerificationResult{Message: "Unable to reach payment server"}
	}
	if c.sessions != nil && status == http.StatusUnauthorized && c.sessions.HandleResponse(status) {
		return models.VerificationResult{Message: "Session expired", SessionExpired: true}
	}
	if status/100 != 2 {
		c.logger.Warnw("verify payment rejected", "order_id", req.OrderID, "status", status)
		return models.VerificationResult{Message: fmt.Sprintf("Payment verification failed (status %d)", status)}
	}

	var env verifyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Errorw("verify payment response unreadable", "order_id", req.OrderID, "error", err)
		return models.VerificationResult{Message: "Payment verification failed"}
	}
	if !env.Success || env.Data == nil {
		msg := env.Message
		if msg == "" {
			msg = "Payment verification failed"
		}
		return models.VerificationResult{Message: msg}
	}

	return models.VerificationResult{
		Success:   true,
		Message:   env.Message,
		FileID:    env.Data.FileID,
		PaymentID: env.Data.PaymentID,
		Amount:    env.Data.Amount,
		MagicCode: env.Data.MagicCode,
		EmailSent: env.Data.EmailSent,
	}
}

func (c *Client) postForm(ctx context.Context, url string, fields map[string]string) (int, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return 0, nil, fmt.Errorf("multipart.WriteField(%s): %w", key, err)
		}
	}
	if err := w.Close(); err != nil {
		return 0, nil, fmt.Errorf("multipart.Writer.Close: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return 0, nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	request.Header.Set("Content-Type", w.FormDataContentType())
	if c.credentials != nil {
		if token, err := c.credentials.Get(credentialKeyToken); err == nil && token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
		}
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return 0, nil, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("io.ReadAll(response.Body): %w", err)
	}
	return response.StatusCode, body, nil
}
