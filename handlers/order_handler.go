package handlers

import (
	"crypto/sha256"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/a2n2k3p4/printbuddy-backend/models"
)

// Notifier delivers the magic code to the user after a verified payment.
type Notifier interface {
	SendMagicCode(order models.PrintOrder) error
}

type PaymentHandler struct {
	DB       *gorm.DB
	Gateway  Gateway
	Notifier Notifier // optional
	Logger   *zap.SugaredLogger
}

func NewPaymentHandler(db *gorm.DB, gateway Gateway, logger *zap.SugaredLogger) *PaymentHandler {
	return &PaymentHandler{DB: db, Gateway: gateway, Logger: logger}
}

func (h *PaymentHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

type orderForm struct {
	UserID      string
	UserName    string
	UserEmail   string
	UserMobile  string
	FileID      string
	FileName    string
	AppLogo     string
	Description string
}

// CreateOrder registers a pending payment intent: creates the Razorpay order,
// persists a PrintOrder row, and returns the checkout options bag the mobile
// client passes verbatim to the checkout SDK.
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	form := orderForm{
		UserID:      c.FormValue("userId"),
		UserName:    c.FormValue("userName"),
		UserEmail:   c.FormValue("userEmail"),
		UserMobile:  c.FormValue("userMobile"),
		FileID:      c.FormValue("fileId"),
		FileName:    c.FormValue("fileName"),
		AppLogo:     c.FormValue("appLogo"),
		Description: c.FormValue("description"),
	}
	amount, err := strconv.ParseInt(c.FormValue("amount"), 10, 64)
	if err != nil || amount <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "amount must be a positive integer"})
	}
	if form.UserID == "" || form.FileID == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "userId and fileId are required"})
	}

	amountPaise := amount * 100
	receipt := uuid.NewString()
	rzpOrder, err := h.Gateway.CreateOrder(map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  receipt,
		"notes": map[string]interface{}{
			"user_id":        form.UserID,
			"file_id":        form.FileID,
			"transaction_id": form.FileName,
		},
	})
	if err != nil {
		h.Logger.Errorw("razorpay order create failed", "file_id", form.FileID, "error", err)
		return c.Status(502).JSON(fiber.Map{"success": false, "message": "Unable to create payment order"})
	}
	rzpOrderID, _ := rzpOrder["id"].(string)
	if rzpOrderID == "" {
		h.Logger.Errorw("razorpay order response missing id", "file_id", form.FileID)
		return c.Status(502).JSON(fiber.Map{"success": false, "message": "Unable to create payment order"})
	}

	record := models.PrintOrder{
		UserID:          form.UserID,
		TransactionID:   form.FileName,
		RazorpayOrderID: rzpOrderID,
		FileID:          form.FileID,
		FileName:        form.FileName,
		AmountPaise:     amountPaise,
		Currency:        "INR",
		Status:          models.OrderStatusCreated,
		Meta: datatypes.JSONMap{
			"receipt":     receipt,
			"description": form.Description,
		},
	}
	if err := h.DB.Create(&record).Error; err != nil {
		h.Logger.Errorw("failed to save order", "razorpay_order_id", rzpOrderID, "error", err)
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to save order"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order created",
		"data": fiber.Map{
			"paymentOptions":  buildPaymentOptions(h.Gateway.KeyID(), form, amountPaise, rzpOrderID),
			"orderId":         strconv.FormatUint(uint64(record.ID), 10),
			"razorpayOrderId": rzpOrderID,
			"amount":          amount,
			"code":            orderCode(record.ID),
		},
	})
}

// buildPaymentOptions assembles the options bag for the checkout SDK.
func buildPaymentOptions(keyID string, form orderForm, amountPaise int64, rzpOrderID string) fiber.Map {
	return fiber.Map{
		"key":         keyID,
		"amount":      amountPaise,
		"currency":    "INR",
		"name":        "PrintBuddy",
		"description": form.Description,
		"image":       form.AppLogo,
		"order_id":    rzpOrderID,
		"prefill": fiber.Map{
			"name":    form.UserName,
			"email":   form.UserEmail,
			"contact": form.UserMobile,
		},
		"theme": fiber.Map{"color": "#2563EB"},
	}
}

// VerifyPayment confirms the checkout credentials are authentic, marks the
// order paid, and hands out the magic code.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	orderID := c.FormValue("orderId")
	fileID := c.FormValue("fileId")
	userID := c.FormValue("userId")
	paymentID := c.FormValue("razorpay_payment_id")
	rzpOrderID := c.FormValue("razorpay_order_id")
	signature := c.FormValue("razorpay_signature")
	if orderID == "" || paymentID == "" || rzpOrderID == "" || signature == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "missing verification fields"})
	}

	record, err := h.findOrder(orderID, rzpOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "message": "Order not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to load order: " + err.Error()})
	}
	if userID != "" && record.UserID != userID {
		return c.Status(403).JSON(fiber.Map{"success": false, "message": "Order does not belong to this user"})
	}
	if fileID != "" && record.FileID != fileID {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Order does not match this file"})
	}

	if !h.Gateway.VerifySignature(rzpOrderID, paymentID, signature) {
		record.Status = models.OrderStatusFailed
		if err := h.DB.Save(record).Error; err != nil {
			h.Logger.Errorw("failed to mark order failed", "order_id", record.ID, "error", err)
		}
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Payment verification failed"})
	}

	// Idempotent: re-verifying a paid order hands back the same magic code.
	if record.Status != models.OrderStatusPaid {
		record.Status = models.OrderStatusPaid
		record.RazorpayPaymentID = paymentID
		receipt, _ := record.Meta["receipt"].(string)
		record.MagicCode = magicCodeFor(receipt, rzpOrderID, paymentID)
	}

	emailSent := false
	if h.Notifier != nil {
		if err := h.Notifier.SendMagicCode(*record); err != nil {
			h.Logger.Warnw("failed to send magic code email", "order_id", record.ID, "error", err)
		} else {
			emailSent = true
		}
	}
	record.EmailSent = record.EmailSent || emailSent

	// Payment is already verified at this point; a persistence hiccup must
	// not read as a failed payment on the client.
	if err := h.DB.Save(record).Error; err != nil {
		h.Logger.Errorw("failed to save verified order", "order_id", record.ID, "error", err)
	}

	h.Logger.Infow("payment verified",
		"order_id", record.ID,
		"razorpay_payment_id", paymentID,
		"magic_code", record.MagicCode,
	)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment verified",
		"data": fiber.Map{
			"file_id":    record.FileID,
			"payment_id": paymentID,
			"amount":     record.AmountPaise / 100,
			"magic_code": record.MagicCode,
			"email_sent": record.EmailSent,
		},
	})
}

// findOrder resolves an order by internal PK first, then by Razorpay order id.
func (h *PaymentHandler) findOrder(orderID, rzpOrderID string) (*models.PrintOrder, error) {
	var record models.PrintOrder
	if n, err := strconv.ParseUint(orderID, 10, 64); err == nil {
		err = h.DB.First(&record, uint(n)).Error
		if err == nil {
			return &record, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if err := h.DB.Where("razorpay_order_id = ?", rzpOrderID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

const magicCodeCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// magicCodeFor derives the 6-char collection code from the order's receipt
// and the payment credentials. Deriving instead of drawing at random means a
// re-verify after a lost save mints the same code, so a code handed to the
// user always stays redeemable. The receipt is a per-order UUID, which keeps
// codes unguessable from public order/payment ids.
func magicCodeFor(receipt, orderID, paymentID string) string {
	sum := sha256.Sum256([]byte(receipt + "|" + orderID + "|" + paymentID))
	var b strings.Builder
	for i := range 6 {
		b.WriteByte(magicCodeCharset[int(sum[i])%len(magicCodeCharset)])
	}
	return b.String()
}

func orderCode(id uint) string {
	return "ORD-" + strconv.FormatUint(uint64(id), 10)
}
