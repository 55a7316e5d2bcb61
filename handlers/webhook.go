package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/a2n2k3p4/printbuddy-backend/models"
)

// razorpayEvent is the slice of the webhook payload we care about.
type razorpayEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID          string `json:"id"`
				OrderID     string `json:"order_id"`
				Amount      int64  `json:"amount"`
				ErrorReason string `json:"error_reason"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook ingests Razorpay payment events so orders settle even when
// the mobile client dies before calling verify. Signature is checked against
// the webhook secret; unverifiable payloads get a 400 so Razorpay retries
// only what might still succeed.
//
// Return 200 for events we ignore on purpose; 5xx only on transient failure.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Razorpay-Signature")
	if signature == "" || !h.Gateway.VerifyWebhook(body, signature) {
		h.Logger.Warnw("webhook signature check failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid signature"})
	}

	var event razorpayEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid payload"})
	}

	entity := event.Payload.Payment.Entity
	switch event.Event {
	case "payment.captured":
		if entity.OrderID == "" {
			return c.SendStatus(fiber.StatusOK)
		}
		var record models.PrintOrder
		if err := h.DB.Where("razorpay_order_id = ?", entity.OrderID).First(&record).Error; err != nil {
			h.Logger.Warnw("webhook for unknown order", "razorpay_order_id", entity.OrderID, "error", err)
			return c.SendStatus(fiber.StatusOK)
		}
		if record.Status == models.OrderStatusPaid {
			return c.SendStatus(fiber.StatusOK)
		}
		record.Status = models.OrderStatusPaid
		record.RazorpayPaymentID = entity.ID
		if record.MagicCode == "" {
			receipt, _ := record.Meta["receipt"].(string)
			record.MagicCode = magicCodeFor(receipt, entity.OrderID, entity.ID)
		}
		if err := h.DB.Save(&record).Error; err != nil {
			h.Logger.Errorw("webhook: failed to settle order", "order_id", record.ID, "error", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		h.Logger.Infow("webhook: order settled", "order_id", record.ID, "razorpay_payment_id", entity.ID)

	case "payment.failed":
		if entity.OrderID == "" {
			return c.SendStatus(fiber.StatusOK)
		}
		if err := h.DB.Model(&models.PrintOrder{}).
			Where("razorpay_order_id = ? AND status = ?", entity.OrderID, models.OrderStatusCreated).
			Update("status", models.OrderStatusFailed).Error; err != nil {
			h.Logger.Errorw("webhook: failed to mark order failed", "razorpay_order_id", entity.OrderID, "error", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
	}
	return c.SendStatus(fiber.StatusOK)
}
