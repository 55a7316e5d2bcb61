// order_handler_db.go contains the GET handlers for /payments/orders.
package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/a2n2k3p4/printbuddy-backend/models"
)

type orderFilters struct {
	UserID string
	Status string
	FileID string
}

func applyOrderFilters(f orderFilters) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.UserID != "" {
			db = db.Where("user_id = ?", f.UserID)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.FileID != "" {
			db = db.Where("file_id = ?", f.FileID)
		}
		return db
	}
}

const maxPageSize = 100

func parseLimitOffset(limitStr, offsetStr string) (int, int) {
	limit, offset := 50, 0
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = min(l, maxPageSize)
		}
	}
	if offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

func (h *PaymentHandler) ListOrders(c *fiber.Ctx) error {
	f := orderFilters{
		UserID: c.Query("user_id"),
		Status: c.Query("status"),
		FileID: c.Query("file_id"),
	}
	limit, offset := parseLimitOffset(c.Query("limit"), c.Query("offset"))

	var totalCount int64
	if err := h.DB.Model(&models.PrintOrder{}).
		Scopes(applyOrderFilters(f)).
		Count(&totalCount).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to count orders: " + err.Error()})
	}

	var orders []models.PrintOrder
	if err := h.DB.Model(&models.PrintOrder{}).
		Scopes(applyOrderFilters(f)).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to retrieve orders: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
		"pagination": fiber.Map{
			"total":  totalCount,
			"limit":  limit,
			"offset": offset,
		},
	})
}

func (h *PaymentHandler) GetOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "id is required"})
	}

	var order models.PrintOrder
	// If numeric, treat as internal PK; else treat as Razorpay order id
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		err = h.DB.First(&order, uint(n)).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to retrieve order: " + err.Error()})
		}
		if err == nil {
			return c.JSON(order)
		}
	}

	if err := h.DB.Where("razorpay_order_id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "message": "Order not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to retrieve order: " + err.Error()})
	}
	return c.JSON(order)
}
