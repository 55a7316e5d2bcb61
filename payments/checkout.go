package payments

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/a2n2k3p4/printbuddy-backend/models"
)

// CheckoutGateway is the third-party in-app checkout component. Open blocks
// until the user completes or dismisses the checkout sheet, returning payment
// credentials on success or a *models.CheckoutError otherwise.
type CheckoutGateway interface {
	Open(ctx context.Context, options models.CheckoutOptions) (*models.CheckoutSuccess, error)
}

type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota
	OutcomeCancelled
	OutcomeFailed
)

// CheckoutOutcome is the normalized result of one checkout SDK invocation.
// Reason is human-readable and safe to show; Description keeps the raw SDK
// string for logs.
type CheckoutOutcome struct {
	Kind        OutcomeKind
	Completed   *models.CheckoutSuccess
	Reason      string
	Description string
}

// codeCancelled is the SDK rejection code for user dismissal.
const codeCancelled = 1

const (
	cancelledMessage      = "Payment was cancelled."
	genericFailureMessage = "Payment failed. Please try again."
)

// Fixed user-facing strings for the structured reasons the SDK emits.
var failureReasons = map[string]string{
	"payment_error": "Payment failed. Please try again.",
	"network_error": "Network error during payment. Please try again.",
	"gateway_error": "The payment gateway is unavailable. Please try again later.",
}

// Adapter wraps the checkout gateway and normalizes its inconsistent
// rejection shapes into a single outcome type.
type Adapter struct {
	gateway CheckoutGateway
	logger  *zap.SugaredLogger
}

func NewAdapter(gateway CheckoutGateway, logger *zap.SugaredLogger) *Adapter {
	return &Adapter{gateway: gateway, logger: logger}
}

func (a *Adapter) Open(ctx context.Context, options models.CheckoutOptions) CheckoutOutcome {
	success, err := a.gateway.Open(ctx, options)
	if err == nil {
		return CheckoutOutcome{Kind: OutcomeCompleted, Completed: success}
	}
	kind, reason, description := normalizeCheckoutError(err)
	a.logger.Infow("checkout did not complete", "reason", reason, "description", description)
	return CheckoutOutcome{Kind: kind, Reason: reason, Description: description}
}

// normalizeCheckoutError maps the SDK's rejection to an outcome kind and a
// human-readable reason. Precedence:
//
//  1. the numeric dismissal code wins, whatever the description says;
//  2. a description that parses as {"error":{"reason":...}} maps through the
//     fixed reason table (reason "payment_cancelled" counts as dismissal);
//  3. a description containing "cancelled" (case-insensitive) counts as
//     dismissal;
//  4. anything else is a failure with the raw description as the reason.
func normalizeCheckoutError(err error) (OutcomeKind, string, string) {
	var ce *models.CheckoutError
	if !errors.As(err, &ce) {
		return OutcomeFailed, genericFailureMessage, err.Error()
	}

	description := strings.TrimSpace(ce.Description)
	if ce.Code == codeCancelled {
		return OutcomeCancelled, cancelledMessage, description
	}

	var wrapped struct {
		Error struct {
			Reason      string `json:"reason"`
			Description string `json:"description"`
		} `json:"error"`
	}
	if json.Unmarshal([]byte(description), &wrapped) == nil && wrapped.Error.Reason != "" {
		if wrapped.Error.Reason == "payment_cancelled" {
			return OutcomeCancelled, cancelledMessage, description
		}
		if msg, ok := failureReasons[wrapped.Error.Reason]; ok {
			return OutcomeFailed, msg, description
		}
		if wrapped.Error.Description != "" {
			return OutcomeFailed, wrapped.Error.Description, description
		}
		return OutcomeFailed, genericFailureMessage, description
	}

	if strings.Contains(strings.ToLower(description), "cancelled") {
		return OutcomeCancelled, cancelledMessage, description
	}
	if description == "" {
		return OutcomeFailed, genericFailureMessage, description
	}
	return OutcomeFailed, description, description
}
