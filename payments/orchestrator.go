package payments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/a2n2k3p4/printbuddy-backend/metrics"
	"github.com/a2n2k3p4/printbuddy-backend/models"
)

// OrderService is the slice of the order server the orchestrator needs.
// *Client satisfies it.
type OrderService interface {
	CreateOrder(ctx context.Context, req models.PaymentRequest) models.OrderCreationResult
	VerifyPayment(ctx context.Context, req models.VerifyRequest) models.VerificationResult
}

// Result is what InitiatePayment resolves with. Exactly one of Success or
// ErrorMessage is meaningful. SessionExpired means navigation was already
// handled; callers must not raise a generic alert on top of it.
type Result struct {
	Success        bool
	MagicCode      string
	PaymentID      string
	ErrorMessage   string
	SessionExpired bool
}

// Orchestrator sequences create-order -> checkout -> verify and owns the
// processing modal state for the duration of a payment attempt.
//
// InitiatePayment is meant to run at most once per logical attempt; the
// caller disables the triggering control while a call is in flight. The
// orchestrator does not enforce mutual exclusion, but modal mutations are
// keyed by an attempt token so a stale auto-hide timer can never clear state
// belonging to a newer attempt.
type Orchestrator struct {
	orders   OrderService
	checkout *Adapter
	logger   *zap.SugaredLogger

	successHideAfter time.Duration
	errorHideAfter   time.Duration

	mu      sync.Mutex
	modal   models.ModalState
	attempt uint64

	updates chan models.ModalState
}

func NewOrchestrator(orders OrderService, checkout *Adapter, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		orders:           orders,
		checkout:         checkout,
		logger:           logger,
		successHideAfter: 5 * time.Second,
		errorHideAfter:   3 * time.Second,
		updates:          make(chan models.ModalState, 8),
	}
}

// InitiatePayment runs one payment attempt to a terminal outcome.
//
// The modal only ever appears once checkout has completed: order-creation and
// checkout-stage failures resolve without touching it, and the caller
// presents those as an inline alert. Every path that does show the modal also
// schedules its timed dismissal, so it is never left on screen indefinitely.
// The returned error is reserved for unexpected conditions; all domain
// failures resolve into the Result.
func (o *Orchestrator) InitiatePayment(ctx context.Context, req models.PaymentRequest) (Result, error) {
	token := o.beginAttempt()
	log := o.logger.With(
		"transaction_id", req.TransactionID,
		"user_id", req.UserID,
		"file_id", req.FileID,
	)

	order := o.orders.CreateOrder(ctx, req)
	if !order.Success || len(order.CheckoutOptions) == 0 {
		msg := order.Message
		if msg == "" {
			msg = "Unable to create payment order"
		}
		log.Warnw("order creation failed", "message", msg)
		metrics.IncPaymentOutcome("order_failed")
		return Result{ErrorMessage: msg}, nil
	}

	outcome := o.checkout.Open(ctx, order.CheckoutOptions)
	switch outcome.Kind {
	case OutcomeCancelled:
		log.Infow("checkout cancelled")
		metrics.IncPaymentOutcome("cancelled")
		return Result{ErrorMessage: outcome.Reason}, nil
	case OutcomeFailed:
		log.Warnw("checkout failed", "reason", outcome.Reason, "description", outcome.Description)
		metrics.IncPaymentOutcome("checkout_failed")
		return Result{ErrorMessage: outcome.Reason}, nil
	}
	if outcome.Completed == nil {
		return Result{}, fmt.Errorf("checkout completed without payment credentials")
	}

	// The modal must be on screen before verification starts: verification is
	// itself a network round trip.
	o.setModal(token, models.ModalState{Visible: true, Stage: models.ModalStageProcessing})

	verification := o.orders.VerifyPayment(ctx, models.VerifyRequest{
		OrderID:           order.OrderID,
		FileID:            req.FileID,
		UserID:            req.UserID,
		RazorpayPaymentID: outcome.Completed.RazorpayPaymentID,
		RazorpayOrderID:   outcome.Completed.RazorpayOrderID,
		RazorpaySignature: outcome.Completed.RazorpaySignature,
	})
	if verification.SessionExpired {
		// Navigation already happened; take the modal down without an error stage.
		log.Warnw("session expired during verification")
		metrics.IncPaymentOutcome("session_expired")
		o.setModal(token, models.ModalState{})
		return Result{ErrorMessage: verification.Message, SessionExpired: true}, nil
	}
	if !verification.Success {
		msg := verification.Message
		if msg == "" {
			msg = "Payment verification failed"
		}
		log.Warnw("verification failed", "message", msg)
		metrics.IncPaymentOutcome("verification_failed")
		o.setModal(token, models.ModalState{Visible: true, Stage: models.ModalStageError, ErrorMessage: msg})
		o.hideAfter(token, o.errorHideAfter)
		return Result{ErrorMessage: msg}, nil
	}

	log.Infow("payment verified",
		"payment_id", verification.PaymentID,
		"magic_code", verification.MagicCode,
	)
	metrics.IncPaymentOutcome("success")
	o.setModal(token, models.ModalState{Visible: true, Stage: models.ModalStageSuccess, MagicCode: verification.MagicCode})
	o.hideAfter(token, o.successHideAfter)
	return Result{Success: true, MagicCode: verification.MagicCode, PaymentID: verification.PaymentID}, nil
}

// ModalState returns a snapshot of the current modal state.
func (o *Orchestrator) ModalState() models.ModalState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.modal
}

// Updates delivers modal snapshots as they change. Sends never block; if the
// receiver lags, intermediate snapshots are dropped.
func (o *Orchestrator) Updates() <-chan models.ModalState {
	return o.updates
}

func (o *Orchestrator) beginAttempt() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attempt++
	o.modal = models.ModalState{Attempt: o.attempt}
	return o.attempt
}

func (o *Orchestrator) setModal(token uint64, state models.ModalState) {
	o.mu.Lock()
	if token != o.attempt {
		o.mu.Unlock()
		return
	}
	state.Attempt = token
	o.modal = state
	snapshot := o.modal
	o.mu.Unlock()

	select {
	case o.updates <- snapshot:
	default:
	}
}

// hideAfter schedules the timed modal dismissal. The closure captures the
// attempt token, so a timer left over from a previous attempt is a no-op.
func (o *Orchestrator) hideAfter(token uint64, d time.Duration) {
	time.AfterFunc(d, func() {
		o.setModal(token, models.ModalState{})
	})
}
