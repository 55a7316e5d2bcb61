package payments

import (
	"fmt"

	"github.com/a2n2k3p4/printbuddy-backend/models"
)

// ModalView is what the processing modal renders.
type ModalView struct {
	Icon        string
	Title       string
	Subtitle    string
	ShowSpinner bool
}

// RenderModal maps modal state to its view. Pure and idempotent; safe to call
// on every render with nothing but the current state.
func RenderModal(state models.ModalState) ModalView {
	switch state.Stage {
	case models.ModalStageSuccess:
		subtitle := "Your document is on its way to the printer."
		if state.MagicCode != "" {
			subtitle = fmt.Sprintf("Your magic code is %s. Use it at the print station to collect your document.", state.MagicCode)
		}
		return ModalView{
			Icon:     "check-circle",
			Title:    "Payment Successful!",
			Subtitle: subtitle,
		}
	case models.ModalStageError:
		subtitle := state.ErrorMessage
		if subtitle == "" {
			subtitle = "Something went wrong while processing your payment."
		}
		return ModalView{
			Icon:     "close-circle",
			Title:    "Payment Processing Failed",
			Subtitle: subtitle,
		}
	default:
		return ModalView{
			Icon:        "progress-clock",
			Title:       "Processing Payment",
			Subtitle:    "Please wait while we confirm your payment...",
			ShowSpinner: true,
		}
	}
}
