package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/a2n2k3p4/printbuddy-backend/models"
)

func TestRenderModalProcessing(t *testing.T) {
	view := RenderModal(models.ModalState{Visible: true, Stage: models.ModalStageProcessing})
	assert.Equal(t, "Processing Payment", view.Title)
	assert.True(t, view.ShowSpinner)
}

func TestRenderModalSuccess(t *testing.T) {
	view := RenderModal(models.ModalState{Visible: true, Stage: models.ModalStageSuccess, MagicCode: "XQ12Z9"})
	assert.Equal(t, "Payment Successful!", view.Title)
	assert.Contains(t, view.Subtitle, "XQ12Z9")
	assert.False(t, view.ShowSpinner)
}

func TestRenderModalSuccessWithoutMagicCode(t *testing.T) {
	view := RenderModal(models.ModalState{Visible: true, Stage: models.ModalStageSuccess})
	assert.Equal(t, "Payment Successful!", view.Title)
	assert.NotEmpty(t, view.Subtitle)
}

func TestRenderModalError(t *testing.T) {
	view := RenderModal(models.ModalState{Visible: true, Stage: models.ModalStageError, ErrorMessage: "Payment verification failed"})
	assert.Equal(t, "Payment Processing Failed", view.Title)
	assert.Equal(t, "Payment verification failed", view.Subtitle)
	assert.False(t, view.ShowSpinner)
}

func TestRenderModalErrorFallbackSubtitle(t *testing.T) {
	view := RenderModal(models.ModalState{Visible: true, Stage: models.ModalStageError})
	assert.NotEmpty(t, view.Subtitle)
}

func TestRenderModalIsIdempotent(t *testing.T) {
	state := models.ModalState{Visible: true, Stage: models.ModalStageSuccess, MagicCode: "AB12CD"}
	assert.Equal(t, RenderModal(state), RenderModal(state))
}
