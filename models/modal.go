package models

// ModalStage is the processing modal's display stage.
type ModalStage string

const (
	ModalStageProcessing ModalStage = "processing"
	ModalStageSuccess    ModalStage = "success"
	ModalStageError      ModalStage = "error"
)

// ModalState is the processing modal's full state. It is owned and mutated
// exclusively by the payment orchestrator; everything else only reads it.
// Attempt identifies which payment attempt the state belongs to, so delayed
// auto-hide timers can tell whether they are stale.
type ModalState struct {
	Visible      bool
	Stage        ModalStage
	MagicCode    string
	ErrorMessage string
	Attempt      uint64
}
