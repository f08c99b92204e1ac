package entities

// Outcome represents how a single loop iteration ended
type Outcome string

const (
	OutcomeContinue         Outcome = "continue"
	OutcomeNoQuestionFound  Outcome = "no_question_found"
	OutcomeWordUnknown      Outcome = "word_unknown"
	OutcomeInteractionError Outcome = "interaction_error"
	OutcomeCanceled         Outcome = "canceled"
)

// IsTerminal reports whether the outcome stops the run
func (o Outcome) IsTerminal() bool {
	return o != OutcomeContinue
}

// IsFailure reports whether the run stopped on a fault rather than a normal end
func (o Outcome) IsFailure() bool {
	return o == OutcomeInteractionError
}

// State is a position in the quiz driver state machine
type State string

const (
	StateAwaitingQuestion State = "awaiting_question"
	StateMatchingAnswer   State = "matching_answer"
	StateFillingInput     State = "filling_input"
	StateSubmitting       State = "submitting"
	StateCooldown         State = "cooldown"
	StateStopped          State = "stopped"
)

// SkipReason explains why an iteration returned to AwaitingQuestion early
type SkipReason string

const (
	SkipInputMissing  SkipReason = "input_missing"
	SkipInputDisabled SkipReason = "input_disabled"
	SkipInputReadOnly SkipReason = "input_readonly"
)
