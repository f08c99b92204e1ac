package interfaces

import "wocabot/domain/entities"

// RunObserver receives loop events, e.g. to export metrics
type RunObserver interface {
	QuestionSeen(word string)
	AnswerSubmitted(word string)
	IterationSkipped(reason entities.SkipReason)
	SubmitMissing()
	Stopped(outcome entities.Outcome)
}

// NopObserver ignores every event
type NopObserver struct{}

func (NopObserver) QuestionSeen(string)                  {}
func (NopObserver) AnswerSubmitted(string)               {}
func (NopObserver) IterationSkipped(entities.SkipReason) {}
func (NopObserver) SubmitMissing()                       {}
func (NopObserver) Stopped(entities.Outcome)             {}
