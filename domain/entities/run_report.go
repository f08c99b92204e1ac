package entities

import "time"

// RunReport summarizes a finished quiz run
type RunReport struct {
	Outcome           Outcome       `json:"outcome"`
	Err               error         `json:"-"`
	LastWord          string        `json:"last_word,omitempty"`
	QuestionsSeen     int           `json:"questions_seen"`
	AnswersSubmitted  int           `json:"answers_submitted"`
	IterationsSkipped int           `json:"iterations_skipped"`
	SubmitsMissing    int           `json:"submits_missing"`
	StartedAt         time.Time     `json:"started_at"`
	Elapsed           time.Duration `json:"elapsed"`
}

// Failed reports whether the run ended on a fault
func (r RunReport) Failed() bool {
	return r.Outcome.IsFailure()
}
