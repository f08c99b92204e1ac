package quiz

import "time"

// Default selectors of the falling-word quiz page
const (
	DefaultQuestionSelector = "//span[contains(@id, 'q_word')]"
	DefaultInputSelector    = "//input[contains(@id, 'translateFallingWordAnswer')]"
	DefaultSubmitSelector   = "//button[contains(@id, 'translateFallingWordSubmitBtn')]"
	DefaultOverlaySelector  = "//div[contains(@class, 'overlay')]"
)

// Selectors identify the page elements the loop interacts with
type Selectors struct {
	Question string
	Input    string
	Submit   string
	Overlay  string
}

// Options controls selectors and wait ceilings of the loop
type Options struct {
	Selectors Selectors

	QuestionTimeout time.Duration // wait for the next question
	ElementTimeout  time.Duration // wait for input/submit presence, visibility and clickability
	OverlayTimeout  time.Duration // wait for a blocking overlay to go away
	Cooldown        time.Duration // wait for the question to change after submitting
	PollInterval    time.Duration
}

// DefaultOptions - returns options matching the live quiz page
func DefaultOptions() Options {
	return Options{
		Selectors: Selectors{
			Question: DefaultQuestionSelector,
			Input:    DefaultInputSelector,
			Submit:   DefaultSubmitSelector,
			Overlay:  DefaultOverlaySelector,
		},
		QuestionTimeout: 10 * time.Second,
		ElementTimeout:  10 * time.Second,
		OverlayTimeout:  20 * time.Second,
		Cooldown:        3 * time.Second,
		PollInterval:    250 * time.Millisecond,
	}
}

// withDefaults fills zero values from DefaultOptions
func (o Options) withDefaults() Options {
	def := DefaultOptions()

	if o.Selectors.Question == "" {
		o.Selectors.Question = def.Selectors.Question
	}
	if o.Selectors.Input == "" {
		o.Selectors.Input = def.Selectors.Input
	}
	if o.Selectors.Submit == "" {
		o.Selectors.Submit = def.Selectors.Submit
	}
	if o.Selectors.Overlay == "" {
		o.Selectors.Overlay = def.Selectors.Overlay
	}
	if o.QuestionTimeout <= 0 {
		o.QuestionTimeout = def.QuestionTimeout
	}
	if o.ElementTimeout <= 0 {
		o.ElementTimeout = def.ElementTimeout
	}
	if o.OverlayTimeout <= 0 {
		o.OverlayTimeout = def.OverlayTimeout
	}
	if o.Cooldown < 0 {
		o.Cooldown = 0
	}
	if o.PollInterval <= 0 {
		o.PollInterval = def.PollInterval
	}

	return o
}
