package interfaces

import "wocabot/domain/entities"

// AnswerSource loads the answer dictionary once before a run
type AnswerSource interface {
	// Load reads the whole source and returns an immutable AnswerMap
	Load() (entities.AnswerMap, error)
}

// SessionStore keeps browser login state between runs
type SessionStore interface {
	// Path returns the location of the stored state
	Path() string

	// Exists checks whether a saved state is available
	Exists() bool

	// Load reads the raw saved state
	Load() ([]byte, error)
}
