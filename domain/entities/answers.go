package entities

import (
	"fmt"
	"strings"
)

// AnswerMap maps a normalized quiz word to the answer that has to be typed.
// It is built once before the loop starts and never mutated afterwards.
type AnswerMap struct {
	answers map[string]string
}

// Normalize - trims surrounding whitespace and lowercases a word
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// NewAnswerMap - builds an AnswerMap from raw word/answer pairs.
// Keys are normalized; two source keys collapsing to the same word are rejected.
func NewAnswerMap(raw map[string]string) (AnswerMap, error) {
	answers := make(map[string]string, len(raw))
	sources := make(map[string]string, len(raw))

	for word, answer := range raw {
		key := Normalize(word)
		if key == "" {
			return AnswerMap{}, fmt.Errorf("%w: empty word with answer %q", ErrLoad, answer)
		}
		if prev, ok := sources[key]; ok {
			return AnswerMap{}, fmt.Errorf("%w: words %q and %q both normalize to %q", ErrLoad, prev, word, key)
		}
		sources[key] = word
		answers[key] = answer
	}

	return AnswerMap{answers: answers}, nil
}

// AnswerFor - looks up the answer for a word. The word is normalized first,
// so lookups are case-insensitive on the source word only.
func (m AnswerMap) AnswerFor(word string) (string, bool) {
	answer, ok := m.answers[Normalize(word)]
	return answer, ok
}

// Len returns the number of known words
func (m AnswerMap) Len() int {
	return len(m.answers)
}
