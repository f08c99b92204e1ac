package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Dog":       "dog",
		"  dog\n":   "dog",
		"\tHUND ":   "hund",
		"ice cream": "ice cream",
		" Übermut ": "übermut",
		"":          "",
		"   ":       "",
	}

	for in, want := range cases {
		got := Normalize(in)
		assert.Equal(t, want, got, "Normalize(%q)", in)
		assert.Equal(t, got, Normalize(got), "Normalize must be idempotent for %q", in)
	}
}

func TestAnswerMap_AnswerFor(t *testing.T) {
	m, err := NewAnswerMap(map[string]string{
		"dog":       "hund",
		" Cat ":     "katze",
		"ice cream": "Eis",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	for _, word := range []string{"dog", "Dog", " DOG ", "cat", "CAT", "Ice Cream"} {
		answer, ok := m.AnswerFor(word)
		assert.True(t, ok, "expected %q to be known", word)
		assert.Equal(t, answer, m.answers[Normalize(word)])
	}

	answer, ok := m.AnswerFor("cat")
	require.True(t, ok)
	assert.Equal(t, "katze", answer)

	// answers keep their original case
	answer, ok = m.AnswerFor("ice cream")
	require.True(t, ok)
	assert.Equal(t, "Eis", answer)

	_, ok = m.AnswerFor("bird")
	assert.False(t, ok)
}

func TestNewAnswerMap_RejectsCollidingKeys(t *testing.T) {
	_, err := NewAnswerMap(map[string]string{
		"Dog": "hund",
		"dog": "Hund",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
}

func TestNewAnswerMap_RejectsEmptyWord(t *testing.T) {
	_, err := NewAnswerMap(map[string]string{"  ": "leer"})
	assert.ErrorIs(t, err, ErrLoad)
}

func TestNewAnswerMap_Empty(t *testing.T) {
	m, err := NewAnswerMap(nil)
	require.NoError(t, err)
	assert.Zero(t, m.Len())

	_, ok := m.AnswerFor("dog")
	assert.False(t, ok)
}
