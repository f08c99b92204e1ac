package terminal

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterGate_ReleasesOnEnter(t *testing.T) {
	var out bytes.Buffer
	gate := NewEnterGate(strings.NewReader("\n"), &out)

	require.NoError(t, gate.Wait(context.Background()))
	assert.Contains(t, out.String(), "press Enter")
}

func TestEnterGate_ReleasesOnEOF(t *testing.T) {
	gate := NewEnterGate(strings.NewReader(""), io.Discard)

	assert.NoError(t, gate.Wait(context.Background()))
}

func TestEnterGate_Canceled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := NewEnterGate(r, io.Discard).Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTimerGate_Waits(t *testing.T) {
	var out bytes.Buffer
	gate := NewTimerGate(15*time.Millisecond, &out)

	start := time.Now()
	require.NoError(t, gate.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	assert.Contains(t, out.String(), "Starting in 15ms")
}

func TestNewGate(t *testing.T) {
	assert.IsType(t, &EnterGate{}, newGate(0, strings.NewReader(""), io.Discard))
	assert.IsType(t, &TimerGate{}, newGate(time.Second, strings.NewReader(""), io.Discard))
}
