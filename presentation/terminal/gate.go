package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"wocabot/infrastructure/poll"
)

// Gate holds the run until the operator is ready (usually: logged in)
type Gate interface {
	Wait(ctx context.Context) error
}

// EnterGate waits for the operator to press Enter
type EnterGate struct {
	in  io.Reader
	out io.Writer
}

func NewEnterGate(in io.Reader, out io.Writer) *EnterGate {
	return &EnterGate{in: in, out: out}
}

// Wait - prints the prompt and blocks until a line is read or ctx ends.
// A closed input (EOF) also releases the gate.
func (g *EnterGate) Wait(ctx context.Context) error {
	fmt.Fprintln(g.out, "Log in and open the falling-word quiz, then press Enter to start...")

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(g.in).ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("read acknowledgment: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TimerGate releases the run after a fixed delay, for unattended runs with a saved login
type TimerGate struct {
	delay time.Duration
	out   io.Writer
}

func NewTimerGate(delay time.Duration, out io.Writer) *TimerGate {
	return &TimerGate{delay: delay, out: out}
}

func (g *TimerGate) Wait(ctx context.Context) error {
	fmt.Fprintf(g.out, "Starting in %s...\n", g.delay)
	return poll.Sleep(ctx, g.delay)
}

// newGate - picks the timer gate when a login wait is configured
func newGate(loginWait time.Duration, in io.Reader, out io.Writer) Gate {
	if loginWait > 0 {
		return NewTimerGate(loginWait, out)
	}
	return NewEnterGate(in, out)
}
