// Package quiz drives the falling-word quiz: it reads the current word,
// types the known answer, submits it and waits for the next word.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"wocabot/domain/entities"
	"wocabot/domain/interfaces"
	"wocabot/infrastructure/poll"

	"github.com/sirupsen/logrus"
)

// Driver runs the poll-match-act loop against one page.
// The page is owned by the driver for the duration of Run and closed when Run returns.
type Driver struct {
	page     interfaces.Page
	answers  entities.AnswerMap
	opts     Options
	observer interfaces.RunObserver
	logger   *logrus.Logger

	closeOnce sync.Once
}

// NewDriver - creates new quiz driver
func NewDriver(page interfaces.Page, answers entities.AnswerMap, opts Options, observer interfaces.RunObserver, logger *logrus.Logger) *Driver {
	if observer == nil {
		observer = interfaces.NopObserver{}
	}

	return &Driver{
		page:     page,
		answers:  answers,
		opts:     opts.withDefaults(),
		observer: observer,
		logger:   logger,
	}
}

// Run - answers questions until the quiz ends, a word is unknown, or a fault occurs.
// The returned error is nil for the two normal endings (no question, unknown word).
func (d *Driver) Run(ctx context.Context) (entities.RunReport, error) {
	defer d.release()

	report := entities.RunReport{StartedAt: time.Now()}
	d.logger.WithField("words", d.answers.Len()).Info("Quiz loop started")

	for iteration := 1; ; iteration++ {
		if ctx.Err() != nil {
			return d.finish(&report, nil, entities.OutcomeCanceled, ctx.Err())
		}

		state := &entities.QuizState{Iteration: iteration, State: entities.StateAwaitingQuestion}
		outcome, err := d.iterate(ctx, state, &report)
		if outcome.IsTerminal() {
			return d.finish(&report, state, outcome, err)
		}
	}
}

// iterate - runs one cycle from AwaitingQuestion to Cooldown
func (d *Driver) iterate(ctx context.Context, state *entities.QuizState, report *entities.RunReport) (entities.Outcome, error) {
	log := d.logger.WithField("iteration", state.Iteration)

	err := d.awaitQuestion(ctx, state)
	if errors.Is(err, entities.ErrNotFound) {
		log.Info("No more questions found")
		return entities.OutcomeNoQuestionFound, nil
	}
	if err != nil {
		return d.fault(ctx, state, err)
	}

	report.QuestionsSeen++
	report.LastWord = state.Word
	d.observer.QuestionSeen(state.Word)
	log = log.WithField("word", state.Word)
	log.Info("Detected word")

	state.State = entities.StateMatchingAnswer
	answer, ok := d.answers.AnswerFor(state.Word)
	if !ok {
		log.Warn("Word not found in dictionary, stopping")
		return entities.OutcomeWordUnknown, nil
	}
	state.Answer = answer
	log = log.WithField("answer", answer)

	state.State = entities.StateFillingInput
	skip, err := d.fillInput(ctx, state)
	if err != nil {
		return d.fault(ctx, state, err)
	}
	if skip != "" {
		report.IterationsSkipped++
		d.observer.IterationSkipped(skip)
		log.WithField("reason", skip).Warn("Skipping iteration")
		if err := poll.Sleep(ctx, d.opts.PollInterval); err != nil {
			return d.fault(ctx, state, err)
		}
		return entities.OutcomeContinue, nil
	}
	log.Info("Typed answer")

	state.State = entities.StateSubmitting
	submitted, err := d.submit(ctx)
	if err != nil {
		return d.fault(ctx, state, err)
	}
	if submitted {
		report.AnswersSubmitted++
		d.observer.AnswerSubmitted(state.Word)
		log.Info("Clicked submit")
	} else {
		report.SubmitsMissing++
		d.observer.SubmitMissing()
		log.WithField("selector", d.opts.Selectors.Submit).Warn("SubmitMissing: submit control not found, answer may not have been sent")
	}

	state.State = entities.StateCooldown
	if err := d.cooldown(ctx, state.Word); err != nil {
		return d.fault(ctx, state, err)
	}

	return entities.OutcomeContinue, nil
}

// fault - converts an error into a terminal outcome
func (d *Driver) fault(ctx context.Context, state *entities.QuizState, err error) (entities.Outcome, error) {
	if ctx.Err() != nil {
		return entities.OutcomeCanceled, ctx.Err()
	}

	d.logger.WithFields(logrus.Fields{
		"iteration": state.Iteration,
		"state":     state.State,
		"word":      state.Word,
	}).WithError(err).Error("Interaction failed, stopping")

	if !errors.Is(err, entities.ErrInteraction) {
		err = fmt.Errorf("%w: %w", entities.ErrInteraction, err)
	}
	return entities.OutcomeInteractionError, err
}

// finish - fills the report for a terminal outcome
func (d *Driver) finish(report *entities.RunReport, state *entities.QuizState, outcome entities.Outcome, err error) (entities.RunReport, error) {
	report.Outcome = outcome
	report.Err = err
	report.Elapsed = time.Since(report.StartedAt)
	d.observer.Stopped(outcome)

	fields := logrus.Fields{}
	if state != nil {
		fields["stopped_in"] = state.State
		fields["iteration"] = state.Iteration
		state.State = entities.StateStopped
	}

	d.logger.WithFields(fields).WithFields(logrus.Fields{
		"state":     entities.StateStopped,
		"reason":    outcome,
		"questions": report.QuestionsSeen,
		"submitted": report.AnswersSubmitted,
		"skipped":   report.IterationsSkipped,
		"elapsed":   report.Elapsed.Round(time.Millisecond),
	}).Info("Quiz loop stopped")

	if outcome == entities.OutcomeInteractionError || outcome == entities.OutcomeCanceled {
		return *report, err
	}
	return *report, nil
}

// release - closes the page exactly once
func (d *Driver) release() {
	d.closeOnce.Do(func() {
		if err := d.page.Close(); err != nil {
			d.logger.WithError(err).Warn("Failed to close browser session")
		}
	})
}
