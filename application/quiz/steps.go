package quiz

import (
	"context"
	"errors"
	"fmt"

	"wocabot/domain/entities"
	"wocabot/domain/interfaces"
	"wocabot/infrastructure/poll"
)

// awaitQuestion - waits for the question element and reads its normalized word.
// Returns entities.ErrNotFound when no question shows up within the bound.
func (d *Driver) awaitQuestion(ctx context.Context, state *entities.QuizState) error {
	question, err := d.page.WaitForElement(ctx, d.opts.Selectors.Question, d.opts.QuestionTimeout)
	if err != nil {
		return err
	}

	raw, word, err := d.readQuestion(ctx, question)
	if err != nil {
		return err
	}

	state.RawText = raw
	state.Word = word
	return nil
}

// readQuestion - extracts the word, re-reading once if the first read is empty
func (d *Driver) readQuestion(ctx context.Context, question interfaces.Element) (string, string, error) {
	raw, err := question.Text(ctx)
	if err != nil {
		return "", "", fmt.Errorf("read question text: %w", err)
	}
	if word := entities.Normalize(raw); word != "" {
		return raw, word, nil
	}

	html, err := question.OuterHTML(ctx)
	if err != nil {
		d.logger.WithError(err).Warn("Question text is empty and markup could not be read")
	} else {
		d.logger.WithField("html", html).Warn("Question text is empty, re-reading")
	}

	raw, err = question.Text(ctx)
	if err != nil {
		return "", "", fmt.Errorf("re-read question text: %w", err)
	}
	word := entities.Normalize(raw)
	if word == "" {
		return "", "", fmt.Errorf("%w: question text still empty after re-read", entities.ErrInteraction)
	}

	return raw, word, nil
}

// fillInput - prepares the answer input and types the answer key by key.
// A non-empty skip reason means the iteration should go back to AwaitingQuestion.
func (d *Driver) fillInput(ctx context.Context, state *entities.QuizState) (entities.SkipReason, error) {
	input, err := d.page.WaitForElement(ctx, d.opts.Selectors.Input, d.opts.ElementTimeout)
	if errors.Is(err, entities.ErrNotFound) {
		return entities.SkipInputMissing, nil
	}
	if err != nil {
		return "", fmt.Errorf("find answer input: %w", err)
	}

	if err := d.waitOverlayGone(ctx); err != nil {
		return "", err
	}

	if err := input.ScrollIntoView(ctx); err != nil {
		return "", fmt.Errorf("scroll answer input into view: %w", err)
	}

	if set, err := attributeSet(ctx, input, "disabled"); err != nil {
		return "", err
	} else if set {
		return entities.SkipInputDisabled, nil
	}
	if set, err := attributeSet(ctx, input, "readonly"); err != nil {
		return "", err
	} else if set {
		return entities.SkipInputReadOnly, nil
	}

	if err := input.WaitVisible(ctx, d.opts.ElementTimeout); err != nil {
		return "", fmt.Errorf("%w: answer input not visible: %w", entities.ErrNotInteractable, err)
	}
	if err := input.WaitClickable(ctx, d.opts.ElementTimeout); err != nil {
		return "", fmt.Errorf("%w: answer input not clickable: %w", entities.ErrNotInteractable, err)
	}

	if err := input.Click(ctx); err != nil {
		return "", fmt.Errorf("focus answer input: %w", err)
	}
	for _, r := range state.Answer {
		if err := input.PressKey(ctx, string(r)); err != nil {
			return "", fmt.Errorf("type %q: %w", r, err)
		}
	}

	return "", nil
}

// attributeSet - reports whether a boolean HTML attribute is switched on
func attributeSet(ctx context.Context, el interfaces.Element, name string) (bool, error) {
	value, ok, err := el.Attribute(ctx, name)
	if err != nil {
		return false, fmt.Errorf("read %s attribute: %w", name, err)
	}
	return ok && value != "false", nil
}

// overlayPresent - checks for a displayed overlay. Only a missing overlay counts as absent;
// other lookup failures count as still present so a flaky read cannot unblock the input.
func (d *Driver) overlayPresent(ctx context.Context) (bool, error) {
	overlay, err := d.page.FindElement(ctx, d.opts.Selectors.Overlay)
	if errors.Is(err, entities.ErrNotFound) {
		return false, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return true, ctxErr
	}
	if err != nil {
		d.logger.WithError(err).Debug("Overlay lookup failed, treating as present")
		return true, nil
	}

	shown, err := overlay.IsDisplayed(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return true, ctxErr
	}
	if err != nil {
		d.logger.WithError(err).Debug("Overlay visibility check failed, treating as present")
		return true, nil
	}
	return shown, nil
}

// waitOverlayGone - blocks while an overlay is displayed, up to the overlay ceiling
func (d *Driver) waitOverlayGone(ctx context.Context) error {
	present, err := d.overlayPresent(ctx)
	if err != nil {
		return err
	}
	if !present {
		return nil
	}

	d.logger.Warn("Overlay or modal present, waiting for it to disappear")
	err = poll.Until(ctx, d.opts.OverlayTimeout, d.opts.PollInterval, func(ctx context.Context) (bool, error) {
		present, err := d.overlayPresent(ctx)
		return !present, err
	})
	if errors.Is(err, poll.ErrTimeout) {
		return fmt.Errorf("%w: still displayed after %s", entities.ErrBlocked, d.opts.OverlayTimeout)
	}
	if err != nil {
		return err
	}

	d.logger.Info("Overlay disappeared")
	return nil
}

// submit - clicks the submit control. Returns false when the control is missing.
func (d *Driver) submit(ctx context.Context) (bool, error) {
	button, err := d.page.WaitForElement(ctx, d.opts.Selectors.Submit, d.opts.ElementTimeout)
	if errors.Is(err, entities.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find submit control: %w", err)
	}

	if err := button.WaitClickable(ctx, d.opts.ElementTimeout); err != nil {
		return false, fmt.Errorf("%w: submit control not clickable: %w", entities.ErrNotInteractable, err)
	}
	if err := button.Click(ctx); err != nil {
		return false, fmt.Errorf("click submit control: %w", err)
	}

	return true, nil
}

// cooldown - waits until the page shows a different question (or none),
// bounded by the cooldown ceiling. Reaching the ceiling is not an error.
func (d *Driver) cooldown(ctx context.Context, word string) error {
	if d.opts.Cooldown <= 0 {
		return nil
	}

	err := poll.Until(ctx, d.opts.Cooldown, d.opts.PollInterval, func(ctx context.Context) (bool, error) {
		return d.questionChanged(ctx, word), nil
	})
	if errors.Is(err, poll.ErrTimeout) {
		d.logger.WithField("word", word).Debug("Question unchanged after cooldown")
		return nil
	}
	return err
}

// questionChanged - reports whether the current question differs from word.
// Read errors are treated as "not yet" so a re-rendering page does not end the run.
func (d *Driver) questionChanged(ctx context.Context, word string) bool {
	current, err := d.page.FindElement(ctx, d.opts.Selectors.Question)
	if errors.Is(err, entities.ErrNotFound) {
		return true
	}
	if err != nil {
		return false
	}

	text, err := current.Text(ctx)
	if err != nil {
		return false
	}
	return entities.Normalize(text) != word
}
