package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wocabot/domain/entities"
	"wocabot/domain/interfaces"
)

// fakePage simulates the quiz page. Clicking submit advances to the next question.
// Every call is recorded so tests can assert the exact interaction sequence.
type fakePage struct {
	opts Options

	questions    []string
	pos          int
	emptyReads   int // question Text() returns "" this many times first
	questionWait int // successful question waits allowed; 0 = unlimited

	inputMissing  bool
	disabledTimes int // input reports disabled=true this many times
	readOnly      bool
	inputHidden   bool
	inputClickErr error

	submitMissing bool

	overlayShows   int // overlay reports displayed this many times; -1 = forever
	overlayChecked int
	overlayErrs    int // overlay lookup fails with a transport error this many times

	lookupDelay time.Duration // FindElement latency, like a round trip to the browser

	calls  []string
	closed int
}

func newFakePage(opts Options, questions ...string) *fakePage {
	return &fakePage{opts: opts, questions: questions}
}

func (p *fakePage) record(format string, args ...interface{}) {
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

// interactions returns clicks and keystrokes only
func (p *fakePage) interactions() []string {
	var out []string
	for _, c := range p.calls {
		if strings.HasPrefix(c, "click:") || strings.HasPrefix(c, "key:") {
			out = append(out, c)
		}
	}
	return out
}

func (p *fakePage) count(call string) int {
	n := 0
	for _, c := range p.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (p *fakePage) kind(selector string) string {
	switch selector {
	case p.opts.Selectors.Question:
		return "question"
	case p.opts.Selectors.Input:
		return "input"
	case p.opts.Selectors.Submit:
		return "submit"
	case p.opts.Selectors.Overlay:
		return "overlay"
	}
	return "unknown"
}

func (p *fakePage) lookup(kind string) (interfaces.Element, error) {
	switch kind {
	case "question":
		if p.pos >= len(p.questions) {
			return nil, entities.ErrNotFound
		}
	case "input":
		if p.inputMissing {
			return nil, entities.ErrNotFound
		}
	case "submit":
		if p.submitMissing {
			return nil, entities.ErrNotFound
		}
	case "overlay":
		if p.overlayErrs > 0 {
			p.overlayErrs--
			return nil, fmt.Errorf("websocket: close sent")
		}
		if p.overlayShows == 0 {
			return nil, entities.ErrNotFound
		}
	default:
		return nil, entities.ErrNotFound
	}
	return &fakeElement{page: p, kind: kind}, nil
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.record("navigate:%s", url)
	return nil
}

func (p *fakePage) WaitForElement(ctx context.Context, selector string, timeout time.Duration) (interfaces.Element, error) {
	kind := p.kind(selector)
	p.record("wait:%s", kind)

	if kind == "question" && p.questionWait > 0 {
		if p.count("wait:question") > p.questionWait {
			return nil, entities.ErrNotFound
		}
	}
	return p.lookup(kind)
}

func (p *fakePage) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	kind := p.kind(selector)
	p.record("find:%s", kind)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.lookupDelay > 0 {
		time.Sleep(p.lookupDelay)
	}
	return p.lookup(kind)
}

func (p *fakePage) Close() error {
	p.closed++
	return nil
}

type fakeElement struct {
	page *fakePage
	kind string
}

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	e.page.record("text:%s", e.kind)
	if e.kind != "question" {
		return "", nil
	}
	if e.page.emptyReads > 0 {
		e.page.emptyReads--
		return "  ", nil
	}
	if e.page.pos >= len(e.page.questions) {
		return "", fmt.Errorf("element detached")
	}
	return e.page.questions[e.page.pos], nil
}

func (e *fakeElement) OuterHTML(ctx context.Context) (string, error) {
	e.page.record("html:%s", e.kind)
	return `<span id="q_word"></span>`, nil
}

func (e *fakeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	e.page.record("attr:%s:%s", e.kind, name)
	if e.kind != "input" {
		return "", false, nil
	}

	switch name {
	case "disabled":
		if e.page.disabledTimes > 0 {
			e.page.disabledTimes--
			return "true", true, nil
		}
	case "readonly":
		if e.page.readOnly {
			return "", true, nil
		}
	}
	return "", false, nil
}

func (e *fakeElement) IsDisplayed(ctx context.Context) (bool, error) {
	e.page.record("displayed:%s", e.kind)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if e.kind != "overlay" {
		return true, nil
	}

	e.page.overlayChecked++
	if e.page.overlayShows < 0 {
		return true, nil
	}
	if e.page.overlayShows > 0 {
		e.page.overlayShows--
		return true, nil
	}
	return false, nil
}

func (e *fakeElement) ScrollIntoView(ctx context.Context) error {
	e.page.record("scroll:%s", e.kind)
	return nil
}

func (e *fakeElement) WaitVisible(ctx context.Context, timeout time.Duration) error {
	e.page.record("visible:%s", e.kind)
	if e.kind == "input" && e.page.inputHidden {
		return fmt.Errorf("timeout %s exceeded", timeout)
	}
	return nil
}

func (e *fakeElement) WaitClickable(ctx context.Context, timeout time.Duration) error {
	e.page.record("clickable:%s", e.kind)
	return nil
}

func (e *fakeElement) Click(ctx context.Context) error {
	e.page.record("click:%s", e.kind)
	if e.kind == "input" && e.page.inputClickErr != nil {
		return e.page.inputClickErr
	}
	if e.kind == "submit" {
		e.page.pos++
	}
	return nil
}

func (e *fakeElement) PressKey(ctx context.Context, key string) error {
	e.page.record("key:%s", key)
	return nil
}
