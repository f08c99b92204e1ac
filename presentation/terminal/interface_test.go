package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"wocabot/application/quiz"
	"wocabot/domain/entities"
	"wocabot/domain/interfaces"
	"wocabot/infrastructure/config"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyPage never shows a question, so the quiz loop ends right away
type emptyPage struct {
	navigated   []string
	navigateErr error
	closed      int
}

func (p *emptyPage) Navigate(ctx context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return p.navigateErr
}

func (p *emptyPage) WaitForElement(ctx context.Context, selector string, timeout time.Duration) (interfaces.Element, error) {
	return nil, entities.ErrNotFound
}

func (p *emptyPage) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	return nil, entities.ErrNotFound
}

func (p *emptyPage) Close() error {
	p.closed++
	return nil
}

type answerSourceFunc func() (entities.AnswerMap, error)

func (f answerSourceFunc) Load() (entities.AnswerMap, error) { return f() }

func testConfig() *config.Config {
	return &config.Config{
		Quiz: config.QuizConfig{
			URL:             "https://quiz.test",
			AnswersPath:     "answers.json",
			QuestionTimeout: 10 * time.Millisecond,
			ElementTimeout:  10 * time.Millisecond,
			OverlayTimeout:  10 * time.Millisecond,
			PollInterval:    time.Millisecond,
		},
		Browser: config.BrowserConfig{Driver: "playwright"},
		Log:     config.LogConfig{Level: "info"},
	}
}

func newTestInterface(t *testing.T, page *emptyPage, gateInput io.Reader) (*TerminalInterface, *bytes.Buffer, *int) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	out := &bytes.Buffer{}
	opened := 0

	ti := &TerminalInterface{
		cfg:    testConfig(),
		logger: logger,
		answers: answerSourceFunc(func() (entities.AnswerMap, error) {
			return entities.NewAnswerMap(map[string]string{"dog": "hund"})
		}),
		openPage: func() (interfaces.Page, error) {
			opened++
			return page, nil
		},
		gate: NewEnterGate(gateInput, out),
		out:  out,
	}
	return ti, out, &opened
}

func TestRun_NoQuestionEndsNormally(t *testing.T) {
	page := &emptyPage{}
	ti, out, opened := newTestInterface(t, page, strings.NewReader("\n"))

	report, err := ti.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entities.OutcomeNoQuestionFound, report.Outcome)
	assert.Equal(t, 1, *opened)
	assert.Equal(t, []string{"https://quiz.test"}, page.navigated)
	assert.Equal(t, 1, page.closed)
	assert.Contains(t, out.String(), "press Enter")
}

func TestRun_LoadErrorSkipsBrowser(t *testing.T) {
	page := &emptyPage{}
	ti, _, opened := newTestInterface(t, page, strings.NewReader("\n"))
	ti.answers = answerSourceFunc(func() (entities.AnswerMap, error) {
		return entities.AnswerMap{}, entities.ErrLoad
	})

	report, err := ti.Run(context.Background())
	assert.ErrorIs(t, err, entities.ErrLoad)
	assert.Empty(t, report.Outcome)
	assert.Equal(t, 0, *opened)
	assert.Equal(t, 0, page.closed)
}

func TestRun_OpenFailure(t *testing.T) {
	ti, _, _ := newTestInterface(t, &emptyPage{}, strings.NewReader("\n"))
	ti.openPage = func() (interfaces.Page, error) {
		return nil, errors.New("chromedriver not found")
	}

	_, err := ti.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize browser")
}

func TestRun_NavigateFailureClosesPage(t *testing.T) {
	page := &emptyPage{navigateErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	ti, _, _ := newTestInterface(t, page, strings.NewReader("\n"))

	report, err := ti.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, report.Outcome)
	assert.Equal(t, 1, page.closed)
}

func TestRun_CanceledAtGateClosesPage(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	page := &emptyPage{}
	ti, _, _ := newTestInterface(t, page, r)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := ti.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, page.closed)
}

func TestPrintReport(t *testing.T) {
	ti, out, _ := newTestInterface(t, &emptyPage{}, strings.NewReader(""))

	ti.PrintReport(entities.RunReport{
		Outcome:           entities.OutcomeWordUnknown,
		LastWord:          "cat",
		QuestionsSeen:     4,
		AnswersSubmitted:  3,
		IterationsSkipped: 1,
		Elapsed:           12 * time.Second,
	})

	assert.Contains(t, out.String(), `Stopped: word_unknown (last word "cat")`)
	assert.Contains(t, out.String(), "Answered 3 of 4 questions, 1 skipped, 0 without submit, in 12s")
}

func TestQuizOptions(t *testing.T) {
	cfg := testConfig().Quiz
	cfg.InputSelector = "//input[@id='answer']"
	cfg.Cooldown = 2 * time.Second

	opts := quizOptions(cfg)

	assert.Equal(t, quiz.Selectors{Input: "//input[@id='answer']"}, opts.Selectors)
	assert.Equal(t, 10*time.Millisecond, opts.QuestionTimeout)
	assert.Equal(t, 2*time.Second, opts.Cooldown)
	assert.Equal(t, time.Millisecond, opts.PollInterval)
}
