// Package metrics exposes quiz run counters to prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"wocabot/domain/entities"
	"wocabot/domain/interfaces"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Recorder counts quiz loop events. It satisfies interfaces.RunObserver.
type Recorder struct {
	registry *prometheus.Registry

	questions  prometheus.Counter
	submitted  prometheus.Counter
	skipped    *prometheus.CounterVec
	submitMiss prometheus.Counter
	stops      *prometheus.CounterVec
}

// NewRecorder - creates a recorder on its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		questions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wocabot_questions_seen_total",
			Help: "Total number of quiz words read from the page",
		}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wocabot_answers_submitted_total",
			Help: "Total number of answers typed and submitted",
		}),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wocabot_iterations_skipped_total",
				Help: "Iterations skipped because the answer input could not be used",
			},
			[]string{"reason"},
		),
		submitMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wocabot_submit_missing_total",
			Help: "Answers typed while no submit control was found",
		}),
		stops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wocabot_runs_stopped_total",
				Help: "Quiz runs stopped, by outcome",
			},
			[]string{"outcome"},
		),
	}

	r.registry.MustRegister(r.questions, r.submitted, r.skipped, r.submitMiss, r.stops)
	return r
}

func (r *Recorder) QuestionSeen(word string) {
	r.questions.Inc()
}

func (r *Recorder) AnswerSubmitted(word string) {
	r.submitted.Inc()
}

func (r *Recorder) IterationSkipped(reason entities.SkipReason) {
	r.skipped.WithLabelValues(string(reason)).Inc()
}

func (r *Recorder) SubmitMissing() {
	r.submitMiss.Inc()
}

func (r *Recorder) Stopped(outcome entities.Outcome) {
	r.stops.WithLabelValues(string(outcome)).Inc()
}

// Handler - serves the recorder's registry in the prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Server serves /metrics while a run is in progress
type Server struct {
	srv    *http.Server
	logger *logrus.Logger
}

// Serve - starts the metrics endpoint on addr in the background
func Serve(addr string, recorder *Recorder, logger *logrus.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())

	s := &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}

	go func() {
		logger.Infof("Starting metrics server on %s", addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Metrics server stopped")
		}
	}()

	return s
}

// Shutdown - stops the metrics endpoint
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Ensure Recorder implements RunObserver interface
var _ interfaces.RunObserver = (*Recorder)(nil)
