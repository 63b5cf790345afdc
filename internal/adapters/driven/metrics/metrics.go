// Package metrics exports model and usage events as Prometheus metrics.
//
// Observer implements driven.EventObserver and is registered with the
// generator, retriever and model services alongside the stats recorder.
// Each Observer owns its registry so tests and multiple servers never
// collide on the global one.
package metrics

import (
	"context"
	"net/http"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
)

// Ensure Observer implements the interface.
var _ driven.EventObserver = (*Observer)(nil)

const namespace = "quotechain"

// Observer counts generated sentences, retrieved quotes and model updates.
type Observer struct {
	registry *prometheus.Registry

	sentences      *prometheus.CounterVec
	sentenceLength prometheus.Histogram
	retrievals     *prometheus.CounterVec
	modelUpdates   *prometheus.CounterVec
}

// New creates an Observer with its own registry. Go runtime and process
// collectors are registered too.
func New() *Observer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Observer{
		registry: reg,
		sentences: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "markov",
				Name:      "sentences_generated_total",
				Help:      "Sentences generated, by owner kind",
			},
			[]string{"owner"},
		),
		sentenceLength: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "markov",
				Name:      "sentence_length_chars",
				Help:      "Length of generated sentences in characters",
				Buckets:   []float64{20, 40, 80, 140, 200, 280, 500},
			},
		),
		retrievals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quotes",
				Name:      "retrieved_total",
				Help:      "Random quotes returned, by owner kind",
			},
			[]string{"owner"},
		),
		modelUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "markov",
				Name:      "model_updates_total",
				Help:      "Persisted text model updates, by owner kind and outcome",
			},
			[]string{"owner", "outcome"},
		),
	}
}

// Registry returns the registry the metrics are registered with.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{Registry: o.registry})
}

// SentenceGenerated implements driven.EventObserver.
func (o *Observer) SentenceGenerated(_ context.Context, ev domain.SentenceGenerated) error {
	o.sentences.WithLabelValues(ev.Owner.Kind.String()).Inc()
	o.sentenceLength.Observe(float64(utf8.RuneCountInString(ev.Sentence)))
	return nil
}

// QuoteRetrieved implements driven.EventObserver.
func (o *Observer) QuoteRetrieved(_ context.Context, ev domain.QuoteRetrieved) error {
	o.retrievals.WithLabelValues(ev.Owner.Kind.String()).Inc()
	return nil
}

// ModelUpdated implements driven.EventObserver.
func (o *Observer) ModelUpdated(_ context.Context, ev domain.ModelUpdated) error {
	o.modelUpdates.WithLabelValues(ev.Owner.Kind.String(), ev.Outcome.String()).Inc()
	return nil
}
