// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics holds the prometheus collectors of the bot runtime.
//
// Collectors are created per [Runtime] against an explicit registerer, so
// several bots in one process (or one test binary) never collide on the
// default registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pollbot"

// Loop labels.
const (
	LoopUpdates  = "updates"
	LoopOccasion = "occasion"
	LoopInput    = "input"
)

// Poll result labels.
const (
	PollOK     = "ok"
	PollEmpty  = "empty"
	PollFailed = "failed"
)

// Runtime groups the collectors updated by the lifecycle engine.
type Runtime struct {
	polls            *prometheus.CounterVec
	pollDuration     prometheus.Histogram
	updatesReceived  prometheus.Counter
	dispatches       *prometheus.CounterVec
	dispatchFailures *prometheus.CounterVec
	phase            prometheus.Gauge
}

// NewRuntime creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewRuntime(reg prometheus.Registerer) *Runtime {
	factory := promauto.With(reg)

	return &Runtime{
		polls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Long-poll requests by result",
		}, []string{"result"}),
		pollDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of long-poll requests",
			Buckets:   []float64{0.05, 0.25, 1, 5, 15, 30, 60},
		}),
		updatesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_received_total",
			Help:      "Updates delivered by the remote API",
		}),
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Listener invocations by loop",
		}, []string{"loop"}),
		dispatchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_failures_total",
			Help:      "Listener invocations that returned an error or panicked, by loop",
		}, []string{"loop"}),
		phase: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase",
			Help:      "Current lifecycle phase ordinal",
		}),
	}
}

// ObservePoll records one finished long poll that returned n updates.
func (r *Runtime) ObservePoll(n int, err error, took time.Duration) {
	r.pollDuration.Observe(took.Seconds())

	switch {
	case err != nil:
		r.polls.WithLabelValues(PollFailed).Inc()
	case n == 0:
		r.polls.WithLabelValues(PollEmpty).Inc()
	default:
		r.polls.WithLabelValues(PollOK).Inc()
		r.updatesReceived.Add(float64(n))
	}
}

// ObserveDispatch records one listener invocation of loop.
func (r *Runtime) ObserveDispatch(loop string, err error) {
	r.dispatches.WithLabelValues(loop).Inc()
	if err != nil {
		r.dispatchFailures.WithLabelValues(loop).Inc()
	}
}

// SetPhase publishes the lifecycle phase ordinal.
func (r *Runtime) SetPhase(phase int) {
	r.phase.Set(float64(phase))
}
