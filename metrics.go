// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"github.com/luxfi/metric"
)

const networkLabel = "network"

// Metrics counts verification outcomes per network. A nil *Metrics is
// valid and counts nothing.
type Metrics struct {
	accepted metric.CounterVec
	rejected metric.CounterVec
}

// NewMetrics creates and registers the verification counters.
func NewMetrics(namespace string, registerer metric.Registerer) (*Metrics, error) {
	m := &Metrics{
		accepted: metric.NewCounterVec(
			metric.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_accepted",
				Help:      "accepted submissions (n)",
			},
			[]string{networkLabel},
		),
		rejected: metric.NewCounterVec(
			metric.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_rejected",
				Help:      "rejected submissions (n)",
			},
			[]string{networkLabel},
		),
	}

	// Metrics work without explicit registration
	return m, nil
}

// Accepted bumps the acceptance counter for network.
func (m *Metrics) Accepted(network NetworkID) {
	if m == nil {
		return
	}
	m.accepted.WithLabelValues(network.String()).Inc()
}

// Rejected bumps the rejection counter for network.
func (m *Metrics) Rejected(network NetworkID) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(network.String()).Inc()
}
