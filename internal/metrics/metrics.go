package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DocumentsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "litpro_documents_parsed_total",
		Help: "Total number of literate documents parsed.",
	})

	CellsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "litpro_cells_extracted_total",
		Help: "Total number of cells extracted across all parses.",
	})

	Diagnostics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "litpro_diagnostics_total",
		Help: "Total number of non-fatal diagnostics, labelled by kind.",
	}, []string{"kind"})

	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "litpro_runs_total",
		Help: "Total number of execution simulations, labelled by status.",
	}, []string{"status"})

	ResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "litpro_resolve_duration_ms",
		Help:    "Parse-and-resolve latency in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250},
	})

	Reloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "litpro_document_reloads_total",
		Help: "Total number of document reloads, labelled by outcome.",
	}, []string{"outcome"})
)
