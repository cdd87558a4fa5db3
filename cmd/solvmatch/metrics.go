package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// promCollector implements solvmatch.MetricsCollector on a private registry
// so a batch run can dump its metrics to a node_exporter textfile.
type promCollector struct {
	registry     *prometheus.Registry
	compounds    *prometheus.CounterVec
	searchTime   prometheus.Histogram
	pairsScored  prometheus.Counter
	compactions  prometheus.Counter
	ratios       *prometheus.CounterVec
	runDuration  prometheus.Gauge
	rowsEmitted  prometheus.Gauge
	lastRunError prometheus.Gauge
}

func newPromCollector() *promCollector {
	c := &promCollector{
		registry: prometheus.NewRegistry(),
		compounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solvmatch_compounds_searched_total",
			Help: "Compounds searched, by outcome",
		}, []string{"status"}),
		searchTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "solvmatch_compound_search_seconds",
			Help:    "Time spent scoring all solvent pairs against one compound",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		pairsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solvmatch_pairs_scored_total",
			Help: "Solvent pairs scored across all compounds",
		}),
		compactions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solvmatch_candidate_compactions_total",
			Help: "Candidate buffer truncations",
		}),
		ratios: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solvmatch_ratio_resolutions_total",
			Help: "Mixing ratio resolutions, by outcome",
		}, []string{"status"}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solvmatch_last_run_duration_seconds",
			Help: "Duration of the last match run",
		}),
		rowsEmitted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solvmatch_last_run_rows",
			Help: "Result rows emitted by the last match run",
		}),
		lastRunError: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solvmatch_last_run_failed",
			Help: "1 if the last match run failed",
		}),
	}

	c.registry.MustRegister(
		c.compounds,
		c.searchTime,
		c.pairsScored,
		c.compactions,
		c.ratios,
		c.runDuration,
		c.rowsEmitted,
		c.lastRunError,
	)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *promCollector) RecordCompoundSearch(pairs, compactions int, d time.Duration, err error) {
	c.compounds.WithLabelValues(status(err)).Inc()
	c.searchTime.Observe(d.Seconds())
	c.pairsScored.Add(float64(pairs))
	c.compactions.Add(float64(compactions))
}

func (c *promCollector) RecordRatioResolution(err error) {
	c.ratios.WithLabelValues(status(err)).Inc()
}

func (c *promCollector) RecordRun(_, rows int, d time.Duration, err error) {
	c.runDuration.Set(d.Seconds())
	c.rowsEmitted.Set(float64(rows))
	if err != nil {
		c.lastRunError.Set(1)
	} else {
		c.lastRunError.Set(0)
	}
}

// WriteTextfile writes all metrics in the text exposition format.
func (c *promCollector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
