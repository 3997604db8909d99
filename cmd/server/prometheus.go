package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"manifestgen/generator"
)

var (
	// Prometheus metrics (gauges)
	promMetrics = struct {
		entriesEmitted  prometheus.Gauge
		addEntries      prometheus.Gauge
		deleteEntries   prometheus.Gauge
		filesProduced   prometheus.Gauge
		liveFiles       prometheus.Gauge
		cascades        prometheus.Gauge
		mergesPerformed prometheus.Gauge
		maxCascadeDepth prometheus.Gauge
	}{
		entriesEmitted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "manifestgen_entries_emitted",
			Help: "Manifest entries emitted so far",
		}),
		addEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "manifestgen_add_entries",
			Help: "ADD entries produced",
		}),
		deleteEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "manifestgen_delete_entries",
			Help: "DELETE entries produced",
		}),
		filesProduced: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "manifestgen_files_produced",
			Help: "New level-0 files produced by the supplier",
		}),
		liveFiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "manifestgen_live_files",
			Help: "Files currently live in level state",
		}),
		cascades: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "manifestgen_cascades",
			Help: "Generation steps that triggered at least one merge",
		}),
		mergesPerformed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "manifestgen_merges_performed",
			Help: "Individual level merges performed",
		}),
		maxCascadeDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "manifestgen_max_cascade_depth",
			Help: "Deepest level any merge has reached",
		}),
	}
)

func initPrometheusMetrics() {
	prometheus.MustRegister(
		promMetrics.entriesEmitted,
		promMetrics.addEntries,
		promMetrics.deleteEntries,
		promMetrics.filesProduced,
		promMetrics.liveFiles,
		promMetrics.cascades,
		promMetrics.mergesPerformed,
		promMetrics.maxCascadeDepth,
	)
}

func updatePrometheusMetrics(metrics *generator.Metrics, state *genState) {
	promMetrics.entriesEmitted.Set(float64(metrics.EntriesEmitted))
	promMetrics.addEntries.Set(float64(metrics.AddEntries))
	promMetrics.deleteEntries.Set(float64(metrics.DeleteEntries))
	promMetrics.filesProduced.Set(float64(metrics.FilesProduced))
	promMetrics.cascades.Set(float64(metrics.Cascades))
	promMetrics.mergesPerformed.Set(float64(metrics.MergesPerformed))
	promMetrics.maxCascadeDepth.Set(float64(metrics.MaxCascadeDepth))

	levelState := state.state()
	if liveFiles, ok := levelState["liveFiles"].(int); ok {
		promMetrics.liveFiles.Set(float64(liveFiles))
	}
}
