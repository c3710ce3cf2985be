// Package metrics holds the run counters that can be dumped with --metrics
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	InputsAggregated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mash",
		Subsystem: "sketch",
		Name:      "inputs_total",
		Help:      "Total input sources collected from the command line and list files.",
	})
	ReferencesSketched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mash",
		Subsystem: "sketch",
		Name:      "references_total",
		Help:      "Total references sketched.",
	})
	ResiduesSketched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mash",
		Subsystem: "sketch",
		Name:      "residues_total",
		Help:      "Total bases or amino acids read.",
	})
	AdequacyViolations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mash",
		Subsystem: "sketch",
		Name:      "adequacy_violations_total",
		Help:      "Total references too long for the k-mer size at the warning threshold.",
	})
	SketchesWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mash",
		Subsystem: "sketch",
		Name:      "files_written_total",
		Help:      "Total sketch files written.",
	})

	registry = prometheus.NewRegistry()
	once     sync.Once
)

// Init registers collectors, it is safe to call more than once
func Init() {
	once.Do(func() {
		registry.MustRegister(InputsAggregated, ReferencesSketched, ResiduesSketched, AdequacyViolations, SketchesWritten)
	})
}

// WriteTextfile dumps the registered counters in the Prometheus text format
func WriteTextfile(filename string) error {
	Init()
	return prometheus.WriteToTextfile(filename, registry)
}
