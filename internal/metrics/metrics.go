package metrics

import (
    "sync"
    "time"

    "github.com/prometheus/client_golang/prometheus"
)

var (
    registry = prometheus.NewRegistry()
    once     sync.Once

    providerReqs = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "studyguide",
            Name:      "provider_requests_total",
            Help:      "Total provider requests by provider, model and result",
        },
        []string{"provider", "model", "result"},
    )

    providerLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "studyguide",
            Name:      "provider_request_duration_seconds",
            Help:      "Duration of provider requests by provider and model",
            Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
        },
        []string{"provider", "model"},
    )

    chaptersProcessed = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "studyguide",
            Name:      "chapters_processed_total",
            Help:      "Chapters processed by workflow and outcome (succeeded, skipped, failed)",
        },
        []string{"workflow", "outcome"},
    )

    retriesTotal = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "studyguide",
            Name:      "retries_total",
            Help:      "Provider call retries by error class",
        },
        []string{"class"},
    )

    pagesRecognized = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "studyguide",
            Name:      "pages_total",
            Help:      "Pages gathered by source and result (found, missing)",
        },
        []string{"source", "result"},
    )
)

// Init registers collectors. Safe to call more than once.
func Init() {
    once.Do(func() {
        registry.MustRegister(providerReqs, providerLatency, chaptersProcessed, retriesTotal, pagesRecognized)
    })
}

// Registry exposes the gatherer used by WriteTextfile.
func Registry() *prometheus.Registry { return registry }

// WriteTextfile dumps the current values in the node_exporter textfile format.
func WriteTextfile(path string) error {
    if path == "" { return nil }
    return prometheus.WriteToTextfile(path, registry)
}

func ObserveProvider(provider, model, result string, dur time.Duration) {
    providerReqs.WithLabelValues(provider, model, result).Inc()
    providerLatency.WithLabelValues(provider, model).Observe(dur.Seconds())
}

func IncChapter(workflow, outcome string) { chaptersProcessed.WithLabelValues(workflow, outcome).Inc() }
func IncRetry(class string)               { retriesTotal.WithLabelValues(class).Inc() }
func IncPage(source string, found bool) {
    pagesRecognized.WithLabelValues(source, foundStr(found)).Inc()
}

func foundStr(b bool) string { if b { return "found" }; return "missing" }
