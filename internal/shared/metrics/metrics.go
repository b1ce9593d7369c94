package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	extractionsTotal      atomic.Uint64
	extractionFailedTotal atomic.Uint64
	searchesTotal         atomic.Uint64
	searchJobsFoundTotal  atomic.Uint64
	matchRunsTotal        atomic.Uint64
	matchBatchFailedTotal atomic.Uint64
	llmRequestsTotal      atomic.Uint64
	llmRequestFailedTotal atomic.Uint64

	searchDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
	matchDuration  = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncExtraction increments the extraction counter.
func IncExtraction() { extractionsTotal.Add(1) }

// IncExtractionFailed increments the failed-extraction counter.
func IncExtractionFailed() { extractionFailedTotal.Add(1) }

// IncSearch increments the search counter.
func IncSearch() { searchesTotal.Add(1) }

// AddSearchJobsFound adds to the found-jobs counter.
func AddSearchJobsFound(n int) {
	if n > 0 {
		searchJobsFoundTotal.Add(uint64(n))
	}
}

// IncMatchRun increments the match-run counter.
func IncMatchRun() { matchRunsTotal.Add(1) }

// IncMatchBatchFailed increments the failed-batch counter.
func IncMatchBatchFailed() { matchBatchFailedTotal.Add(1) }

// IncLLMRequest increments the LLM request counter.
func IncLLMRequest() { llmRequestsTotal.Add(1) }

// IncLLMRequestFailed increments the failed LLM request counter.
func IncLLMRequestFailed() { llmRequestFailedTotal.Add(1) }

// ObserveSearchDurationMs records an aggregation duration in milliseconds.
func ObserveSearchDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	searchDuration.Observe(value)
}

// ObserveMatchDurationMs records a scoring duration in milliseconds.
func ObserveMatchDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	matchDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "extractions_total", "Total text extractions attempted", extractionsTotal.Load())
	writeCounter(&buf, "extractions_failed_total", "Total text extractions failed", extractionFailedTotal.Load())
	writeCounter(&buf, "searches_total", "Total job searches", searchesTotal.Load())
	writeCounter(&buf, "search_jobs_found_total", "Total normalized jobs returned by searches", searchJobsFoundTotal.Load())
	writeCounter(&buf, "match_runs_total", "Total match scoring runs", matchRunsTotal.Load())
	writeCounter(&buf, "match_batches_failed_total", "Total scoring batches degraded to zero matches", matchBatchFailedTotal.Load())
	writeCounter(&buf, "llm_requests_total", "Total LLM completions requested", llmRequestsTotal.Load())
	writeCounter(&buf, "llm_requests_failed_total", "Total LLM completions failed", llmRequestFailedTotal.Load())
	writeHistogram(&buf, "search_duration_ms", "Job search duration in milliseconds", searchDuration.Snapshot())
	writeHistogram(&buf, "match_duration_ms", "Match scoring duration in milliseconds", matchDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	// Bucket counts are already cumulative; Observe increments every bucket
	// whose bound admits the value.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
