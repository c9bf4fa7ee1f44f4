package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	SourcesFetched    uint64            `json:"sources_fetched"`
	SourcesFailed     uint64            `json:"sources_failed"`
	PagesCrawled      uint64            `json:"pages_crawled"`
	AICalls           uint64            `json:"ai_calls"`
	ErrorsTotal       uint64            `json:"errors_total"`
	RunSecondsAvg     float64           `json:"run_seconds_avg"`
	RecordsIngested   map[string]uint64 `json:"records_ingested,omitempty"`
	RecordsSkipped    map[string]uint64 `json:"records_skipped,omitempty"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	sourcesFetched uint64
	sourcesFailed  uint64
	pagesCrawled   uint64
	aiCalls        uint64
	errorsTotal    uint64

	runCount uint64
	runNanos uint64

	statsMu           sync.Mutex
	recordsIngested   = map[string]uint64{}
	recordsSkipped    = map[string]uint64{}
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func IncSourceFetched(_ string) {
	atomic.AddUint64(&sourcesFetched, 1)
}

func IncSourceFailed(_ string) {
	atomic.AddUint64(&sourcesFailed, 1)
}

func IncPagesCrawled(_ string) {
	atomic.AddUint64(&pagesCrawled, 1)
}

func IncAICall(_ string) {
	atomic.AddUint64(&aiCalls, 1)
}

func AddRecordsIngested(source string, n int) {
	if n <= 0 {
		return
	}
	statsMu.Lock()
	recordsIngested[orUnknown(source)] += uint64(n)
	statsMu.Unlock()
}

func IncRecordSkipped(source string) {
	statsMu.Lock()
	recordsSkipped[orUnknown(source)]++
	statsMu.Unlock()
}

func ObserveRunDuration(seconds float64) {
	if seconds <= 0 {
		return
	}
	atomic.AddUint64(&runCount, 1)
	atomic.AddUint64(&runNanos, uint64(seconds*1e9))
}

func IncError(errType, component string) {
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[orUnknown(errType)]++
	errorsByComponent[orUnknown(component)]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	ingestedCopy := copyMap(recordsIngested)
	skippedCopy := copyMap(recordsSkipped)
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&runCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&runNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		SourcesFetched:    atomic.LoadUint64(&sourcesFetched),
		SourcesFailed:     atomic.LoadUint64(&sourcesFailed),
		PagesCrawled:      atomic.LoadUint64(&pagesCrawled),
		AICalls:           atomic.LoadUint64(&aiCalls),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		RunSecondsAvg:     avg,
		RecordsIngested:   ingestedCopy,
		RecordsSkipped:    skippedCopy,
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func copyMap(src map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
