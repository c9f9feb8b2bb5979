package persist

import (
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// Metrics holds the counters of every persisted slice of the process.
var Metrics = metrics.NewSet()

// WritePrometheus writes all persist metrics in Prometheus text format.
func WritePrometheus(w io.Writer) {
	Metrics.WritePrometheus(w)
}

func counter(name, key string) *metrics.Counter {
	return Metrics.GetOrCreateCounter(fmt.Sprintf(`dpersist_%s_total{key=%q}`, name, key))
}

func observeWrite(key string, start time.Time) {
	Metrics.GetOrCreateHistogram(fmt.Sprintf(`dpersist_write_duration_seconds{key=%q}`, key)).UpdateDuration(start)
}

// StorageReads returns the number of snapshot reads issued for key.
func StorageReads(key string) uint64 {
	return counter("storage_reads", key).Get()
}

// StorageWrites returns the number of successful snapshot writes for key.
func StorageWrites(key string) uint64 {
	return counter("storage_writes", key).Get()
}
