package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordRequest(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/tickets", "GET", 200, 30*time.Millisecond)
	m.RecordRequest("/tickets", "GET", 200, 20*time.Millisecond)
	m.RecordRequest("/tickets", "POST", 409, 5*time.Millisecond)

	requests := m.Requests()
	assert.Equal(t, int64(2), requests["/tickets|GET|200"])
	assert.Equal(t, int64(1), requests["/tickets|POST|409"])

	timings := m.Timings()
	assert.Equal(t, int64(50), timings["/tickets|GET|200"])
	assert.Equal(t, int64(5), timings["/tickets|POST|409"])
}

func TestMetricsRecordError(t *testing.T) {
	m := NewMetrics()

	m.RecordError("/tickets", "POST", "DUPLICATE_CODE")
	m.RecordError("/tickets", "POST", "DUPLICATE_CODE")

	assert.Equal(t, int64(2), m.Errors()["/tickets|POST|DUPLICATE_CODE"])
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	m.RecordError("/tickets", "GET", "NOT_FOUND")
}
