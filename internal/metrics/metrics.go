// metrics регистрирует Prometheus-метрики пайплайна: исходящие HTTP-вызовы,
// объём ленты и результат доставки событий в аналитику.
//
// Все методы безопасны для nil-получателя: компоненты можно собирать без метрик.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "social_stats"

// Metrics - набор метрик сервиса.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	feedItems        prometheus.Counter
	notes            prometheus.Gauge
	analyticsEvents  *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outgoing HTTP requests by upstream host and status code.",
		}, []string{"host", "code"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of outgoing HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		feedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_items_total",
			Help:      "Feed items accumulated across all pipeline runs.",
		}),
		notes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notes_last_run",
			Help:      "Notes authored by the configured handle in the last report.",
		}),
		analyticsEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_events_total",
			Help:      "Analytics capture events by delivery result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.upstreamRequests,
		m.upstreamDuration,
		m.feedItems,
		m.notes,
		m.analyticsEvents,
	)

	return m
}

// ObserveUpstream фиксирует исходящий вызов. code == 0 - транспортная ошибка.
func (m *Metrics) ObserveUpstream(host string, code int, dur time.Duration) {
	if m == nil {
		return
	}

	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}

	m.upstreamRequests.WithLabelValues(host, label).Inc()
	m.upstreamDuration.WithLabelValues(host).Observe(dur.Seconds())
}

// AddFeedItems увеличивает счётчик элементов ленты.
func (m *Metrics) AddFeedItems(n int) {
	if m == nil || n <= 0 {
		return
	}

	m.feedItems.Add(float64(n))
}

// SetNotes выставляет число заметок последнего отчёта.
func (m *Metrics) SetNotes(n int) {
	if m == nil {
		return
	}

	m.notes.Set(float64(n))
}

// AnalyticsEvent фиксирует результат доставки одного события.
func (m *Metrics) AnalyticsEvent(delivered bool) {
	if m == nil {
		return
	}

	result := "failed"
	if delivered {
		result = "sent"
	}

	m.analyticsEvents.WithLabelValues(result).Inc()
}
