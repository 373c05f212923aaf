package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics tracks the daily invoice jobs: how many invoices each
// run created or transitioned and how long the runs took.
type LifecycleMetrics struct {
	invoicesGenerated *prometheus.CounterVec
	invoicesOverdue   prometheus.Counter
	remindersSent     prometheus.Counter
	jobDuration       *prometheus.HistogramVec
}

var (
	lifecycleMetricsOnce sync.Once
	lifecycleMetrics     *LifecycleMetrics
)

func Lifecycle() *LifecycleMetrics {
	return LifecycleWithConfig(Config{})
}

func LifecycleWithConfig(cfg Config) *LifecycleMetrics {
	lifecycleMetricsOnce.Do(func() {
		lifecycleMetrics = newLifecycleMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return lifecycleMetrics
}

func ResetLifecycleMetricsForTest() {
	lifecycleMetricsOnce = sync.Once{}
	lifecycleMetrics = nil
}

func newLifecycleMetrics(registerer prometheus.Registerer, cfg Config) *LifecycleMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "telecore"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	invoicesGenerated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "telecore_invoices_generated_total",
			Help:        "Invoices handled by the monthly generation run.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // created | skipped | failed
	)

	invoicesOverdue := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "telecore_invoices_overdue_total",
			Help:        "Invoices transitioned from Pending to Overdue.",
			ConstLabels: constLabels,
		},
	)

	remindersSent := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "telecore_due_soon_reminders_sent_total",
			Help:        "Due-soon reminder emails delivered.",
			ConstLabels: constLabels,
		},
	)

	jobDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "telecore_lifecycle_job_duration_seconds",
			Help: "Duration of the scheduled invoice lifecycle jobs.",
			Buckets: []float64{
				0.1, 0.5, 1, 5, 15, 60, 300, 900,
			},
			ConstLabels: constLabels,
		},
		[]string{"job"}, // invoice_generation | overdue_check | due_soon_reminders
	)

	registerer.MustRegister(
		invoicesGenerated,
		invoicesOverdue,
		remindersSent,
		jobDuration,
	)

	return &LifecycleMetrics{
		invoicesGenerated: invoicesGenerated,
		invoicesOverdue:   invoicesOverdue,
		remindersSent:     remindersSent,
		jobDuration:       jobDuration,
	}
}

func (m *LifecycleMetrics) AddGenerated(result string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.invoicesGenerated.WithLabelValues(result).Add(float64(count))
}

func (m *LifecycleMetrics) AddOverdue(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.invoicesOverdue.Add(float64(count))
}

func (m *LifecycleMetrics) AddRemindersSent(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.remindersSent.Add(float64(count))
}

func (m *LifecycleMetrics) ObserveJobDuration(job string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}
