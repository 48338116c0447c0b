// Package observability holds the process-wide logger and Prometheus collectors.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
	"github.com/Priyanshux26/Gym-management-system/internal/domain"
)

var (
	storeQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gym_office",
		Subsystem: "store",
		Name:      "query_duration_seconds",
		Help:      "Latency of store queries by driver and operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"driver", "op"})
	storeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gym_office",
		Subsystem: "store",
		Name:      "errors_total",
		Help:      "Store query failures by driver, operation and error kind.",
	}, []string{"driver", "op", "kind"})
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gym_office",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})
	businessGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gym_office",
		Subsystem: "dashboard",
		Name:      "metric",
		Help:      "Latest dashboard KPI values computed by the gauge refresher.",
	}, []string{"name"})
	gaugeRefreshed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gym_office",
		Subsystem: "dashboard",
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful KPI refresh.",
	})
)

func init() {
	prometheus.MustRegister(storeQueryDuration, storeErrors, httpRequests, businessGauge, gaugeRefreshed)
}

// RecordStoreQuery observes one store call started at start. A nil err counts as success.
func RecordStoreQuery(driver, op string, start time.Time, err error) {
	storeQueryDuration.WithLabelValues(driver, op).Observe(time.Since(start).Seconds())
	if err != nil {
		storeErrors.WithLabelValues(driver, op, domain.ErrorKind(err)).Inc()
	}
}

// RecordHTTPRequest counts a served request.
func RecordHTTPRequest(method, route string, status int) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// RecordMetrics publishes a dashboard snapshot as gauges.
func RecordMetrics(m analytics.Metrics, at time.Time) {
	businessGauge.WithLabelValues("total_revenue").Set(m.TotalRevenue)
	businessGauge.WithLabelValues("total_members").Set(float64(m.TotalMembers))
	businessGauge.WithLabelValues("new_members_this_month").Set(float64(m.NewMembersThisMonth))
	businessGauge.WithLabelValues("total_classes").Set(float64(m.TotalClasses))
	businessGauge.WithLabelValues("total_trainers").Set(float64(m.TotalTrainers))
	businessGauge.WithLabelValues("today_attendance").Set(float64(m.TodayAttendance))
	businessGauge.WithLabelValues("today_payments").Set(m.TodayPayments)
	businessGauge.WithLabelValues("attendance_rate").Set(float64(m.AttendanceRate))
	if !at.IsZero() {
		gaugeRefreshed.Set(float64(at.Unix()))
	}
}
