package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ActiveUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_active_users",
		Help: "Number of connections that have joined with a username",
	})

	OpenConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_open_connections",
		Help: "Number of open websocket connections, joined or not",
	})

	PacketsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_packets_total",
		Help: "Inbound packets processed by type and outcome",
	}, []string{"type", "outcome"})

	DeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_deliveries_total",
		Help: "Outbound packets queued to recipients by type",
	}, []string{"type"})

	DeliveryFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_delivery_failures_total",
		Help: "Outbound packets that could not be queued to a recipient",
	}, []string{"type"})

	ChatEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_chat_events_total",
		Help: "Activity events observed on the event bus",
	}, []string{"event"})

	SessionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "relay_session_duration_seconds",
		Help:    "Time from join to departure of a chat identity",
		Buckets: []float64{1, 10, 60, 300, 1800, 3600, 4 * 3600},
	})

	FrameHandlingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relay_frame_handling_seconds",
		Help:    "Time spent routing one inbound frame",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(ActiveUsers)
	prometheus.MustRegister(OpenConnections)
	prometheus.MustRegister(PacketsTotal)
	prometheus.MustRegister(DeliveriesTotal)
	prometheus.MustRegister(DeliveryFailures)
	prometheus.MustRegister(ChatEvents)
	prometheus.MustRegister(SessionDuration)
	prometheus.MustRegister(FrameHandlingDuration)
}
