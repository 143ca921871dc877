package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "roomradio"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Общее количество HTTP запросов",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Время обработки HTTP запросов в секундах",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_active_connections",
			Help:      "Количество активных WebSocket соединений",
		},
	)

	roomsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms_active",
			Help:      "Количество открытых комнат в этом процессе",
		},
	)

	songsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "songs_started_total",
			Help:      "Сколько треков запущено, по причине переключения",
		},
		[]string{"reason"},
	)

	songsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "songs_skipped_total",
			Help:      "Сколько треков пропущено",
		},
	)

	votesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Принятые голоса по типу",
		},
		[]string{"kind"},
	)

	roomWriteConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_write_conflicts_total",
			Help:      "Конфликты версий при записи комнаты",
		},
	)
)

// RecordHTTPMetrics записывает метрики HTTP запроса
func RecordHTTPMetrics(method, endpoint string, status int, duration time.Duration) {
	strStatus := strconv.Itoa(status)

	httpRequestsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, strStatus).Observe(duration.Seconds())
}

func IncrementWSActiveConnections() {
	wsActiveConnections.Inc()
}

func DecrementWSActiveConnections() {
	wsActiveConnections.Dec()
}

func RoomOpened() {
	roomsActive.Inc()
}

func RoomClosed() {
	roomsActive.Dec()
}

func SongStarted(reason string) {
	songsStarted.WithLabelValues(reason).Inc()
}

func SongSkipped() {
	songsSkipped.Inc()
}

func VoteAccepted(kind string) {
	votesTotal.WithLabelValues(kind).Inc()
}

func RoomWriteConflict() {
	roomWriteConflicts.Inc()
}
