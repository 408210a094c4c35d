// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wfunc/ghost/game"
	"github.com/wfunc/ghost/logger"
)

type Metrics struct {
	TurnsTaken    prometheus.Counter
	InvalidMoves  *prometheus.CounterVec
	RoundsEnded   prometheus.Counter
	WordLength    prometheus.Histogram
	Eliminations  prometheus.Counter
	GamesFinished prometheus.Counter
	PlayersAlive  prometheus.Gauge
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TurnsTaken: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_taken_total",
			Help:      "Number of letters accepted into a fragment",
		}),
		InvalidMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_moves_total",
			Help:      "Number of refused letters by reason",
		}, []string{"reason"}),
		RoundsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_ended_total",
			Help:      "Number of rounds ended by a completed word",
		}),
		WordLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completed_word_length",
			Help:      "Length of the words that ended rounds",
			Buckets:   prometheus.LinearBuckets(3, 1, 8),
		}),
		Eliminations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eliminations_total",
			Help:      "Number of players who reached the maximum lives",
		}),
		GamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Number of games played to the end",
		}),
		PlayersAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_alive",
			Help:      "Number of players below the maximum lives",
		}),
	}

	reg.MustRegister(
		m.TurnsTaken,
		m.InvalidMoves,
		m.RoundsEnded,
		m.WordLength,
		m.Eliminations,
		m.GamesFinished,
		m.PlayersAlive,
	)

	return m
}

// Monitor records game events as Prometheus metrics. It is a game.Reporter.
type Monitor struct {
	metrics    *Metrics
	registry   *prometheus.Registry
	startTime  time.Time
	eventCount int64
	mutex      sync.Mutex
}

func NewMonitor(namespace string, registry *prometheus.Registry) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace, registry),
		registry:  registry,
		startTime: time.Now(),
	}
}

func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

var (
	publishOnce sync.Once
	// served is the monitor behind the process-wide expvar names.
	served atomic.Pointer[Monitor]
)

func publishVars() {
	expvar.Publish("uptime", expvar.Func(func() interface{} {
		if m := served.Load(); m != nil {
			return time.Since(m.startTime).Seconds()
		}
		return 0.0
	}))
	expvar.Publish("events", expvar.Func(func() interface{} {
		if m := served.Load(); m != nil {
			return m.EventCount()
		}
		return int64(0)
	}))
}

// Handler serves /metrics from the monitor's registry and /debug/vars from
// expvar. expvar is process-wide, so /debug/vars follows the monitor whose
// Handler was built last.
func (m *Monitor) Handler() http.Handler {
	publishOnce.Do(publishVars)
	served.Store(m)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.Handle("/debug/vars", expvar.Handler())
	return mux
}

// StartServer serves Handler on addr in the background.
func (m *Monitor) StartServer(addr string) *http.Server {
	srv := &http.Server{Addr: addr, Handler: m.Handler()}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Errorf("metrics server on %s stopped: %v", addr, err)
		}
	}()
	logger.Log.Infof("metrics server listening on %s", addr)
	return srv
}

func (m *Monitor) Report(event game.Event) {
	switch e := event.(type) {
	case game.TurnTaken:
		m.metrics.TurnsTaken.Inc()
	case game.InvalidMove:
		m.metrics.InvalidMoves.WithLabelValues(string(e.Reason)).Inc()
	case game.RoundEnded:
		m.metrics.RoundsEnded.Inc()
		m.metrics.WordLength.Observe(float64(len(e.Word)))
	case game.PlayerEliminated:
		m.metrics.Eliminations.Inc()
	case game.StandingsUpdate:
		alive := 0
		for _, s := range e.Standings {
			if s.Lives < game.MaxLives {
				alive++
			}
		}
		m.metrics.PlayersAlive.Set(float64(alive))
	case game.GameEnded:
		m.metrics.GamesFinished.Inc()
		m.metrics.PlayersAlive.Set(0)
	}

	m.mutex.Lock()
	m.eventCount++
	m.mutex.Unlock()
}

func (m *Monitor) EventCount() int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.eventCount
}
