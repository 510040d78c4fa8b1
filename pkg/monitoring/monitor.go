package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	AnswersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answers_submitted_total",
			Help: "Answer submissions by correctness",
		},
		[]string{"result"},
	)

	ReviewsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviews_recorded_total",
			Help: "Review answers by correctness",
		},
		[]string{"result"},
	)

	LevelUps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "level_ups_total",
		Help: "Number of level transitions applied to users",
	})

	LessonsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lessons_completed_total",
		Help: "Number of completed lessons",
	})
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AnswersSubmitted)
		prometheus.MustRegister(ReviewsRecorded)
		prometheus.MustRegister(LevelUps)
		prometheus.MustRegister(LessonsCompleted)
	})
}

// ResultLabel 将正误转换为指标标签
func ResultLabel(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
