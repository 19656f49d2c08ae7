// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// レート取得クライアントやサービス層から利用する。
type MetricsCollector interface {
	RecordRateFetchSuccess()
	RecordRateFetchFailure(reason string)
	RecordRateFetchLatency(duration time.Duration)
	RecordHTTPStatus(statusCode int)
	RecordLoginAttempt(outcome string)
	RecordFavoriteOp(op string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	rateFetchSuccess prometheus.Counter
	rateFetchFail    *prometheus.CounterVec
	rateFetchLatency prometheus.Histogram
	httpStatus       *prometheus.CounterVec
	loginAttempts    *prometheus.CounterVec
	favoriteOps      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		rateFetchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kawase_rate_fetch_success_total",
			Help: "為替レート取得成功の合計数",
		}),
		rateFetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kawase_rate_fetch_fail_total",
			Help: "為替レート取得失敗の合計数（理由別）",
		}, []string{"reason"}),
		rateFetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kawase_rate_fetch_latency_seconds",
			Help:    "為替レート取得のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kawase_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kawase_login_attempts_total",
			Help: "ログイン試行の合計数（結果別）",
		}, []string{"outcome"}),
		favoriteOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kawase_favorite_ops_total",
			Help: "お気に入り操作の合計数（操作別）",
		}, []string{"op"}),
	}

	reg.MustRegister(
		c.rateFetchSuccess,
		c.rateFetchFail,
		c.rateFetchLatency,
		c.httpStatus,
		c.loginAttempts,
		c.favoriteOps,
	)

	return c
}

// RecordRateFetchSuccess はレート取得成功を記録する。
func (c *Collector) RecordRateFetchSuccess() {
	c.rateFetchSuccess.Inc()
}

// RecordRateFetchFailure はレート取得失敗を理由付きで記録する。
func (c *Collector) RecordRateFetchFailure(reason string) {
	c.rateFetchFail.WithLabelValues(reason).Inc()
}

// RecordRateFetchLatency はレート取得のレイテンシを記録する。
func (c *Collector) RecordRateFetchLatency(duration time.Duration) {
	c.rateFetchLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordLoginAttempt はログイン試行の結果を記録する。
// outcomeは"success"または"failure"。
func (c *Collector) RecordLoginAttempt(outcome string) {
	c.loginAttempts.WithLabelValues(outcome).Inc()
}

// RecordFavoriteOp はお気に入り操作を記録する。
// opは"list"、"add"、"remove"のいずれか。
func (c *Collector) RecordFavoriteOp(op string) {
	c.favoriteOps.WithLabelValues(op).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// Noop は何も記録しないMetricsCollector実装。
// メトリクスが不要なテストで使用する。
type Noop struct{}

func (Noop) RecordRateFetchSuccess()                       {}
func (Noop) RecordRateFetchFailure(reason string)          {}
func (Noop) RecordRateFetchLatency(duration time.Duration) {}
func (Noop) RecordHTTPStatus(statusCode int)               {}
func (Noop) RecordLoginAttempt(outcome string)             {}
func (Noop) RecordFavoriteOp(op string)                    {}
